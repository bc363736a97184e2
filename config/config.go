package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

type HTTP struct {
	Addr string `yaml:"addr"`
}

type Logging struct {
	Env       string `yaml:"env"`       // dev|prod
	Service   string `yaml:"service"`   // signaling-service
	Version   string `yaml:"version"`   // v0.1.0
	Backend   string `yaml:"backend"`   // std|zap
	AddSource bool   `yaml:"addSource"` // false|true
	Debug     bool   `yaml:"debug"`     // false|true
}

type WS struct {
	MaxMessageSizeBytes int64 `yaml:"maxMessageSizeBytes"`
	SendBufferSize      int   `yaml:"sendBufferSize"`
	PingIntervalSeconds int   `yaml:"pingIntervalSeconds"`
}

type Rooms struct {
	DefaultMaxParticipants int `yaml:"defaultMaxParticipants"`
	MaxMaxParticipants     int `yaml:"maxMaxParticipants"`
	CodeLength             int `yaml:"codeLength"`
}

type Config struct {
	HTTP    HTTP    `yaml:"http"`
	Logging Logging `yaml:"logging"`
	WS      WS      `yaml:"ws"`
	Rooms   Rooms   `yaml:"rooms"`
}

func LoadConfig() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config/config.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.HTTP.Addr == "" {
		return errors.New("http.addr is required")
	}
	// defaults for anything left unset
	if c.Logging.Service == "" {
		c.Logging.Service = "signaling-service"
	}
	if c.Logging.Env == "" {
		c.Logging.Env = "dev"
	}
	if c.Logging.Version == "" {
		c.Logging.Version = "v0.1.0"
	}
	if c.Logging.Backend == "" {
		c.Logging.Backend = "std"
	}
	if c.WS.MaxMessageSizeBytes <= 0 {
		c.WS.MaxMessageSizeBytes = 64 * 1024
	}
	if c.WS.SendBufferSize <= 0 {
		c.WS.SendBufferSize = 256
	}
	if c.WS.PingIntervalSeconds <= 0 {
		c.WS.PingIntervalSeconds = 25
	}
	if c.Rooms.DefaultMaxParticipants <= 0 {
		c.Rooms.DefaultMaxParticipants = 10
	}
	if c.Rooms.MaxMaxParticipants <= 0 {
		c.Rooms.MaxMaxParticipants = 10
	}
	if c.Rooms.CodeLength <= 0 {
		c.Rooms.CodeLength = 6
	}
	return nil
}
