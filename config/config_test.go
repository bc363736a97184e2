package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_PATH", path)
}

func TestLoadConfigDefaults(t *testing.T) {
	writeConfig(t, "http:\n  addr: \":8080\"\n")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Logging.Service != "signaling-service" || cfg.Logging.Env != "dev" {
		t.Fatalf("logging defaults: %+v", cfg.Logging)
	}
	if cfg.WS.MaxMessageSizeBytes != 64*1024 || cfg.WS.SendBufferSize != 256 || cfg.WS.PingIntervalSeconds != 25 {
		t.Fatalf("ws defaults: %+v", cfg.WS)
	}
	if cfg.Rooms.DefaultMaxParticipants != 10 || cfg.Rooms.CodeLength != 6 {
		t.Fatalf("rooms defaults: %+v", cfg.Rooms)
	}
}

func TestLoadConfigExplicitValues(t *testing.T) {
	writeConfig(t, `
http:
  addr: ":9000"
ws:
  maxMessageSizeBytes: 131072
  sendBufferSize: 64
  pingIntervalSeconds: 10
rooms:
  defaultMaxParticipants: 4
  maxMaxParticipants: 8
  codeLength: 8
`)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Addr != ":9000" {
		t.Fatalf("addr = %q", cfg.HTTP.Addr)
	}
	if cfg.WS.MaxMessageSizeBytes != 131072 || cfg.WS.SendBufferSize != 64 {
		t.Fatalf("ws: %+v", cfg.WS)
	}
	if cfg.Rooms.MaxMaxParticipants != 8 || cfg.Rooms.CodeLength != 8 {
		t.Fatalf("rooms: %+v", cfg.Rooms)
	}
}

func TestLoadConfigMissingAddr(t *testing.T) {
	writeConfig(t, "logging:\n  env: dev\n")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for missing http.addr")
	}
}
