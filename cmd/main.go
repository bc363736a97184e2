package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/peerwave/signaling-service/config"
	"github.com/peerwave/signaling-service/internal/service"
	httpx "github.com/peerwave/signaling-service/internal/transport/http"
	"github.com/peerwave/signaling-service/internal/transport/ws"
	"github.com/peerwave/signaling-service/pkg/logger"
)

func main() {
	// --- config ---
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.Init(logger.Config{
		Env:       logger.Env(cfg.Logging.Env),
		Service:   cfg.Logging.Service,
		Version:   cfg.Logging.Version,
		Backend:   logger.Backend(cfg.Logging.Backend),
		AddSource: cfg.Logging.AddSource,
		Debug:     cfg.Logging.Debug,
	})
	slog.Info("starting signaling-service",
		"env", cfg.Logging.Env, "version", cfg.Logging.Version)

	// --- matching state ---
	svc := service.New(service.Config{
		DefaultRoomCapacity: cfg.Rooms.DefaultMaxParticipants,
		MaxRoomCapacity:     cfg.Rooms.MaxMaxParticipants,
		RoomCodeLength:      cfg.Rooms.CodeLength,
	})

	// --- WS hub & server ---
	hub := ws.NewHub()
	wsServer := ws.NewServer(hub, svc, ws.Options{
		MaxMessageSize: cfg.WS.MaxMessageSizeBytes,
		SendBufferSize: cfg.WS.SendBufferSize,
		PingInterval:   time.Duration(cfg.WS.PingIntervalSeconds) * time.Second,
	})

	// --- HTTP ---
	handler := httpx.NewHandler(svc)
	router := httpx.NewRouter(handler, wsServer)
	httpSrv := &http.Server{
		Addr:        cfg.HTTP.Addr,
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listen", "addr", cfg.HTTP.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal", "sig", sig)
	case err := <-errCh:
		slog.Error("server error", "err", err)
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpSrv.Shutdown(ctxShutdown)
	slog.Info("stopped")
}
