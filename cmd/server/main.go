package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodlog/internal/app"
	"foodlog/internal/config"
	"foodlog/internal/server"
	"foodlog/internal/util"
	"foodlog/pkg/store"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	sessionTTL, err := config.ParseSessionTTL(cfg.SessionTTL)
	if err != nil {
		log.Fatalf("failed to parse session TTL: %v", err)
	}

	logger := util.InitLogger(cfg.LogLevel)

	dataStore, err := newStore(cfg)
	if err != nil {
		log.Fatalf("failed to init store: %v", err)
	}

	sessions, err := newSessions(cfg, sessionTTL)
	if err != nil {
		log.Fatalf("failed to init sessions: %v", err)
	}

	appCore, err := app.New(app.Config{
		Store:    dataStore,
		Sessions: sessions,
	})
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}

	httpServer := server.New(server.Config{
		App: appCore,
	})

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr, "storage", cfg.StorageBackend, "sessions", cfg.SessionBackend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", "err", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
		}
	}

	if err := dataStore.Close(); err != nil {
		logger.Error("store close error", "err", err)
	}
}

// newStore selects the persistence backend from configuration. Exactly one
// backend is active for the life of the process.
func newStore(cfg config.FileConfig) (store.Store, error) {
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		return store.NewGormStore(cfg.DatabaseURL)
	case config.StorageFile:
		return store.NewFileStore(cfg.DataFilePath)
	default:
		return nil, errors.New("unknown storage backend: " + cfg.StorageBackend)
	}
}

func newSessions(cfg config.FileConfig, ttl time.Duration) (store.SessionStore, error) {
	switch cfg.SessionBackend {
	case config.SessionsJWT:
		return store.NewJWTSessionStore(cfg.JWTSecret, ttl)
	case config.SessionsRedis:
		return store.NewRedisSessionStore(cfg.RedisAddr, cfg.RedisPassword, ttl), nil
	default:
		return nil, errors.New("unknown session backend: " + cfg.SessionBackend)
	}
}
