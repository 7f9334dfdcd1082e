package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/AnaEHC/app-semaforos/internal/config"
	"github.com/AnaEHC/app-semaforos/internal/drive"
	httpapi "github.com/AnaEHC/app-semaforos/internal/http"
	"github.com/AnaEHC/app-semaforos/internal/service"
	"github.com/AnaEHC/app-semaforos/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "semaforos-backend").Logger()

	ctx := context.Background()

	var store drive.Store
	if cfg.GoogleCredentialsFile == "" {
		store = drive.NewMemory()
		logger.Info().Msg("using in-memory drive store")
	} else {
		gd, err := drive.NewGoogle(ctx, cfg.GoogleCredentialsFile, cfg.ParentFolderID)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect drive")
		}
		store = gd
	}

	var sessions session.Store
	if cfg.RedisAddr == "" {
		sessions = session.NewMemory()
		logger.Info().Msg("using in-memory session store")
	} else {
		sessions = session.NewRedis(cfg.RedisAddr, cfg.SessionTTL)
	}

	svc := &service.Service{Drive: store, Cfg: cfg, Logger: logger}
	router := httpapi.Router(cfg, svc, sessions, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}
