package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/SONU-ux-it/knhaji/internal/api"
	"github.com/SONU-ux-it/knhaji/internal/config"
	"github.com/SONU-ux-it/knhaji/internal/store"
	"github.com/SONU-ux-it/knhaji/internal/upload"
)

// newLogger writes console output in development and JSON everywhere else.
func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg.IsDevelopment() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func main() {
	cfg := config.Load()
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fileStore, err := store.New(cfg.DataDir, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("data_dir", cfg.DataDir).Msg("store initialization failed")
	}
	logger.Info().Str("data_dir", cfg.DataDir).Msg("store ready")

	// Redis only backs rate limiting; the service runs without it.
	var redisStore *store.RedisStore
	if cfg.RedisURL == "" {
		logger.Warn().Msg("REDIS_URL not set, rate limiting disabled")
	} else {
		redisStore, err = store.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connection failed")
		}
		defer redisStore.Close()
		logger.Info().Msg("redis connected")
	}

	// Without Cloudinary, URL-only listings still work.
	var uploader upload.Uploader
	if cfg.CloudinaryURL == "" {
		logger.Warn().Msg("CLOUDINARY_URL not set, image uploads disabled")
	} else {
		cld, err := upload.NewCloudinary(cfg.CloudinaryURL, cfg.UploadFolder)
		if err != nil {
			logger.Fatal().Err(err).Msg("cloudinary initialization failed")
		}
		uploader = cld
		logger.Info().Str("folder", cfg.UploadFolder).Msg("image uploads enabled")
	}

	router, err := api.NewRouter(logger, cfg, fileStore, redisStore, uploader)
	if err != nil {
		logger.Fatal().Err(err).Msg("router initialization failed")
	}

	// Multipart photo uploads read slowly from mobile clients, and the
	// handler forwards them to Cloudinary before answering.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  90 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting knhaji server")
		errc <- srv.ListenAndServe()
	}()

	// Block until a signal arrives or the listener dies on its own.
	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")

	// In-flight uploads get a grace window before the listener dies.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("graceful shutdown failed")
	}
	logger.Info().Msg("server stopped")
}
