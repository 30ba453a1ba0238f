package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bilgisen/peacenet/internal/api"
	"github.com/bilgisen/peacenet/internal/auth"
	"github.com/bilgisen/peacenet/internal/browse"
	"github.com/bilgisen/peacenet/internal/cache"
	"github.com/bilgisen/peacenet/internal/config"
	"github.com/bilgisen/peacenet/internal/logger"
	"github.com/bilgisen/peacenet/internal/store"
	"github.com/bilgisen/peacenet/internal/submission"
	"github.com/bilgisen/peacenet/internal/upload"
	"github.com/bilgisen/peacenet/internal/validation"
)

func main() {
	// Load and validate configuration
	cfg := config.Load()

	output := cfg.LogFile
	if output == "" {
		output = "stdout"
	}
	logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: output,
		Pretty: cfg.IsDevelopment(),
	})

	log := logger.Get()
	log.Info().Str("env", cfg.Env).Str("store", cfg.StoreDriver).Msg("Starting application...")

	// Cache for the public story view and revoked admin tokens
	var c cache.Cache
	if cfg.UseRedis() {
		redisClient, err := cache.NewRedisClient(cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Redis client")
		}
		c = redisClient
	} else {
		log.Warn().Msg("REDIS_URL not set, using in-memory cache")
		c = cache.NewMemoryClient()
	}
	defer func() {
		log.Info().Msg("Closing cache client...")
		if err := c.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing cache client")
		}
	}()

	backend, err := store.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open entity store")
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing entity store")
		}
	}()

	v := validation.New()
	tokens := auth.NewTokens(cfg.JWTSecret)
	browser := browse.NewService(backend.Stories, c, cfg.CacheTTL)

	svc := api.Services{
		Stories:    backend.Stories,
		Browse:     browser,
		Submission: submission.NewService(backend.Stories, v, browser),
		Auth:       auth.NewService(backend.Users, v, tokens, auth.NewIDTokenVerifier(cfg.GoogleClientID), cfg.UserTokenTTL),
		Gate:       auth.NewGate(cfg.AdminSecret, tokens, c, cfg.AdminTokenTTL),
	}

	if cfg.UploadsEnabled() {
		r2, err := upload.NewR2(context.Background(), cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize R2 client")
		}
		svc.Uploads = upload.NewService(r2, cfg.R2PublicURL, cfg.MaxFileSize)
	} else {
		log.Warn().Msg("R2 is not configured, image uploads are disabled")
	}

	app := api.NewApp(cfg)
	api.SetupRoutes(app, cfg, svc)

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
