package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/messhub/messhub-api/internal/config"
	"github.com/messhub/messhub-api/internal/domain/upload"
	"github.com/messhub/messhub-api/internal/pkg/database"
	"github.com/messhub/messhub-api/internal/pkg/imaging"
	"github.com/messhub/messhub-api/internal/pkg/logger"
	"github.com/messhub/messhub-api/internal/pkg/storage"
)

func main() {
	cfg := config.Load()
	if err := logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env}); err != nil {
		log.Fatal().Err(err).Msg("Failed to init logger")
	}

	log.Info().Str("env", cfg.Env).Msg("Starting image worker")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redisClient)

	var store storage.Storage
	if cfg.S3Bucket != "" {
		store, err = storage.NewS3Storage(storage.Config{
			S3Endpoint:  cfg.S3Endpoint,
			S3Region:    cfg.S3Region,
			S3AccessKey: cfg.S3AccessKey,
			S3SecretKey: cfg.S3SecretKey,
			S3Bucket:    cfg.S3Bucket,
			PublicURL:   cfg.S3PublicURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create S3 storage")
		}
	} else {
		store, err = storage.NewLocalStorage("./data/uploads", "/files")
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create local storage")
		}
		log.Warn().Msg("S3 not configured, using local storage")
	}

	worker := upload.NewWorker(
		upload.NewRepository(db),
		store,
		redisClient,
		imaging.NewProcessor(imaging.DefaultConfig()),
		30*time.Second,
	)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info().Msg("Shutting down image worker...")
		cancel()
	}()

	worker.Run(ctx)
}
