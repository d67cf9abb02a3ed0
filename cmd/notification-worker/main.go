package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/chaudhryu/police-report-request-backend/internal/config"
	"github.com/chaudhryu/police-report-request-backend/internal/db"
	"github.com/chaudhryu/police-report-request-backend/internal/logger"
	"github.com/chaudhryu/police-report-request-backend/internal/mail"
	"github.com/chaudhryu/police-report-request-backend/internal/queue"
	"github.com/chaudhryu/police-report-request-backend/internal/storage"
	"github.com/chaudhryu/police-report-request-backend/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	logger.Init("notification-worker", cfg.Logging.Level, cfg.Logging.Format)
	log := logger.Get()

	log.Info().Str("version", cfg.App.Version).Msg("Starting notification worker")

	// Initialize database
	database, err := db.NewConnection(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	// Initialize repository
	repo := db.NewRepository(database)

	// Initialize Redis client
	redisClient, err := queue.NewRedisClient(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	// Initialize blob storage, signer, mail pipeline
	blobStore, err := storage.NewS3Storage(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize blob storage")
	}
	signer := storage.NewSigner(blobStore, blobStore.DefaultContainer(), cfg)
	composer := mail.NewComposer(cfg, signer, blobStore)
	sender := mail.NewSMTPSender(cfg)

	// Create notification worker
	notificationWorker := worker.NewNotificationWorker(cfg, repo, composer, sender, redisClient)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start worker
	go func() {
		if err := notificationWorker.Start(ctx); err != nil && err != context.Canceled {
			log.Fatal().Err(err).Msg("Notification worker failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down notification worker...")

	// Cancel context to stop worker
	cancel()
	notificationWorker.Stop()

	log.Info().Msg("Notification worker exited")
}
