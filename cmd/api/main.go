package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bbasketballer75/guestfolio/internal/api"
	"github.com/bbasketballer75/guestfolio/internal/blobstore"
	"github.com/bbasketballer75/guestfolio/internal/config"
	"github.com/bbasketballer75/guestfolio/internal/database"
	"github.com/bbasketballer75/guestfolio/internal/queue"
	"github.com/bbasketballer75/guestfolio/internal/ratelimit"
	"github.com/bbasketballer75/guestfolio/internal/repository"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	defer pool.Close()
	if err := database.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal("ensure schema", zap.Error(err))
	}

	stores := api.Stores{
		Stories:   repository.NewStoryRepository(pool),
		Guestbook: repository.NewGuestbookRepository(pool),
		Photos:    repository.NewPhotoRepository(pool),
		Locations: repository.NewLocationRepository(pool),
		Visits:    repository.NewVisitRepository(pool),
	}

	blobs, err := blobstore.New(cfg)
	if err != nil {
		logger.Fatal("init blob store", zap.Error(err))
	}
	if err := blobs.EnsureBucket(ctx); err != nil {
		logger.Fatal("ensure bucket", zap.Error(err))
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer asynqClient.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()
	limiter := ratelimit.NewRedisLimiter(redisClient)

	server := api.New(cfg, stores, blobs, queue.NewClient(asynqClient), limiter, logger)
	if err := server.Run(ctx); err != nil {
		logger.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}
