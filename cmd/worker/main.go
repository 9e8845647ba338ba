package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/bbasketballer75/guestfolio/internal/blobstore"
	"github.com/bbasketballer75/guestfolio/internal/config"
	"github.com/bbasketballer75/guestfolio/internal/database"
	"github.com/bbasketballer75/guestfolio/internal/repository"
	"github.com/bbasketballer75/guestfolio/internal/worker"
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
	photos := repository.NewPhotoRepository(pool)

	blobs, err := blobstore.New(cfg)
	if err != nil {
		logger.Fatal("init blob store", zap.Error(err))
	}
	if err := blobs.EnsureBucket(ctx); err != nil {
		logger.Fatal("ensure bucket", zap.Error(err))
	}

	server := asynq.NewServer(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, asynq.Config{
		Concurrency: cfg.Workers,
	})
	processor := worker.NewProcessor(photos, blobs, logger)
	mux := processor.Handler()

	go func() {
		<-ctx.Done()
		server.Shutdown()
	}()

	logger.Info("worker started", zap.Int("concurrency", cfg.Workers))
	if err := server.Run(mux); err != nil {
		logger.Error("worker stopped", zap.Error(err))
		os.Exit(1)
	}
}
