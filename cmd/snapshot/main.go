package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ivankudzin/spark/internal/app/storage"
	"github.com/ivankudzin/spark/internal/config"
	"github.com/ivankudzin/spark/internal/infra/logger"
	s3infra "github.com/ivankudzin/spark/internal/infra/s3"
	"github.com/ivankudzin/spark/internal/jobs/cleanup"
	"github.com/ivankudzin/spark/internal/jobs/snapshot"
)

func main() {
	cfgPath := os.Getenv("APP_CONFIG")
	if cfgPath == "" {
		cfgPath = "configs/config.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	stores, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal("open store", zap.Error(err))
	}
	defer stores.Close()

	objects, err := s3infra.New(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		Bucket:    cfg.S3.Bucket,
		Region:    cfg.S3.Region,
		UseSSL:    cfg.S3.UseSSL,
	})
	if err != nil {
		log.Fatal("init s3", zap.Error(err))
	}

	job := snapshot.New(snapshot.Dependencies{
		Profiles:  stores.Profiles,
		Interests: stores.Interests,
		Matches:   stores.Matches,
		Reader:    stores.Transactor,
		Store:     objects,
	}, cfg.Snapshot.Prefix, log)

	key, err := job.Run(ctx)
	if err != nil {
		log.Fatal("export snapshot", zap.Error(err))
	}
	log.Info("snapshot done", zap.String("bucket", cfg.S3.Bucket), zap.String("object_key", key))

	if _, err := cleanup.NewSnapshotCleanupJob(objects, cfg.Snapshot.Prefix, cfg.Snapshot.Retention, log).Run(ctx); err != nil {
		log.Error("prune snapshots", zap.Error(err))
	}
}
