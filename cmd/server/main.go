package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/amankumarsingh77/hls-transcode-queue/internal/config"
	"github.com/amankumarsingh77/hls-transcode-queue/internal/janitor"
	"github.com/amankumarsingh77/hls-transcode-queue/internal/server"
	"github.com/amankumarsingh77/hls-transcode-queue/internal/videojobs"
	videoRepository "github.com/amankumarsingh77/hls-transcode-queue/internal/videojobs/repository"
	"github.com/amankumarsingh77/hls-transcode-queue/internal/worker"
	"github.com/amankumarsingh77/hls-transcode-queue/pkg/db/aws"
	"github.com/amankumarsingh77/hls-transcode-queue/pkg/db/minio"
	"github.com/amankumarsingh77/hls-transcode-queue/pkg/db/mongo"
	"github.com/amankumarsingh77/hls-transcode-queue/pkg/db/postgres"
	"github.com/amankumarsingh77/hls-transcode-queue/pkg/db/redis"
	"github.com/amankumarsingh77/hls-transcode-queue/pkg/logger"
	"github.com/joho/godotenv"
)

func main() {
	log.Println("Starting server")
	_ = godotenv.Load()

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yml"
	}
	cfgFile, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("loadConfig: %v", err)
	}
	cfg, err := config.ParseConfig(cfgFile)
	if err != nil {
		log.Fatalf("parseConfig: %v", err)
	}

	appLogger := logger.NewApiLogger(cfg)
	appLogger.InitLogger()
	defer appLogger.Sync()
	appLogger.Infof("AppVersion: %s, LogLevel: %s, Mode: %s", cfg.Server.AppVersion, cfg.Logger.Level, cfg.Server.Mode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	statusRepo, closeStatus, err := newStatusRepository(ctx, cfg)
	if err != nil {
		appLogger.Fatalf("status store (%s): %v", cfg.StatusStore.Driver, err)
	}
	defer closeStatus()
	appLogger.Infof("status store connected: %s", cfg.StatusStore.Driver)

	blobRepo, err := newBlobRepository(ctx, cfg)
	if err != nil {
		appLogger.Fatalf("blob store (%s): %v", cfg.Blob.Driver, err)
	}
	appLogger.Infof("blob store connected: %s", cfg.Blob.Driver)

	for _, dir := range []string{cfg.Upload.StagingDir, cfg.Upload.OutputRoot} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			appLogger.Fatalf("could not create %s: %v", dir, err)
		}
	}

	queue := worker.NewQueue()
	w := worker.NewWorker(
		cfg,
		queue,
		statusRepo,
		blobRepo,
		worker.NewFFmpegTranscoder(cfg, appLogger),
		janitor.NewJanitor(appLogger),
		appLogger,
	)
	if err := w.Start(ctx); err != nil {
		appLogger.Fatalf("could not start worker: %v", err)
	}

	s := server.NewServer(cfg, statusRepo, blobRepo, queue, appLogger)
	if err = s.Run(ctx); err != nil {
		appLogger.Errorf("server stopped with error: %v", err)
	}
	w.Stop()
}

func newStatusRepository(ctx context.Context, cfg *config.Config) (videojobs.StatusRepository, func(), error) {
	switch cfg.StatusStore.Driver {
	case config.StatusDriverRedis:
		client, err := redis.NewRedisClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return videoRepository.NewStatusRedisRepo(client, cfg.Redis.StatusKeyPrefix), func() { _ = client.Close() }, nil

	case config.StatusDriverMongo:
		client, err := mongo.NewMongoClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		repo, err := videoRepository.NewStatusMongoRepo(ctx, client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection))
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, err
		}
		return repo, func() { _ = client.Disconnect(context.Background()) }, nil

	case config.StatusDriverPostgres:
		db, err := postgres.NewPsqlDB(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		repo, err := videoRepository.NewStatusPgRepo(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return repo, func() { _ = db.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown status store driver %q", cfg.StatusStore.Driver)
}

func newBlobRepository(ctx context.Context, cfg *config.Config) (videojobs.BlobRepository, error) {
	switch cfg.Blob.Driver {
	case config.BlobDriverS3:
		client, err := aws.NewAWSClient(ctx, cfg.S3.Endpoint, cfg.S3.Region, cfg.S3.AccessKey, cfg.S3.SecretKey)
		if err != nil {
			return nil, err
		}
		uploader := aws.NewUploader(client, cfg.S3.PartSizeMB, cfg.S3.Concurrency)
		return videoRepository.NewAwsRepository(client, uploader, cfg.S3.Bucket), nil

	case config.BlobDriverMinIO:
		client, err := minio.NewMinIOClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return videoRepository.NewMinioRepository(client, cfg.MinIO.Bucket), nil
	}
	return nil, fmt.Errorf("unknown blob store driver %q", cfg.Blob.Driver)
}
