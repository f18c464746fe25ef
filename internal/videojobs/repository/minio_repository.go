package repository

import (
	"context"
	"fmt"

	"github.com/amankumarsingh77/hls-transcode-queue/internal/models"
	"github.com/amankumarsingh77/hls-transcode-queue/internal/videojobs"
	"github.com/minio/minio-go/v7"
)

type minioRepository struct {
	client *minio.Client
	bucket string
}

func NewMinioRepository(client *minio.Client, bucket string) videojobs.BlobRepository {
	return &minioRepository{
		client: client,
		bucket: bucket,
	}
}

func (m *minioRepository) Upload(ctx context.Context, input models.UploadInput) (string, error) {
	info, err := m.client.FPutObject(ctx, m.bucket, input.Key, input.LocalPath, minio.PutObjectOptions{
		ContentType: input.ContentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file %s : %w", input.Key, err)
	}
	if info.Location != "" {
		return info.Location, nil
	}
	return fmt.Sprintf("%s/%s/%s", m.client.EndpointURL(), m.bucket, input.Key), nil
}

func (m *minioRepository) Open(ctx context.Context, key string) (*models.BlobObject, error) {
	stat, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, videojobs.ErrNotFound
		}
		return nil, fmt.Errorf("failed to stat object : %w", err)
	}
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to download file : %w", err)
	}
	return &models.BlobObject{
		Body:          obj,
		ContentType:   stat.ContentType,
		ContentLength: stat.Size,
	}, nil
}
