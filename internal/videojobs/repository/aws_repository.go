package repository

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/amankumarsingh77/hls-transcode-queue/internal/models"
	"github.com/amankumarsingh77/hls-transcode-queue/internal/videojobs"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

type awsRepository struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
}

func NewAwsRepository(client *s3.Client, uploader *manager.Uploader, bucket string) videojobs.BlobRepository {
	return &awsRepository{
		client:   client,
		uploader: uploader,
		bucket:   bucket,
	}
}

func (a *awsRepository) Upload(ctx context.Context, input models.UploadInput) (string, error) {
	file, err := os.Open(input.LocalPath)
	if err != nil {
		return "", fmt.Errorf("failed to open file : %w", err)
	}
	defer file.Close()

	res, err := a.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(input.Key),
		ContentType: aws.String(input.ContentType),
		Body:        file,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file %s : %w", input.Key, err)
	}
	return res.Location, nil
}

func (a *awsRepository) Open(ctx context.Context, key string) (*models.BlobObject, error) {
	res, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, videojobs.ErrNotFound
		}
		return nil, fmt.Errorf("failed to download file : %w", err)
	}
	return &models.BlobObject{
		Body:          res.Body,
		ContentType:   aws.ToString(res.ContentType),
		ContentLength: aws.ToInt64(res.ContentLength),
	}, nil
}

func isS3NotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "NotFound" || apiErr.ErrorCode() == "NoSuchKey"
	}
	return false
}
