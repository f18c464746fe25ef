package aws

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const minPartSizeMB = 5

func NewAWSClient(ctx context.Context, endpoint, region, accessKey, secretKey string) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if accessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				accessKey,
				secretKey,
				"",
			),
		))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.New("failed to load configuration, " + err.Error())
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.UsePathStyle = true
			o.BaseEndpoint = &endpoint
		}
	})
	return client, nil
}

// NewUploader builds a multipart uploader. partSizeMB is clamped to the S3
// minimum of 5MB.
func NewUploader(client *s3.Client, partSizeMB int64, concurrency int) *manager.Uploader {
	if partSizeMB < minPartSizeMB {
		partSizeMB = minPartSizeMB
	}
	if concurrency <= 0 {
		concurrency = manager.DefaultUploadConcurrency
	}
	return manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = partSizeMB * 1024 * 1024
		u.Concurrency = concurrency
		u.LeavePartsOnError = false
	})
}
