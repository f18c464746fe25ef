package videojobs

import (
	"context"

	"github.com/amankumarsingh77/hls-transcode-queue/internal/models"
)

// BlobRepository must be safe for concurrent Upload calls.
type BlobRepository interface {
	Upload(ctx context.Context, input models.UploadInput) (string, error)
	Open(ctx context.Context, key string) (*models.BlobObject, error)
}
