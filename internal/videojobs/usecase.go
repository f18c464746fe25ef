package videojobs

import (
	"context"

	"github.com/amankumarsingh77/hls-transcode-queue/internal/models"
)

type UseCase interface {
	Submit(ctx context.Context, sourcePath string) (*models.SubmitResult, error)
	GetStatus(ctx context.Context, name string) (*models.StatusRecord, error)
	OpenArtifact(ctx context.Context, name, relPath string) (*models.BlobObject, error)
	ManifestURL(name string) string
}
