package videojobs

import (
	"context"

	"github.com/amankumarsingh77/hls-transcode-queue/internal/models"
)

// StatusRepository persists one lifecycle record per job identity. All
// mutators are upserts and refresh updated_at.
type StatusRepository interface {
	CreatePending(ctx context.Context, name string) error
	MarkProcessing(ctx context.Context, name string) error
	MarkSuccess(ctx context.Context, name string) error
	MarkFailed(ctx context.Context, name string) error
	// Get returns ErrNotFound when no record exists yet.
	Get(ctx context.Context, name string) (*models.StatusRecord, error)
}
