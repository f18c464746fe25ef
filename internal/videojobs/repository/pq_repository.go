package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/amankumarsingh77/hls-transcode-queue/internal/models"
	"github.com/amankumarsingh77/hls-transcode-queue/internal/videojobs"
	"github.com/jmoiron/sqlx"
)

type statusPgRepo struct {
	db *sqlx.DB
}

// NewStatusPgRepo creates the video_status table if needed.
func NewStatusPgRepo(ctx context.Context, db *sqlx.DB) (videojobs.StatusRepository, error) {
	if _, err := db.ExecContext(ctx, createStatusTableQuery); err != nil {
		return nil, fmt.Errorf("failed to create video_status table: %w", err)
	}
	return &statusPgRepo{db: db}, nil
}

func (r *statusPgRepo) CreatePending(ctx context.Context, name string) error {
	if _, err := r.db.ExecContext(ctx, createPendingQuery, name, models.JobStatusPending); err != nil {
		return fmt.Errorf("failed to create pending status: %w", err)
	}
	return nil
}

func (r *statusPgRepo) MarkProcessing(ctx context.Context, name string) error {
	return r.updateStatus(ctx, name, models.JobStatusProcessing)
}

func (r *statusPgRepo) MarkSuccess(ctx context.Context, name string) error {
	return r.updateStatus(ctx, name, models.JobStatusSuccess)
}

func (r *statusPgRepo) MarkFailed(ctx context.Context, name string) error {
	return r.updateStatus(ctx, name, models.JobStatusFailed)
}

func (r *statusPgRepo) updateStatus(ctx context.Context, name string, status models.JobStatus) error {
	if _, err := r.db.ExecContext(ctx, updateStatusQuery, name, status); err != nil {
		return fmt.Errorf("failed to update status to %s: %w", status, err)
	}
	return nil
}

func (r *statusPgRepo) Get(ctx context.Context, name string) (*models.StatusRecord, error) {
	record := &models.StatusRecord{}
	if err := r.db.GetContext(ctx, record, getStatusQuery, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, videojobs.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get job status: %w", err)
	}
	return record, nil
}
