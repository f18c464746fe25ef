package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/amankumarsingh77/hls-transcode-queue/internal/models"
	"github.com/amankumarsingh77/hls-transcode-queue/internal/videojobs"
	"github.com/go-redis/redis/v8"
)

const defaultStatusKeyPrefix = "video:status:"

type statusRedisRepo struct {
	redisClient *redis.Client
	keyPrefix   string
	now         func() time.Time
}

func NewStatusRedisRepo(redisClient *redis.Client, keyPrefix string) videojobs.StatusRepository {
	if keyPrefix == "" {
		keyPrefix = defaultStatusKeyPrefix
	}
	return &statusRedisRepo{
		redisClient: redisClient,
		keyPrefix:   keyPrefix,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (r *statusRedisRepo) key(name string) string {
	return r.keyPrefix + name
}

func (r *statusRedisRepo) CreatePending(ctx context.Context, name string) error {
	ts := r.now().Format(time.RFC3339Nano)
	if err := r.redisClient.HSet(ctx, r.key(name),
		"name", name,
		"status", int(models.JobStatusPending),
		"created_at", ts,
		"updated_at", ts,
	).Err(); err != nil {
		return fmt.Errorf("failed to create pending status: %w", err)
	}
	return nil
}

func (r *statusRedisRepo) MarkProcessing(ctx context.Context, name string) error {
	return r.updateStatus(ctx, name, models.JobStatusProcessing)
}

func (r *statusRedisRepo) MarkSuccess(ctx context.Context, name string) error {
	return r.updateStatus(ctx, name, models.JobStatusSuccess)
}

func (r *statusRedisRepo) MarkFailed(ctx context.Context, name string) error {
	return r.updateStatus(ctx, name, models.JobStatusFailed)
}

func (r *statusRedisRepo) updateStatus(ctx context.Context, name string, status models.JobStatus) error {
	key := r.key(name)
	ts := r.now().Format(time.RFC3339Nano)

	pipe := r.redisClient.TxPipeline()
	pipe.HSetNX(ctx, key, "name", name)
	pipe.HSetNX(ctx, key, "created_at", ts)
	pipe.HSet(ctx, key, "status", int(status), "updated_at", ts)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to update status to %s: %w", status, err)
	}
	return nil
}

func (r *statusRedisRepo) Get(ctx context.Context, name string) (*models.StatusRecord, error) {
	fields, err := r.redisClient.HGetAll(ctx, r.key(name)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get job status: %w", err)
	}
	if len(fields) == 0 {
		return nil, videojobs.ErrNotFound
	}

	code, err := strconv.Atoi(fields["status"])
	if err != nil {
		return nil, fmt.Errorf("failed to parse status %q: %w", fields["status"], err)
	}
	record := &models.StatusRecord{
		Name:   fields["name"],
		Status: models.JobStatus(code),
	}
	if !record.Status.Valid() {
		return nil, fmt.Errorf("unknown status code %d for %s", code, name)
	}
	if record.CreatedAt, err = parseTime(fields["created_at"]); err != nil {
		return nil, err
	}
	if record.UpdatedAt, err = parseTime(fields["updated_at"]); err != nil {
		return nil, err
	}
	return record, nil
}

func parseTime(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", v, err)
	}
	return t, nil
}
