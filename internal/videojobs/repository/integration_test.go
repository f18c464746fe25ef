//go:build integration

package repository

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/amankumarsingh77/hls-transcode-queue/internal/config"
	"github.com/amankumarsingh77/hls-transcode-queue/internal/models"
	"github.com/amankumarsingh77/hls-transcode-queue/internal/videojobs"
	"github.com/amankumarsingh77/hls-transcode-queue/pkg/db/minio"
	"github.com/amankumarsingh77/hls-transcode-queue/pkg/db/mongo"
	"github.com/amankumarsingh77/hls-transcode-queue/pkg/db/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const startupTimeout = 90 * time.Second

func startContainer(t *testing.T, req testcontainers.ContainerRequest) (string, string) {
	t.Helper()
	ctx := context.Background()
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	endpoint, err := c.Endpoint(ctx, "")
	require.NoError(t, err)
	host, port, err := net.SplitHostPort(endpoint)
	require.NoError(t, err)
	return host, port
}

// exerciseStatusRepo runs the same lifecycle against any backend.
func exerciseStatusRepo(t *testing.T, repo videojobs.StatusRepository) {
	t.Helper()
	ctx := context.Background()

	_, err := repo.Get(ctx, "clip1")
	require.ErrorIs(t, err, videojobs.ErrNotFound)

	require.NoError(t, repo.CreatePending(ctx, "clip1"))
	rec, err := repo.Get(ctx, "clip1")
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusPending, rec.Status)
	created := rec.CreatedAt

	require.NoError(t, repo.MarkProcessing(ctx, "clip1"))
	require.NoError(t, repo.MarkSuccess(ctx, "clip1"))
	rec, err = repo.Get(ctx, "clip1")
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusSuccess, rec.Status)
	assert.WithinDuration(t, created, rec.CreatedAt, time.Second)
	assert.False(t, rec.UpdatedAt.Before(rec.CreatedAt))

	require.NoError(t, repo.MarkFailed(ctx, "orphan"))
	rec, err = repo.Get(ctx, "orphan")
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusFailed, rec.Status)

	require.NoError(t, repo.CreatePending(ctx, "clip1"))
	rec, err = repo.Get(ctx, "clip1")
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusPending, rec.Status)
}

func TestIntegration_StatusPgRepo(t *testing.T) {
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "hls",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(startupTimeout),
	})

	cfg := &config.Config{}
	cfg.Postgres = config.DBConfig{Host: host, User: "postgres", Password: "postgres", Name: "hls", SSLMode: "disable"}
	_, err := fmt.Sscanf(port, "%d", &cfg.Postgres.Port)
	require.NoError(t, err)

	ctx := context.Background()
	db, err := postgres.NewPsqlDB(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo, err := NewStatusPgRepo(ctx, db)
	require.NoError(t, err)
	exerciseStatusRepo(t, repo)
}

func TestIntegration_StatusMongoRepo(t *testing.T) {
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForLog("Waiting for connections").WithStartupTimeout(startupTimeout),
	})

	cfg := &config.Config{}
	cfg.Mongo = config.MongoConfig{URI: fmt.Sprintf("mongodb://%s:%s", host, port), Database: "hls", Collection: "videoStatus"}

	ctx := context.Background()
	client, err := mongo.NewMongoClient(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	repo, err := NewStatusMongoRepo(ctx, client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection))
	require.NoError(t, err)
	exerciseStatusRepo(t, repo)
}

func TestIntegration_MinioRepository(t *testing.T) {
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "minio/minio:latest",
		ExposedPorts: []string{"9000/tcp"},
		Env: map[string]string{
			"MINIO_ROOT_USER":     "minioadmin",
			"MINIO_ROOT_PASSWORD": "minioadmin",
		},
		Cmd:        []string{"server", "/data"},
		WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000/tcp").WithStartupTimeout(startupTimeout),
	})

	cfg := &config.Config{}
	cfg.MinIO = config.MinIOConfig{
		Endpoint:  host + ":" + port,
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    "hls-artifacts",
	}

	ctx := context.Background()
	client, err := minio.NewMinIOClient(ctx, cfg)
	require.NoError(t, err)
	repo := NewMinioRepository(client, cfg.MinIO.Bucket)

	local := filepath.Join(t.TempDir(), "master.m3u8")
	require.NoError(t, os.WriteFile(local, []byte("#EXTM3U\n"), 0o644))

	key := videojobs.ArtifactKey("videos-hls", "clip1", "master.m3u8")
	_, err = repo.Upload(ctx, models.UploadInput{LocalPath: local, Key: key, ContentType: "application/vnd.apple.mpegurl", Size: 8})
	require.NoError(t, err)

	obj, err := repo.Open(ctx, key)
	require.NoError(t, err)
	defer obj.Body.Close()
	data, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	assert.Equal(t, "#EXTM3U\n", string(data))
	assert.Equal(t, "application/vnd.apple.mpegurl", obj.ContentType)

	_, err = repo.Open(ctx, videojobs.ArtifactKey("videos-hls", "clip1", "missing.ts"))
	assert.ErrorIs(t, err, videojobs.ErrNotFound)
}
