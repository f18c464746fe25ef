package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/amankumarsingh77/hls-transcode-queue/internal/config"
	"github.com/amankumarsingh77/hls-transcode-queue/internal/metrics"
	"github.com/amankumarsingh77/hls-transcode-queue/internal/models"
	"github.com/amankumarsingh77/hls-transcode-queue/internal/videojobs"
	"github.com/amankumarsingh77/hls-transcode-queue/pkg/logger"
	"github.com/pkg/errors"
)

type videoJobsUC struct {
	cfg        *config.Config
	statusRepo videojobs.StatusRepository
	blobRepo   videojobs.BlobRepository
	queue      videojobs.JobQueue
	logger     logger.Logger
}

func NewVideoJobsUseCase(
	cfg *config.Config,
	statusRepo videojobs.StatusRepository,
	blobRepo videojobs.BlobRepository,
	queue videojobs.JobQueue,
	log logger.Logger,
) videojobs.UseCase {
	return &videoJobsUC{
		cfg:        cfg,
		statusRepo: statusRepo,
		blobRepo:   blobRepo,
		queue:      queue,
		logger:     log,
	}
}

// Submit records the job as Pending and hands it to the worker. It returns as
// soon as the Pending record is stored; identities are not deduplicated.
func (v *videoJobsUC) Submit(ctx context.Context, sourcePath string) (*models.SubmitResult, error) {
	name, err := models.JobIdentity(sourcePath)
	if err != nil {
		v.logger.Errorf("Submit - JobIdentity error: %v", err)
		return nil, errors.Wrapf(videojobs.ErrInvalidIdentity, "%s", sourcePath)
	}

	if err = v.statusRepo.CreatePending(ctx, name); err != nil {
		v.logger.Errorf("Submit - CreatePending error: %v", err)
		return nil, errors.Wrap(err, "videoJobsUC.Submit.CreatePending")
	}

	v.queue.Push(models.QueueEntry{
		Identity:   name,
		SourcePath: sourcePath,
		EnqueuedAt: time.Now(),
	})
	metrics.JobsSubmitted.Inc()
	v.logger.Infof("Submit - queued %s (queue length %d)", name, v.queue.Len())

	return &models.SubmitResult{
		Identity:    name,
		ManifestURL: v.ManifestURL(name),
		Status:      models.JobStatusPending,
	}, nil
}

func (v *videoJobsUC) GetStatus(ctx context.Context, name string) (*models.StatusRecord, error) {
	if err := videojobs.CheckIdentity(name); err != nil {
		return nil, err
	}
	record, err := v.statusRepo.Get(ctx, name)
	if err != nil {
		if errors.Is(err, videojobs.ErrNotFound) {
			return nil, videojobs.ErrNotFound
		}
		v.logger.Errorf("GetStatus - Get error: %v", err)
		return nil, errors.Wrap(err, "videoJobsUC.GetStatus.Get")
	}
	return record, nil
}

// OpenArtifact streams one artifact of a job back from the blob store.
func (v *videoJobsUC) OpenArtifact(ctx context.Context, name, relPath string) (*models.BlobObject, error) {
	if err := videojobs.CheckIdentity(name); err != nil {
		return nil, err
	}
	rel, err := videojobs.CleanArtifactPath(relPath)
	if err != nil {
		return nil, err
	}
	key := videojobs.ArtifactKey(v.cfg.Blob.KeyPrefix, name, rel)
	if !videojobs.InNamespace(key, v.cfg.Blob.KeyPrefix, name) {
		return nil, videojobs.ErrInvalidArtifactPath
	}
	obj, err := v.blobRepo.Open(ctx, key)
	if err != nil {
		if errors.Is(err, videojobs.ErrNotFound) {
			return nil, videojobs.ErrNotFound
		}
		v.logger.Errorf("OpenArtifact - Open error: %v", err)
		return nil, errors.Wrap(err, "videoJobsUC.OpenArtifact.Open")
	}
	return obj, nil
}

// ManifestURL is where the master playlist is served once the job succeeds.
func (v *videoJobsUC) ManifestURL(name string) string {
	return fmt.Sprintf("%s/static/video-hls/%s/%s", strings.TrimRight(v.cfg.Server.BaseURL, "/"), name, videojobs.ManifestName)
}
