package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/amankumarsingh77/hls-transcode-queue/internal/metrics"
	"github.com/amankumarsingh77/hls-transcode-queue/internal/models"
	"github.com/amankumarsingh77/hls-transcode-queue/internal/videojobs"
	"github.com/pkg/errors"
)

// processEntry drives one job to a terminal status and reports whether the
// entry was consumed. A job aborted before it reached Processing is left
// Pending and unconsumed; every later failure ends as a Failed record.
func (w *Worker) processEntry(ctx context.Context, entry models.QueueEntry) (consumed bool) {
	name := entry.Identity
	processing := false
	defer func() {
		if r := recover(); r != nil {
			w.logger.Errorf("Worker - panic while processing %s: %v", name, r)
			if !processing {
				w.setStatus(ctx, name, models.JobStatusProcessing)
			}
			w.finish(ctx, name, models.JobStatusFailed)
			consumed = true
		}
	}()

	if err := w.waitForCPU(ctx); err != nil {
		w.logger.Warnf("Worker - %s: left pending, waitForCPU error: %v", name, err)
		return false
	}

	w.setStatus(ctx, name, models.JobStatusProcessing)
	processing = true

	outputDir, err := w.transcode(ctx, entry)
	if err != nil {
		w.logger.Errorf("Worker - %s: Transcode error: %v", name, err)
		w.finish(ctx, name, models.JobStatusFailed)
		return true
	}

	if err := w.uploadArtifacts(ctx, name, outputDir); err != nil {
		w.logger.Errorf("Worker - %s: uploadArtifacts error: %v", name, err)
		w.finish(ctx, name, models.JobStatusFailed)
		return true
	}

	// Artifacts are mirrored at this point; a cleanup failure only leaks disk.
	if err := w.janitor.Remove(entry.SourcePath, outputDir); err != nil {
		w.logger.Warnf("Worker - %s: Janitor.Remove error: %v", name, err)
	}

	w.finish(ctx, name, models.JobStatusSuccess)
	w.logger.Infof("Worker - %s: done", name)
	return true
}

func (w *Worker) transcode(ctx context.Context, entry models.QueueEntry) (string, error) {
	tctx := ctx
	if w.transcodeTimeout > 0 {
		var cancel context.CancelFunc
		tctx, cancel = context.WithTimeout(ctx, w.transcodeTimeout)
		defer cancel()
	}

	start := time.Now()
	outputDir, err := w.transcoder.Transcode(tctx, entry.SourcePath, entry.Identity)
	metrics.TranscodeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(tctx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return "", fmt.Errorf("%w after %s: %v", videojobs.ErrTranscodeTimeout, w.transcodeTimeout, err)
		}
		return "", errors.Wrap(err, "transcode")
	}
	return outputDir, nil
}

func (w *Worker) finish(ctx context.Context, name string, status models.JobStatus) {
	w.setStatus(ctx, name, status)
	if status.IsTerminal() {
		metrics.JobsFinished.WithLabelValues(status.String()).Inc()
	}
}

// setStatus writes a status change on a context detached from the worker's
// cancellation so shutdown can still record Failed. Errors are logged only.
func (w *Worker) setStatus(ctx context.Context, name string, status models.JobStatus) {
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), statusWriteTimeout)
	defer cancel()

	var err error
	switch status {
	case models.JobStatusProcessing:
		err = w.statusRepo.MarkProcessing(sctx, name)
	case models.JobStatusSuccess:
		err = w.statusRepo.MarkSuccess(sctx, name)
	case models.JobStatusFailed:
		err = w.statusRepo.MarkFailed(sctx, name)
	default:
		err = errors.Errorf("unsupported status %d", status)
	}
	if err != nil {
		w.logger.Errorf("Worker - %s: set status %s error: %v", name, status, err)
	}
}
