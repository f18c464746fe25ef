package worker

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/amankumarsingh77/hls-transcode-queue/internal/metrics"
	"github.com/amankumarsingh77/hls-transcode-queue/internal/models"
	"github.com/amankumarsingh77/hls-transcode-queue/internal/videojobs"
	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

var contentTypes = map[string]string{
	".m3u8": "application/vnd.apple.mpegurl",
	".ts":   "video/mp2t",
	".m4s":  "video/iso.segment",
	".mp4":  "video/mp4",
	".vtt":  "text/vtt",
	".mpd":  "application/dash+xml",
}

// ContentType picks the MIME type for an artifact. HLS extensions are looked up
// directly; anything else is sniffed.
func ContentType(file string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(file))]; ok {
		return ct
	}
	mt, err := mimetype.DetectFile(file)
	if err != nil {
		return "application/octet-stream"
	}
	return mt.String()
}

// uploadArtifacts mirrors every file under outputDir to the blob store with at
// most w.uploadConcurrency transfers in flight. The first failure cancels the
// remaining transfers.
func (w *Worker) uploadArtifacts(ctx context.Context, name, outputDir string) error {
	files, err := listArtifacts(outputDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.Errorf("no artifacts produced in %s", outputDir)
	}

	inputs := make([]models.UploadInput, 0, len(files))
	for _, file := range files {
		rel, err := filepath.Rel(outputDir, file)
		if err != nil {
			return errors.Wrapf(err, "relative path of %s", file)
		}
		inputs = append(inputs, models.UploadInput{
			LocalPath:   file,
			Key:         videojobs.ArtifactKey(w.keyPrefix, name, rel),
			ContentType: ContentType(file),
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.uploadConcurrency)
	for _, input := range inputs {
		input := input
		g.Go(func() error {
			location, err := w.blobRepo.Upload(gctx, input)
			if err != nil {
				metrics.UploadedFiles.WithLabelValues("error").Inc()
				return errors.Wrapf(err, "upload %s", input.Key)
			}
			metrics.UploadedFiles.WithLabelValues("ok").Inc()
			w.logger.Debugf("Worker - uploaded %s to %s", input.Key, location)
			return nil
		})
	}
	return g.Wait()
}
