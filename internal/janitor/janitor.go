package janitor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/amankumarsingh77/hls-transcode-queue/internal/videojobs"
	"github.com/amankumarsingh77/hls-transcode-queue/pkg/logger"
)

type fsJanitor struct {
	logger logger.Logger
}

func NewJanitor(log logger.Logger) videojobs.Janitor {
	return &fsJanitor{logger: log}
}

// Remove deletes every path, recursing into directories. Paths that are
// already gone count as removed. All paths are attempted; failures are joined.
func (j *fsJanitor) Remove(paths ...string) error {
	var errs []error
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.RemoveAll(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("failed to remove %s: %w", p, err))
			continue
		}
		j.logger.Debugf("Janitor - removed %s", p)
	}
	return errors.Join(errs...)
}
