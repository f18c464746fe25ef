package videojobs

import (
	"context"

	"github.com/amankumarsingh77/hls-transcode-queue/internal/models"
)

// Transcoder turns one source file into an HLS artifact set and returns the
// directory holding it. It blocks until the engine finishes.
type Transcoder interface {
	Transcode(ctx context.Context, sourcePath, name string) (string, error)
}

// Janitor removes local files and directories. Missing paths are not errors.
type Janitor interface {
	Remove(paths ...string) error
}

// JobQueue accepts entries for the background worker.
type JobQueue interface {
	Push(entry models.QueueEntry)
	Len() int
}
