package worker

import (
	"context"
	"time"
)

const (
	// statusWriteTimeout bounds every Status Store call made by the worker.
	statusWriteTimeout = 10 * time.Second

	segmentPattern  = "fileSequence%d.ts"
	variantPlaylist = "prog_index.m3u8"
	variantDirFmt   = "v%d"
)

// commandRunner runs an external binary and returns its combined output.
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// cpuGate reports whether a new transcode may start and the usage observed.
type cpuGate func() (bool, float64)
