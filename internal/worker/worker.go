package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/amankumarsingh77/hls-transcode-queue/internal/config"
	"github.com/amankumarsingh77/hls-transcode-queue/internal/videojobs"
	"github.com/amankumarsingh77/hls-transcode-queue/pkg/logger"
	"github.com/amankumarsingh77/hls-transcode-queue/pkg/utils"
)

var ErrAlreadyStarted = errors.New("worker already started")

// Worker drains the Queue one entry at a time on a single goroutine, so at
// most one job is ever transcoding.
type Worker struct {
	queue      *Queue
	statusRepo videojobs.StatusRepository
	blobRepo   videojobs.BlobRepository
	transcoder videojobs.Transcoder
	janitor    videojobs.Janitor
	logger     logger.Logger

	keyPrefix         string
	uploadConcurrency int
	transcodeTimeout  time.Duration
	maxCPUUsage       float64
	cpuCheckInterval  time.Duration
	checkCPU          cpuGate

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

func NewWorker(
	cfg *config.Config,
	queue *Queue,
	statusRepo videojobs.StatusRepository,
	blobRepo videojobs.BlobRepository,
	transcoder videojobs.Transcoder,
	janitor videojobs.Janitor,
	log logger.Logger,
) *Worker {
	concurrency := cfg.Upload.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	maxCPU := cfg.Worker.MaxCPUUsage
	return &Worker{
		queue:             queue,
		statusRepo:        statusRepo,
		blobRepo:          blobRepo,
		transcoder:        transcoder,
		janitor:           janitor,
		logger:            log,
		keyPrefix:         cfg.Blob.KeyPrefix,
		uploadConcurrency: concurrency,
		transcodeTimeout:  cfg.Transcoder.Timeout,
		maxCPUUsage:       maxCPU,
		cpuCheckInterval:  cfg.Worker.CPUCheckInterval,
		checkCPU: func() (bool, float64) {
			return utils.CheckCPUUsage(maxCPU)
		},
	}
}

// Start launches the worker goroutine. It runs until ctx is cancelled or Stop
// is called.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return ErrAlreadyStarted
	}
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})
	w.running = true

	w.logger.Info("Starting worker")
	go w.run(ctx, w.done)
	return nil
}

// Stop cancels the worker and waits for the loop to return. A job in flight is
// interrupted and recorded as Failed; one still waiting for CPU stays Pending.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	cancel, done := w.cancel, w.done
	w.running = false
	w.mu.Unlock()

	cancel()
	<-done
	w.logger.Info("Worker stopped")
}

func (w *Worker) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		w.drain(ctx)
		select {
		case <-ctx.Done():
			return
		case <-w.queue.Wake():
		}
	}
}

// drain processes entries until the queue is empty. The head is popped after
// every attempt that reached Processing whatever its outcome, so a broken job
// is never retried. An entry stopped before that stays at the head.
func (w *Worker) drain(ctx context.Context) {
	for ctx.Err() == nil {
		entry, ok := w.queue.Peek()
		if !ok {
			return
		}
		if !w.processEntry(ctx, entry) {
			return
		}
		w.queue.Pop()
	}
}

// waitForCPU blocks while system CPU usage is above the configured ceiling.
func (w *Worker) waitForCPU(ctx context.Context) error {
	if w.maxCPUUsage <= 0 {
		return nil
	}
	for {
		ok, usage := w.checkCPU()
		if ok {
			return nil
		}
		w.logger.Infof("Worker - CPU usage is high: %.1f%%, waiting", usage)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.cpuCheckInterval):
		}
	}
}
