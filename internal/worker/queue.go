package worker

import (
	"sync"

	"github.com/amankumarsingh77/hls-transcode-queue/internal/metrics"
	"github.com/amankumarsingh77/hls-transcode-queue/internal/models"
)

// Queue is the in-memory FIFO of submitted jobs. The head stays in place while
// it is being processed and is popped by the worker once the attempt ends.
type Queue struct {
	mu    sync.Mutex
	items []models.QueueEntry
	wake  chan struct{}
}

func NewQueue() *Queue {
	return &Queue{
		wake: make(chan struct{}, 1),
	}
}

// Push appends to the tail and wakes the worker. Wake-ups coalesce.
func (q *Queue) Push(entry models.QueueEntry) {
	q.mu.Lock()
	q.items = append(q.items, entry)
	depth := len(q.items)
	q.mu.Unlock()

	metrics.QueueDepth.Set(float64(depth))
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *Queue) Peek() (models.QueueEntry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return models.QueueEntry{}, false
	}
	return q.items[0], true
}

func (q *Queue) Pop() (models.QueueEntry, bool) {
	q.mu.Lock()
	if len(q.items) == 0 {
		q.mu.Unlock()
		return models.QueueEntry{}, false
	}
	head := q.items[0]
	q.items[0] = models.QueueEntry{}
	q.items = q.items[1:]
	depth := len(q.items)
	q.mu.Unlock()

	metrics.QueueDepth.Set(float64(depth))
	return head, true
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Snapshot returns a copy of the entries in queue order.
func (q *Queue) Snapshot() []models.QueueEntry {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]models.QueueEntry, len(q.items))
	copy(out, q.items)
	return out
}

func (q *Queue) Wake() <-chan struct{} {
	return q.wake
}
