package worker

import (
	"sync"
	"testing"

	"github.com/amankumarsingh77/hls-transcode-queue/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue()
	q.Push(models.QueueEntry{Identity: "clip1"})
	q.Push(models.QueueEntry{Identity: "clip2"})
	q.Push(models.QueueEntry{Identity: "clip3"})

	head, ok := q.Peek()
	require.True(t, ok)
	assert.Equal(t, "clip1", head.Identity)
	assert.Equal(t, 3, q.Len())

	for _, want := range []string{"clip1", "clip2", "clip3"} {
		got, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, want, got.Identity)
	}
	_, ok = q.Pop()
	assert.False(t, ok)
	_, ok = q.Peek()
	assert.False(t, ok)
}

func TestQueue_WakeCoalesces(t *testing.T) {
	q := NewQueue()
	q.Push(models.QueueEntry{Identity: "a"})
	q.Push(models.QueueEntry{Identity: "b"})

	select {
	case <-q.Wake():
	default:
		t.Fatal("expected a pending wake-up")
	}
	select {
	case <-q.Wake():
		t.Fatal("wake-ups should coalesce")
	default:
	}
}

func TestQueue_SnapshotIsCopy(t *testing.T) {
	q := NewQueue()
	q.Push(models.QueueEntry{Identity: "clip1"})
	snap := q.Snapshot()
	snap[0].Identity = "changed"

	head, _ := q.Peek()
	assert.Equal(t, "clip1", head.Identity)
}

func TestQueue_ConcurrentPush(t *testing.T) {
	q := NewQueue()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.Push(models.QueueEntry{Identity: "x"})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, q.Len())
}
