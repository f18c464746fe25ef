// Package fake holds in-memory, concurrency-safe stand-ins for the job
// collaborators. They record every call so tests can assert on ordering.
package fake

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/amankumarsingh77/hls-transcode-queue/internal/models"
	"github.com/amankumarsingh77/hls-transcode-queue/internal/videojobs"
)

var ErrInjected = errors.New("injected failure")

type Transition struct {
	Name   string
	Status models.JobStatus
	At     time.Time
}

type StatusStore struct {
	mu            sync.Mutex
	records       map[string]*models.StatusRecord
	history       []Transition
	maxProcessing int
	illegal       int
	// Fail makes every mutator return ErrInjected when set.
	Fail bool
	// FailCreate makes only CreatePending fail.
	FailCreate bool
}

func NewStatusStore() *StatusStore {
	return &StatusStore{records: make(map[string]*models.StatusRecord)}
}

func (s *StatusStore) CreatePending(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail || s.FailCreate {
		return ErrInjected
	}
	now := time.Now()
	s.records[name] = &models.StatusRecord{Name: name, Status: models.JobStatusPending, CreatedAt: now, UpdatedAt: now}
	s.history = append(s.history, Transition{Name: name, Status: models.JobStatusPending, At: now})
	return nil
}

func (s *StatusStore) MarkProcessing(_ context.Context, name string) error {
	return s.set(name, models.JobStatusProcessing)
}

func (s *StatusStore) MarkSuccess(_ context.Context, name string) error {
	return s.set(name, models.JobStatusSuccess)
}

func (s *StatusStore) MarkFailed(_ context.Context, name string) error {
	return s.set(name, models.JobStatusFailed)
}

func (s *StatusStore) set(name string, status models.JobStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return ErrInjected
	}
	now := time.Now()
	rec, ok := s.records[name]
	if !ok {
		rec = &models.StatusRecord{Name: name, CreatedAt: now}
		s.records[name] = rec
	} else if !models.CanTransition(rec.Status, status) {
		s.illegal++
	}
	rec.Status = status
	rec.UpdatedAt = now
	s.history = append(s.history, Transition{Name: name, Status: status, At: now})

	processing := 0
	for _, r := range s.records {
		if r.Status == models.JobStatusProcessing {
			processing++
		}
	}
	if processing > s.maxProcessing {
		s.maxProcessing = processing
	}
	return nil
}

func (s *StatusStore) Get(_ context.Context, name string) (*models.StatusRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[name]
	if !ok {
		return nil, videojobs.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

// Status returns the current status and whether a record exists.
func (s *StatusStore) Status(name string) (models.JobStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[name]
	if !ok {
		return 0, false
	}
	return rec.Status, true
}

// History returns the statuses recorded for name in order.
func (s *StatusStore) History(name string) []Transition {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Transition
	for _, t := range s.history {
		if t.Name == name {
			out = append(out, t)
		}
	}
	return out
}

// MaxConcurrentProcessing is the highest number of records ever seen in
// Processing at the same time.
func (s *StatusStore) MaxConcurrentProcessing() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxProcessing
}

// IllegalTransitions counts status writes that skipped or reversed a step.
func (s *StatusStore) IllegalTransitions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.illegal
}

func (s *StatusStore) SetFail(fail bool) {
	s.mu.Lock()
	s.Fail = fail
	s.mu.Unlock()
}

type BlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	// FailKey makes Upload fail for keys it returns true for.
	FailKey func(key string) bool
}

func NewBlobStore() *BlobStore {
	return &BlobStore{objects: make(map[string][]byte), types: make(map[string]string)}
}

func (b *BlobStore) Upload(ctx context.Context, input models.UploadInput) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if b.FailKey != nil && b.FailKey(input.Key) {
		return "", ErrInjected
	}
	data, err := os.ReadFile(input.LocalPath)
	if err != nil {
		return "", err
	}
	b.mu.Lock()
	b.objects[input.Key] = data
	b.types[input.Key] = input.ContentType
	b.mu.Unlock()
	return "mem://" + input.Key, nil
}

func (b *BlobStore) Open(_ context.Context, key string) (*models.BlobObject, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.objects[key]
	if !ok {
		return nil, videojobs.ErrNotFound
	}
	return &models.BlobObject{
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentType:   b.types[key],
		ContentLength: int64(len(data)),
	}, nil
}

// Put stores an object directly.
func (b *BlobStore) Put(key, contentType string, data []byte) {
	b.mu.Lock()
	b.objects[key] = data
	b.types[key] = contentType
	b.mu.Unlock()
}

func (b *BlobStore) Keys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	keys := make([]string, 0, len(b.objects))
	for k := range b.objects {
		keys = append(keys, k)
	}
	return keys
}

func (b *BlobStore) ContentType(key string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.types[key]
}

// TranscodeFunc lets a test decide the outcome per job.
type TranscodeFunc func(ctx context.Context, sourcePath, name string) (string, error)

type Transcoder struct {
	OutputRoot string
	mu         sync.Mutex
	calls      []string
	Func       TranscodeFunc
}

func NewTranscoder(outputRoot string) *Transcoder {
	return &Transcoder{OutputRoot: outputRoot}
}

func (t *Transcoder) Transcode(ctx context.Context, sourcePath, name string) (string, error) {
	t.mu.Lock()
	t.calls = append(t.calls, name)
	fn := t.Func
	t.mu.Unlock()
	if fn != nil {
		return fn(ctx, sourcePath, name)
	}
	return t.WriteArtifacts(name)
}

// WriteArtifacts produces a master playlist and one segment for name.
func (t *Transcoder) WriteArtifacts(name string) (string, error) {
	dir := filepath.Join(t.OutputRoot, name)
	if err := os.MkdirAll(filepath.Join(dir, "v0"), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, videojobs.ManifestName), []byte("#EXTM3U\n"), 0o644); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, "v0", "fileSequence0.ts"), []byte{0x47}, 0o644); err != nil {
		return "", err
	}
	return dir, nil
}

func (t *Transcoder) Calls() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.calls))
	copy(out, t.calls)
	return out
}
