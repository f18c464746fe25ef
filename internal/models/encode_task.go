package models

import (
	"errors"
	"path/filepath"
	"strings"
	"time"
)

// JobStatus is persisted as its integer code.
type JobStatus int

const (
	JobStatusPending JobStatus = iota
	JobStatusProcessing
	JobStatusSuccess
	JobStatusFailed
)

var ErrEmptyIdentity = errors.New("job identity is empty")

func (s JobStatus) String() string {
	switch s {
	case JobStatusPending:
		return "pending"
	case JobStatusProcessing:
		return "processing"
	case JobStatusSuccess:
		return "success"
	case JobStatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s JobStatus) IsTerminal() bool {
	return s == JobStatusSuccess || s == JobStatusFailed
}

func (s JobStatus) Valid() bool {
	return s >= JobStatusPending && s <= JobStatusFailed
}

// CanTransition reports whether a record may move from one status to another.
func CanTransition(from, to JobStatus) bool {
	switch from {
	case JobStatusPending:
		return to == JobStatusProcessing
	case JobStatusProcessing:
		return to == JobStatusSuccess || to == JobStatusFailed
	default:
		return false
	}
}

type StatusRecord struct {
	Name      string    `json:"name" db:"name" bson:"name" redis:"name" validate:"required"`
	Status    JobStatus `json:"status" db:"status" bson:"status" redis:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at" bson:"created_at" redis:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" bson:"updated_at" redis:"updated_at"`
}

type QueueEntry struct {
	Identity   string    `json:"identity"`
	SourcePath string    `json:"source_path"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

type SubmitResult struct {
	Identity    string    `json:"identity"`
	ManifestURL string    `json:"manifest_url"`
	Status      JobStatus `json:"status"`
}

// JobIdentity derives the job key from a source path: the base name with the
// last extension dropped and the remaining dots removed ("a.b.mp4" -> "ab").
// Names without an extension are used as-is.
func JobIdentity(sourcePath string) (string, error) {
	base := filepath.Base(sourcePath)
	if base == "." || base == string(filepath.Separator) {
		return "", ErrEmptyIdentity
	}
	parts := strings.Split(base, ".")
	if len(parts) > 1 {
		parts = parts[:len(parts)-1]
	}
	id := strings.Join(parts, "")
	if id == "" {
		return "", ErrEmptyIdentity
	}
	return id, nil
}
