package jobs

import (
	"context"
	"errors"

	"github.com/vytor/vocabflash/internal/importer"
)

// ErrUnknownJob is returned by Status for ids the tracker never issued.
var ErrUnknownJob = errors.New("unknown job")

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	EnqueueWordImport(ctx context.Context, data []byte, format importer.Format, createdBy *int64) (string, error)
	Status(id string) (*JobStatus, error)
}
