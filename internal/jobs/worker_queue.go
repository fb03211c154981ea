package jobs

import (
	"context"
	"fmt"

	"github.com/vytor/vocabflash/internal/importer"
	"github.com/vytor/vocabflash/internal/logger"
	"github.com/vytor/vocabflash/internal/worker"
)

const kindWordImport = "word_import"

// Submitter is the part of worker.Pool the queue needs.
type Submitter interface {
	Submit(job worker.Job) error
}

// WorkerQueue implements JobQueue using worker pools
type WorkerQueue struct {
	importPool Submitter
	importer   worker.WordImporter
	tracker    *Tracker
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(importPool Submitter, wordImporter worker.WordImporter, tracker *Tracker) *WorkerQueue {
	if tracker == nil {
		tracker = NewTracker(DefaultTrackerCapacity)
	}
	return &WorkerQueue{
		importPool: importPool,
		importer:   wordImporter,
		tracker:    tracker,
	}
}

func (q *WorkerQueue) EnqueueWordImport(ctx context.Context, data []byte, format importer.Format, createdBy *int64) (string, error) {
	id := q.tracker.Create(kindWordImport)
	err := q.importPool.Submit(&worker.ImportWordsJob{
		ID:        id,
		Data:      data,
		Format:    format,
		CreatedBy: createdBy,
		Importer:  q.importer,
		Reporter:  q.tracker,
	})
	if err != nil {
		q.tracker.Remove(id)
		return "", fmt.Errorf("enqueue word import: %w", err)
	}
	logger.FromContext(ctx).WithField("job_id", id).Info("queued word import (%d bytes, %s)", len(data), format)
	return id, nil
}

func (q *WorkerQueue) Status(id string) (*JobStatus, error) {
	job, ok := q.tracker.Get(id)
	if !ok {
		return nil, ErrUnknownJob
	}
	return job, nil
}
