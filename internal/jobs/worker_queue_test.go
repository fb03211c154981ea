package jobs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/vocabflash/internal/importer"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/vytor/vocabflash/internal/worker"
)

type stubImporter struct {
	createdBy *int64
	panics    bool
}

func (s *stubImporter) BulkImport(_ context.Context, words []models.Word, createdBy *int64) (*models.ImportResult, error) {
	s.createdBy = createdBy
	if s.panics {
		panic("malformed workbook")
	}
	return &models.ImportResult{Total: len(words), Inserted: len(words)}, nil
}

func TestWorkerQueue_ImportCompletes(t *testing.T) {
	pool := worker.NewPool(1, 4)
	imp := &stubImporter{}
	q := NewWorkerQueue(pool, imp, NewTracker(10))
	admin := int64(7)

	id, err := q.EnqueueWordImport(context.Background(),
		[]byte(`[{"word":"a","definition":"d","meaning":"m","level":"A1"},{"word":"b","definition":"d","meaning":"m","level":"A2"}]`),
		importer.FormatJSON, &admin)
	require.NoError(t, err)

	status, err := q.Status(id)
	require.NoError(t, err)
	assert.Equal(t, StateQueued, status.State)

	pool.Start(context.Background())
	pool.Stop()

	status, err = q.Status(id)
	require.NoError(t, err)
	assert.Equal(t, StateDone, status.State)
	assert.Equal(t, 2, status.Result.Inserted)
	require.NotNil(t, imp.createdBy)
	assert.Equal(t, admin, *imp.createdBy)
}

func TestWorkerQueue_QueueFullForgetsJob(t *testing.T) {
	pool := worker.NewPool(1, 1)
	tracker := NewTracker(10)
	q := NewWorkerQueue(pool, &stubImporter{}, tracker)

	_, err := q.EnqueueWordImport(context.Background(), []byte(`[]`), importer.FormatJSON, nil)
	require.NoError(t, err)

	_, err = q.EnqueueWordImport(context.Background(), []byte(`[]`), importer.FormatJSON, nil)
	assert.ErrorIs(t, err, worker.ErrQueueFull)
	assert.Len(t, tracker.jobs, 1)
	pool.Stop()
}

func TestWorkerQueue_UnknownJob(t *testing.T) {
	q := NewWorkerQueue(worker.NewPool(1, 1), &stubImporter{}, nil)
	_, err := q.Status("missing")
	assert.ErrorIs(t, err, ErrUnknownJob)
}

func TestWorkerQueue_PanickingImportIsFailed(t *testing.T) {
	pool := worker.NewPool(1, 4)
	q := NewWorkerQueue(pool, &stubImporter{panics: true}, NewTracker(10))

	id, err := q.EnqueueWordImport(context.Background(),
		[]byte(`[{"word":"a","definition":"d","meaning":"m","level":"A1"}]`), importer.FormatJSON, nil)
	require.NoError(t, err)

	pool.Start(context.Background())
	pool.Stop()

	status, err := q.Status(id)
	require.NoError(t, err)
	assert.Equal(t, StateFailed, status.State)
	assert.Contains(t, status.Error, "malformed workbook")
	assert.NotNil(t, status.FinishedAt)
}
