package worker

import (
	"context"

	"github.com/vytor/vocabflash/internal/models"
)

// WordImporter is the part of the word service used by import jobs.
type WordImporter interface {
	BulkImport(ctx context.Context, words []models.Word, createdBy *int64) (*models.ImportResult, error)
}

// StatusReporter receives job lifecycle updates.
type StatusReporter interface {
	MarkRunning(id string)
	MarkFinished(id string, result *models.ImportResult, err error)
}
