package worker

import (
	"bytes"
	"context"
	"fmt"

	"github.com/vytor/vocabflash/internal/importer"
	"github.com/vytor/vocabflash/internal/logger"
	"github.com/vytor/vocabflash/internal/models"
)

// ImportWordsJob decodes an uploaded word file and bulk-imports it.
type ImportWordsJob struct {
	ID        string
	Data      []byte
	Format    importer.Format
	CreatedBy *int64
	Importer  WordImporter
	Reporter  StatusReporter
}

func (j *ImportWordsJob) Name() string {
	return "import_words:" + j.ID
}

// Run always reports a finished state, including when decoding panics.
func (j *ImportWordsJob) Run(ctx context.Context) (err error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"job_id": j.ID,
		"format": string(j.Format),
		"bytes":  len(j.Data),
	})
	if j.Reporter != nil {
		j.Reporter.MarkRunning(j.ID)
	}

	var result *models.ImportResult
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("import panicked: %v", r)
		}
		if j.Reporter != nil {
			j.Reporter.MarkFinished(j.ID, result, err)
		}
	}()

	result, err = j.run(ctx)
	if err != nil {
		return err
	}
	log.Info("imported %d of %d words (%d skipped, %d invalid)",
		result.Inserted, result.Total, result.Skipped, len(result.Errors))
	return nil
}

func (j *ImportWordsJob) run(ctx context.Context) (*models.ImportResult, error) {
	words, err := importer.Read(bytes.NewReader(j.Data), j.Format)
	if err != nil {
		return nil, fmt.Errorf("read %s upload: %w", j.Format, err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("upload contains no words")
	}
	return j.Importer.BulkImport(ctx, words, j.CreatedBy)
}
