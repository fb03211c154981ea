package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/vytor/vocabflash/internal/errors"
	"github.com/vytor/vocabflash/internal/logger"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/vytor/vocabflash/internal/repository"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// WordQuery selects a page of words.
type WordQuery struct {
	Level  models.Level
	Search string
	Page   int
	Limit  int
}

// WordPage is one page of a word listing.
type WordPage struct {
	Words []models.Word `json:"words"`
	Total int           `json:"total"`
	Page  int           `json:"page"`
	Pages int           `json:"pages"`
	Limit int           `json:"limit"`
}

// WordService handles word content management
type WordService interface {
	List(ctx context.Context, q WordQuery) (*WordPage, error)
	Get(ctx context.Context, id int64) (*models.Word, error)
	Create(ctx context.Context, w models.Word, createdBy *int64) (*models.Word, error)
	Update(ctx context.Context, id int64, w models.Word) (*models.Word, error)
	Delete(ctx context.Context, id int64) error
	BulkImport(ctx context.Context, words []models.Word, createdBy *int64) (*models.ImportResult, error)
	Export(ctx context.Context) ([]models.Word, error)
}

type wordService struct {
	words repository.WordRepository
	clock func() time.Time
}

// NewWordService creates a new WordService
func NewWordService(words repository.WordRepository) WordService {
	return &wordService{words: words, clock: time.Now}
}

// ValidateWord normalizes w in place and checks required fields.
func ValidateWord(w *models.Word) error {
	w.Normalize()
	switch {
	case w.Word == "":
		return apperrors.NewValidationError("word", "is required")
	case w.Definition == "":
		return apperrors.NewValidationError("definition", "is required")
	case w.Meaning == "":
		return apperrors.NewValidationError("meaning", "is required")
	}
	if _, ok := models.ParseLevel(string(w.Level)); !ok {
		return apperrors.NewValidationError("level", "must be one of A1, A2, B1, B2, C1, C2")
	}
	if w.ExampleSentences == nil {
		w.ExampleSentences = models.StringList{}
	}
	return nil
}

func (s *wordService) List(ctx context.Context, q WordQuery) (*WordPage, error) {
	log := logger.FromContext(ctx)

	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = DefaultPageSize
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}
	filter := models.WordFilter{
		Level:  q.Level,
		Search: q.Search,
		Limit:  q.Limit,
		Offset: (q.Page - 1) * q.Limit,
	}

	words, err := s.words.List(ctx, filter)
	if err != nil {
		log.Error("failed to list words: %v", err)
		return nil, apperrors.NewStorageError(err)
	}
	total, err := s.words.Count(ctx, filter)
	if err != nil {
		log.Error("failed to count words: %v", err)
		return nil, apperrors.NewStorageError(err)
	}

	return &WordPage{
		Words: words,
		Total: total,
		Page:  q.Page,
		Pages: (total + q.Limit - 1) / q.Limit,
		Limit: q.Limit,
	}, nil
}

func (s *wordService) Get(ctx context.Context, id int64) (*models.Word, error) {
	w, err := s.words.Get(ctx, id)
	if err != nil {
		logger.FromContext(ctx).Error("failed to get word: %v", err)
		return nil, apperrors.NewStorageError(err)
	}
	if w == nil {
		return nil, apperrors.NewNotFoundError("word", id)
	}
	return w, nil
}

func (s *wordService) Create(ctx context.Context, w models.Word, createdBy *int64) (*models.Word, error) {
	log := logger.FromContext(ctx)
	if err := ValidateWord(&w); err != nil {
		return nil, err
	}
	now := s.clock().UTC()
	w.CreatedBy = createdBy
	w.CreatedAt = now
	w.UpdatedAt = now

	id, err := s.words.Insert(ctx, w)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflictError("word", fmt.Sprintf("%q at level %s", w.Word, w.Level))
		}
		log.Error("failed to create word: %v", err)
		return nil, apperrors.NewStorageError(err)
	}
	w.ID = id
	log.Info("word created: id=%d, word=%s, level=%s", id, w.Word, w.Level)
	return &w, nil
}

func (s *wordService) Update(ctx context.Context, id int64, w models.Word) (*models.Word, error) {
	log := logger.FromContext(ctx)
	if err := ValidateWord(&w); err != nil {
		return nil, err
	}
	w.ID = id
	w.UpdatedAt = s.clock().UTC()

	if err := s.words.Update(ctx, w); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, apperrors.NewNotFoundError("word", id)
		case errors.Is(err, repository.ErrDuplicate):
			return nil, apperrors.NewConflictError("word", fmt.Sprintf("%q at level %s", w.Word, w.Level))
		}
		log.Error("failed to update word: %v", err)
		return nil, apperrors.NewStorageError(err)
	}
	return s.Get(ctx, id)
}

// Delete removes a word and, through the foreign key, every learner's
// progress on it.
func (s *wordService) Delete(ctx context.Context, id int64) error {
	if err := s.words.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NewNotFoundError("word", id)
		}
		logger.FromContext(ctx).Error("failed to delete word: %v", err)
		return apperrors.NewStorageError(err)
	}
	logger.FromContext(ctx).Info("word deleted: id=%d", id)
	return nil
}

// BulkImport inserts every valid word. Invalid entries are reported in the
// result and duplicates are counted as skipped; neither fails the import.
func (s *wordService) BulkImport(ctx context.Context, words []models.Word, createdBy *int64) (*models.ImportResult, error) {
	log := logger.FromContext(ctx)
	log.Info("bulk importing words: count=%d", len(words))

	now := s.clock().UTC()
	valid := make([]models.Word, 0, len(words))
	var problems []string
	for i, w := range words {
		if err := ValidateWord(&w); err != nil {
			msg := err.Error()
			if appErr, ok := apperrors.As(err); ok {
				msg = appErr.Message
			}
			problems = append(problems, fmt.Sprintf("entry %d: %s", i+1, msg))
			continue
		}
		w.CreatedBy = createdBy
		w.CreatedAt = now
		w.UpdatedAt = now
		valid = append(valid, w)
	}

	res, err := s.words.InsertBatch(ctx, valid)
	if err != nil {
		log.Error("failed to import words: %v", err)
		return nil, apperrors.NewStorageError(err)
	}
	res.Total = len(words)
	res.Errors = problems

	log.Info("bulk import finished: total=%d, inserted=%d, skipped=%d, invalid=%d", res.Total, res.Inserted, res.Skipped, len(problems))
	return &res, nil
}

func (s *wordService) Export(ctx context.Context) ([]models.Word, error) {
	words, err := s.words.All(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("failed to export words: %v", err)
		return nil, apperrors.NewStorageError(err)
	}
	return words, nil
}
