package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/vytor/vocabflash/internal/errors"
	"github.com/vytor/vocabflash/internal/logger"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/vytor/vocabflash/internal/repository"
	"github.com/vytor/vocabflash/internal/srs"
)

const (
	DefaultDueLimit      = 20
	DefaultPracticeLimit = 20
	DefaultNewWordLimit  = 10
	// MaxSelectionLimit caps every due/new/practice request.
	MaxSelectionLimit = 100
)

// ProgressService is the review policy layer: it applies reviews through the
// scheduler and assembles the due, new and practice word sets.
type ProgressService interface {
	SubmitReview(ctx context.Context, userID, wordID int64, quality int) (*models.ProgressRecord, error)
	DueWords(ctx context.Context, userID int64, limit int) ([]models.ProgressWithWord, error)
	NewWords(ctx context.Context, userID int64, levels []models.Level, limit int) ([]models.Word, error)
	PracticeWords(ctx context.Context, userID int64, level models.Level, limit int) ([]models.ProgressWithWord, error)
	ResetProgress(ctx context.Context, userID int64) error
	Stats(ctx context.Context, userID int64) (*models.ProgressStats, error)
}

type ProgressOption func(*progressService)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) ProgressOption {
	return func(s *progressService) { s.clock = now }
}

// WithLocation sets the zone whose midnight starts a study day.
func WithLocation(loc *time.Location) ProgressOption {
	return func(s *progressService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithRand overrides the sampling source.
func WithRand(rng Rand) ProgressOption {
	return func(s *progressService) { s.rng = rng }
}

// WithLimits sets the default due and practice set sizes.
func WithLimits(due, practice int) ProgressOption {
	return func(s *progressService) {
		if due > 0 {
			s.dueLimit = due
		}
		if practice > 0 {
			s.practiceLimit = practice
		}
	}
}

type progressService struct {
	progress      repository.ProgressRepository
	words         repository.WordRepository
	clock         func() time.Time
	loc           *time.Location
	rng           Rand
	dueLimit      int
	practiceLimit int
}

// NewProgressService creates a new ProgressService
func NewProgressService(progress repository.ProgressRepository, words repository.WordRepository, opts ...ProgressOption) ProgressService {
	s := &progressService{
		progress:      progress,
		words:         words,
		clock:         time.Now,
		loc:           time.UTC,
		rng:           globalRand{},
		dueLimit:      DefaultDueLimit,
		practiceLimit: DefaultPracticeLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *progressService) now() time.Time {
	return s.clock().In(s.loc)
}

func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > MaxSelectionLimit {
		return MaxSelectionLimit
	}
	return limit
}

func (s *progressService) SubmitReview(ctx context.Context, userID, wordID int64, quality int) (*models.ProgressRecord, error) {
	log := logger.FromContext(ctx)
	log.Debug("submitting review: user_id=%d, word_id=%d, quality=%d", userID, wordID, quality)

	if err := srs.ValidateQuality(quality); err != nil {
		return nil, apperrors.NewInvalidQualityError(quality)
	}

	word, err := s.words.Get(ctx, wordID)
	if err != nil {
		log.Error("failed to load word: %v", err)
		return nil, apperrors.NewStorageError(err)
	}
	if word == nil {
		return nil, apperrors.NewNotFoundError("word", wordID)
	}

	now := s.now()
	rec, err := s.progress.ApplyReview(ctx, userID, wordID, func(existing *models.ProgressRecord, stats *models.UserStats) (*models.ProgressRecord, error) {
		base := srs.NewRecord(userID, wordID, now)
		base.CreatedAt = now
		if existing != nil {
			base = *existing
		}
		updated := srs.ApplyReview(base, quality, now)
		updated.UpdatedAt = now
		*stats = srs.RecordStudy(*stats, updated, now)
		return &updated, nil
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("user", userID)
		}
		log.Error("failed to apply review: %v", err)
		return nil, apperrors.NewStorageError(err)
	}

	log.Info("review recorded: word_id=%d, quality=%d, interval=%d, status=%s", wordID, quality, rec.IntervalDays, rec.Status)
	return rec, nil
}

func (s *progressService) DueWords(ctx context.Context, userID int64, limit int) ([]models.ProgressWithWord, error) {
	limit = clampLimit(limit, s.dueLimit)
	due, err := s.progress.Due(ctx, userID, s.now(), limit)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load due words: %v", err)
		return nil, apperrors.NewStorageError(err)
	}
	return due, nil
}

func (s *progressService) NewWords(ctx context.Context, userID int64, levels []models.Level, limit int) ([]models.Word, error) {
	log := logger.FromContext(ctx)
	if len(levels) == 0 {
		levels = models.AllLevels
	}
	limit = clampLimit(limit, DefaultNewWordLimit)

	ids, err := s.words.UnseenIDs(ctx, userID, levels)
	if err != nil {
		log.Error("failed to load unseen words: %v", err)
		return nil, apperrors.NewStorageError(err)
	}
	picked := sample(s.rng, ids, limit)
	if len(picked) == 0 {
		return []models.Word{}, nil
	}

	found, err := s.words.FindByIDs(ctx, picked)
	if err != nil {
		log.Error("failed to load sampled words: %v", err)
		return nil, apperrors.NewStorageError(err)
	}

	// Keep the sampled order; the lookup returns rows in storage order.
	byID := make(map[int64]models.Word, len(found))
	for _, w := range found {
		byID[w.ID] = w
	}
	words := make([]models.Word, 0, len(picked))
	for _, id := range picked {
		if w, ok := byID[id]; ok {
			words = append(words, w)
		}
	}
	log.Debug("selected %d new words from %d candidates", len(words), len(ids))
	return words, nil
}

func (s *progressService) PracticeWords(ctx context.Context, userID int64, level models.Level, limit int) ([]models.ProgressWithWord, error) {
	limit = clampLimit(limit, s.practiceLimit)
	candidates, err := s.progress.ForPractice(ctx, userID, level)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load practice candidates: %v", err)
		return nil, apperrors.NewStorageError(err)
	}
	return sample(s.rng, candidates, limit), nil
}

func (s *progressService) ResetProgress(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)
	deleted, err := s.progress.ResetAll(ctx, userID)
	if err != nil {
		log.Error("failed to reset progress: %v", err)
		return apperrors.NewStorageError(err)
	}
	log.Info("progress reset: user_id=%d, deleted=%d", userID, deleted)
	return nil
}

func (s *progressService) Stats(ctx context.Context, userID int64) (*models.ProgressStats, error) {
	now := s.now()

	var (
		counts   models.StatusCounts
		due      int
		userStat *models.UserStats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = s.progress.CountByStatus(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		due, err = s.progress.CountDue(gctx, userID, now)
		return err
	})
	g.Go(func() error {
		var err error
		userStat, err = s.progress.Stats(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.FromContext(ctx).Error("failed to load progress stats: %v", err)
		return nil, apperrors.NewStorageError(err)
	}
	if userStat == nil {
		return nil, apperrors.NewNotFoundError("user", userID)
	}

	stats := &models.ProgressStats{
		New:       counts[models.StatusNew],
		Learning:  counts[models.StatusLearning],
		Review:    counts[models.StatusReview],
		Mastered:  counts[models.StatusMastered],
		DueToday:  due,
		UserStats: *userStat,
	}
	stats.TotalWords = stats.New + stats.Learning + stats.Review + stats.Mastered
	return stats, nil
}
