package repository

import (
	"context"
	"errors"
	"time"

	"github.com/vytor/vocabflash/internal/models"
)

// ErrDuplicate is returned when an insert violates a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate record")

// ReviewFunc computes the updated record for a review. existing is nil when
// the pair has no record yet; stats may be modified in place.
type ReviewFunc func(existing *models.ProgressRecord, stats *models.UserStats) (*models.ProgressRecord, error)

// WordRepository handles word content access
type WordRepository interface {
	Get(ctx context.Context, id int64) (*models.Word, error)
	List(ctx context.Context, filter models.WordFilter) ([]models.Word, error)
	Count(ctx context.Context, filter models.WordFilter) (int, error)
	Insert(ctx context.Context, word models.Word) (int64, error)
	InsertBatch(ctx context.Context, words []models.Word) (models.ImportResult, error)
	Update(ctx context.Context, word models.Word) error
	Delete(ctx context.Context, id int64) error
	All(ctx context.Context) ([]models.Word, error)
	FindByIDs(ctx context.Context, ids []int64) ([]models.Word, error)
	// UnseenIDs returns the ids of words in levels the user has no progress
	// record for. Order is unspecified.
	UnseenIDs(ctx context.Context, userID int64, levels []models.Level) ([]int64, error)
}

// UserRepository handles account data access
type UserRepository interface {
	Create(ctx context.Context, user models.User) (int64, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateSettings(ctx context.Context, id int64, settings models.UserSettings) error
}

// ProgressRepository handles learner progress access
type ProgressRepository interface {
	// ApplyReview loads the (user, word) record and the user's stats, calls
	// fn, and persists both results in a single transaction.
	ApplyReview(ctx context.Context, userID, wordID int64, fn ReviewFunc) (*models.ProgressRecord, error)
	Get(ctx context.Context, userID, wordID int64) (*models.ProgressRecord, error)
	Due(ctx context.Context, userID int64, now time.Time, limit int) ([]models.ProgressWithWord, error)
	CountDue(ctx context.Context, userID int64, now time.Time) (int, error)
	// ForPractice returns every record of the user joined with its word,
	// restricted to level when it is not empty.
	ForPractice(ctx context.Context, userID int64, level models.Level) ([]models.ProgressWithWord, error)
	CountByStatus(ctx context.Context, userID int64) (models.StatusCounts, error)
	// ResetAll deletes every record of the user and zeroes the user's stats.
	ResetAll(ctx context.Context, userID int64) (int64, error)
	Stats(ctx context.Context, userID int64) (*models.UserStats, error)
}
