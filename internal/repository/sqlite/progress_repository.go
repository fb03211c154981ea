package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/vytor/vocabflash/internal/logger"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/vytor/vocabflash/internal/repository"
)

var progressColumns = []string{
	"id", "user_id", "word_id", "interval_days", "ease_factor", "repetitions",
	"next_review_at", "status", "quality_history", "times_reviewed", "last_reviewed_at",
	"created_at", "updated_at",
}

// progressWithWordColumns selects p.* and w.* with w columns aliased under
// the "word." prefix sqlx maps onto ProgressWithWord.Word.
var progressWithWordColumns = func() []string {
	cols := make([]string, 0, len(progressColumns)+len(wordColumns))
	for _, c := range progressColumns {
		cols = append(cols, "p."+c)
	}
	for _, c := range wordColumns {
		cols = append(cols, fmt.Sprintf(`w.%s AS "word.%s"`, c, c))
	}
	return cols
}()

type statsRow struct {
	TotalWordsLearned int            `db:"total_words_learned"`
	CurrentStreak     int            `db:"current_streak"`
	LongestStreak     int            `db:"longest_streak"`
	LastStudyDate     sql.NullString `db:"last_study_date"`
}

type progressRepository struct {
	db *sqlx.DB
}

// NewProgressRepository creates a new ProgressRepository implementation
func NewProgressRepository(db *sqlx.DB) repository.ProgressRepository {
	return &progressRepository{db: db}
}

func loadStats(ctx context.Context, q sqlx.QueryerContext, userID int64) (*models.UserStats, error) {
	var row statsRow
	err := sqlx.GetContext(ctx, q, &row, `
SELECT total_words_learned, current_streak, longest_streak, last_study_date
FROM users
WHERE id = ?
`, userID)
	if err != nil {
		return nil, err
	}
	last, err := parseStudyDate(row.LastStudyDate)
	if err != nil {
		return nil, err
	}
	return &models.UserStats{
		TotalWordsLearned: row.TotalWordsLearned,
		CurrentStreak:     row.CurrentStreak,
		LongestStreak:     row.LongestStreak,
		LastStudyDate:     last,
	}, nil
}

func (r *progressRepository) ApplyReview(ctx context.Context, userID, wordID int64, fn repository.ReviewFunc) (*models.ProgressRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("applying review: user_id=%d, word_id=%d", userID, wordID)

	var saved *models.ProgressRecord
	err := tx(ctx, r.db, func(tx *sqlx.Tx) error {
		sqlStr, args, err := sqlBuilder.Select(progressColumns...).From("user_progress").
			Where(squirrel.Eq{"user_id": userID, "word_id": wordID}).ToSql()
		if err != nil {
			return errors.Wrap(err, "build progress query")
		}

		var existing *models.ProgressRecord
		var rec models.ProgressRecord
		switch err := tx.GetContext(ctx, &rec, sqlStr, args...); {
		case errors.Is(err, sql.ErrNoRows):
		case err != nil:
			return errors.Wrap(err, "load progress")
		default:
			existing = &rec
		}

		stats, err := loadStats(ctx, tx, userID)
		if err != nil {
			return errors.Wrap(err, "load user stats")
		}

		updated, err := fn(existing, stats)
		if err != nil {
			return err
		}
		updated.UserID = userID
		updated.WordID = wordID
		if existing != nil {
			updated.CreatedAt = existing.CreatedAt
		}
		updated.CreatedAt = utc(updated.CreatedAt)
		updated.UpdatedAt = utc(updated.UpdatedAt)

		upsert, args, err := sqlBuilder.Insert("user_progress").
			Columns("user_id", "word_id", "interval_days", "ease_factor", "repetitions",
				"next_review_at", "status", "quality_history", "times_reviewed", "last_reviewed_at",
				"created_at", "updated_at").
			Values(userID, wordID, updated.IntervalDays, updated.EaseFactor, updated.Repetitions,
				updated.NextReviewAt.UTC(), string(updated.Status), updated.QualityHistory, updated.TimesReviewed, utcPtr(updated.LastReviewedAt),
				updated.CreatedAt, updated.UpdatedAt).
			Suffix(`ON CONFLICT(user_id, word_id) DO UPDATE SET
    interval_days = excluded.interval_days,
    ease_factor = excluded.ease_factor,
    repetitions = excluded.repetitions,
    next_review_at = excluded.next_review_at,
    status = excluded.status,
    quality_history = excluded.quality_history,
    times_reviewed = excluded.times_reviewed,
    last_reviewed_at = excluded.last_reviewed_at,
    updated_at = excluded.updated_at
RETURNING id`).
			ToSql()
		if err != nil {
			return errors.Wrap(err, "build progress upsert")
		}
		if err := tx.QueryRowxContext(ctx, upsert, args...).Scan(&updated.ID); err != nil {
			return errors.Wrap(err, "upsert progress")
		}

		res, err := tx.ExecContext(ctx, `
UPDATE users
SET total_words_learned = ?, current_streak = ?, longest_streak = ?, last_study_date = ?, updated_at = ?
WHERE id = ?
`, stats.TotalWordsLearned, stats.CurrentStreak, stats.LongestStreak, formatStudyDate(stats.LastStudyDate), updated.UpdatedAt, userID)
		if err != nil {
			return errors.Wrap(err, "update user stats")
		}
		if err := affectedOrNotFound(res); err != nil {
			return err
		}

		saved = updated
		return nil
	})
	if err != nil {
		log.Error("failed to apply review: %v", err)
		return nil, err
	}
	log.Debug("review applied: id=%d, interval=%d, ease=%.2f, status=%s", saved.ID, saved.IntervalDays, saved.EaseFactor, saved.Status)
	return saved, nil
}

func (r *progressRepository) Get(ctx context.Context, userID, wordID int64) (*models.ProgressRecord, error) {
	sqlStr, args, err := sqlBuilder.Select(progressColumns...).From("user_progress").
		Where(squirrel.Eq{"user_id": userID, "word_id": wordID}).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build progress query")
	}
	var rec models.ProgressRecord
	if err := r.db.GetContext(ctx, &rec, sqlStr, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.FromContext(ctx).WithPrefix("progress_repo").Error("failed to get progress: %v", err)
		return nil, errors.Wrap(err, "get progress")
	}
	return &rec, nil
}

func (r *progressRepository) Due(ctx context.Context, userID int64, now time.Time, limit int) ([]models.ProgressWithWord, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("fetching due words: user_id=%d, limit=%d", userID, limit)

	query := sqlBuilder.Select(progressWithWordColumns...).
		From("user_progress p").
		Join("words w ON w.id = p.word_id").
		Where(squirrel.Eq{"p.user_id": userID}).
		Where(squirrel.LtOrEq{"p.next_review_at": now.UTC()}).
		OrderBy("p.next_review_at ASC", "p.id ASC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build due query")
	}

	due := []models.ProgressWithWord{}
	if err := r.db.SelectContext(ctx, &due, sqlStr, args...); err != nil {
		log.Error("failed to query due words: %v", err)
		return nil, errors.Wrap(err, "due words")
	}
	log.Debug("found %d due words", len(due))
	return due, nil
}

func (r *progressRepository) CountDue(ctx context.Context, userID int64, now time.Time) (int, error) {
	sqlStr, args, err := sqlBuilder.Select("COUNT(*)").From("user_progress").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.LtOrEq{"next_review_at": now.UTC()}).
		ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "build due count query")
	}
	var count int
	if err := r.db.GetContext(ctx, &count, sqlStr, args...); err != nil {
		return 0, errors.Wrap(err, "count due")
	}
	return count, nil
}

func (r *progressRepository) ForPractice(ctx context.Context, userID int64, level models.Level) ([]models.ProgressWithWord, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("fetching practice candidates: user_id=%d, level=%s", userID, level)

	query := sqlBuilder.Select(progressWithWordColumns...).
		From("user_progress p").
		Join("words w ON w.id = p.word_id").
		Where(squirrel.Eq{"p.user_id": userID}).
		OrderBy("p.id")
	if level != "" {
		query = query.Where(squirrel.Eq{"w.level": string(level)})
	}
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build practice query")
	}

	out := []models.ProgressWithWord{}
	if err := r.db.SelectContext(ctx, &out, sqlStr, args...); err != nil {
		log.Error("failed to query practice candidates: %v", err)
		return nil, errors.Wrap(err, "practice candidates")
	}
	return out, nil
}

func (r *progressRepository) CountByStatus(ctx context.Context, userID int64) (models.StatusCounts, error) {
	rows := []struct {
		Status string `db:"status"`
		Count  int    `db:"n"`
	}{}
	err := r.db.SelectContext(ctx, &rows, `
SELECT status, COUNT(*) AS n
FROM user_progress
WHERE user_id = ?
GROUP BY status
`, userID)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("progress_repo").Error("failed to count by status: %v", err)
		return nil, errors.Wrap(err, "count by status")
	}

	counts := models.StatusCounts{}
	for _, s := range models.AllStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[models.Status(row.Status)] = row.Count
	}
	return counts, nil
}

func (r *progressRepository) ResetAll(ctx context.Context, userID int64) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Info("resetting progress: user_id=%d", userID)

	var deleted int64
	err := tx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM user_progress WHERE user_id = ?`, userID)
		if err != nil {
			return errors.Wrap(err, "delete progress")
		}
		if deleted, err = res.RowsAffected(); err != nil {
			return errors.Wrap(err, "rows affected")
		}
		_, err = tx.ExecContext(ctx, `
UPDATE users
SET total_words_learned = 0, current_streak = 0, longest_streak = 0, last_study_date = NULL, updated_at = ?
WHERE id = ?
`, time.Now().UTC(), userID)
		return errors.Wrap(err, "reset user stats")
	})
	if err != nil {
		log.Error("failed to reset progress: %v", err)
		return 0, err
	}
	log.Info("progress reset: user_id=%d, deleted=%d", userID, deleted)
	return deleted, nil
}

func (r *progressRepository) Stats(ctx context.Context, userID int64) (*models.UserStats, error) {
	stats, err := loadStats(ctx, r.db, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "user stats")
	}
	return stats, nil
}
