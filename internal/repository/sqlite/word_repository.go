package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/vytor/vocabflash/internal/logger"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/vytor/vocabflash/internal/repository"
)

var wordColumns = []string{
	"id", "word", "definition", "meaning", "example_sentences", "level",
	"created_by", "created_at", "updated_at",
}

type wordRepository struct {
	db *sqlx.DB
}

// NewWordRepository creates a new WordRepository implementation
func NewWordRepository(db *sqlx.DB) repository.WordRepository {
	return &wordRepository{db: db}
}

func (r *wordRepository) Get(ctx context.Context, id int64) (*models.Word, error) {
	log := logger.FromContext(ctx).WithPrefix("word_repo")
	log.Debug("getting word: id=%d", id)

	query, args, err := sqlBuilder.Select(wordColumns...).From("words").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build word query")
	}

	var w models.Word
	if err := r.db.GetContext(ctx, &w, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("word not found: id=%d", id)
			return nil, nil
		}
		log.Error("failed to get word: %v", err)
		return nil, errors.Wrap(err, "get word")
	}
	return &w, nil
}

func applyWordFilter(query squirrel.SelectBuilder, filter models.WordFilter) squirrel.SelectBuilder {
	if filter.Level != "" {
		query = query.Where(squirrel.Eq{"level": string(filter.Level)})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.Like{"word": pattern},
			squirrel.Like{"definition": pattern},
			squirrel.Like{"meaning": pattern},
		})
	}
	return query
}

func (r *wordRepository) List(ctx context.Context, filter models.WordFilter) ([]models.Word, error) {
	log := logger.FromContext(ctx).WithPrefix("word_repo")
	log.Debug("listing words: level=%s, search=%q, limit=%d, offset=%d", filter.Level, filter.Search, filter.Limit, filter.Offset)

	query := applyWordFilter(sqlBuilder.Select(wordColumns...).From("words"), filter).
		OrderBy("created_at DESC", "id DESC")
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build word list query")
	}

	words := []models.Word{}
	if err := r.db.SelectContext(ctx, &words, sqlStr, args...); err != nil {
		log.Error("failed to list words: %v", err)
		return nil, errors.Wrap(err, "list words")
	}
	log.Debug("found %d words", len(words))
	return words, nil
}

func (r *wordRepository) Count(ctx context.Context, filter models.WordFilter) (int, error) {
	sqlStr, args, err := applyWordFilter(sqlBuilder.Select("COUNT(*)").From("words"), filter).ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "build word count query")
	}
	var count int
	if err := r.db.GetContext(ctx, &count, sqlStr, args...); err != nil {
		logger.FromContext(ctx).WithPrefix("word_repo").Error("failed to count words: %v", err)
		return 0, errors.Wrap(err, "count words")
	}
	return count, nil
}

func (r *wordRepository) insertQuery(w models.Word, onConflictSkip bool) (string, []any, error) {
	now := time.Now().UTC()
	if w.CreatedAt.IsZero() {
		w.CreatedAt = now
	}
	if w.UpdatedAt.IsZero() {
		w.UpdatedAt = w.CreatedAt
	}
	query := sqlBuilder.Insert("words").
		Columns("word", "definition", "meaning", "example_sentences", "level", "created_by", "created_at", "updated_at").
		Values(w.Word, w.Definition, w.Meaning, w.ExampleSentences, string(w.Level), w.CreatedBy, w.CreatedAt.UTC(), w.UpdatedAt.UTC())
	if onConflictSkip {
		query = query.Suffix("ON CONFLICT(word, level) DO NOTHING")
	}
	return query.ToSql()
}

func (r *wordRepository) Insert(ctx context.Context, w models.Word) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("word_repo")
	log.Debug("inserting word: word=%s, level=%s", w.Word, w.Level)

	sqlStr, args, err := r.insertQuery(w, false)
	if err != nil {
		return 0, errors.Wrap(err, "build word insert")
	}
	res, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		if isUniqueViolation(err) {
			log.Debug("duplicate word: word=%s, level=%s", w.Word, w.Level)
			return 0, repository.ErrDuplicate
		}
		log.Error("failed to insert word: %v", err)
		return 0, errors.Wrap(err, "insert word")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "word id")
	}
	log.Debug("word inserted: id=%d", id)
	return id, nil
}

// InsertBatch inserts words in one transaction. Words that already exist
// for their level are skipped and counted, not treated as errors.
func (r *wordRepository) InsertBatch(ctx context.Context, words []models.Word) (models.ImportResult, error) {
	log := logger.FromContext(ctx).WithPrefix("word_repo")
	log.Debug("inserting word batch: count=%d", len(words))

	result := models.ImportResult{Total: len(words)}
	if len(words) == 0 {
		return result, nil
	}

	err := tx(ctx, r.db, func(tx *sqlx.Tx) error {
		for _, w := range words {
			sqlStr, args, err := r.insertQuery(w, true)
			if err != nil {
				return errors.Wrap(err, "build word insert")
			}
			res, err := tx.ExecContext(ctx, sqlStr, args...)
			if err != nil {
				return errors.Wrapf(err, "insert word %q", w.Word)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return errors.Wrap(err, "rows affected")
			}
			if n == 0 {
				result.Skipped++
				continue
			}
			result.Inserted++
		}
		return nil
	})
	if err != nil {
		log.Error("failed to insert word batch: %v", err)
		return models.ImportResult{Total: len(words)}, err
	}
	log.Info("word batch inserted: inserted=%d, skipped=%d", result.Inserted, result.Skipped)
	return result, nil
}

func (r *wordRepository) Update(ctx context.Context, w models.Word) error {
	log := logger.FromContext(ctx).WithPrefix("word_repo")
	log.Debug("updating word: id=%d", w.ID)

	sqlStr, args, err := sqlBuilder.Update("words").
		Set("word", w.Word).
		Set("definition", w.Definition).
		Set("meaning", w.Meaning).
		Set("example_sentences", w.ExampleSentences).
		Set("level", string(w.Level)).
		Set("updated_at", utc(w.UpdatedAt)).
		Where(squirrel.Eq{"id": w.ID}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "build word update")
	}
	res, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		log.Error("failed to update word: %v", err)
		return errors.Wrap(err, "update word")
	}
	return affectedOrNotFound(res)
}

func (r *wordRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("word_repo")
	log.Debug("deleting word: id=%d", id)

	res, err := r.db.ExecContext(ctx, `DELETE FROM words WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete word: %v", err)
		return errors.Wrap(err, "delete word")
	}
	return affectedOrNotFound(res)
}

func (r *wordRepository) All(ctx context.Context) ([]models.Word, error) {
	sqlStr, args, err := sqlBuilder.Select(wordColumns...).From("words").OrderBy("level", "word").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build word export query")
	}
	words := []models.Word{}
	if err := r.db.SelectContext(ctx, &words, sqlStr, args...); err != nil {
		logger.FromContext(ctx).WithPrefix("word_repo").Error("failed to load all words: %v", err)
		return nil, errors.Wrap(err, "all words")
	}
	return words, nil
}

func (r *wordRepository) FindByIDs(ctx context.Context, ids []int64) ([]models.Word, error) {
	if len(ids) == 0 {
		return []models.Word{}, nil
	}
	sqlStr, args, err := sqlBuilder.Select(wordColumns...).From("words").Where(squirrel.Eq{"id": ids}).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build find words query")
	}
	words := []models.Word{}
	if err := r.db.SelectContext(ctx, &words, sqlStr, args...); err != nil {
		logger.FromContext(ctx).WithPrefix("word_repo").Error("failed to find words by id: %v", err)
		return nil, errors.Wrap(err, "find words by id")
	}
	return words, nil
}

func (r *wordRepository) UnseenIDs(ctx context.Context, userID int64, levels []models.Level) ([]int64, error) {
	log := logger.FromContext(ctx).WithPrefix("word_repo")
	log.Debug("finding unseen words: user_id=%d, levels=%v", userID, levels)

	query := sqlBuilder.Select("w.id").From("words w").
		Where("NOT EXISTS (SELECT 1 FROM user_progress p WHERE p.word_id = w.id AND p.user_id = ?)", userID)
	if len(levels) > 0 {
		tags := make([]string, len(levels))
		for i, l := range levels {
			tags[i] = string(l)
		}
		query = query.Where(squirrel.Eq{"w.level": tags})
	}
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build unseen words query")
	}

	ids := []int64{}
	if err := r.db.SelectContext(ctx, &ids, sqlStr, args...); err != nil {
		log.Error("failed to find unseen words: %v", err)
		return nil, errors.Wrap(err, "unseen words")
	}
	log.Debug("found %d unseen words", len(ids))
	return ids, nil
}
