package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/vytor/vocabflash/internal/logger"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/vytor/vocabflash/internal/repository"
)

var userColumns = []string{
	"id", "email", "password_hash", "name", "role",
	"daily_goal", "target_levels", "new_word_limit", "notifications_enabled",
	"total_words_learned", "current_streak", "longest_streak", "last_study_date",
	"created_at", "updated_at",
}

// userRow is the flat users table shape; settings and stats are embedded
// columns.
type userRow struct {
	ID                   int64             `db:"id"`
	Email                string            `db:"email"`
	PasswordHash         string            `db:"password_hash"`
	Name                 string            `db:"name"`
	Role                 string            `db:"role"`
	DailyGoal            int               `db:"daily_goal"`
	TargetLevels         models.StringList `db:"target_levels"`
	NewWordLimit         int               `db:"new_word_limit"`
	NotificationsEnabled bool              `db:"notifications_enabled"`
	TotalWordsLearned    int               `db:"total_words_learned"`
	CurrentStreak        int               `db:"current_streak"`
	LongestStreak        int               `db:"longest_streak"`
	LastStudyDate        sql.NullString    `db:"last_study_date"`
	CreatedAt            time.Time         `db:"created_at"`
	UpdatedAt            time.Time         `db:"updated_at"`
}

func (row userRow) toModel() (*models.User, error) {
	last, err := parseStudyDate(row.LastStudyDate)
	if err != nil {
		return nil, err
	}
	return &models.User{
		ID:           row.ID,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		Name:         row.Name,
		Role:         models.Role(row.Role),
		Settings: models.UserSettings{
			DailyGoal:            row.DailyGoal,
			TargetLevels:         levelsOf(row.TargetLevels),
			NewWordLimit:         row.NewWordLimit,
			NotificationsEnabled: row.NotificationsEnabled,
		},
		Stats: models.UserStats{
			TotalWordsLearned: row.TotalWordsLearned,
			CurrentStreak:     row.CurrentStreak,
			LongestStreak:     row.LongestStreak,
			LastStudyDate:     last,
		},
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func levelsOf(tags models.StringList) []models.Level {
	levels := make([]models.Level, 0, len(tags))
	for _, t := range tags {
		levels = append(levels, models.Level(t))
	}
	return levels
}

func tagsOf(levels []models.Level) models.StringList {
	tags := make(models.StringList, 0, len(levels))
	for _, l := range levels {
		tags = append(tags, string(l))
	}
	return tags
}

type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository implementation
func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u models.User) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("creating user: email=%s", u.Email)

	created := utc(u.CreatedAt)
	role := u.Role
	if role == "" {
		role = models.RoleUser
	}
	sqlStr, args, err := sqlBuilder.Insert("users").
		Columns("email", "password_hash", "name", "role",
			"daily_goal", "target_levels", "new_word_limit", "notifications_enabled",
			"created_at", "updated_at").
		Values(strings.ToLower(u.Email), u.PasswordHash, u.Name, string(role),
			u.Settings.DailyGoal, tagsOf(u.Settings.TargetLevels), u.Settings.NewWordLimit, u.Settings.NotificationsEnabled,
			created, created).
		ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "build user insert")
	}

	res, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		if isUniqueViolation(err) {
			log.Debug("email already registered: %s", u.Email)
			return 0, repository.ErrDuplicate
		}
		log.Error("failed to create user: %v", err)
		return 0, errors.Wrap(err, "create user")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "user id")
	}
	log.Info("user created: id=%d", id)
	return id, nil
}

func (r *userRepository) getBy(ctx context.Context, where squirrel.Eq) (*models.User, error) {
	sqlStr, args, err := sqlBuilder.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build user query")
	}
	var row userRow
	if err := r.db.GetContext(ctx, &row, sqlStr, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.FromContext(ctx).WithPrefix("user_repo").Error("failed to get user: %v", err)
		return nil, errors.Wrap(err, "get user")
	}
	return row.toModel()
}

func (r *userRepository) Get(ctx context.Context, id int64) (*models.User, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, squirrel.Eq{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (r *userRepository) UpdateSettings(ctx context.Context, id int64, s models.UserSettings) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("updating settings: user_id=%d, daily_goal=%d, new_word_limit=%d", id, s.DailyGoal, s.NewWordLimit)

	sqlStr, args, err := sqlBuilder.Update("users").
		Set("daily_goal", s.DailyGoal).
		Set("target_levels", tagsOf(s.TargetLevels)).
		Set("new_word_limit", s.NewWordLimit).
		Set("notifications_enabled", s.NotificationsEnabled).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "build settings update")
	}
	res, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to update settings: %v", err)
		return errors.Wrap(err, "update settings")
	}
	return affectedOrNotFound(res)
}
