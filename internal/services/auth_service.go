package services

import (
	"context"
	"database/sql"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/vytor/vocabflash/internal/auth"
	apperrors "github.com/vytor/vocabflash/internal/errors"
	"github.com/vytor/vocabflash/internal/logger"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/vytor/vocabflash/internal/repository"
)

// Settings bounds.
const (
	MinDailyGoal    = 1
	MaxDailyGoal    = 500
	MinNewWordLimit = 1
	MaxNewWordLimit = 100
)

// TokenIssuer signs and verifies access tokens.
type TokenIssuer interface {
	Issue(userID int64, role string) (string, time.Time, error)
	Parse(token string) (int64, error)
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// SettingsPatch holds the settings fields a request wants to change. Nil
// fields are left as they are.
type SettingsPatch struct {
	DailyGoal            *int           `json:"daily_goal"`
	TargetLevels         []models.Level `json:"target_levels"`
	NewWordLimit         *int           `json:"new_word_limit"`
	NotificationsEnabled *bool          `json:"notifications_enabled"`
}

// AuthService handles accounts and sessions
type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
	CurrentUser(ctx context.Context, userID int64) (*models.User, error)
	UpdateSettings(ctx context.Context, userID int64, patch SettingsPatch) (*models.User, error)
}

type authService struct {
	users  repository.UserRepository
	tokens TokenIssuer
}

// NewAuthService creates a new AuthService
func NewAuthService(users repository.UserRepository, tokens TokenIssuer) AuthService {
	return &authService{users: users, tokens: tokens}
}

func (s *authService) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	log := logger.FromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, apperrors.NewValidationError("email", "must be a valid address")
	}
	if len(password) < auth.MinPasswordLength {
		return nil, apperrors.NewValidationError("password", "must be at least 6 characters")
	}
	if len(password) > auth.MaxPasswordLength {
		return nil, apperrors.NewValidationError("password", "must be at most 72 bytes")
	}
	if name == "" {
		return nil, apperrors.NewValidationError("name", "is required")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password: %v", err)
		return nil, apperrors.NewInternalError(err)
	}

	user := models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         models.RoleUser,
		Settings:     models.DefaultUserSettings(),
	}
	id, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflictError("user", "email is already registered")
		}
		log.Error("failed to create user: %v", err)
		return nil, apperrors.NewStorageError(err)
	}

	created, err := s.CurrentUser(ctx, id)
	if err != nil {
		return nil, err
	}
	log.Info("user registered: id=%d", id)
	return s.session(ctx, created)
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load user: %v", err)
		return nil, apperrors.NewStorageError(err)
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		return nil, apperrors.NewUnauthorizedError("invalid email or password")
	}
	return s.session(ctx, user)
}

func (s *authService) session(ctx context.Context, user *models.User) (*AuthResult, error) {
	token, expires, err := s.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		logger.FromContext(ctx).Error("failed to issue token: %v", err)
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{Token: token, ExpiresAt: expires, User: user}, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.tokens.Parse(token)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid or expired token")
	}
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load user: %v", err)
		return nil, apperrors.NewStorageError(err)
	}
	if user == nil {
		return nil, apperrors.NewUnauthorizedError("user no longer exists")
	}
	return user, nil
}

func (s *authService) CurrentUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load user: %v", err)
		return nil, apperrors.NewStorageError(err)
	}
	if user == nil {
		return nil, apperrors.NewNotFoundError("user", userID)
	}
	return user, nil
}

// ApplySettingsPatch validates patch against current and returns the merged
// settings.
func ApplySettingsPatch(current models.UserSettings, patch SettingsPatch) (models.UserSettings, error) {
	next := current
	if patch.DailyGoal != nil {
		if *patch.DailyGoal < MinDailyGoal || *patch.DailyGoal > MaxDailyGoal {
			return current, apperrors.NewValidationError("daily_goal", "must be between 1 and 500")
		}
		next.DailyGoal = *patch.DailyGoal
	}
	if patch.NewWordLimit != nil {
		if *patch.NewWordLimit < MinNewWordLimit || *patch.NewWordLimit > MaxNewWordLimit {
			return current, apperrors.NewValidationError("new_word_limit", "must be between 1 and 100")
		}
		next.NewWordLimit = *patch.NewWordLimit
	}
	if patch.TargetLevels != nil {
		if len(patch.TargetLevels) == 0 {
			return current, apperrors.NewValidationError("target_levels", "must not be empty")
		}
		levels := make([]models.Level, 0, len(patch.TargetLevels))
		for _, l := range patch.TargetLevels {
			parsed, ok := models.ParseLevel(string(l))
			if !ok {
				return current, apperrors.NewValidationError("target_levels", "unknown level "+string(l))
			}
			levels = append(levels, parsed)
		}
		next.TargetLevels = levels
	}
	if patch.NotificationsEnabled != nil {
		next.NotificationsEnabled = *patch.NotificationsEnabled
	}
	return next, nil
}

func (s *authService) UpdateSettings(ctx context.Context, userID int64, patch SettingsPatch) (*models.User, error) {
	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	settings, err := ApplySettingsPatch(user.Settings, patch)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdateSettings(ctx, userID, settings); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("user", userID)
		}
		logger.FromContext(ctx).Error("failed to update settings: %v", err)
		return nil, apperrors.NewStorageError(err)
	}
	user.Settings = settings
	return user, nil
}
