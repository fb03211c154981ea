package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/vytor/vocabflash/internal/repository"
)

// MockProgressRepository is a mock implementation of repository.ProgressRepository.
//
// ApplyReview runs fn against the Existing record and UserStats fields, the way
// the real implementation does inside its transaction, unless an error is
// configured through On("ApplyReview", ...).
type MockProgressRepository struct {
	mock.Mock

	Existing  *models.ProgressRecord
	UserStats models.UserStats
}

func (m *MockProgressRepository) ApplyReview(ctx context.Context, userID, wordID int64, fn repository.ReviewFunc) (*models.ProgressRecord, error) {
	args := m.Called(ctx, userID, wordID)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	stats := m.UserStats
	rec, err := fn(m.Existing, &stats)
	if err != nil {
		return nil, err
	}
	m.Existing = rec
	m.UserStats = stats
	return rec, nil
}

func (m *MockProgressRepository) Get(ctx context.Context, userID, wordID int64) (*models.ProgressRecord, error) {
	args := m.Called(ctx, userID, wordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProgressRecord), args.Error(1)
}

func (m *MockProgressRepository) Due(ctx context.Context, userID int64, now time.Time, limit int) ([]models.ProgressWithWord, error) {
	args := m.Called(ctx, userID, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProgressWithWord), args.Error(1)
}

func (m *MockProgressRepository) CountDue(ctx context.Context, userID int64, now time.Time) (int, error) {
	args := m.Called(ctx, userID, now)
	return args.Int(0), args.Error(1)
}

func (m *MockProgressRepository) ForPractice(ctx context.Context, userID int64, level models.Level) ([]models.ProgressWithWord, error) {
	args := m.Called(ctx, userID, level)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProgressWithWord), args.Error(1)
}

func (m *MockProgressRepository) CountByStatus(ctx context.Context, userID int64) (models.StatusCounts, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.StatusCounts), args.Error(1)
}

func (m *MockProgressRepository) ResetAll(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProgressRepository) Stats(ctx context.Context, userID int64) (*models.UserStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserStats), args.Error(1)
}
