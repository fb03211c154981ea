package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/vocabflash/internal/importer"
	"github.com/vytor/vocabflash/internal/jobs"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueWordImport(ctx context.Context, data []byte, format importer.Format, createdBy *int64) (string, error) {
	args := m.Called(ctx, data, format, createdBy)
	return args.String(0), args.Error(1)
}

func (m *MockJobQueue) Status(id string) (*jobs.JobStatus, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jobs.JobStatus), args.Error(1)
}
