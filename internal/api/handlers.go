package api

import (
	"context"
	"time"

	"github.com/vytor/vocabflash/internal/jobs"
	"github.com/vytor/vocabflash/internal/services"
)

// Pinger reports database reachability for the readiness probe.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	WordService     services.WordService
	ProgressService services.ProgressService
	AuthService     services.AuthService
	JobQueue        jobs.JobQueue
	DB              Pinger

	// RateLimitRequests requests are allowed per client IP every
	// RateLimitWindow on /api routes. Zero disables limiting.
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// TrustProxy takes the client address from X-Forwarded-For or
	// X-Real-IP. Only enable it behind a proxy that overwrites them.
	TrustProxy bool
}

// maxUploadBytes caps word file uploads and JSON bodies.
const maxUploadBytes = 10 << 20
