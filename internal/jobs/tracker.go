package jobs

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/vocabflash/internal/models"
)

type State string

const (
	StateQueued  State = "queued"
	StateRunning State = "running"
	StateDone    State = "done"
	StateFailed  State = "failed"
)

// JobStatus is a snapshot of one tracked job.
type JobStatus struct {
	ID         string               `json:"id"`
	Kind       string               `json:"kind"`
	State      State                `json:"state"`
	Result     *models.ImportResult `json:"result,omitempty"`
	Error      string               `json:"error,omitempty"`
	CreatedAt  time.Time            `json:"created_at"`
	StartedAt  *time.Time           `json:"started_at,omitempty"`
	FinishedAt *time.Time           `json:"finished_at,omitempty"`
}

// DefaultTrackerCapacity bounds how many finished jobs are remembered.
const DefaultTrackerCapacity = 256

// Tracker keeps job status in memory. Once more than capacity jobs are
// known, the oldest finished ones are forgotten.
type Tracker struct {
	mu       sync.RWMutex
	jobs     map[string]*JobStatus
	capacity int
	now      func() time.Time
}

func NewTracker(capacity int) *Tracker {
	if capacity <= 0 {
		capacity = DefaultTrackerCapacity
	}
	return &Tracker{
		jobs:     make(map[string]*JobStatus),
		capacity: capacity,
		now:      time.Now,
	}
}

// Create registers a new queued job and returns its id.
func (t *Tracker) Create(kind string) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := uuid.NewString()
	t.jobs[id] = &JobStatus{
		ID:        id,
		Kind:      kind,
		State:     StateQueued,
		CreatedAt: t.now().UTC(),
	}
	t.evictLocked()
	return id
}

func (t *Tracker) MarkRunning(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if job, ok := t.jobs[id]; ok {
		started := t.now().UTC()
		job.State = StateRunning
		job.StartedAt = &started
	}
}

func (t *Tracker) MarkFinished(id string, result *models.ImportResult, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	job, ok := t.jobs[id]
	if !ok {
		return
	}
	finished := t.now().UTC()
	job.FinishedAt = &finished
	job.Result = result
	if err != nil {
		job.State = StateFailed
		job.Error = err.Error()
		return
	}
	job.State = StateDone
}

// Remove forgets a job, used when it never made it onto the queue.
func (t *Tracker) Remove(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.jobs, id)
}

// Get returns a copy of the job status.
func (t *Tracker) Get(id string) (*JobStatus, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	job, ok := t.jobs[id]
	if !ok {
		return nil, false
	}
	cp := *job
	return &cp, true
}

func (t *Tracker) evictLocked() {
	if len(t.jobs) <= t.capacity {
		return
	}
	finished := make([]*JobStatus, 0, len(t.jobs))
	for _, job := range t.jobs {
		if job.FinishedAt != nil {
			finished = append(finished, job)
		}
	}
	sort.Slice(finished, func(i, j int) bool {
		return finished[i].FinishedAt.Before(*finished[j].FinishedAt)
	})
	for _, job := range finished {
		if len(t.jobs) <= t.capacity {
			return
		}
		delete(t.jobs, job.ID)
	}
}
