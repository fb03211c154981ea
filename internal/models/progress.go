package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// Status is the mastery stage of a word for one learner. It is derived from
// repetitions and interval, never set directly.
type Status string

const (
	StatusNew      Status = "new"
	StatusLearning Status = "learning"
	StatusReview   Status = "review"
	StatusMastered Status = "mastered"
)

// AllStatuses in learning order.
var AllStatuses = []Status{StatusNew, StatusLearning, StatusReview, StatusMastered}

// QualityHistory holds the most recent recall ratings, oldest first.
type QualityHistory []int

func (q QualityHistory) Value() (driver.Value, error) {
	if q == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]int(q))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (q *QualityHistory) Scan(src any) error {
	return scanJSON(src, (*[]int)(q))
}

// ProgressRecord is the scheduling state of one (user, word) pair.
type ProgressRecord struct {
	ID             int64          `json:"id" db:"id"`
	UserID         int64          `json:"user_id" db:"user_id"`
	WordID         int64          `json:"word_id" db:"word_id"`
	IntervalDays   int            `json:"interval" db:"interval_days"`
	EaseFactor     float64        `json:"ease_factor" db:"ease_factor"`
	Repetitions    int            `json:"repetitions" db:"repetitions"`
	NextReviewAt   time.Time      `json:"next_review_at" db:"next_review_at"`
	Status         Status         `json:"status" db:"status"`
	QualityHistory QualityHistory `json:"quality_history" db:"quality_history"`
	TimesReviewed  int            `json:"times_reviewed" db:"times_reviewed"`
	LastReviewedAt *time.Time     `json:"last_reviewed,omitempty" db:"last_reviewed_at"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
}

// IsDue reports whether the record should be reviewed at now.
func (p ProgressRecord) IsDue(now time.Time) bool {
	return !now.Before(p.NextReviewAt)
}

// ProgressWithWord is a progress record composed with its word at query time.
type ProgressWithWord struct {
	ProgressRecord
	Word Word `json:"word" db:"word"`
}

// StatusCounts maps each status to the number of records in it.
type StatusCounts map[Status]int

// ProgressStats is the learner dashboard summary.
type ProgressStats struct {
	TotalWords int       `json:"total_words"`
	New        int       `json:"new"`
	Learning   int       `json:"learning"`
	Review     int       `json:"review"`
	Mastered   int       `json:"mastered"`
	DueToday   int       `json:"due_today"`
	UserStats  UserStats `json:"user_stats"`
}
