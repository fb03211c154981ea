package srs

import (
	"time"

	"github.com/vytor/vocabflash/internal/models"
)

// HistoryLimit is how many recent quality ratings a record keeps.
const HistoryLimit = 10

// NewRecord is the state of a (user, word) pair before its first review.
func NewRecord(userID, wordID int64, now time.Time) models.ProgressRecord {
	return models.ProgressRecord{
		UserID:         userID,
		WordID:         wordID,
		IntervalDays:   0,
		EaseFactor:     DefaultEaseFactor,
		Repetitions:    0,
		NextReviewAt:   now,
		Status:         models.StatusNew,
		QualityHistory: models.QualityHistory{},
	}
}

// AppendQuality returns history with q appended, keeping only the newest
// HistoryLimit entries. The input slice is not modified.
func AppendQuality(history models.QualityHistory, q int) models.QualityHistory {
	start := 0
	if len(history)+1 > HistoryLimit {
		start = len(history) + 1 - HistoryLimit
	}
	out := make(models.QualityHistory, 0, HistoryLimit)
	out = append(out, history[start:]...)
	return append(out, q)
}

// ApplyReview runs the scheduler on rec and records the review itself.
func ApplyReview(rec models.ProgressRecord, quality int, now time.Time) models.ProgressRecord {
	res := ComputeNextState(quality, StateOf(rec), now)

	rec.IntervalDays = res.IntervalDays
	rec.EaseFactor = res.EaseFactor
	rec.Repetitions = res.Repetitions
	rec.NextReviewAt = res.NextReviewAt
	rec.Status = res.Status
	rec.QualityHistory = AppendQuality(rec.QualityHistory, quality)
	rec.TimesReviewed++
	reviewedAt := now
	rec.LastReviewedAt = &reviewedAt
	return rec
}
