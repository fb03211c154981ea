package srs

import (
	"time"

	"github.com/vytor/vocabflash/internal/models"
)

// StudyDay truncates t to midnight in t's location.
func StudyDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AdvanceStreak updates streak counters for a study session at now.
// LastStudyDate is read as a calendar date in now's location.
func AdvanceStreak(stats models.UserStats, now time.Time) models.UserStats {
	today := StudyDay(now)
	yesterday := today.AddDate(0, 0, -1)

	var last *time.Time
	if stats.LastStudyDate != nil {
		y, m, d := stats.LastStudyDate.Date()
		t := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
		last = &t
	}

	switch {
	case last == nil || last.Before(yesterday):
		stats.CurrentStreak = 1
	case last.Equal(yesterday):
		stats.CurrentStreak++
	}
	// Already studied today: streak unchanged.

	if stats.CurrentStreak > stats.LongestStreak {
		stats.LongestStreak = stats.CurrentStreak
	}
	stats.LastStudyDate = &today
	return stats
}

// CountsAsLearned reports whether a review credits totalWordsLearned. Only a
// record that reaches mastered on its very first review counts. Mastery needs
// three successful repetitions, so this never fires under the SM-2 rules.
func CountsAsLearned(rec models.ProgressRecord) bool {
	return rec.Status == models.StatusMastered && rec.TimesReviewed == 1
}

// RecordStudy applies the per-review UserStats side effects for rec, which
// must already reflect the review.
func RecordStudy(stats models.UserStats, rec models.ProgressRecord, now time.Time) models.UserStats {
	stats = AdvanceStreak(stats, now)
	if CountsAsLearned(rec) {
		stats.TotalWordsLearned++
	}
	return stats
}
