// Package srs implements SM-2 review scheduling and the learner bookkeeping
// that depends on review outcomes. Every function is pure: the current time
// is always passed in.
package srs

import (
	"errors"
	"math"
	"time"

	"github.com/vytor/vocabflash/internal/models"
)

const (
	MinQuality = 0
	MaxQuality = 5
	// PassingQuality is the lowest rating counted as a successful recall.
	PassingQuality = 3

	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3

	// A word is mastered once it has this many consecutive successes and an
	// interval of at least MasteryIntervalDays.
	MasteryRepetitions  = 3
	MasteryIntervalDays = 21
)

// ErrInvalidQuality is returned for ratings outside [MinQuality, MaxQuality].
var ErrInvalidQuality = errors.New("quality out of range")

// ValidateQuality must be called before ComputeNextState.
func ValidateQuality(quality int) error {
	if quality < MinQuality || quality > MaxQuality {
		return ErrInvalidQuality
	}
	return nil
}

// State is the part of a progress record the scheduler reads.
type State struct {
	IntervalDays int
	EaseFactor   float64
	Repetitions  int
}

// StateOf extracts the scheduler inputs from a stored record.
func StateOf(p models.ProgressRecord) State {
	return State{
		IntervalDays: p.IntervalDays,
		EaseFactor:   p.EaseFactor,
		Repetitions:  p.Repetitions,
	}
}

// Result is the scheduler output for one review.
type Result struct {
	IntervalDays int
	EaseFactor   float64
	Repetitions  int
	NextReviewAt time.Time
	Status       models.Status
}

// ComputeNextState applies one SM-2 review with the given quality to prior.
// quality must already be validated. A zero ease factor is treated as a
// fresh record.
func ComputeNextState(quality int, prior State, now time.Time) Result {
	ef := prior.EaseFactor
	if ef == 0 {
		ef = DefaultEaseFactor
	}
	ef = NextEaseFactor(ef, quality)

	reps := prior.Repetitions
	interval := prior.IntervalDays
	if quality < PassingQuality {
		reps = 0
		interval = 1
	} else {
		reps++
		switch reps {
		case 1:
			interval = 1
		case 2:
			interval = 6
		default:
			interval = int(math.Round(float64(prior.IntervalDays) * ef))
		}
	}

	return Result{
		IntervalDays: interval,
		EaseFactor:   ef,
		Repetitions:  reps,
		NextReviewAt: now.AddDate(0, 0, interval),
		Status:       DeriveStatus(reps, interval),
	}
}

// NextEaseFactor is the SM-2 ease update, floored at MinEaseFactor.
func NextEaseFactor(ef float64, quality int) float64 {
	miss := float64(MaxQuality - quality)
	ef += 0.1 - miss*(0.08+miss*0.02)
	if ef < MinEaseFactor {
		ef = MinEaseFactor
	}
	return ef
}

// DeriveStatus classifies a record by its repetitions and interval.
func DeriveStatus(repetitions, intervalDays int) models.Status {
	switch {
	case repetitions == 0:
		return models.StatusNew
	case repetitions < MasteryRepetitions:
		return models.StatusLearning
	case intervalDays >= MasteryIntervalDays:
		return models.StatusMastered
	default:
		return models.StatusReview
	}
}
