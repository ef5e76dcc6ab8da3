// Package spacedrep implements the per-item SM-2 style review schedule.
package spacedrep

import (
	"math"
	"time"
)

// Update applies one answer to the prior record and returns the new record.
// The prior record is not modified. An error is returned only when prior
// breaks a record invariant.
func Update(prior ReviewRecord, correct bool, now time.Time) (ReviewRecord, error) {
	if err := prior.Validate(); err != nil {
		return ReviewRecord{}, err
	}

	next := prior
	next.LastReviewedAt = now
	next.TotalAttempts++

	if correct {
		next.CorrectAttempts++
		next.Repetitions++
		switch next.Repetitions {
		case 1:
			next.IntervalDays = FirstIntervalDays
		case 2:
			next.IntervalDays = SecondIntervalDays
		default:
			next.IntervalDays = int(math.Min(math.Round(float64(prior.IntervalDays)*prior.EaseFactor), MaxIntervalDays))
		}
		next.EaseFactor = math.Max(MinEaseFactor, prior.EaseFactor+EaseBonus)
	} else {
		next.Repetitions = 0
		next.IntervalDays = LapseIntervalDays
		next.EaseFactor = math.Max(MinEaseFactor, prior.EaseFactor-EasePenalty)
	}

	next.NextReviewAt = now.Add(time.Duration(next.IntervalDays) * Day)
	if err := next.Validate(); err != nil {
		return ReviewRecord{}, err
	}
	return next, nil
}
