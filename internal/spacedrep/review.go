package spacedrep

import (
	"time"

	"github.com/abhisek/practiz/internal/errs"
)

// ReviewRecord holds the spaced repetition state of one item for one learner.
type ReviewRecord struct {
	EaseFactor      float64   `json:"ease_factor"`
	IntervalDays    int       `json:"interval_days"`
	Repetitions     int       `json:"repetitions"`
	NextReviewAt    time.Time `json:"next_review_at"`
	LastReviewedAt  time.Time `json:"last_reviewed_at"`
	TotalAttempts   int       `json:"total_attempts"`
	CorrectAttempts int       `json:"correct_attempts"`
}

// NewRecord returns the default record for a never-seen item.
func NewRecord() ReviewRecord {
	return ReviewRecord{
		EaseFactor:   DefaultEaseFactor,
		IntervalDays: FirstIntervalDays,
	}
}

// Validate checks the record invariants.
func (r ReviewRecord) Validate() error {
	if r.EaseFactor < MinEaseFactor {
		return errs.Invariant("ease factor %.2f below %.1f", r.EaseFactor, MinEaseFactor)
	}
	if r.IntervalDays < 0 || r.IntervalDays > MaxIntervalDays {
		return errs.Invariant("interval %d out of range [0, %d]", r.IntervalDays, MaxIntervalDays)
	}
	if r.TotalAttempts > 0 && r.IntervalDays < 1 {
		return errs.Invariant("interval %d after %d attempts", r.IntervalDays, r.TotalAttempts)
	}
	if r.Repetitions < 0 {
		return errs.Invariant("negative repetitions %d", r.Repetitions)
	}
	if r.CorrectAttempts < 0 || r.CorrectAttempts > r.TotalAttempts {
		return errs.Invariant("correct attempts %d out of range [0, %d]", r.CorrectAttempts, r.TotalAttempts)
	}
	return nil
}

// Seen reports whether the item has been attempted at least once.
func (r ReviewRecord) Seen() bool {
	return r.TotalAttempts > 0
}

// DaysOverdue returns the days elapsed since the last review minus the
// interval. Negative values mean the item is not yet due.
func (r ReviewRecord) DaysOverdue(now time.Time) float64 {
	return now.Sub(r.LastReviewedAt).Hours()/Day.Hours() - float64(r.IntervalDays)
}
