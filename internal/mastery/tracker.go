// Package mastery tracks per-skill proficiency as bounded points mapped to
// discrete levels.
package mastery

import (
	"math"
	"time"

	"github.com/abhisek/practiz/internal/errs"
)

// Result is the outcome of applying one answer.
type Result struct {
	Record Record
	// PointChange is the realized delta after clamping.
	PointChange int
}

// Update applies one answer at the given item difficulty to the prior record.
// The prior record is not modified.
func Update(prior Record, correct bool, difficulty int, now time.Time, p Params) (Result, error) {
	if err := prior.Validate(); err != nil {
		return Result{}, err
	}
	if difficulty < MinDifficulty || difficulty > MaxDifficulty {
		return Result{}, errs.Invariant("difficulty %d out of range [%d, %d]", difficulty, MinDifficulty, MaxDifficulty)
	}

	raw := rawPointChange(prior, correct, difficulty, p)
	points := clamp(prior.Points+raw, MinPoints, MaxPoints)

	next := prior
	next.Points = points
	next.Level = LevelFor(points)
	next.TotalQuestions++
	if correct {
		next.CorrectAnswers++
		next.CurrentStreak++
	} else {
		next.CurrentStreak = 0
	}
	t := now
	next.LastPracticedAt = &t

	return Result{Record: next, PointChange: points - prior.Points}, nil
}

func rawPointChange(prior Record, correct bool, difficulty int, p Params) int {
	base := p.IncorrectPoints
	bonus := 0.0
	penalty := 1.0
	if correct {
		base = p.CorrectPoints
		bonus = p.StreakBonus(prior.CurrentStreak)
		penalty = p.LevelPenalty(prior.Points)
	}
	return int(math.Round((base*p.DifficultyMultiplier(difficulty) + bonus) * penalty))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
