package mastery

import (
	"time"

	"github.com/abhisek/practiz/internal/errs"
)

// Record holds mastery data for one skill of one learner.
type Record struct {
	Skill           string     `json:"skill"`
	Category        string     `json:"category"`
	Domain          string     `json:"domain"`
	Points          int        `json:"mastery_points"`
	Level           Level      `json:"mastery_level"`
	TotalQuestions  int        `json:"total_questions"`
	CorrectAnswers  int        `json:"correct_answers"`
	CurrentStreak   int        `json:"current_streak"`
	LastPracticedAt *time.Time `json:"last_practiced_at,omitempty"`
}

// NewRecord returns the record for a skill the learner has never attempted.
func NewRecord(skill, category, domain string) Record {
	return Record{
		Skill:    skill,
		Category: category,
		Domain:   domain,
		Level:    LevelNovice,
	}
}

// Accuracy returns the lifetime correct ratio.
func (r Record) Accuracy() float64 {
	if r.TotalQuestions == 0 {
		return 0
	}
	return float64(r.CorrectAnswers) / float64(r.TotalQuestions)
}

// Validate checks the record invariants.
func (r Record) Validate() error {
	if r.Points < MinPoints || r.Points > MaxPoints {
		return errs.Invariant("mastery points %d out of range [%d, %d]", r.Points, MinPoints, MaxPoints)
	}
	if r.Level != LevelFor(r.Points) {
		return errs.Invariant("level %q inconsistent with %d points", r.Level, r.Points)
	}
	if r.CorrectAnswers < 0 || r.CorrectAnswers > r.TotalQuestions {
		return errs.Invariant("correct answers %d out of range [0, %d]", r.CorrectAnswers, r.TotalQuestions)
	}
	if r.CurrentStreak < 0 {
		return errs.Invariant("negative streak %d", r.CurrentStreak)
	}
	return nil
}
