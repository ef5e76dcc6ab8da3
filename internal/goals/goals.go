// Package goals tracks per-day answered-question targets.
package goals

import (
	"math"
	"time"
)

// Target bounds. Out-of-range targets are clamped, never rejected.
const (
	MinTarget = 1
	MaxTarget = 100
)

// DayLayout formats the calendar-day key of a Record.
const DayLayout = "2006-01-02"

// Record is the daily goal state for one learner on one calendar day.
type Record struct {
	Day            string `json:"day"`
	Target         int    `json:"target"`
	Answered       int    `json:"answered"`
	CorrectAnswers int    `json:"correct_answers"`
	TimeSpentMs    int64  `json:"time_spent_ms"`
	Met            bool   `json:"met"`
}

// ClampTarget forces target into [MinTarget, MaxTarget].
func ClampTarget(target int) int {
	return min(max(target, MinTarget), MaxTarget)
}

// DayKey returns the calendar day of t in loc. A nil loc means UTC.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DayLayout)
}

// New returns an empty record for day with a clamped target.
func New(day string, target int) Record {
	return Record{Day: day, Target: ClampTarget(target)}
}

// Apply counts one answer and recomputes Met.
func (r Record) Apply(correct bool, timeSpentMs int64) Record {
	r.Answered++
	if correct {
		r.CorrectAnswers++
	}
	if timeSpentMs > 0 {
		r.TimeSpentMs += timeSpentMs
	}
	r.Met = r.Answered >= r.Target
	return r
}

// WithTarget replaces the target and recomputes Met.
func (r Record) WithTarget(target int) Record {
	r.Target = ClampTarget(target)
	r.Met = r.Answered >= r.Target
	return r
}

// Progress is the reporting view of a Record.
type Progress struct {
	Day            string  `json:"day"`
	Answered       int     `json:"answered"`
	Target         int     `json:"target"`
	Percent        int     `json:"progress_percent"`
	Met            bool    `json:"met"`
	CorrectAnswers int     `json:"correct_answers"`
	Accuracy       float64 `json:"accuracy"`
	TimeSpentMs    int64   `json:"time_spent_ms"`
}

// Progress summarizes the record. Percent is capped at 100.
func (r Record) Progress() Progress {
	p := Progress{
		Day:            r.Day,
		Answered:       r.Answered,
		Target:         r.Target,
		Met:            r.Met,
		CorrectAnswers: r.CorrectAnswers,
		TimeSpentMs:    r.TimeSpentMs,
	}
	if r.Target > 0 {
		p.Percent = min(100, int(math.Round(float64(r.Answered)*100/float64(r.Target))))
	}
	if r.Answered > 0 {
		p.Accuracy = float64(r.CorrectAnswers) / float64(r.Answered)
	}
	return p
}
