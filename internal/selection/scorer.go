// Package selection ranks candidate items and picks the next one to serve.
//
// Every score is the sum of independently inspectable signals: review
// urgency from the item's spaced repetition record, weak-skill priority from
// the skill's accuracy, a recency penalty for skills practiced moments ago,
// and a small random jitter that breaks ties.
package selection

import (
	"math"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/abhisek/practiz/internal/item"
	"github.com/abhisek/practiz/internal/mastery"
	"github.com/abhisek/practiz/internal/spacedrep"
)

// RandSource supplies uniform values in [0, 1). *rand.Rand satisfies it.
type RandSource interface {
	Float64() float64
}

// globalSource uses the goroutine-safe top-level generator.
type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// ZeroSource always returns 0, removing jitter.
type ZeroSource struct{}

func (ZeroSource) Float64() float64 { return 0 }

// Input is everything one selection call looks at. Reviews are keyed by
// item id, Mastery by skill.
type Input struct {
	Pool     []item.Item
	Reviews  map[string]spacedrep.ReviewRecord
	Mastery  map[string]mastery.Record
	Excluded map[string]bool
	Scope    item.Scope
	Now      time.Time
}

// Breakdown holds the individual score signals for one candidate.
type Breakdown struct {
	Urgency   float64 `json:"urgency"`
	WeakSkill float64 `json:"weak_skill"`
	Recency   float64 `json:"recency"`
	Jitter    float64 `json:"jitter"`
	Total     float64 `json:"total"`
}

// Pick is a scored candidate.
type Pick struct {
	Item      item.Item `json:"item"`
	Breakdown Breakdown `json:"breakdown"`
	// Repeat is set when every in-scope item was excluded and the pick came
	// from the full pool.
	Repeat bool `json:"repeat"`
}

// Scorer ranks items using a weight set and a random source.
type Scorer struct {
	weights Weights
	rand    RandSource
}

// NewScorer returns a scorer. A nil src uses the global generator.
func NewScorer(w Weights, src RandSource) *Scorer {
	if src == nil {
		src = globalSource{}
	}
	return &Scorer{weights: w, rand: src}
}

// Weights returns the scorer's weight set.
func (s *Scorer) Weights() Weights {
	return s.weights
}

// SelectNext returns the highest scoring eligible item. The boolean is false
// only when no item in the pool matches the scope.
func (s *Scorer) SelectNext(in Input) (Pick, bool) {
	ranked := s.Rank(in)
	if len(ranked) == 0 {
		return Pick{}, false
	}
	return ranked[0], true
}

// Rank scores every eligible item and returns them best first.
func (s *Scorer) Rank(in Input) []Pick {
	pool := in.Scope.Filter(in.Pool)
	if len(pool) == 0 {
		return nil
	}

	eligible := make([]item.Item, 0, len(pool))
	for _, it := range pool {
		if !in.Excluded[it.ID] {
			eligible = append(eligible, it)
		}
	}
	repeat := false
	if len(eligible) == 0 {
		eligible = pool
		repeat = true
	}

	picks := make([]Pick, len(eligible))
	for i, it := range eligible {
		picks[i] = Pick{Item: it, Breakdown: s.Score(it, in), Repeat: repeat}
	}
	sort.SliceStable(picks, func(i, j int) bool {
		return picks[i].Breakdown.Total > picks[j].Breakdown.Total
	})
	return picks
}

// Score computes the breakdown for a single item.
func (s *Scorer) Score(it item.Item, in Input) Breakdown {
	var b Breakdown
	if rec, ok := in.Reviews[it.ID]; ok && rec.Seen() {
		b.Urgency = s.urgency(rec, in.Now)
	} else {
		b.Urgency = s.weights.NeverSeenUrgency
	}

	rec, ok := in.Mastery[it.Skill]
	if ok && rec.TotalQuestions > 0 {
		b.WeakSkill = math.Round((1 - rec.Accuracy()) * s.weights.MaxWeakSkillPriority)
	} else {
		b.WeakSkill = s.weights.UntestedSkillPriority
	}
	if ok {
		b.Recency = s.recency(rec.LastPracticedAt, in.Now)
	}

	b.Jitter = s.rand.Float64() * s.weights.MaxJitter
	b.Total = b.Urgency + b.WeakSkill + b.Recency + b.Jitter
	return b
}

func (s *Scorer) urgency(rec spacedrep.ReviewRecord, now time.Time) float64 {
	overdue := rec.DaysOverdue(now)
	switch {
	case overdue > 0:
		return math.Min(s.weights.MaxUrgency, s.weights.OverdueBase+overdue*s.weights.OverduePerDay)
	case overdue > -s.weights.DueSoonWindowDays:
		return s.weights.DueSoonUrgency
	default:
		return 0
	}
}

func (s *Scorer) recency(last *time.Time, now time.Time) float64 {
	if last == nil {
		return 0
	}
	since := now.Sub(*last)
	switch {
	case since < s.weights.RecentWindow:
		return s.weights.RecentPenalty
	case since < s.weights.WarmWindow:
		return s.weights.WarmPenalty
	default:
		return 0
	}
}
