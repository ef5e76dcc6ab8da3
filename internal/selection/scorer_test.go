package selection

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/abhisek/practiz/internal/item"
	"github.com/abhisek/practiz/internal/mastery"
	"github.com/abhisek/practiz/internal/spacedrep"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

func pool(n int, skill string) []item.Item {
	items := make([]item.Item, n)
	for i := range items {
		items[i] = item.Item{
			ID:            fmt.Sprintf("q%d", i+1),
			Category:      "math",
			Domain:        "sat",
			Skill:         skill,
			Difficulty:    2,
			CorrectAnswer: "A",
		}
	}
	return items
}

func review(intervalDays int, lastAgo time.Duration) spacedrep.ReviewRecord {
	return spacedrep.ReviewRecord{
		EaseFactor:      2.5,
		IntervalDays:    intervalDays,
		Repetitions:     1,
		LastReviewedAt:  now.Add(-lastAgo),
		TotalAttempts:   1,
		CorrectAttempts: 1,
	}
}

func skillRecord(total, correct int, lastAgo time.Duration) mastery.Record {
	r := mastery.NewRecord("algebra", "math", "sat")
	r.TotalQuestions = total
	r.CorrectAnswers = correct
	last := now.Add(-lastAgo)
	r.LastPracticedAt = &last
	return r
}

func TestScore_NeverSeenUntested(t *testing.T) {
	s := NewScorer(DefaultWeights(), ZeroSource{})
	b := s.Score(pool(1, "algebra")[0], Input{Now: now})

	if b.Urgency != 25 || b.WeakSkill != 35 || b.Recency != 0 || b.Jitter != 0 {
		t.Errorf("Breakdown = %+v, want urgency 25, weak 35", b)
	}
	if b.Total != 60 {
		t.Errorf("Total = %v, want 60", b.Total)
	}
}

func TestScore_Urgency(t *testing.T) {
	tests := []struct {
		name string
		rec  spacedrep.ReviewRecord
		want float64
	}{
		{"two days overdue", review(1, 3*spacedrep.Day), 30},
		{"far overdue capped", review(1, 30*spacedrep.Day), 40},
		{"exactly due", review(6, 6*spacedrep.Day), 15},
		{"due within a day", review(6, 5*spacedrep.Day+12*time.Hour), 15},
		{"one day early", review(6, 5*spacedrep.Day), 0},
		{"not due", review(6, spacedrep.Day), 0},
		{"stored but never attempted", spacedrep.NewRecord(), 25},
	}

	s := NewScorer(DefaultWeights(), ZeroSource{})
	it := pool(1, "algebra")[0]
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := s.Score(it, Input{
				Now:     now,
				Reviews: map[string]spacedrep.ReviewRecord{it.ID: tt.rec},
			})
			if math.Abs(b.Urgency-tt.want) > 1e-9 {
				t.Errorf("Urgency = %v, want %v", b.Urgency, tt.want)
			}
		})
	}
}

func TestScore_WeakSkillAndRecency(t *testing.T) {
	tests := []struct {
		name        string
		rec         mastery.Record
		wantWeak    float64
		wantRecency float64
	}{
		{"quarter accuracy, stale", skillRecord(4, 1, time.Hour), 30, 0},
		{"perfect accuracy, stale", skillRecord(5, 5, time.Hour), 0, 0},
		{"two thirds, 2 minutes ago", skillRecord(3, 2, 2*time.Minute), 13, -20},
		{"half, 10 minutes ago", skillRecord(2, 1, 10*time.Minute), 20, -10},
		{"half, exactly 15 minutes ago", skillRecord(2, 1, 15*time.Minute), 20, 0},
	}

	s := NewScorer(DefaultWeights(), ZeroSource{})
	it := pool(1, "algebra")[0]
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := s.Score(it, Input{
				Now:     now,
				Mastery: map[string]mastery.Record{"algebra": tt.rec},
			})
			if b.WeakSkill != tt.wantWeak {
				t.Errorf("WeakSkill = %v, want %v", b.WeakSkill, tt.wantWeak)
			}
			if b.Recency != tt.wantRecency {
				t.Errorf("Recency = %v, want %v", b.Recency, tt.wantRecency)
			}
		})
	}
}

func TestScore_Jitter(t *testing.T) {
	s := NewScorer(DefaultWeights(), fixedSource(0.5))
	b := s.Score(pool(1, "algebra")[0], Input{Now: now})
	if b.Jitter != 5 {
		t.Errorf("Jitter = %v, want 5", b.Jitter)
	}
	if b.Total != 65 {
		t.Errorf("Total = %v, want 65", b.Total)
	}
}

func TestSelectNext_EmptyScope(t *testing.T) {
	s := NewScorer(DefaultWeights(), nil)

	if _, ok := s.SelectNext(Input{Now: now}); ok {
		t.Error("SelectNext(empty pool) ok = true, want false")
	}
	_, ok := s.SelectNext(Input{
		Pool:  pool(3, "algebra"),
		Scope: item.Scope{Category: "reading"},
		Now:   now,
	})
	if ok {
		t.Error("SelectNext(out of scope) ok = true, want false")
	}
}

func TestSelectNext_PrefersOverdueOverRecentlyPracticed(t *testing.T) {
	items := []item.Item{
		{ID: "fresh", Skill: "algebra", Difficulty: 1, CorrectAnswer: "A"},
		{ID: "overdue", Skill: "geometry", Difficulty: 1, CorrectAnswer: "A"},
	}
	geo := mastery.NewRecord("geometry", "", "")
	geo.TotalQuestions, geo.CorrectAnswers = 4, 2
	stale := now.Add(-48 * time.Hour)
	geo.LastPracticedAt = &stale

	s := NewScorer(DefaultWeights(), ZeroSource{})
	pick, ok := s.SelectNext(Input{
		Pool:    items,
		Now:     now,
		Reviews: map[string]spacedrep.ReviewRecord{"overdue": review(1, 5*spacedrep.Day)},
		Mastery: map[string]mastery.Record{
			"algebra":  skillRecord(10, 10, time.Minute),
			"geometry": geo,
		},
	})
	if !ok {
		t.Fatal("SelectNext ok = false")
	}
	// fresh: 25 + 0 - 20 = 5; overdue: 40 + 20 + 0 = 60.
	if pick.Item.ID != "overdue" {
		t.Errorf("picked %s (%+v), want overdue", pick.Item.ID, pick.Breakdown)
	}
	if pick.Repeat {
		t.Error("Repeat = true, want false")
	}
}

func TestSelectNext_NeverReturnsExcludedWhileEligibleRemain(t *testing.T) {
	items := pool(5, "algebra")
	s := NewScorer(DefaultWeights(), nil)
	excluded := map[string]bool{"q1": true, "q2": true, "q4": true, "q5": true}

	for i := 0; i < 50; i++ {
		pick, ok := s.SelectNext(Input{Pool: items, Excluded: excluded, Now: now})
		if !ok {
			t.Fatal("SelectNext ok = false")
		}
		if pick.Item.ID != "q3" {
			t.Fatalf("picked excluded item %s", pick.Item.ID)
		}
	}
}

func TestSelectNext_CyclesThroughPoolBeforeRepeating(t *testing.T) {
	for _, src := range []RandSource{ZeroSource{}, nil} {
		const n = 7
		items := pool(n, "algebra")
		s := NewScorer(DefaultWeights(), src)
		excluded := make(map[string]bool)

		for i := 0; i < n; i++ {
			pick, ok := s.SelectNext(Input{Pool: items, Excluded: excluded, Now: now})
			if !ok {
				t.Fatalf("call %d: ok = false", i+1)
			}
			if excluded[pick.Item.ID] {
				t.Fatalf("call %d: repeated %s before pool exhausted", i+1, pick.Item.ID)
			}
			if pick.Repeat {
				t.Fatalf("call %d: Repeat = true before pool exhausted", i+1)
			}
			excluded[pick.Item.ID] = true
		}
		if len(excluded) != n {
			t.Fatalf("distinct picks = %d, want %d", len(excluded), n)
		}

		pick, ok := s.SelectNext(Input{Pool: items, Excluded: excluded, Now: now})
		if !ok {
			t.Fatal("call n+1: ok = false, want fallback to full pool")
		}
		if !pick.Repeat {
			t.Error("call n+1: Repeat = false, want true")
		}
	}
}

func TestRank_ReturnsAllEligibleBestFirst(t *testing.T) {
	items := pool(4, "algebra")
	s := NewScorer(DefaultWeights(), nil)
	ranked := s.Rank(Input{Pool: items, Now: now, Excluded: map[string]bool{"q2": true}})

	if len(ranked) != 3 {
		t.Fatalf("len(Rank) = %d, want 3", len(ranked))
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Breakdown.Total > ranked[i-1].Breakdown.Total {
			t.Errorf("rank %d total %v > rank %d total %v", i, ranked[i].Breakdown.Total, i-1, ranked[i-1].Breakdown.Total)
		}
	}
	for _, p := range ranked {
		if p.Breakdown.Jitter < 0 || p.Breakdown.Jitter >= MaxJitter {
			t.Errorf("jitter %v outside [0, %v)", p.Breakdown.Jitter, MaxJitter)
		}
	}
}

func TestDefaultWeightsPinned(t *testing.T) {
	w := DefaultWeights()
	want := Weights{
		Version:               "v1",
		NeverSeenUrgency:      25,
		OverdueBase:           20,
		OverduePerDay:         5,
		MaxUrgency:            40,
		DueSoonUrgency:        15,
		DueSoonWindowDays:     1,
		UntestedSkillPriority: 35,
		MaxWeakSkillPriority:  40,
		RecentPenalty:         -20,
		RecentWindow:          5 * time.Minute,
		WarmPenalty:           -10,
		WarmWindow:            15 * time.Minute,
		MaxJitter:             10,
	}
	if w != want {
		t.Errorf("DefaultWeights() = %+v, want %+v", w, want)
	}
}
