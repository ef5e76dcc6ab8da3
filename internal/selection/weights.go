package selection

import "time"

// WeightsVersion identifies the default weight set. Bump it whenever a
// default below changes.
const WeightsVersion = "v1"

// Spaced-repetition urgency (0 to 40).
const (
	NeverSeenUrgency  = 25.0
	OverdueBase       = 20.0
	OverduePerDay     = 5.0
	MaxUrgency        = 40.0
	DueSoonUrgency    = 15.0
	DueSoonWindowDays = 1.0
)

// Weak-skill priority (0 to 40).
const (
	UntestedSkillPriority = 35.0
	MaxWeakSkillPriority  = 40.0
)

// Recency penalty (0 to -20).
const (
	RecentPenalty = -20.0
	RecentWindow  = 5 * time.Minute
	WarmPenalty   = -10.0
	WarmWindow    = 15 * time.Minute
)

// MaxJitter bounds the random tie-breaking term (0 to 10).
const MaxJitter = 10.0

// Weights is the tunable scoring configuration.
type Weights struct {
	Version string `yaml:"version" json:"version"`

	NeverSeenUrgency  float64 `yaml:"never_seen_urgency" json:"never_seen_urgency"`
	OverdueBase       float64 `yaml:"overdue_base" json:"overdue_base"`
	OverduePerDay     float64 `yaml:"overdue_per_day" json:"overdue_per_day"`
	MaxUrgency        float64 `yaml:"max_urgency" json:"max_urgency"`
	DueSoonUrgency    float64 `yaml:"due_soon_urgency" json:"due_soon_urgency"`
	DueSoonWindowDays float64 `yaml:"due_soon_window_days" json:"due_soon_window_days"`

	UntestedSkillPriority float64 `yaml:"untested_skill_priority" json:"untested_skill_priority"`
	MaxWeakSkillPriority  float64 `yaml:"max_weak_skill_priority" json:"max_weak_skill_priority"`

	RecentPenalty float64       `yaml:"recent_penalty" json:"recent_penalty" validate:"lte=0"`
	RecentWindow  time.Duration `yaml:"recent_window" json:"recent_window"`
	WarmPenalty   float64       `yaml:"warm_penalty" json:"warm_penalty" validate:"lte=0"`
	WarmWindow    time.Duration `yaml:"warm_window" json:"warm_window"`

	MaxJitter float64 `yaml:"max_jitter" json:"max_jitter" validate:"gte=0"`
}

// DefaultWeights returns the standard weight set.
func DefaultWeights() Weights {
	return Weights{
		Version:               WeightsVersion,
		NeverSeenUrgency:      NeverSeenUrgency,
		OverdueBase:           OverdueBase,
		OverduePerDay:         OverduePerDay,
		MaxUrgency:            MaxUrgency,
		DueSoonUrgency:        DueSoonUrgency,
		DueSoonWindowDays:     DueSoonWindowDays,
		UntestedSkillPriority: UntestedSkillPriority,
		MaxWeakSkillPriority:  MaxWeakSkillPriority,
		RecentPenalty:         RecentPenalty,
		RecentWindow:          RecentWindow,
		WarmPenalty:           WarmPenalty,
		WarmWindow:            WarmWindow,
		MaxJitter:             MaxJitter,
	}
}
