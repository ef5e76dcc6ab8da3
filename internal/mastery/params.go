package mastery

// Item difficulty scale accepted by Update.
const (
	MinDifficulty = 1
	MaxDifficulty = 3
)

// Params holds the point-change coefficients. The defaults are empirically
// chosen tuning values; keep them stable unless deliberately retuning.
type Params struct {
	CorrectPoints       float64 `yaml:"correct_points" json:"correct_points"`
	IncorrectPoints     float64 `yaml:"incorrect_points" json:"incorrect_points"`
	DifficultyBase      float64 `yaml:"difficulty_base" json:"difficulty_base"`
	DifficultyStep      float64 `yaml:"difficulty_step" json:"difficulty_step"`
	StreakBonusPerHit   float64 `yaml:"streak_bonus_per_hit" json:"streak_bonus_per_hit"`
	MaxStreakBonus      float64 `yaml:"max_streak_bonus" json:"max_streak_bonus"`
	LevelPenaltyDivisor float64 `yaml:"level_penalty_divisor" json:"level_penalty_divisor" validate:"gt=0"`
	MinLevelPenalty     float64 `yaml:"min_level_penalty" json:"min_level_penalty"`
}

// DefaultParams returns the standard coefficients.
func DefaultParams() Params {
	return Params{
		CorrectPoints:       15,
		IncorrectPoints:     -10,
		DifficultyBase:      0.6,
		DifficultyStep:      0.2,
		StreakBonusPerHit:   2,
		MaxStreakBonus:      10,
		LevelPenaltyDivisor: 2000,
		MinLevelPenalty:     0.5,
	}
}

// DifficultyMultiplier returns the multiplier applied to base points.
func (p Params) DifficultyMultiplier(difficulty int) float64 {
	return p.DifficultyBase + float64(difficulty)*p.DifficultyStep
}

// StreakBonus returns the bonus for a correct answer given the skill streak
// before the answer.
func (p Params) StreakBonus(streak int) float64 {
	bonus := float64(streak) * p.StreakBonusPerHit
	if bonus > p.MaxStreakBonus {
		return p.MaxStreakBonus
	}
	return bonus
}

// LevelPenalty returns the diminishing-returns factor for a correct answer
// at the given prior points.
func (p Params) LevelPenalty(priorPoints int) float64 {
	penalty := 1 - float64(priorPoints)/p.LevelPenaltyDivisor
	if penalty < p.MinLevelPenalty {
		return p.MinLevelPenalty
	}
	return penalty
}
