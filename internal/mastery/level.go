package mastery

// Level is a discrete proficiency band derived from mastery points.
type Level string

const (
	LevelNovice       Level = "novice"
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
	LevelExpert       Level = "expert"
)

// Inclusive lower bounds of each level.
const (
	BeginnerThreshold     = 100
	IntermediateThreshold = 300
	AdvancedThreshold     = 600
	ExpertThreshold       = 900
)

// MinPoints and MaxPoints bound mastery points.
const (
	MinPoints = 0
	MaxPoints = 1000
)

// LevelFor maps mastery points to a level.
func LevelFor(points int) Level {
	switch {
	case points >= ExpertThreshold:
		return LevelExpert
	case points >= AdvancedThreshold:
		return LevelAdvanced
	case points >= IntermediateThreshold:
		return LevelIntermediate
	case points >= BeginnerThreshold:
		return LevelBeginner
	default:
		return LevelNovice
	}
}

// AllLevels returns the levels in ascending order.
func AllLevels() []Level {
	return []Level{LevelNovice, LevelBeginner, LevelIntermediate, LevelAdvanced, LevelExpert}
}

// Valid reports whether l is a known level.
func (l Level) Valid() bool {
	for _, v := range AllLevels() {
		if v == l {
			return true
		}
	}
	return false
}
