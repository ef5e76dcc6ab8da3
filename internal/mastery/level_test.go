package mastery

import "testing"

func TestLevelFor(t *testing.T) {
	tests := []struct {
		points int
		want   Level
	}{
		{0, LevelNovice},
		{99, LevelNovice},
		{100, LevelBeginner},
		{299, LevelBeginner},
		{300, LevelIntermediate},
		{599, LevelIntermediate},
		{600, LevelAdvanced},
		{899, LevelAdvanced},
		{900, LevelExpert},
		{1000, LevelExpert},
	}

	for _, tt := range tests {
		if got := LevelFor(tt.points); got != tt.want {
			t.Errorf("LevelFor(%d) = %s, want %s", tt.points, got, tt.want)
		}
	}
}

func TestLevelValid(t *testing.T) {
	for _, l := range AllLevels() {
		if !l.Valid() {
			t.Errorf("%s.Valid() = false", l)
		}
	}
	if Level("grandmaster").Valid() {
		t.Error("unknown level reported valid")
	}
}
