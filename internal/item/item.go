// Package item describes practice items as the scheduler sees them: an
// opaque id plus the metadata needed for scoring and answer checking.
package item

import (
	"strings"

	"github.com/abhisek/practiz/internal/errs"
	"github.com/abhisek/practiz/internal/mastery"
)

// Item is one unit of practice content.
type Item struct {
	ID            string `json:"id" yaml:"id"`
	Category      string `json:"category" yaml:"category"`
	Domain        string `json:"domain" yaml:"domain"`
	Skill         string `json:"skill" yaml:"skill"`
	Difficulty    int    `json:"difficulty" yaml:"difficulty"`
	CorrectAnswer string `json:"correct_answer" yaml:"correct_answer"`
}

// Validate checks the fields the scheduler depends on.
func (it Item) Validate() error {
	switch {
	case strings.TrimSpace(it.ID) == "":
		return errs.Invalid("item id is empty")
	case strings.TrimSpace(it.Skill) == "":
		return errs.Invalid("item %q has no skill", it.ID)
	case it.Difficulty < mastery.MinDifficulty || it.Difficulty > mastery.MaxDifficulty:
		return errs.Invalid("item %q difficulty %d out of range [%d, %d]",
			it.ID, it.Difficulty, mastery.MinDifficulty, mastery.MaxDifficulty)
	case strings.TrimSpace(it.CorrectAnswer) == "":
		return errs.Invalid("item %q has no correct answer", it.ID)
	}
	return nil
}

// CheckAnswer compares a learner's selection with the item's correct answer.
// Whitespace is trimmed and the comparison is case-insensitive.
func (it Item) CheckAnswer(selected string) bool {
	selected = strings.TrimSpace(selected)
	if selected == "" {
		return false
	}
	return strings.EqualFold(selected, strings.TrimSpace(it.CorrectAnswer))
}

// Scope narrows a session to a category and/or domain. Empty fields match
// everything.
type Scope struct {
	Category string `json:"category,omitempty"`
	Domain   string `json:"domain,omitempty"`
}

// Matches reports whether it falls inside the scope.
func (s Scope) Matches(it Item) bool {
	if s.Category != "" && s.Category != it.Category {
		return false
	}
	if s.Domain != "" && s.Domain != it.Domain {
		return false
	}
	return true
}

// IsZero reports whether the scope matches every item.
func (s Scope) IsZero() bool {
	return s.Category == "" && s.Domain == ""
}

// Filter returns the items inside the scope, preserving order.
func (s Scope) Filter(items []Item) []Item {
	if s.IsZero() {
		return items
	}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if s.Matches(it) {
			out = append(out, it)
		}
	}
	return out
}
