package session

import (
	"time"

	"github.com/abhisek/practiz/internal/item"
	"github.com/abhisek/practiz/internal/mastery"
	"github.com/abhisek/practiz/internal/store"
)

// StartRequest opens (or resumes) a learner's session.
type StartRequest struct {
	LearnerID string     `json:"learner_id"`
	Scope     item.Scope `json:"scope"`
}

// StartResult identifies the session and the first item to present. An
// empty FirstItemID means no item matches the scope.
type StartResult struct {
	SessionID   string `json:"session_id"`
	FirstItemID string `json:"first_item_id,omitempty"`
	// Resumed is set when an already active session was returned.
	Resumed bool `json:"resumed"`
}

// AnswerRequest is one submitted answer. RequestID is an optional client
// token; a repeated token replays the original result.
type AnswerRequest struct {
	SessionID      string `json:"-"`
	ItemID         string `json:"item_id"`
	SelectedAnswer string `json:"selected_answer"`
	TimeSpentMs    int64  `json:"time_spent_ms"`
	RequestID      string `json:"request_id,omitempty"`
}

// AnswerResult reports the outcome of an answer. An empty NextItemID means no
// item matches the session scope.
type AnswerResult struct {
	IsCorrect     bool          `json:"is_correct"`
	CorrectAnswer string        `json:"correct_answer"`
	NextItemID    string        `json:"next_item_id,omitempty"`
	CurrentStreak int           `json:"current_streak"`
	SessionStreak int           `json:"session_streak"`
	BestStreak    int           `json:"best_streak"`
	Skill         string        `json:"skill"`
	MasteryLevel  mastery.Level `json:"mastery_level"`
	MasteryPoints int           `json:"mastery_points"`
	PointChange   int           `json:"point_change"`
	// Replayed is set when the result was served from a previous submission
	// with the same request id.
	Replayed bool `json:"replayed,omitempty"`
}

// Summary holds the final tallies of an ended session.
type Summary struct {
	SessionID         string  `json:"session_id"`
	QuestionsAnswered int     `json:"questions_answered"`
	CorrectAnswers    int     `json:"correct_answers"`
	Accuracy          float64 `json:"accuracy"`
	SessionStreak     int     `json:"session_streak"`
	BestStreak        int     `json:"best_streak"`
}

// BuildSummary computes the tallies of s.
func BuildSummary(s store.Session) Summary {
	var accuracy float64
	if s.QuestionsAnswered > 0 {
		accuracy = float64(s.CorrectAnswers) / float64(s.QuestionsAnswered)
	}
	return Summary{
		SessionID:         s.ID,
		QuestionsAnswered: s.QuestionsAnswered,
		CorrectAnswers:    s.CorrectAnswers,
		Accuracy:          accuracy,
		SessionStreak:     s.SessionStreak,
		BestStreak:        s.BestStreak,
	}
}

// State is the externally visible view of a session.
type State struct {
	SessionID         string              `json:"session_id"`
	LearnerID         string              `json:"learner_id"`
	Status            store.SessionStatus `json:"status"`
	Scope             item.Scope          `json:"scope"`
	CurrentItemID     string              `json:"current_item_id,omitempty"`
	CurrentStreak     int                 `json:"current_streak"`
	SessionStreak     int                 `json:"session_streak"`
	BestStreak        int                 `json:"best_streak"`
	QuestionsAnswered int                 `json:"questions_answered"`
	CorrectAnswers    int                 `json:"correct_answers"`
	AnsweredItemIDs   []string            `json:"answered_item_ids"`
	StartedAt         time.Time           `json:"started_at"`
	LastActivityAt    time.Time           `json:"last_activity_at"`
	EndedAt           *time.Time          `json:"ended_at,omitempty"`
}

func stateOf(s store.Session) State {
	ids := s.AnsweredItemIDs
	if ids == nil {
		ids = []string{}
	}
	return State{
		SessionID:         s.ID,
		LearnerID:         s.LearnerID,
		Status:            s.Status,
		Scope:             s.Scope,
		CurrentItemID:     s.CurrentItemID,
		CurrentStreak:     s.CurrentStreak,
		SessionStreak:     s.SessionStreak,
		BestStreak:        s.BestStreak,
		QuestionsAnswered: s.QuestionsAnswered,
		CorrectAnswers:    s.CorrectAnswers,
		AnsweredItemIDs:   ids,
		StartedAt:         s.StartedAt,
		LastActivityAt:    s.LastActivityAt,
		EndedAt:           s.EndedAt,
	}
}

// SkillMastery is one entry of a learner's mastery overview.
type SkillMastery struct {
	Category        string        `json:"category"`
	Domain          string        `json:"domain"`
	Skill           string        `json:"skill"`
	MasteryLevel    mastery.Level `json:"mastery_level"`
	MasteryPoints   int           `json:"mastery_points"`
	TotalQuestions  int           `json:"total_questions"`
	CorrectAnswers  int           `json:"correct_answers"`
	LastPracticedAt *time.Time    `json:"last_practiced_at,omitempty"`
}

// ResetResult counts the records removed by ResetProgress.
type ResetResult struct {
	ReviewsDeleted int64 `json:"reviews_deleted"`
	MasteryDeleted int64 `json:"mastery_deleted"`
}
