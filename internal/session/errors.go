package session

import "errors"

var (
	// ErrSessionEnded is returned when answering or ending a session that has
	// already ended.
	ErrSessionEnded = errors.New("session has ended")

	// ErrItemMismatch is returned when an answer names an item other than the
	// one currently presented.
	ErrItemMismatch = errors.New("item is not the one presented")

	// ErrConcurrentSubmission is returned when another submission for the same
	// session committed between this one's read and write.
	ErrConcurrentSubmission = errors.New("concurrent submission for session")

	// ErrSessionActive is returned by ResetProgress while the learner has an
	// active session.
	ErrSessionActive = errors.New("learner has an active session")
)
