package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestInvariantWraps(t *testing.T) {
	err := Invariant("interval %d < 1", 0)
	if !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("errors.Is(%v, ErrInvariantViolation) = false", err)
	}
	if got, want := err.Error(), "invariant violation: interval 0 < 1"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestInvalidWraps(t *testing.T) {
	err := Invalid("empty learner id")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("errors.Is(%v, ErrInvalidInput) = false", err)
	}
}

func TestPersistenceError(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := fmt.Errorf("submit answer: %w", &PersistenceError{Op: "commit", Err: cause})

	if !IsPersistence(err) {
		t.Fatal("IsPersistence = false, want true")
	}
	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to be reachable")
	}

	var pe *PersistenceError
	if !errors.As(err, &pe) {
		t.Fatal("errors.As failed")
	}
	if !pe.Retryable() {
		t.Error("Retryable = false, want true")
	}
	if IsPersistence(cause) {
		t.Error("IsPersistence(plain error) = true, want false")
	}
}
