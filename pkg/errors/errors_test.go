package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestIs_MatchesByKind(t *testing.T) {
	err := Newf(KindStaleState, "request %d changed", 4)
	if !errors.Is(err, ErrStaleState) {
		t.Error("expected StaleState to match sentinel")
	}
	if errors.Is(err, ErrInvalidAction) {
		t.Error("StaleState must not match InvalidAction")
	}

	wrapped := fmt.Errorf("act: %w", err)
	if !errors.Is(wrapped, ErrStaleState) {
		t.Error("expected match through fmt wrapping")
	}
	if !errors.Is(ErrOptimisticLock, ErrStaleState) {
		t.Error("optimistic lock conflicts are stale state")
	}
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Wrap(KindNetwork, "could not reach the exeat service", cause)
	if !errors.Is(err, cause) {
		t.Error("cause should be reachable via Unwrap")
	}
	if KindOf(err) != KindNetwork {
		t.Errorf("expected network kind, got %s", KindOf(err))
	}
}

func TestKindOfAndMessageOf(t *testing.T) {
	if KindOf(errors.New("plain")) != "" {
		t.Error("plain errors have no kind")
	}
	if got := MessageOf(errors.New("plain"), "fallback"); got != "fallback" {
		t.Errorf("expected fallback, got %q", got)
	}
	err := fmt.Errorf("ctx: %w", New(KindValidation, "a reason is required"))
	if got := MessageOf(err, "fallback"); got != "a reason is required" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestWithFields_Copies(t *testing.T) {
	base := New(KindValidation, "invalid")
	withFields := base.WithFields(map[string][]string{"return_date": {"must be after departure"}})
	if base.Fields != nil {
		t.Error("WithFields must not mutate the receiver")
	}
	if len(withFields.Fields["return_date"]) != 1 {
		t.Errorf("unexpected fields %v", withFields.Fields)
	}
}
