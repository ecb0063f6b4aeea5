package safeplates

import (
	"strings"
	"testing"
)

func TestState_Validate(t *testing.T) {
	empty := State{}
	if err := empty.Validate(RequireRequest); err == nil {
		t.Error("Validate(RequireRequest) expected error on empty state")
	}
	if err := empty.Validate(RequireRecipe); err == nil {
		t.Error("Validate(RequireRecipe) expected error on empty state")
	}

	state := NewState("lemon cake")
	if err := state.Validate(RequireRequest); err != nil {
		t.Errorf("Validate(RequireRequest) error = %v", err)
	}

	state.Recipe = "1. Mix. 2. Bake."
	if err := state.Validate(RequireRequest, RequireRecipe); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	if err := state.Validate(StateRequirement("bogus")); err == nil {
		t.Error("Validate() expected error for unknown requirement")
	}
}

func TestState_WithFeedback(t *testing.T) {
	state := NewState("chocolate cookies")
	updated := state.WithFeedback("no dairy")

	if updated.Feedback != "no dairy" {
		t.Errorf("Feedback = %q", updated.Feedback)
	}
	if state.Feedback != "" {
		t.Error("WithFeedback mutated the receiver")
	}
}

func TestState_AddTokens(t *testing.T) {
	state := NewState("banana bread")
	state.AddTokens(10, 20)
	state.AddTokens(5, 7)

	if state.TokensIn != 15 || state.TokensOut != 27 {
		t.Errorf("tokens = %d in, %d out; want 15, 27", state.TokensIn, state.TokensOut)
	}
}

func TestState_Summary(t *testing.T) {
	state := NewState("lemon cake")
	if !strings.Contains(state.Summary(), "pending") {
		t.Errorf("Summary() = %q, want pending", state.Summary())
	}

	state.Recipe = "draft"
	if !strings.Contains(state.Summary(), "drafted") {
		t.Errorf("Summary() = %q, want drafted", state.Summary())
	}

	state.AllergensDetected = true
	if !strings.Contains(state.Summary(), "awaiting feedback") {
		t.Errorf("Summary() = %q, want awaiting feedback", state.Summary())
	}

	state.FinalRecipe = "final"
	if !strings.Contains(state.Summary(), "completed") {
		t.Errorf("Summary() = %q, want completed", state.Summary())
	}
	if !state.Completed() {
		t.Error("Completed() = false after FinalRecipe set")
	}
}
