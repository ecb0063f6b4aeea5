package safeplates

import "fmt"

// State is the workflow state threaded through the recipe graph.
// Nodes receive it by value and return an updated copy; the engine
// serializes it into the session's checkpoint after every node.
type State struct {
	// Request is the user's original recipe request.
	Request string `json:"request"`

	// Recipe is the generated draft.
	Recipe string `json:"recipe,omitempty"`

	// Allergens describes detected allergens, free text. Empty when none
	// were found.
	Allergens string `json:"allergens,omitempty"`

	// AllergensDetected is set exactly once by the generate node and
	// cleared by the feedback node; it is never recomputed.
	AllergensDetected bool `json:"allergensDetected,omitempty"`

	// Feedback holds the user's dietary restrictions, supplied only
	// while the session was paused for input.
	Feedback string `json:"feedback,omitempty"`

	// FinalRecipe is set if and only if the finalize node has run.
	FinalRecipe string `json:"finalRecipe,omitempty"`

	// Token accounting across all generation calls.
	TokensIn  int `json:"tokensIn,omitempty"`
	TokensOut int `json:"tokensOut,omitempty"`
}

// NewState creates the initial state for a session.
func NewState(request string) State {
	return State{Request: request}
}

// WithFeedback returns a copy with the user's dietary restrictions set.
func (s State) WithFeedback(feedback string) State {
	s.Feedback = feedback
	return s
}

// AddTokens updates token metrics.
func (s *State) AddTokens(in, out int) {
	s.TokensIn += in
	s.TokensOut += out
}

// Completed reports whether the workflow has produced its final recipe.
func (s State) Completed() bool {
	return s.FinalRecipe != ""
}

// StateRequirement defines a state prerequisite for a node.
type StateRequirement string

const (
	RequireRequest StateRequirement = "request"
	RequireRecipe  StateRequirement = "recipe"
)

// Validate checks if state has required fields.
func (s State) Validate(requirements ...StateRequirement) error {
	for _, req := range requirements {
		switch req {
		case RequireRequest:
			if s.Request == "" {
				return fmt.Errorf("recipe request required")
			}
		case RequireRecipe:
			if s.Recipe == "" {
				return fmt.Errorf("recipe draft required")
			}
		default:
			return fmt.Errorf("unknown requirement: %s", req)
		}
	}
	return nil
}

// Summary returns a human-readable summary of the state.
func (s State) Summary() string {
	var status string
	switch {
	case s.FinalRecipe != "":
		status = "completed"
	case s.AllergensDetected:
		status = "awaiting feedback"
	case s.Recipe != "":
		status = "drafted"
	default:
		status = "pending"
	}
	return fmt.Sprintf("Recipe %q [%s] (tokens: %d in, %d out)",
		s.Request, status, s.TokensIn, s.TokensOut)
}
