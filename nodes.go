package safeplates

import (
	"context"
	"fmt"
	"strings"

	"github.com/safeplates/safeplates/graph"
	"github.com/safeplates/safeplates/llm"
)

// Node IDs in the recipe workflow graph.
const (
	NodeGenerate = "generate"
	NodeFeedback = "feedback"
	NodeFinalize = "finalize"
)

// GenerateRecipeNode generates a recipe draft from the request and
// classifies it for allergens.
//
// Prerequisites: state.Request must be set
// Updates: state.Recipe, state.Allergens, state.AllergensDetected
//
// Neither field is committed unless both capability calls succeed, so a
// retry after a failure re-runs the whole node against clean state.
func GenerateRecipeNode(ctx context.Context, state State) (State, error) {
	if err := state.Validate(RequireRequest); err != nil {
		return state, err
	}

	client := LLMFromContext(ctx)
	if client == nil {
		return state, ErrNoLLMClient
	}
	classifier := ClassifierFromContext(ctx)
	if classifier == nil {
		return state, ErrNoClassifier
	}

	prompt := formatRecipePrompt(state.Request)
	if loader := PromptLoaderFromContext(ctx); loader != nil {
		if p, err := loader.LoadWithVars("generate-recipe", map[string]any{
			"Request": state.Request,
		}); err == nil {
			prompt = p
		}
	}

	result, err := client.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: prompt}},
	})
	if err != nil {
		return state, &GenerationError{Op: "generate recipe", Err: err}
	}

	check, err := classifier.Classify(ctx, result.Content)
	if err != nil {
		return state, &GenerationError{Op: "check allergens", Err: err}
	}

	state.Recipe = result.Content
	state.Allergens = check.Detail
	state.AllergensDetected = check.Found
	state.AddTokens(result.Usage.InputTokens, result.Usage.OutputTokens)
	return state, nil
}

// AwaitFeedbackNode is the interrupt-designated node. It performs no
// external calls; by the time it runs, the user's feedback has already
// been written into state, so it only clears the detection flag that
// armed the pause.
func AwaitFeedbackNode(ctx context.Context, state State) (State, error) {
	state.AllergensDetected = false
	return state, nil
}

// FinalizeRecipeNode produces the final recipe. With feedback present it
// revises the draft according to the dietary restrictions; otherwise the
// draft is the final recipe. Empty feedback means no restrictions.
//
// Prerequisites: state.Recipe must be set
// Updates: state.FinalRecipe
func FinalizeRecipeNode(ctx context.Context, state State) (State, error) {
	if err := state.Validate(RequireRecipe); err != nil {
		return state, err
	}

	if state.Feedback == "" {
		state.FinalRecipe = state.Recipe
		return state, nil
	}

	client := LLMFromContext(ctx)
	if client == nil {
		return state, ErrNoLLMClient
	}

	prompt := formatRevisePrompt(state.Recipe, state.Feedback)
	if loader := PromptLoaderFromContext(ctx); loader != nil {
		if p, err := loader.LoadWithVars("revise-recipe", map[string]any{
			"Recipe":   state.Recipe,
			"Feedback": state.Feedback,
		}); err == nil {
			prompt = p
		}
	}

	result, err := client.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: prompt}},
	})
	if err != nil {
		return state, &GenerationError{Op: "revise recipe", Err: err}
	}

	state.FinalRecipe = result.Content
	state.AddTokens(result.Usage.InputTokens, result.Usage.OutputTokens)
	return state, nil
}

// AllergenRouter selects the edge out of the generate node. Pure and
// total: it only inspects the detection flag.
func AllergenRouter(ctx context.Context, state State) string {
	if state.AllergensDetected {
		return NodeFeedback
	}
	return NodeFinalize
}

// NewRecipeGraph builds and compiles the static recipe workflow:
//
//	generate --(allergens detected)--> feedback --> finalize --> END
//	    \---(no allergens)------------------------/
//
// Execution pauses before the feedback node until the user supplies
// dietary restrictions.
func NewRecipeGraph() (*graph.CompiledGraph[State], error) {
	return graph.NewGraph[State]().
		AddNode(NodeGenerate, GenerateRecipeNode).
		AddNode(NodeFeedback, AwaitFeedbackNode).
		AddNode(NodeFinalize, FinalizeRecipeNode).
		AddConditionalEdge(NodeGenerate, AllergenRouter).
		AddEdge(NodeFeedback, NodeFinalize).
		AddEdge(NodeFinalize, graph.END).
		SetEntry(NodeGenerate).
		InterruptBefore(NodeFeedback).
		Compile()
}

// formatRecipePrompt is the built-in generation prompt, used when no
// prompt loader is configured.
func formatRecipePrompt(request string) string {
	return fmt.Sprintf("Generate a detailed recipe for: %s", strings.TrimSpace(request))
}

// formatRevisePrompt is the built-in revision prompt.
func formatRevisePrompt(recipe, feedback string) string {
	var b strings.Builder
	b.WriteString("Modify this recipe according to dietary restrictions: ")
	b.WriteString(recipe)
	b.WriteString("\nRestrictions: ")
	b.WriteString(strings.TrimSpace(feedback))
	return b.String()
}
