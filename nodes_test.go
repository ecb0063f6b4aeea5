package safeplates

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safeplates/safeplates/llm"
)

var testCategories = []string{"nuts", "dairy", "gluten", "shellfish", "eggs"}

// nodeContext injects a mock client and a classifier over it.
func nodeContext(client llm.Client) context.Context {
	ctx := WithLLMClient(context.Background(), client)
	return WithAllergenClassifier(ctx, llm.NewPromptClassifier(client, testCategories))
}

func TestGenerateRecipeNode_NoAllergens(t *testing.T) {
	mock := llm.NewMockClient("").WithResponses(
		"Lemon cake: flour, sugar, lemons",
		"NO ALLERGENS",
	)
	ctx := nodeContext(mock)

	result, err := GenerateRecipeNode(ctx, NewState("lemon cake"))
	require.NoError(t, err)

	assert.Equal(t, "Lemon cake: flour, sugar, lemons", result.Recipe)
	assert.False(t, result.AllergensDetected)
	assert.Empty(t, result.Allergens)
	assert.Equal(t, 2, mock.CallCount(), "one generation call and one classification call")
	assert.Positive(t, result.TokensIn)
}

func TestGenerateRecipeNode_AllergensDetected(t *testing.T) {
	mock := llm.NewMockClient("").WithResponses(
		"Chocolate cookies: flour, butter, eggs",
		"ALLERGENS FOUND: dairy, eggs",
	)
	ctx := nodeContext(mock)

	result, err := GenerateRecipeNode(ctx, NewState("chocolate cookies"))
	require.NoError(t, err)

	assert.True(t, result.AllergensDetected)
	assert.Equal(t, "dairy, eggs", result.Allergens)
}

func TestGenerateRecipeNode_RequiresRequest(t *testing.T) {
	ctx := nodeContext(llm.NewMockClient("ok"))

	_, err := GenerateRecipeNode(ctx, State{})
	assert.Error(t, err)
}

func TestGenerateRecipeNode_MissingServices(t *testing.T) {
	_, err := GenerateRecipeNode(context.Background(), NewState("lemon cake"))
	assert.ErrorIs(t, err, ErrNoLLMClient)

	ctx := WithLLMClient(context.Background(), llm.NewMockClient("ok"))
	_, err = GenerateRecipeNode(ctx, NewState("lemon cake"))
	assert.ErrorIs(t, err, ErrNoClassifier)
}

func TestGenerateRecipeNode_NoPartialCommitOnClassifierFailure(t *testing.T) {
	calls := 0
	mock := llm.NewMockClient("").WithCompleteFunc(func(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
		calls++
		if calls == 1 {
			return &llm.CompletionResponse{Content: "Cookie recipe draft"}, nil
		}
		return nil, errors.New("classifier down")
	})
	ctx := nodeContext(mock)

	result, err := GenerateRecipeNode(ctx, NewState("chocolate cookies"))
	require.Error(t, err)

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "check allergens", genErr.Op)

	// Neither the draft nor the detection flag may change on failure.
	assert.Empty(t, result.Recipe)
	assert.False(t, result.AllergensDetected)
	assert.Zero(t, result.TokensIn)
}

func TestGenerateRecipeNode_GenerationFailure(t *testing.T) {
	mock := llm.NewMockClient("").WithCompleteFunc(func(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
		return nil, errors.New("capability down")
	})
	ctx := nodeContext(mock)

	result, err := GenerateRecipeNode(ctx, NewState("lemon cake"))
	require.Error(t, err)
	assert.True(t, Retryable(err))
	assert.Empty(t, result.Recipe)
}

func TestAwaitFeedbackNode_ClearsDetectionFlag(t *testing.T) {
	state := NewState("chocolate cookies")
	state.Recipe = "draft"
	state.AllergensDetected = true
	state.Feedback = "no dairy"

	result, err := AwaitFeedbackNode(context.Background(), state)
	require.NoError(t, err)
	assert.False(t, result.AllergensDetected)
	assert.Equal(t, "no dairy", result.Feedback, "feedback passes through untouched")
}

func TestFinalizeRecipeNode_WithoutFeedbackCopiesDraft(t *testing.T) {
	mock := llm.NewMockClient("should not be called")
	ctx := nodeContext(mock)

	state := NewState("lemon cake")
	state.Recipe = "Lemon cake draft"

	result, err := FinalizeRecipeNode(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, "Lemon cake draft", result.FinalRecipe)
	assert.Zero(t, mock.CallCount(), "no revision call without feedback")
}

func TestFinalizeRecipeNode_WithFeedbackRevises(t *testing.T) {
	var revisePrompt string
	mock := llm.NewMockClient("").WithCompleteFunc(func(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
		revisePrompt = req.Messages[0].Content
		return &llm.CompletionResponse{
			Content: "Dairy-free cookies",
			Usage:   llm.Usage{InputTokens: 3, OutputTokens: 4},
		}, nil
	})
	ctx := nodeContext(mock)

	state := NewState("chocolate cookies")
	state.Recipe = "Chocolate cookies with butter"
	state.Feedback = "no dairy please"

	result, err := FinalizeRecipeNode(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, "Dairy-free cookies", result.FinalRecipe)
	assert.Contains(t, revisePrompt, "Chocolate cookies with butter", "revision sees the draft")
	assert.Contains(t, revisePrompt, "no dairy please", "revision sees the restrictions")
}

func TestFinalizeRecipeNode_RequiresRecipe(t *testing.T) {
	ctx := nodeContext(llm.NewMockClient("ok"))

	_, err := FinalizeRecipeNode(ctx, NewState("lemon cake"))
	assert.Error(t, err)
}

func TestAllergenRouter(t *testing.T) {
	flagged := State{AllergensDetected: true}
	clean := State{}

	assert.Equal(t, NodeFeedback, AllergenRouter(context.Background(), flagged))
	assert.Equal(t, NodeFinalize, AllergenRouter(context.Background(), clean))
}

func TestNewRecipeGraph(t *testing.T) {
	g, err := NewRecipeGraph()
	require.NoError(t, err)

	assert.Equal(t, NodeGenerate, g.Entry())
	assert.True(t, g.IsInterrupt(NodeFeedback))
	assert.False(t, g.IsInterrupt(NodeGenerate))
	assert.False(t, g.IsInterrupt(NodeFinalize))
}

func TestFormatPrompts(t *testing.T) {
	p := formatRecipePrompt("  lemon cake ")
	assert.Equal(t, "Generate a detailed recipe for: lemon cake", p)

	r := formatRevisePrompt("draft", " no nuts ")
	assert.True(t, strings.Contains(r, "draft") && strings.Contains(r, "no nuts"))
}
