package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
)

var testCategories = []string{"nuts", "dairy", "gluten", "shellfish", "eggs"}

func TestPromptClassifier_Found(t *testing.T) {
	mock := NewMockClient("ALLERGENS FOUND: dairy, eggs")
	classifier := NewPromptClassifier(mock, testCategories)

	result, err := classifier.Classify(context.Background(), "chocolate cookie recipe")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if !result.Found {
		t.Error("Found = false, want true")
	}
	if result.Detail != "dairy, eggs" {
		t.Errorf("Detail = %q, want %q (marker must be stripped)", result.Detail, "dairy, eggs")
	}
}

func TestPromptClassifier_NotFound(t *testing.T) {
	mock := NewMockClient("NO ALLERGENS")
	classifier := NewPromptClassifier(mock, testCategories)

	result, err := classifier.Classify(context.Background(), "fruit salad recipe")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if result.Found {
		t.Error("Found = true, want false")
	}
	if result.Detail != "" {
		t.Errorf("Detail = %q, want empty", result.Detail)
	}
}

func TestPromptClassifier_DetailWithoutSeparator(t *testing.T) {
	mock := NewMockClient("ALLERGENS FOUND gluten")
	classifier := NewPromptClassifier(mock, testCategories)

	result, err := classifier.Classify(context.Background(), "bread recipe")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if !result.Found || result.Detail != "gluten" {
		t.Errorf("Classification = %+v, want found with detail %q", result, "gluten")
	}
}

func TestPromptClassifier_PromptNamesCategories(t *testing.T) {
	mock := NewMockClient("NO ALLERGENS")
	classifier := NewPromptClassifier(mock, testCategories)

	_, err := classifier.Classify(context.Background(), "some recipe text")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}

	reqs := mock.Requests()
	if len(reqs) != 1 {
		t.Fatalf("expected one completion call, got %d", len(reqs))
	}
	prompt := reqs[0].Messages[0].Content
	for _, category := range testCategories {
		if !strings.Contains(prompt, category) {
			t.Errorf("prompt missing category %q", category)
		}
	}
	if !strings.Contains(prompt, "some recipe text") {
		t.Error("prompt missing the text under classification")
	}
}

func TestPromptClassifier_PropagatesError(t *testing.T) {
	boom := errors.New("capability down")
	mock := NewMockClient("").WithCompleteFunc(func(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
		return nil, boom
	})
	classifier := NewPromptClassifier(mock, testCategories)

	_, err := classifier.Classify(context.Background(), "anything")
	if !errors.Is(err, boom) {
		t.Errorf("Classify() error = %v, want wrapped %v", err, boom)
	}
}
