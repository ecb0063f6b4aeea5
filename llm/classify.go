package llm

import (
	"context"
	"fmt"
	"strings"
)

const (
	foundMarker = "ALLERGENS FOUND"
	cleanMarker = "NO ALLERGENS"
)

// Classification is the result of checking text against concern
// categories. Detail is free text describing the matches, already
// stripped of any response marker.
type Classification struct {
	Found  bool   `json:"found"`
	Detail string `json:"detail,omitempty"`
}

// Classifier checks generated text against a fixed set of concern
// categories.
type Classifier interface {
	Classify(ctx context.Context, text string) (Classification, error)
}

// PromptClassifier implements Classifier with a completion call. The
// marker protocol (how the model signals a match) is owned entirely by
// this type; callers never see marker text in Detail.
type PromptClassifier struct {
	client     Client
	categories []string
}

// NewPromptClassifier creates a classifier over the given client and
// concern categories.
func NewPromptClassifier(client Client, categories []string) *PromptClassifier {
	return &PromptClassifier{client: client, categories: categories}
}

// Categories returns the configured concern categories.
func (c *PromptClassifier) Categories() []string {
	return c.categories
}

// Classify asks the model whether the text contains any of the
// configured categories.
func (c *PromptClassifier) Classify(ctx context.Context, text string) (Classification, error) {
	prompt := fmt.Sprintf(
		"Analyze this recipe for common allergens (%s). "+
			"Only respond with '%s' plus the allergens detected or '%s': %s",
		strings.Join(c.categories, ", "), foundMarker, cleanMarker, text)

	resp, err := c.client.Complete(ctx, CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: prompt}},
	})
	if err != nil {
		return Classification{}, err
	}
	return parseClassification(resp.Content), nil
}

// parseClassification extracts the verdict and cleans the detail text.
func parseClassification(content string) Classification {
	if !strings.Contains(content, foundMarker) {
		return Classification{Found: false}
	}
	_, detail, _ := strings.Cut(content, foundMarker)
	detail = strings.TrimLeft(detail, ":,- ")
	return Classification{
		Found:  true,
		Detail: strings.TrimSpace(detail),
	}
}
