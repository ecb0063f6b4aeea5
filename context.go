package safeplates

import (
	"context"

	"github.com/safeplates/safeplates/llm"
	"github.com/safeplates/safeplates/prompt"
)

// =============================================================================
// Context Injection Helpers
// =============================================================================
// These helpers inject services into context.Context for use by workflow
// nodes. The engine injects its configured services before driving the
// graph; tests can inject mocks directly.

// serviceContextKey is a private type for context keys to avoid collisions
type serviceContextKey string

// Context keys for services
const (
	llmServiceKey        serviceContextKey = "safeplates.llm"
	classifierServiceKey serviceContextKey = "safeplates.classifier"
	promptServiceKey     serviceContextKey = "safeplates.prompts"
)

// WithLLMClient adds an LLM client to the context.
func WithLLMClient(ctx context.Context, client llm.Client) context.Context {
	return context.WithValue(ctx, llmServiceKey, client)
}

// LLMFromContext extracts the LLM client from context.
func LLMFromContext(ctx context.Context) llm.Client {
	if client, ok := ctx.Value(llmServiceKey).(llm.Client); ok {
		return client
	}
	return nil
}

// WithAllergenClassifier adds an allergen classifier to the context.
func WithAllergenClassifier(ctx context.Context, classifier llm.Classifier) context.Context {
	return context.WithValue(ctx, classifierServiceKey, classifier)
}

// ClassifierFromContext extracts the allergen classifier from context.
func ClassifierFromContext(ctx context.Context) llm.Classifier {
	if c, ok := ctx.Value(classifierServiceKey).(llm.Classifier); ok {
		return c
	}
	return nil
}

// WithPromptLoader adds a prompt loader to the context.
func WithPromptLoader(ctx context.Context, loader *prompt.Loader) context.Context {
	return context.WithValue(ctx, promptServiceKey, loader)
}

// PromptLoaderFromContext extracts the prompt loader from context.
// Returns nil if not set - nodes fall back to built-in prompts.
func PromptLoaderFromContext(ctx context.Context) *prompt.Loader {
	if loader, ok := ctx.Value(promptServiceKey).(*prompt.Loader); ok {
		return loader
	}
	return nil
}
