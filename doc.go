// Package safeplates implements a resumable recipe-generation workflow
// with an allergen safety check and a human-feedback pause.
//
// The package is organized into subpackages by domain:
//
//   - graph: directed step-graph engine with conditional branching
//   - checkpoint: durable per-session state snapshots (memory, SQLite, Redis)
//   - llm: text generation and allergen classification boundary
//   - prompt: prompt template loading
//   - config: YAML + environment configuration
//
// # Quick Start
//
//	import (
//	    "github.com/safeplates/safeplates"
//	    "github.com/safeplates/safeplates/checkpoint"
//	    "github.com/safeplates/safeplates/llm"
//	)
//
//	client := llm.NewOpenAIClient(apiKey)
//	engine, _ := safeplates.NewEngine(checkpoint.NewMemoryStore(),
//	    safeplates.WithLLM(client),
//	    safeplates.WithClassifier(llm.NewPromptClassifier(client,
//	        []string{"nuts", "dairy", "gluten", "shellfish", "eggs"})),
//	)
//
//	// First submit starts a session; the engine mints the id.
//	res, err := engine.Submit(ctx, "", "I want a recipe for chocolate cookies")
//
//	// If allergens were found the session pauses; answer with restrictions.
//	if res.Status == safeplates.StatusWaiting {
//	    res, err = engine.Submit(ctx, res.SessionID, "no dairy please")
//	}
//
// A paused session is persisted in its checkpoint store and can be
// resumed from another process. See individual package documentation for
// detailed usage.
package safeplates
