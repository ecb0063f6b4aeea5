// Package llm defines the text-generation capability boundary used by
// workflow nodes.
//
// Core types:
//   - Client: single-shot completion interface
//   - Classifier: concern classification over generated text
//   - MockClient: scripted client for tests
//
// Implementations:
//   - OpenAIClient: chat completions via the OpenAI API
//   - PromptClassifier: classification built on any Client, owning the
//     marker protocol so callers receive clean detail text
//
// Nodes treat every failure from this package uniformly as a generation
// failure; timeouts are enforced by the caller via context.
package llm
