package llm

import (
	"context"
	"sync"
)

// MockClient is a scripted Client for tests.
//
// With a response list, calls cycle through the list (modulo). A custom
// CompleteFunc takes precedence over the list. Safe for concurrent use.
type MockClient struct {
	mu           sync.Mutex
	defaultResp  string
	responses    []string
	completeFunc func(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	calls        int
	requests     []CompletionRequest
}

// NewMockClient creates a mock that returns defaultResp for every call
// until responses or a complete func are configured.
func NewMockClient(defaultResp string) *MockClient {
	return &MockClient{defaultResp: defaultResp}
}

// WithResponses sets a sequence of responses returned in order,
// cycling back to the first once exhausted.
func (m *MockClient) WithResponses(responses ...string) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = responses
	return m
}

// WithCompleteFunc sets a custom handler for completion calls.
func (m *MockClient) WithCompleteFunc(fn func(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completeFunc = fn
	return m
}

// Complete returns the next scripted response.
func (m *MockClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	m.mu.Lock()
	fn := m.completeFunc
	call := m.calls
	m.calls++
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	content := m.defaultResp
	if len(m.responses) > 0 {
		content = m.responses[call%len(m.responses)]
	}
	return &CompletionResponse{
		Content: content,
		Usage:   Usage{InputTokens: 10, OutputTokens: 20},
	}, nil
}

// CallCount returns the number of Complete calls made.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Requests returns a copy of all requests received, in order.
func (m *MockClient) Requests() []CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CompletionRequest, len(m.requests))
	copy(out, m.requests)
	return out
}
