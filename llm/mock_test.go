package llm

import (
	"context"
	"testing"
)

func TestMockClient_Default(t *testing.T) {
	mock := NewMockClient("fallback")

	resp, err := mock.Complete(context.Background(), CompletionRequest{})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Content != "fallback" {
		t.Errorf("Content = %q, want %q", resp.Content, "fallback")
	}
}

func TestMockClient_ResponsesCycle(t *testing.T) {
	mock := NewMockClient("").WithResponses("first", "second", "third")

	want := []string{"first", "second", "third", "first"}
	for i, expected := range want {
		resp, err := mock.Complete(context.Background(), CompletionRequest{})
		if err != nil {
			t.Fatalf("Complete() call %d error = %v", i, err)
		}
		if resp.Content != expected {
			t.Errorf("call %d: Content = %q, want %q", i, resp.Content, expected)
		}
	}
	if mock.CallCount() != 4 {
		t.Errorf("CallCount() = %d, want 4", mock.CallCount())
	}
}

func TestMockClient_CompleteFunc(t *testing.T) {
	var receivedPrompt string
	mock := NewMockClient("").WithCompleteFunc(func(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
		receivedPrompt = req.SystemPrompt
		return &CompletionResponse{Content: "Handled: " + req.SystemPrompt}, nil
	})

	resp, err := mock.Complete(context.Background(), CompletionRequest{SystemPrompt: "Be helpful"})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if receivedPrompt != "Be helpful" {
		t.Errorf("received prompt = %q", receivedPrompt)
	}
	if resp.Content != "Handled: Be helpful" {
		t.Errorf("Content = %q", resp.Content)
	}
}

func TestMockClient_RecordsRequests(t *testing.T) {
	mock := NewMockClient("ok")

	mock.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "one"}},
	})
	mock.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "two"}},
	})

	reqs := mock.Requests()
	if len(reqs) != 2 {
		t.Fatalf("Requests() len = %d, want 2", len(reqs))
	}
	if reqs[1].Messages[0].Content != "two" {
		t.Errorf("second request content = %q", reqs[1].Messages[0].Content)
	}
}
