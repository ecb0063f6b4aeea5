package checkpoint

import (
	"context"
	"testing"
)

func TestNewRedisStore_InvalidURL(t *testing.T) {
	_, err := NewRedisStore(context.Background(), "not-a-url")
	if err == nil {
		t.Fatal("NewRedisStore() expected error for invalid URL")
	}
}

func TestRedisKey(t *testing.T) {
	if got := redisKey("abc"); got != "safeplates:checkpoint:abc" {
		t.Errorf("redisKey() = %q", got)
	}
}
