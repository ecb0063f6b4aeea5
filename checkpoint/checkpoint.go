package checkpoint

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound indicates no checkpoint exists for the session.
var ErrNotFound = errors.New("checkpoint not found")

// Checkpoint is the persisted form of one workflow session.
type Checkpoint struct {
	// SessionID identifies the session. Opaque, caller-supplied or minted
	// by the engine.
	SessionID string `json:"sessionId"`

	// Node is the ID of the next node to execute, or the engine's
	// terminal marker once the workflow has finished.
	Node string `json:"node"`

	// AwaitingInput is true while the session is paused before an
	// interrupt node, waiting for external input.
	AwaitingInput bool `json:"awaitingInput"`

	// State is the serialized workflow state.
	State json.RawMessage `json:"state"`

	// UpdatedAt is set by the store on every save.
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a deep copy. State bytes are copied so the caller's
// working copy and the stored snapshot never alias.
func (c *Checkpoint) Clone() *Checkpoint {
	cp := *c
	if c.State != nil {
		cp.State = make(json.RawMessage, len(c.State))
		copy(cp.State, c.State)
	}
	return &cp
}

// Store persists checkpoints keyed by session ID.
//
// Implementations must be safe for concurrent use across distinct
// session keys. Save must be atomic with respect to a single session: a
// concurrent Load never observes a partially written checkpoint.
type Store interface {
	// Load returns the latest checkpoint for the session, or ErrNotFound.
	Load(ctx context.Context, sessionID string) (*Checkpoint, error)

	// Save writes the checkpoint, replacing any previous one for the
	// same session.
	Save(ctx context.Context, cp *Checkpoint) error

	// Exists reports whether a checkpoint exists for the session.
	Exists(ctx context.Context, sessionID string) (bool, error)
}
