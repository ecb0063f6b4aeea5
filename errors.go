package safeplates

import "errors"

// Session protocol errors
var (
	// ErrSessionNotFound indicates the session id has no checkpoint where
	// one was required.
	ErrSessionNotFound = errors.New("session not found")

	// ErrUnexpectedInput indicates the caller supplied input for a
	// session that is not waiting for any. A caller bug; do not retry
	// blindly.
	ErrUnexpectedInput = errors.New("session is not waiting for input")
)

// Service wiring errors
var (
	// ErrNoLLMClient indicates no llm.Client was configured or injected.
	ErrNoLLMClient = errors.New("llm client not configured")

	// ErrNoClassifier indicates no allergen classifier was configured.
	ErrNoClassifier = errors.New("allergen classifier not configured")
)

// GenerationError wraps a failure of the external generation capability.
// The failed node committed no state, so re-submitting the same input
// re-attempts the same node safely.
type GenerationError struct {
	Op  string // Operation that failed (e.g., "generate recipe")
	Err error  // Underlying error
}

func (e *GenerationError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// StorageError wraps a checkpoint read or write failure. Terminal for
// the in-flight call: the engine does not advance past a failed save.
type StorageError struct {
	Op        string // Operation that failed (e.g., "save checkpoint")
	SessionID string
	Err       error
}

func (e *StorageError) Error() string {
	return e.Op + " (session " + e.SessionID + "): " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Retryable reports whether re-submitting the same input is sensible.
// Generation failures leave no partial state behind and may be retried;
// protocol errors indicate a caller bug.
func Retryable(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}
