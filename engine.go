package safeplates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/safeplates/safeplates/checkpoint"
	"github.com/safeplates/safeplates/graph"
	"github.com/safeplates/safeplates/llm"
	"github.com/safeplates/safeplates/prompt"
)

// Status of a submit call's outcome.
type Status string

const (
	// StatusWaiting means the session paused for user input; Prompt
	// holds the question to show the user.
	StatusWaiting Status = "waiting"

	// StatusCompleted means the workflow finished; FinalRecipe holds the
	// result.
	StatusCompleted Status = "completed"
)

// Result is the outcome of a Submit call. Errors are returned
// separately; see the package error taxonomy.
type Result struct {
	SessionID   string `json:"sessionId"`
	Status      Status `json:"status"`
	Prompt      string `json:"prompt,omitempty"`
	FinalRecipe string `json:"finalRecipe,omitempty"`
}

// Engine drives recipe workflow sessions through the graph, persisting a
// checkpoint after every node so a paused or crashed session resumes
// exactly where it stopped.
//
// Sessions are independent and may be driven concurrently; submits for
// the same session are serialized internally.
type Engine struct {
	graph      *graph.CompiledGraph[State]
	store      checkpoint.Store
	llm        llm.Client
	classifier llm.Classifier
	prompts    *prompt.Loader
	logger     *slog.Logger

	locks sync.Map // sessionID -> *sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithLLM sets the text generation client.
func WithLLM(client llm.Client) Option {
	return func(e *Engine) {
		e.llm = client
	}
}

// WithClassifier sets the allergen classifier.
func WithClassifier(classifier llm.Classifier) Option {
	return func(e *Engine) {
		e.classifier = classifier
	}
}

// WithPrompts sets a prompt loader; without one, nodes use built-in
// prompts.
func WithPrompts(loader *prompt.Loader) Option {
	return func(e *Engine) {
		e.prompts = loader
	}
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an engine over the given checkpoint store.
func NewEngine(store checkpoint.Store, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("checkpoint store is required")
	}

	g, err := NewRecipeGraph()
	if err != nil {
		return nil, fmt.Errorf("build recipe graph: %w", err)
	}

	e := &Engine{
		graph:  g,
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.llm == nil {
		return nil, ErrNoLLMClient
	}
	if e.classifier == nil {
		return nil, ErrNoClassifier
	}
	return e, nil
}

// Submit advances one session by one user message.
//
// With an empty sessionID a new session is created (the engine mints an
// id) and input is the recipe request. For a session paused for input,
// input is the user's dietary restrictions and execution resumes. For a
// completed session, the stored result is replayed without re-executing
// anything. Any other submit against an existing session is a protocol
// error (ErrUnexpectedInput).
//
// A GenerationError leaves the last persisted checkpoint untouched;
// retrying with the same input re-attempts the failed node.
func (e *Engine) Submit(ctx context.Context, sessionID, input string) (*Result, error) {
	if sessionID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return nil, fmt.Errorf("mint session id: %w", err)
		}
		sessionID = id
	}

	// Serialize submits per session so two callers can't race to resume
	// the same paused workflow. Distinct sessions proceed independently.
	mu := e.sessionLock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	ctx = e.injectServices(ctx)
	logger := e.logger.With("session_id", sessionID)

	cp, err := e.store.Load(ctx, sessionID)
	resumed := false
	switch {
	case errors.Is(err, checkpoint.ErrNotFound):
		cp, err = e.createSession(ctx, sessionID, input)
		if err != nil {
			return nil, err
		}
		logger.Info("session created", "node", cp.Node)

	case err != nil:
		return nil, &StorageError{Op: "load checkpoint", SessionID: sessionID, Err: err}

	case cp.Node == graph.END:
		// Completed sessions replay the stored result; no capability
		// calls, no re-execution.
		state, err := decodeState(cp)
		if err != nil {
			return nil, err
		}
		logger.Info("replaying completed session")
		e.locks.Delete(sessionID)
		return &Result{
			SessionID:   sessionID,
			Status:      StatusCompleted,
			FinalRecipe: state.FinalRecipe,
		}, nil

	case cp.AwaitingInput:
		cp, err = e.resumeSession(ctx, cp, input)
		if err != nil {
			return nil, err
		}
		resumed = true
		logger.Info("session resumed", "node", cp.Node)

	default:
		// Not awaiting input and not completed: the previous submit
		// failed mid-flight. A resubmit of the same input re-attempts
		// the pending node; anything else is a protocol error. Before
		// the entry node has succeeded the last input was the request;
		// past it, the session was resumed and the last input was the
		// feedback.
		state, err := decodeState(cp)
		if err != nil {
			return nil, err
		}
		expected := state.Request
		if cp.Node != e.graph.Entry() {
			expected = state.Feedback
		}
		if input != expected {
			return nil, fmt.Errorf("%w: %s", ErrUnexpectedInput, sessionID)
		}
		logger.Info("session retrying", "node", cp.Node)
	}

	return e.drive(ctx, logger, cp, resumed)
}

// createSession mints the initial checkpoint at the graph entry.
func (e *Engine) createSession(ctx context.Context, sessionID, input string) (*checkpoint.Checkpoint, error) {
	cp := &checkpoint.Checkpoint{
		SessionID: sessionID,
		Node:      e.graph.Entry(),
	}
	if err := encodeState(cp, NewState(input)); err != nil {
		return nil, err
	}
	if err := e.store.Save(ctx, cp); err != nil {
		return nil, &StorageError{Op: "save checkpoint", SessionID: sessionID, Err: err}
	}
	return cp, nil
}

// resumeSession records the user's feedback and clears the pause flag.
func (e *Engine) resumeSession(ctx context.Context, cp *checkpoint.Checkpoint, input string) (*checkpoint.Checkpoint, error) {
	state, err := decodeState(cp)
	if err != nil {
		return nil, err
	}
	state = state.WithFeedback(input)
	cp.AwaitingInput = false
	if err := encodeState(cp, state); err != nil {
		return nil, err
	}
	if err := e.store.Save(ctx, cp); err != nil {
		return nil, &StorageError{Op: "save checkpoint", SessionID: cp.SessionID, Err: err}
	}
	return cp, nil
}

// drive executes nodes from the checkpoint's position until the workflow
// completes or pauses at an interrupt node. The checkpoint is persisted
// after every node execution; the in-memory cursor never advances past a
// failed save, so a retried submit re-runs the same node.
//
// resumed suppresses the interrupt check for the first node: a session
// resumed with feedback executes the interrupt node it paused before,
// rather than pausing on it again.
func (e *Engine) drive(ctx context.Context, logger *slog.Logger, cp *checkpoint.Checkpoint, resumed bool) (*Result, error) {
	state, err := decodeState(cp)
	if err != nil {
		return nil, err
	}

	skipInterrupt := resumed
	for cp.Node != graph.END {
		if e.graph.IsInterrupt(cp.Node) && !skipInterrupt {
			cp.AwaitingInput = true
			if err := encodeState(cp, state); err != nil {
				return nil, err
			}
			if err := e.store.Save(ctx, cp); err != nil {
				return nil, &StorageError{Op: "save checkpoint", SessionID: cp.SessionID, Err: err}
			}
			logger.Info("session paused for input", "node", cp.Node)
			return &Result{
				SessionID: cp.SessionID,
				Status:    StatusWaiting,
				Prompt:    feedbackPrompt(state.Allergens),
			}, nil
		}
		skipInterrupt = false

		newState, next, err := e.graph.Step(ctx, cp.Node, state)
		if err != nil {
			logger.Warn("node failed", "node", cp.Node, "error", err)
			return nil, err
		}

		executed := cp.Node
		cp.Node = next
		cp.AwaitingInput = false
		if err := encodeState(cp, newState); err != nil {
			cp.Node = executed
			return nil, err
		}
		if err := e.store.Save(ctx, cp); err != nil {
			cp.Node = executed
			return nil, &StorageError{Op: "save checkpoint", SessionID: cp.SessionID, Err: err}
		}
		state = newState
		logger.Debug("node executed", "node", executed, "next", next)
	}

	logger.Info("session completed", "tokens_in", state.TokensIn, "tokens_out", state.TokensOut)

	// The session can only be replayed from here on; drop its lock map
	// entry so completed sessions don't accumulate. Replays after this
	// point are read-only, so racing on a fresh mutex is harmless.
	e.locks.Delete(cp.SessionID)
	return &Result{
		SessionID:   cp.SessionID,
		Status:      StatusCompleted,
		FinalRecipe: state.FinalRecipe,
	}, nil
}

// SessionInfo describes where a session currently stands.
type SessionInfo struct {
	SessionID     string `json:"sessionId"`
	Node          string `json:"node"`
	AwaitingInput bool   `json:"awaitingInput"`
	Completed     bool   `json:"completed"`
	State         State  `json:"state"`
}

// Session inspects an existing session without advancing it. Returns
// ErrSessionNotFound for an unknown id.
func (e *Engine) Session(ctx context.Context, sessionID string) (*SessionInfo, error) {
	cp, err := e.store.Load(ctx, sessionID)
	if errors.Is(err, checkpoint.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	if err != nil {
		return nil, &StorageError{Op: "load checkpoint", SessionID: sessionID, Err: err}
	}
	state, err := decodeState(cp)
	if err != nil {
		return nil, err
	}
	return &SessionInfo{
		SessionID:     sessionID,
		Node:          cp.Node,
		AwaitingInput: cp.AwaitingInput,
		Completed:     cp.Node == graph.END,
		State:         state,
	}, nil
}

// injectServices makes the engine's services available to nodes.
func (e *Engine) injectServices(ctx context.Context) context.Context {
	ctx = WithLLMClient(ctx, e.llm)
	ctx = WithAllergenClassifier(ctx, e.classifier)
	if e.prompts != nil {
		ctx = WithPromptLoader(ctx, e.prompts)
	}
	return ctx
}

// sessionLock returns the mutex serializing submits for one session.
func (e *Engine) sessionLock(sessionID string) *sync.Mutex {
	mu, _ := e.locks.LoadOrStore(sessionID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// feedbackPrompt builds the question shown to the user while the
// session waits for dietary restrictions.
func feedbackPrompt(allergens string) string {
	return fmt.Sprintf(
		"Are you allergic to any of the following ingredients:\n%s\nIf so, please specify which ones.",
		allergens)
}

func encodeState(cp *checkpoint.Checkpoint, state State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return &StorageError{Op: "encode state", SessionID: cp.SessionID, Err: err}
	}
	cp.State = data
	return nil
}

func decodeState(cp *checkpoint.Checkpoint) (State, error) {
	var state State
	if err := json.Unmarshal(cp.State, &state); err != nil {
		return state, &StorageError{Op: "decode state", SessionID: cp.SessionID, Err: err}
	}
	return state, nil
}
