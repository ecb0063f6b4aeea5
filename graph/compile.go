package graph

import (
	"context"
	"fmt"
)

// defaultMaxSteps bounds Run against accidental cycles.
const defaultMaxSteps = 100

// NodeError wraps an error from a node function with the node's ID.
type NodeError struct {
	NodeID string
	Err    error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node %s: %v", e.NodeID, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}

// CompiledGraph is an immutable, validated graph ready for execution.
// It is safe for concurrent use.
type CompiledGraph[S any] struct {
	nodes      map[string]NodeFunc[S]
	edges      map[string]string
	routers    map[string]RouterFunc[S]
	interrupts map[string]bool
	entry      string
	maxSteps   int
}

// Entry returns the ID of the entry node.
func (c *CompiledGraph[S]) Entry() string {
	return c.entry
}

// Has reports whether the graph contains the given node.
func (c *CompiledGraph[S]) Has(id string) bool {
	_, ok := c.nodes[id]
	return ok
}

// IsInterrupt reports whether the node is marked as an interrupt point.
func (c *CompiledGraph[S]) IsInterrupt(id string) bool {
	return c.interrupts[id]
}

// Step executes the single node identified by id against state and
// returns the updated state and the ID of the next node (possibly END).
//
// On node failure the original state is returned unchanged along with a
// *NodeError; the caller decides whether to retry. Routing happens only
// after a successful node run, so a failed node is re-entered on retry.
func (c *CompiledGraph[S]) Step(ctx context.Context, id string, state S) (S, string, error) {
	fn, ok := c.nodes[id]
	if !ok {
		return state, "", fmt.Errorf("unknown node %q", id)
	}

	updated, err := fn(ctx, state)
	if err != nil {
		return state, "", &NodeError{NodeID: id, Err: err}
	}

	if to, ok := c.edges[id]; ok {
		return updated, to, nil
	}
	router := c.routers[id]
	next := router(ctx, updated)
	if next != END && !c.Has(next) {
		return updated, "", fmt.Errorf("node %q routed to unknown node %q", id, next)
	}
	return updated, next, nil
}

// Run executes the graph from the entry node until END, ignoring
// interrupt markings. Execution is bounded by a step limit to protect
// against cycles.
func (c *CompiledGraph[S]) Run(ctx context.Context, state S) (S, error) {
	current := c.entry
	for steps := 0; current != END; steps++ {
		if steps >= c.maxSteps {
			return state, fmt.Errorf("exceeded %d steps without reaching END", c.maxSteps)
		}
		if err := ctx.Err(); err != nil {
			return state, err
		}
		var err error
		state, current, err = c.Step(ctx, current, state)
		if err != nil {
			return state, err
		}
	}
	return state, nil
}
