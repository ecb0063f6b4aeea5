/*
Package graph provides a small directed step-graph engine for LLM workflows.

# Overview

A graph is built from named nodes and edges, compiled into an immutable
form, and then executed either straight through (Run) or one node at a
time (Step). Nodes transform a typed state value; conditional edges pick
the next node from runtime state.

	type State struct {
	    Input  string
	    Output string
	}

	func process(ctx context.Context, s State) (State, error) {
	    s.Output = "Processed: " + s.Input
	    return s, nil
	}

	g, err := graph.NewGraph[State]().
	    AddNode("process", process).
	    AddEdge("process", graph.END).
	    SetEntry("process").
	    Compile()

	result, err := g.Run(ctx, State{Input: "hello"})

# Conditional Branching

Use a conditional edge where the next node depends on state:

	graph.AddConditionalEdge("check", func(ctx context.Context, s State) string {
	    if s.Flagged {
	        return "review"
	    }
	    return "publish"
	})

The router must return a node ID known to the graph, or graph.END.

# Stepwise Execution and Interrupts

Callers that need to pause a workflow (for example, to wait for human
input) drive the graph with Step and persist state between calls:

	state, next, err := g.Step(ctx, "check", state)

Nodes marked with InterruptBefore are ordinary nodes; the marking is
advisory. Step never pauses on its own; the driving loop consults
g.IsInterrupt(next) and decides when to stop and persist.

# Thread Safety

Graph[S] is not safe for concurrent use during construction.
CompiledGraph[S] is immutable and safe for concurrent use.
*/
package graph
