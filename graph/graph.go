package graph

import "fmt"

// Graph is a mutable graph builder. Add nodes and edges, set the entry
// point, then Compile into an executable form.
//
// Builder methods return the graph for chaining. Construction errors
// (duplicate nodes, unknown edge targets) are deferred to Compile so the
// chain stays readable.
type Graph[S any] struct {
	nodes      map[string]NodeFunc[S]
	edges      map[string]string
	routers    map[string]RouterFunc[S]
	entry      string
	interrupts map[string]bool
	errs       []error
}

// NewGraph creates an empty graph builder.
func NewGraph[S any]() *Graph[S] {
	return &Graph[S]{
		nodes:      make(map[string]NodeFunc[S]),
		edges:      make(map[string]string),
		routers:    make(map[string]RouterFunc[S]),
		interrupts: make(map[string]bool),
	}
}

// AddNode registers a node function under the given ID.
func (g *Graph[S]) AddNode(id string, fn NodeFunc[S]) *Graph[S] {
	switch {
	case id == "" || id == END:
		g.errs = append(g.errs, fmt.Errorf("invalid node id %q", id))
	case fn == nil:
		g.errs = append(g.errs, fmt.Errorf("node %q: nil function", id))
	default:
		if _, exists := g.nodes[id]; exists {
			g.errs = append(g.errs, fmt.Errorf("node %q already defined", id))
			return g
		}
		g.nodes[id] = fn
	}
	return g
}

// AddEdge adds an unconditional edge from one node to another (or to END).
func (g *Graph[S]) AddEdge(from, to string) *Graph[S] {
	if _, exists := g.edges[from]; exists {
		g.errs = append(g.errs, fmt.Errorf("node %q already has an edge", from))
		return g
	}
	if _, exists := g.routers[from]; exists {
		g.errs = append(g.errs, fmt.Errorf("node %q already has a conditional edge", from))
		return g
	}
	g.edges[from] = to
	return g
}

// AddConditionalEdge adds a conditional edge: after the node runs, the
// router picks the next node from state.
func (g *Graph[S]) AddConditionalEdge(from string, router RouterFunc[S]) *Graph[S] {
	if router == nil {
		g.errs = append(g.errs, fmt.Errorf("node %q: nil router", from))
		return g
	}
	if _, exists := g.edges[from]; exists {
		g.errs = append(g.errs, fmt.Errorf("node %q already has an edge", from))
		return g
	}
	if _, exists := g.routers[from]; exists {
		g.errs = append(g.errs, fmt.Errorf("node %q already has a conditional edge", from))
		return g
	}
	g.routers[from] = router
	return g
}

// SetEntry sets the node where execution starts.
func (g *Graph[S]) SetEntry(id string) *Graph[S] {
	g.entry = id
	return g
}

// InterruptBefore marks nodes as interrupt points. The marking is
// advisory: a driving loop checks IsInterrupt on the compiled graph and
// pauses before executing the node. Run ignores interrupt markings.
func (g *Graph[S]) InterruptBefore(ids ...string) *Graph[S] {
	for _, id := range ids {
		g.interrupts[id] = true
	}
	return g
}

// Compile validates the graph and returns an immutable executable form.
//
// Validation rules:
//   - entry must be set and refer to a known node
//   - every node must have exactly one outgoing edge or router
//   - every edge target must be a known node or END
//   - interrupt markings must refer to known nodes
func (g *Graph[S]) Compile() (*CompiledGraph[S], error) {
	if len(g.errs) > 0 {
		return nil, g.errs[0]
	}
	if len(g.nodes) == 0 {
		return nil, fmt.Errorf("graph has no nodes")
	}
	if g.entry == "" {
		return nil, fmt.Errorf("graph entry not set")
	}
	if _, ok := g.nodes[g.entry]; !ok {
		return nil, fmt.Errorf("entry %q is not a node", g.entry)
	}
	for from, to := range g.edges {
		if _, ok := g.nodes[from]; !ok {
			return nil, fmt.Errorf("edge from unknown node %q", from)
		}
		if to != END {
			if _, ok := g.nodes[to]; !ok {
				return nil, fmt.Errorf("edge %q -> %q: unknown target", from, to)
			}
		}
	}
	for from := range g.routers {
		if _, ok := g.nodes[from]; !ok {
			return nil, fmt.Errorf("conditional edge from unknown node %q", from)
		}
	}
	for id := range g.nodes {
		_, hasEdge := g.edges[id]
		_, hasRouter := g.routers[id]
		if !hasEdge && !hasRouter {
			return nil, fmt.Errorf("node %q has no outgoing edge", id)
		}
	}
	for id := range g.interrupts {
		if _, ok := g.nodes[id]; !ok {
			return nil, fmt.Errorf("interrupt before unknown node %q", id)
		}
	}

	c := &CompiledGraph[S]{
		nodes:      make(map[string]NodeFunc[S], len(g.nodes)),
		edges:      make(map[string]string, len(g.edges)),
		routers:    make(map[string]RouterFunc[S], len(g.routers)),
		interrupts: make(map[string]bool, len(g.interrupts)),
		entry:      g.entry,
		maxSteps:   defaultMaxSteps,
	}
	for id, fn := range g.nodes {
		c.nodes[id] = fn
	}
	for from, to := range g.edges {
		c.edges[from] = to
	}
	for from, r := range g.routers {
		c.routers[from] = r
	}
	for id := range g.interrupts {
		c.interrupts[id] = true
	}
	return c, nil
}
