package network

import (
	"errors"
	"slices"

	"github.com/bits-and-blooms/bitset"
)

var (
	// ErrInvalidNodeID is returned by [Network.AddNode] when the node ID is
	// not positive. Leaf and internal counters both allocate from 1 upward.
	ErrInvalidNodeID = errors.New("node ID must be positive")

	// ErrDuplicateNodeID is returned by [Network.AddNode] when a node with
	// the same ID already exists in the graph. Node IDs are never reused.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Network.AddEdge] when the From node
	// does not exist in the graph.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Network.AddEdge] when the To node
	// does not exist in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrDuplicateEdge is returned by [Network.AddEdge] when an edge between
	// the same ordered pair of nodes already exists.
	ErrDuplicateEdge = errors.New("duplicate edge")

	// ErrUnknownEdge is returned by [Network.RemoveEdge] and
	// [Network.ReplaceEdges] when the targeted edge does not exist.
	ErrUnknownEdge = errors.New("unknown edge")

	// ErrInvalidEdgeEndpoint is returned by [Network.Validate] when an edge
	// references a node that doesn't exist. This indicates graph corruption.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrGraphHasCycle is returned by [Network.Validate] when a cycle is
	// detected. Cycles are detected using depth-first search with
	// white/gray/black coloring.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Metadata stores arbitrary key-value pairs attached to the graph.
// It is commonly used to record generation provenance (run ID, seed,
// simulation parameters). Metadata maps are never nil - they are
// automatically initialized to empty maps when needed.
type Metadata map[string]any

// Optional is a present/absent float value for edge attributes.
// The zero value is absent.
type Optional struct {
	Value float64
	Valid bool
}

// Some returns a present Optional holding v.
func Some(v float64) Optional { return Optional{Value: v, Valid: true} }

// Edge represents a directed connection between two nodes.
// Length and Prob are optional attributes: a branch length and an
// inheritance probability. Both are absent unless explicitly set.
type Edge struct {
	From   int      // Source (parent) node ID
	To     int      // Target (child) node ID
	Length Optional // Branch length (absent unless set)
	Prob   Optional // Inheritance probability (absent unless set)
}

// Network is a directed graph over integer node IDs, used for phylogenetic
// trees and reticulate networks. Nodes and edges are iterated in insertion
// order, which makes text output deterministic for a fixed random stream.
//
// The zero value is not usable - use New to create a valid Network instance.
// Network is not safe for concurrent use without external synchronization.
type Network struct {
	order    []int            // node IDs in insertion order
	nodes    map[int]struct{} // node membership
	edges    []Edge           // edges in insertion order
	outgoing map[int][]int    // node ID -> child IDs
	incoming map[int][]int    // node ID -> parent IDs
	maxNode  int              // highest node ID ever added
	meta     Metadata
}

// New creates an empty Network with optional graph-level metadata.
// The metadata parameter can be nil, in which case an empty map is created.
func New(meta Metadata) *Network {
	if meta == nil {
		meta = Metadata{}
	}
	return &Network{
		nodes:    make(map[int]struct{}),
		outgoing: make(map[int][]int),
		incoming: make(map[int][]int),
		meta:     meta,
	}
}

// Meta returns the graph-level metadata map.
// The returned map is never nil and can be safely modified.
func (g *Network) Meta() Metadata { return g.meta }

// AddNode adds a node to the graph.
// Returns ErrInvalidNodeID if id is not positive, or ErrDuplicateNodeID
// if the node already exists.
func (g *Network) AddNode(id int) error {
	if id <= 0 {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[id]; exists {
		return ErrDuplicateNodeID
	}
	g.nodes[id] = struct{}{}
	g.order = append(g.order, id)
	if id > g.maxNode {
		g.maxNode = id
	}
	return nil
}

// HasNode reports whether a node with the given ID exists.
func (g *Network) HasNode(id int) bool {
	_, ok := g.nodes[id]
	return ok
}

// AddEdge adds a directed edge between two existing nodes.
// Returns ErrUnknownSourceNode if the From node doesn't exist,
// ErrUnknownTargetNode if the To node doesn't exist, or ErrDuplicateEdge
// if an edge between the same ordered pair already exists.
func (g *Network) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if g.HasEdge(e.From, e.To) {
		return ErrDuplicateEdge
	}
	g.edges = append(g.edges, e)
	g.outgoing[e.From] = append(g.outgoing[e.From], e.To)
	g.incoming[e.To] = append(g.incoming[e.To], e.From)
	return nil
}

// RemoveEdge removes the edge from→to.
// Returns ErrUnknownEdge if the edge does not exist. The removed edge's
// attributes are discarded - callers that need them must copy them forward.
func (g *Network) RemoveEdge(from, to int) error {
	if !g.HasEdge(from, to) {
		return ErrUnknownEdge
	}
	g.edges = slices.DeleteFunc(g.edges, func(e Edge) bool { return e.From == from && e.To == to })
	g.outgoing[from] = slices.DeleteFunc(g.outgoing[from], func(n int) bool { return n == to })
	g.incoming[to] = slices.DeleteFunc(g.incoming[to], func(n int) bool { return n == from })
	return nil
}

// ReplaceEdges atomically removes and adds a set of edges.
// Every removal target, every added edge's endpoints, and every added
// edge's uniqueness (against the surviving edge set and the add list
// itself) are validated before any mutation, so a failed replace leaves
// the graph untouched. Attribute edge fields on removal entries are
// ignored - removal targets are identified by their (From, To) pair only.
func (g *Network) ReplaceEdges(remove, add []Edge) error {
	for _, e := range remove {
		if !g.HasEdge(e.From, e.To) {
			return ErrUnknownEdge
		}
	}
	removing := func(from, to int) bool {
		for _, e := range remove {
			if e.From == from && e.To == to {
				return true
			}
		}
		return false
	}
	for i, e := range add {
		if _, ok := g.nodes[e.From]; !ok {
			return ErrUnknownSourceNode
		}
		if _, ok := g.nodes[e.To]; !ok {
			return ErrUnknownTargetNode
		}
		if g.HasEdge(e.From, e.To) && !removing(e.From, e.To) {
			return ErrDuplicateEdge
		}
		for _, prev := range add[:i] {
			if prev.From == e.From && prev.To == e.To {
				return ErrDuplicateEdge
			}
		}
	}
	for _, e := range remove {
		_ = g.RemoveEdge(e.From, e.To)
	}
	for _, e := range add {
		_ = g.AddEdge(e)
	}
	return nil
}

// HasEdge reports whether a directed edge from→to exists.
func (g *Network) HasEdge(from, to int) bool {
	return slices.Contains(g.outgoing[from], to)
}

// Edge returns the edge from→to with its attributes, and whether it exists.
func (g *Network) Edge(from, to int) (Edge, bool) {
	for _, e := range g.edges {
		if e.From == from && e.To == to {
			return e, true
		}
	}
	return Edge{}, false
}

// EdgeBetween returns the edge between u and v in either orientation,
// preferring u→v. This supports traversals that treat the graph as
// undirected: the traversal direction need not match storage direction.
func (g *Network) EdgeBetween(u, v int) (Edge, bool) {
	if e, ok := g.Edge(u, v); ok {
		return e, true
	}
	return g.Edge(v, u)
}

// Nodes returns all node IDs in insertion order.
// The returned slice is a copy and can be modified freely.
func (g *Network) Nodes() []int { return slices.Clone(g.order) }

// Edges returns a copy of all edges in insertion order.
// Modifications to the returned slice do not affect the graph.
func (g *Network) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes in the graph.
func (g *Network) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Network) EdgeCount() int { return len(g.edges) }

// MaxNode returns the highest node ID ever added, or 0 for an empty graph.
// Fresh subdivision nodes are allocated as MaxNode()+1.
func (g *Network) MaxNode() int { return g.maxNode }

// Successors returns the IDs of nodes this node has edges to.
// Returns nil if the node has no successors or doesn't exist. The returned
// slice should not be modified - use it as a read-only view.
func (g *Network) Successors(id int) []int { return g.outgoing[id] }

// Predecessors returns the IDs of nodes that have edges to this node.
// Returns nil if the node has no predecessors or doesn't exist. The returned
// slice should not be modified - use it as a read-only view.
func (g *Network) Predecessors(id int) []int { return g.incoming[id] }

// OutDegree returns the number of outgoing edges from the node.
// Returns 0 if the node doesn't exist.
func (g *Network) OutDegree(id int) int { return len(g.outgoing[id]) }

// InDegree returns the number of incoming edges to the node.
// Returns 0 if the node doesn't exist.
func (g *Network) InDegree(id int) int { return len(g.incoming[id]) }

// NeighborsUndirected returns the union of successors and predecessors,
// treating the graph as undirected. Used by random-walk edge selection.
// The returned slice is freshly allocated on each call.
func (g *Network) NeighborsUndirected(id int) []int {
	out := g.outgoing[id]
	in := g.incoming[id]
	nbrs := make([]int, 0, len(out)+len(in))
	nbrs = append(nbrs, out...)
	nbrs = append(nbrs, in...)
	return nbrs
}

// Roots returns node IDs with no incoming edges, in insertion order.
// A tree has exactly one root; reticulation never adds roots.
func (g *Network) Roots() []int {
	var roots []int
	for _, id := range g.order {
		if len(g.incoming[id]) == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}

// Leaves returns node IDs with no outgoing edges, in insertion order.
// These are the tips of the phylogeny.
func (g *Network) Leaves() []int {
	var leaves []int
	for _, id := range g.order {
		if len(g.outgoing[id]) == 0 {
			leaves = append(leaves, id)
		}
	}
	return leaves
}

// HasPath reports whether to is reachable from from by directed edges.
// A node is always reachable from itself. Reachability is computed with
// breadth-first search; visited tracking uses a bitset since node IDs are
// dense small integers.
func (g *Network) HasPath(from, to int) bool {
	if from == to {
		return g.HasNode(from)
	}
	if !g.HasNode(from) || !g.HasNode(to) {
		return false
	}

	visited := bitset.New(uint(g.maxNode + 1))
	queue := []int{from}
	visited.Set(uint(from))
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range g.outgoing[cur] {
			if next == to {
				return true
			}
			if !visited.Test(uint(next)) {
				visited.Set(uint(next))
				queue = append(queue, next)
			}
		}
	}
	return false
}

// Validate checks graph integrity and returns nil if valid.
// It verifies two constraints:
//
//  1. All edges connect existing nodes
//  2. The graph is acyclic (no directed cycles exist)
//
// Returns ErrInvalidEdgeEndpoint if an edge references a missing node, or
// ErrGraphHasCycle if a cycle is detected. Use this after mutation passes
// that assume a valid DAG.
//
// Cycle detection runs in O(N+E) time using depth-first search.
func (g *Network) Validate() error {
	for _, e := range g.edges {
		if !g.HasNode(e.From) || !g.HasNode(e.To) {
			return ErrInvalidEdgeEndpoint
		}
	}
	return g.detectCycles()
}

func (g *Network) detectCycles() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[int]int, len(g.nodes))
	var hasCycle bool

	var dfs func(id int)
	dfs = func(id int) {
		color[id] = gray
		for _, child := range g.outgoing[id] {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				hasCycle = true
				return
			}
		}
		color[id] = black
	}

	for _, id := range g.order {
		if color[id] == white {
			dfs(id)
			if hasCycle {
				return ErrGraphHasCycle
			}
		}
	}
	return nil
}
