// Package reticulate inserts reticulation edges into a phylogenetic tree,
// turning it into a rooted network (a DAG with nodes of in-degree 2).
//
// Each insertion picks a pair of distinct edges via a [Selector], subdivides
// both, and connects the two fresh subdivision nodes. A reachability check
// decides the connector's direction so the graph stays acyclic.
package reticulate

import (
	"fmt"
	"math/rand/v2"

	"github.com/RemieJanssen/NetworkGenerators/pkg/errors"
	"github.com/RemieJanssen/NetworkGenerators/pkg/network"
)

// Add performs count sequential reticulation insertions on g, selecting each
// edge pair with sel. Each insertion grows the graph by exactly 2 nodes and
// 3 edges (net) and preserves acyclicity.
//
// A selector failure aborts that insertion and returns its error wrapped
// with the insertion index; earlier insertions remain applied and the failed
// one leaves no partial mutation.
//
// Returns an INVALID_INPUT error if count < 0. Calling Add with fewer than
// 2 edges in the graph is a programming-contract violation and panics: a
// tree with at least 2 tips always has at least 2 edges, and every insertion
// strictly grows the edge set.
func Add(rng *rand.Rand, g *network.Network, count int, sel Selector) error {
	if count < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "reticulation count must be non-negative, got %d", count)
	}
	if count > 0 && g.EdgeCount() < 2 {
		panic(fmt.Sprintf("reticulate: graph has %d edges, need at least 2", g.EdgeCount()))
	}

	for i := 0; i < count; i++ {
		edgeA, edgeB, err := sel.Pair(rng, g)
		if err != nil {
			return errors.Wrap(errors.GetCode(err), err, "reticulation %d of %d", i+1, count)
		}
		AddEdgeBetween(rng, g, edgeA, edgeB)
	}
	return nil
}

// AddEdgeBetween subdivides edgeA and edgeB and connects the two
// subdivision nodes with a fresh edge, from edgeA's side to edgeB's side.
//
// If connecting in that direction would close a cycle (edgeA's parent is
// reachable from edgeB's child), the roles of the two edges are swapped
// first, so the connector always runs from the topologically earlier edge
// to the topologically later one.
//
// A removed edge's length L is split uniformly: the parent half gets
// l1 ~ U[0,L] and the child half L-l1. A removed edge's probability moves
// unchanged to the child half only. The connector carries no length or
// probability.
//
// Both edges must exist in g and be distinct; violating that is a
// programming-contract violation and panics.
func AddEdgeBetween(rng *rand.Rand, g *network.Network, edgeA, edgeB network.Edge) {
	if edgeA.From == edgeB.From && edgeA.To == edgeB.To {
		panic("reticulate: cannot splice an edge with itself")
	}

	if g.HasPath(edgeB.To, edgeA.From) {
		edgeA, edgeB = edgeB, edgeA
	}

	x := g.MaxNode() + 1
	y := x + 1
	mustAddNode(g, x)
	mustAddNode(g, y)

	parentA, childA := subdivide(rng, edgeA, x)
	parentB, childB := subdivide(rng, edgeB, y)
	connector := network.Edge{From: x, To: y}

	// The five adds and two removals are one atomic replace.
	if err := g.ReplaceEdges(
		[]network.Edge{edgeA, edgeB},
		[]network.Edge{parentA, childA, parentB, childB, connector},
	); err != nil {
		panic(err)
	}
}

// subdivide splits e at a fresh middle node, redistributing attributes:
// length splits uniformly across the two halves, probability sticks to the
// child half.
func subdivide(rng *rand.Rand, e network.Edge, mid int) (parent, child network.Edge) {
	parent = network.Edge{From: e.From, To: mid}
	child = network.Edge{From: mid, To: e.To, Prob: e.Prob}
	if e.Length.Valid {
		l1 := rng.Float64() * e.Length.Value
		parent.Length = network.Some(l1)
		child.Length = network.Some(e.Length.Value - l1)
	}
	return parent, child
}

func mustAddNode(g *network.Network, id int) {
	if err := g.AddNode(id); err != nil {
		panic(err)
	}
}
