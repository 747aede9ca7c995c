// Package betasplit implements the beta-splitting branching process
// (Aldous 1996) for generating random rooted binary trees.
//
// A group of n tips is recursively split into subgroups of sizes i and n-i
// with probability proportional to a gamma-function-based weight
// parameterized by beta. beta = 0 gives the Aldous branching model,
// beta = -1.5 the PDA model, and beta -> infinity the symmetric model.
//
// # Numerical sensitivity
//
// For beta near -2 or below, individual log-gamma terms diverge and the
// composed weights can come out negative or non-finite. This is a known
// sensitivity of the model, not masked here: [Weights] reports it as a
// NUMERIC_DEGENERACY error naming the offending (n, beta).
package betasplit

import (
	"math"
	"math/rand/v2"

	"github.com/RemieJanssen/NetworkGenerators/pkg/errors"
	"github.com/RemieJanssen/NetworkGenerators/pkg/network"
)

// Weights returns the n-1 unnormalized split weights for a group of n tips:
//
//	w_i = exp(lgamma(beta+i+1) + lgamma(beta+n-i+1) - lgamma(i+1) - lgamma(n-i+1))
//
// for i = 1..n-1. The model's normalizing constant is deliberately omitted:
// it rescales all weights uniformly and so does not affect the probability
// of any particular split. The sum of log-gamma terms is composed in log
// space and exponentiated once, which avoids overflow for large n.
//
// Returns an INVALID_INPUT error if n < 2, or a NUMERIC_DEGENERACY error if
// any weight comes out negative or non-finite (beta at or below -2).
func Weights(n int, beta float64) ([]float64, error) {
	if n < 2 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "group size must be at least 2, got %d", n)
	}

	w := make([]float64, n-1)
	for i := 1; i < n; i++ {
		lg1, s1 := math.Lgamma(beta + float64(i) + 1)
		lg2, s2 := math.Lgamma(beta + float64(n-i) + 1)
		lg3, _ := math.Lgamma(float64(i) + 1)
		lg4, _ := math.Lgamma(float64(n-i) + 1)

		v := float64(s1*s2) * math.Exp(lg1+lg2-lg3-lg4)
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.New(errors.ErrCodeNumericDegeneracy,
				"non-finite split weight for n=%d beta=%g at split %d", n, beta, i)
		}
		w[i-1] = v
	}
	return w, nil
}

// Sample draws a split index i in {1,...,n-1} with probability proportional
// to [Weights]. All randomness comes from the caller's rng, so a run is
// reproducible from a single fixed seed.
//
// Returns the errors of [Weights], plus NUMERIC_DEGENERACY if the weights
// sum to zero or overflow and no split can be drawn.
func Sample(rng *rand.Rand, n int, beta float64) (int, error) {
	w, err := Weights(n, beta)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, v := range w {
		total += v
	}
	if total <= 0 || math.IsInf(total, 0) {
		return 0, errors.New(errors.ErrCodeNumericDegeneracy,
			"split weights for n=%d beta=%g sum to %g", n, beta, total)
	}

	r := rng.Float64() * total
	for i, v := range w {
		r -= v
		if r < 0 {
			return i + 1, nil
		}
	}
	// Rounding can leave r at exactly 0 after the last weight.
	return n - 1, nil
}

// pending is a node waiting to be split, with the number of tips it must
// eventually subtend. The tip count is transient builder state: it is
// consumed when the node is split and never stored on the graph.
type pending struct {
	node int
	tips int
}

// Build grows a rooted binary tree with the requested number of tips under
// the beta-splitting model.
//
// Leaf IDs are allocated 1..tips and internal IDs tips+1..2*tips-1, both
// monotonically; the root is tips+1. Pending nodes are processed in
// last-in-first-out order. The processing order affects only node-ID
// assignment, not the distribution over shapes, but it is fixed so that a
// given random stream always produces the same tree.
//
// Postconditions: exactly tips leaves, 2*tips-1 nodes total, a single root,
// and every internal node with out-degree exactly 2.
func Build(rng *rand.Rand, tips int, beta float64) (*network.Network, error) {
	if tips < 2 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "tip count must be at least 2, got %d", tips)
	}

	g := network.New(nil)
	nextLeaf := 1
	nextInternal := tips + 1

	root := nextInternal
	nextInternal++
	mustAddNode(g, root)

	stack := []pending{{node: root, tips: tips}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		split, err := Sample(rng, p.tips, beta)
		if err != nil {
			return nil, err
		}

		// Label conservation: split + (tips - split) == tips.
		for _, size := range [2]int{split, p.tips - split} {
			if size == 1 {
				leaf := nextLeaf
				nextLeaf++
				mustAddNode(g, leaf)
				mustAddEdge(g, network.Edge{From: p.node, To: leaf})
				continue
			}
			child := nextInternal
			nextInternal++
			mustAddNode(g, child)
			mustAddEdge(g, network.Edge{From: p.node, To: child})
			stack = append(stack, pending{node: child, tips: size})
		}
	}
	return g, nil
}

// The builder allocates every ID itself, so add failures are impossible.

func mustAddNode(g *network.Network, id int) {
	if err := g.AddNode(id); err != nil {
		panic(err)
	}
}

func mustAddEdge(g *network.Network, e network.Edge) {
	if err := g.AddEdge(e); err != nil {
		panic(err)
	}
}
