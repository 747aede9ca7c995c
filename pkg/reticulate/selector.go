package reticulate

import (
	"math/rand/v2"

	"github.com/RemieJanssen/NetworkGenerators/pkg/errors"
	"github.com/RemieJanssen/NetworkGenerators/pkg/network"
)

// DefaultMaxTries bounds the retry loops in both selectors. The bound turns
// a pathological non-terminating selection into an explicit
// SELECTION_EXHAUSTED failure instead of a hang.
const DefaultMaxTries = 100

// Selector chooses an ordered pair of distinct edges to splice.
// Implementations draw all randomness from the passed rng.
type Selector interface {
	Pair(rng *rand.Rand, g *network.Network) (network.Edge, network.Edge, error)
}

// Uniform selects two edges independently and uniformly at random from the
// full edge set. Independent draws can coincide, which is not a meaningful
// pair for splicing, so identical draws are resampled until distinct.
type Uniform struct {
	// MaxTries bounds the resampling loop. 0 means DefaultMaxTries.
	MaxTries int
}

// Pair draws two distinct edges uniformly at random.
// Returns a retryable SELECTION_EXHAUSTED error if the retry budget runs
// out without a distinct pair.
func (s Uniform) Pair(rng *rand.Rand, g *network.Network) (network.Edge, network.Edge, error) {
	maxTries := s.MaxTries
	if maxTries <= 0 {
		maxTries = DefaultMaxTries
	}

	edges := g.Edges()
	for try := 0; try < maxTries; try++ {
		i := rng.IntN(len(edges))
		j := rng.IntN(len(edges))
		if i != j {
			return edges[i], edges[j], nil
		}
	}
	return network.Edge{}, network.Edge{}, errors.Retryable(errors.New(
		errors.ErrCodeSelectionExhausted,
		"no distinct edge pair after %d uniform draws", maxTries))
}

// LocalWalk selects the second edge by a bounded random walk with geometric
// stopping, starting from a uniformly drawn first edge. The walk treats the
// graph as undirected, so the resulting pair tends to be topologically close
// - reticulations between nearby branches rather than arbitrary ones.
type LocalWalk struct {
	// StopProb is the probability of stopping after each move. Must be in
	// (0, 1] for the walk to terminate with probability 1.
	StopProb float64

	// MaxSteps caps the walk length unconditionally. 0 means uncapped,
	// leaving termination to the geometric stopping alone.
	MaxSteps int

	// MaxTries bounds whole-walk retries (walks that end back on the first
	// edge are discarded). 0 means DefaultMaxTries.
	MaxTries int
}

// Pair draws the first edge uniformly, walks from a uniformly chosen
// endpoint, and identifies the second edge from the walk's final
// (previous, current) node pair. The traversal direction need not match
// storage direction: if the ordered pair is not a directed edge, the
// reversed pair is used.
//
// A walk that stops on the first edge is discarded and retried from a fresh
// first-edge draw. Returns a retryable SELECTION_EXHAUSTED error once the
// retry budget is exhausted.
func (s LocalWalk) Pair(rng *rand.Rand, g *network.Network) (network.Edge, network.Edge, error) {
	maxTries := s.MaxTries
	if maxTries <= 0 {
		maxTries = DefaultMaxTries
	}

	edges := g.Edges()
	for try := 0; try < maxTries; try++ {
		edge1 := edges[rng.IntN(len(edges))]

		// One endpoint starts the walk, the other is the node behind it.
		prev, cur := edge1.From, edge1.To
		if rng.IntN(2) == 0 {
			prev, cur = cur, prev
		}

		for steps := 1; ; steps++ {
			nbrs := g.NeighborsUndirected(cur)
			prev, cur = cur, nbrs[rng.IntN(len(nbrs))]
			if rng.Float64() < s.StopProb {
				break
			}
			if s.MaxSteps > 0 && steps >= s.MaxSteps {
				break
			}
		}

		edge2, ok := g.EdgeBetween(prev, cur)
		if !ok {
			// Walk moves follow graph adjacency, so the pair is always an
			// edge in one orientation; a miss means the graph changed
			// underneath us.
			continue
		}
		if edge2.From == edge1.From && edge2.To == edge1.To {
			continue
		}
		return edge1, edge2, nil
	}
	return network.Edge{}, network.Edge{}, errors.Retryable(errors.New(
		errors.ErrCodeSelectionExhausted,
		"no distinct edge pair after %d local walks (stop probability %g)", maxTries, s.StopProb))
}
