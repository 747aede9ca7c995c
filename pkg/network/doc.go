// Package network provides the directed-graph type underlying phylogenetic
// tree and network simulation.
//
// A [Network] holds integer node IDs and directed [Edge] values with optional
// length and probability attributes. Nodes and edges iterate in insertion
// order, so the text output of a seeded run is stable. The package exposes
// exactly the primitives the generators need: add/remove edges (atomically,
// via [Network.ReplaceEdges]), successor/predecessor lookup, undirected
// neighborhoods for random walks, and BFS reachability for cycle avoidance.
//
// # Invariants
//
// The tree builder and network mutator maintain these invariants on any
// graph they produce:
//
//   - The graph never contains a directed cycle.
//   - During the tree phase, every non-root node has exactly one incoming
//     edge and every node has out-degree 0 or 2.
//   - Each reticulation insertion grows the graph by exactly 2 nodes and
//     3 edges (net), leaving exactly one node with in-degree 2 per insertion.
//
// [Network.Validate] checks edge-endpoint consistency and acyclicity.
package network
