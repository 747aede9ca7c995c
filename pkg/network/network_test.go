package network

import (
	"errors"
	"slices"
	"testing"
)

// buildCherry returns the smallest tree: root 3 with leaves 1 and 2.
func buildCherry(t *testing.T) *Network {
	t.Helper()
	g := New(nil)
	for _, id := range []int{3, 1, 2} {
		if err := g.AddNode(id); err != nil {
			t.Fatalf("AddNode(%d): %v", id, err)
		}
	}
	for _, e := range []Edge{{From: 3, To: 1}, {From: 3, To: 2}} {
		if err := g.AddEdge(e); err != nil {
			t.Fatalf("AddEdge(%d->%d): %v", e.From, e.To, err)
		}
	}
	return g
}

func TestAddNode(t *testing.T) {
	tests := []struct {
		name    string
		ids     []int
		wantErr error
	}{
		{name: "valid", ids: []int{1, 2, 3}},
		{name: "zero ID", ids: []int{0}, wantErr: ErrInvalidNodeID},
		{name: "negative ID", ids: []int{-5}, wantErr: ErrInvalidNodeID},
		{name: "duplicate", ids: []int{1, 1}, wantErr: ErrDuplicateNodeID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(nil)
			var err error
			for _, id := range tt.ids {
				err = g.AddNode(id)
				if err != nil {
					break
				}
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddEdge(t *testing.T) {
	tests := []struct {
		name    string
		edge    Edge
		wantErr error
	}{
		{name: "valid", edge: Edge{From: 1, To: 2}},
		{name: "unknown source", edge: Edge{From: 9, To: 2}, wantErr: ErrUnknownSourceNode},
		{name: "unknown target", edge: Edge{From: 1, To: 9}, wantErr: ErrUnknownTargetNode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(nil)
			g.AddNode(1)
			g.AddNode(2)
			if err := g.AddEdge(tt.edge); !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("duplicate", func(t *testing.T) {
		g := New(nil)
		g.AddNode(1)
		g.AddNode(2)
		g.AddEdge(Edge{From: 1, To: 2})
		if err := g.AddEdge(Edge{From: 1, To: 2}); !errors.Is(err, ErrDuplicateEdge) {
			t.Errorf("err = %v, want %v", err, ErrDuplicateEdge)
		}
	})
}

func TestRemoveEdge(t *testing.T) {
	g := buildCherry(t)

	if err := g.RemoveEdge(3, 1); err != nil {
		t.Fatalf("RemoveEdge: %v", err)
	}
	if g.HasEdge(3, 1) {
		t.Error("edge 3->1 still present after removal")
	}
	if got := g.EdgeCount(); got != 1 {
		t.Errorf("EdgeCount() = %d, want 1", got)
	}
	if got := g.InDegree(1); got != 0 {
		t.Errorf("InDegree(1) = %d, want 0", got)
	}

	if err := g.RemoveEdge(3, 1); !errors.Is(err, ErrUnknownEdge) {
		t.Errorf("second removal err = %v, want %v", err, ErrUnknownEdge)
	}
}

func TestReplaceEdges(t *testing.T) {
	t.Run("atomic subdivision", func(t *testing.T) {
		g := buildCherry(t)
		g.AddNode(4)

		err := g.ReplaceEdges(
			[]Edge{{From: 3, To: 1}},
			[]Edge{{From: 3, To: 4}, {From: 4, To: 1}},
		)
		if err != nil {
			t.Fatalf("ReplaceEdges: %v", err)
		}
		if g.HasEdge(3, 1) {
			t.Error("replaced edge 3->1 still present")
		}
		if !g.HasEdge(3, 4) || !g.HasEdge(4, 1) {
			t.Error("subdivision edges missing")
		}
	})

	t.Run("unknown removal leaves graph untouched", func(t *testing.T) {
		g := buildCherry(t)
		err := g.ReplaceEdges(
			[]Edge{{From: 1, To: 2}},
			[]Edge{{From: 1, To: 2}},
		)
		if !errors.Is(err, ErrUnknownEdge) {
			t.Fatalf("err = %v, want %v", err, ErrUnknownEdge)
		}
		if got := g.EdgeCount(); got != 2 {
			t.Errorf("EdgeCount() = %d, want 2 (unchanged)", got)
		}
	})

	t.Run("unknown add endpoint leaves graph untouched", func(t *testing.T) {
		g := buildCherry(t)
		err := g.ReplaceEdges(
			[]Edge{{From: 3, To: 1}},
			[]Edge{{From: 3, To: 99}},
		)
		if !errors.Is(err, ErrUnknownTargetNode) {
			t.Fatalf("err = %v, want %v", err, ErrUnknownTargetNode)
		}
		if !g.HasEdge(3, 1) {
			t.Error("edge 3->1 removed despite failed replace")
		}
	})

	t.Run("duplicate add leaves graph untouched", func(t *testing.T) {
		g := buildCherry(t)
		err := g.ReplaceEdges(
			[]Edge{{From: 3, To: 1}},
			[]Edge{{From: 3, To: 2}},
		)
		if !errors.Is(err, ErrDuplicateEdge) {
			t.Fatalf("err = %v, want %v", err, ErrDuplicateEdge)
		}
		if !g.HasEdge(3, 1) {
			t.Error("edge 3->1 removed despite failed replace")
		}
		if got := g.EdgeCount(); got != 2 {
			t.Errorf("EdgeCount() = %d, want 2 (unchanged)", got)
		}
	})

	t.Run("duplicate within add list leaves graph untouched", func(t *testing.T) {
		g := buildCherry(t)
		g.AddNode(4)
		err := g.ReplaceEdges(
			[]Edge{{From: 3, To: 1}},
			[]Edge{{From: 3, To: 4}, {From: 3, To: 4}},
		)
		if !errors.Is(err, ErrDuplicateEdge) {
			t.Fatalf("err = %v, want %v", err, ErrDuplicateEdge)
		}
		if !g.HasEdge(3, 1) || g.HasEdge(3, 4) {
			t.Error("graph mutated despite failed replace")
		}
	})

	t.Run("re-adding a removed edge is allowed", func(t *testing.T) {
		g := buildCherry(t)
		err := g.ReplaceEdges(
			[]Edge{{From: 3, To: 1}},
			[]Edge{{From: 3, To: 1, Length: Some(0.5)}},
		)
		if err != nil {
			t.Fatalf("ReplaceEdges: %v", err)
		}
		e, ok := g.Edge(3, 1)
		if !ok || !e.Length.Valid || e.Length.Value != 0.5 {
			t.Errorf("Edge(3,1) = %+v, %v; want length 0.5", e, ok)
		}
	})
}

func TestEdgeBetween(t *testing.T) {
	g := buildCherry(t)

	t.Run("forward", func(t *testing.T) {
		e, ok := g.EdgeBetween(3, 1)
		if !ok || e.From != 3 || e.To != 1 {
			t.Errorf("EdgeBetween(3,1) = %+v, %v; want 3->1, true", e, ok)
		}
	})

	t.Run("reversed", func(t *testing.T) {
		e, ok := g.EdgeBetween(1, 3)
		if !ok || e.From != 3 || e.To != 1 {
			t.Errorf("EdgeBetween(1,3) = %+v, %v; want 3->1, true", e, ok)
		}
	})

	t.Run("missing", func(t *testing.T) {
		if _, ok := g.EdgeBetween(1, 2); ok {
			t.Error("EdgeBetween(1,2) found an edge between siblings")
		}
	})
}

func TestInsertionOrder(t *testing.T) {
	g := New(nil)
	order := []int{5, 2, 9, 1}
	for _, id := range order {
		g.AddNode(id)
	}
	g.AddEdge(Edge{From: 5, To: 2})
	g.AddEdge(Edge{From: 5, To: 9})
	g.AddEdge(Edge{From: 2, To: 1})

	if got := g.Nodes(); !slices.Equal(got, order) {
		t.Errorf("Nodes() = %v, want %v", got, order)
	}

	edges := g.Edges()
	wantPairs := [][2]int{{5, 2}, {5, 9}, {2, 1}}
	for i, want := range wantPairs {
		if edges[i].From != want[0] || edges[i].To != want[1] {
			t.Errorf("Edges()[%d] = %d->%d, want %d->%d", i, edges[i].From, edges[i].To, want[0], want[1])
		}
	}
}

func TestRootsAndLeaves(t *testing.T) {
	g := buildCherry(t)

	if got := g.Roots(); !slices.Equal(got, []int{3}) {
		t.Errorf("Roots() = %v, want [3]", got)
	}
	if got := g.Leaves(); !slices.Equal(got, []int{1, 2}) {
		t.Errorf("Leaves() = %v, want [1 2]", got)
	}
}

func TestMaxNode(t *testing.T) {
	g := New(nil)
	if got := g.MaxNode(); got != 0 {
		t.Errorf("MaxNode() on empty graph = %d, want 0", got)
	}
	g.AddNode(7)
	g.AddNode(3)
	if got := g.MaxNode(); got != 7 {
		t.Errorf("MaxNode() = %d, want 7", got)
	}
}

func TestHasPath(t *testing.T) {
	// 4 -> 3 -> 1, 3 -> 2
	g := New(nil)
	for _, id := range []int{4, 3, 1, 2} {
		g.AddNode(id)
	}
	g.AddEdge(Edge{From: 4, To: 3})
	g.AddEdge(Edge{From: 3, To: 1})
	g.AddEdge(Edge{From: 3, To: 2})

	tests := []struct {
		name     string
		from, to int
		want     bool
	}{
		{name: "direct edge", from: 4, to: 3, want: true},
		{name: "transitive", from: 4, to: 1, want: true},
		{name: "against direction", from: 1, to: 4, want: false},
		{name: "siblings", from: 1, to: 2, want: false},
		{name: "self", from: 3, to: 3, want: true},
		{name: "missing node", from: 99, to: 1, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.HasPath(tt.from, tt.to); got != tt.want {
				t.Errorf("HasPath(%d, %d) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestNeighborsUndirected(t *testing.T) {
	g := buildCherry(t)

	got := g.NeighborsUndirected(3)
	if !slices.Equal(got, []int{1, 2}) {
		t.Errorf("NeighborsUndirected(3) = %v, want [1 2]", got)
	}

	got = g.NeighborsUndirected(1)
	if !slices.Equal(got, []int{3}) {
		t.Errorf("NeighborsUndirected(1) = %v, want [3]", got)
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid DAG", func(t *testing.T) {
		g := buildCherry(t)
		if err := g.Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})

	t.Run("diamond is acyclic", func(t *testing.T) {
		g := New(nil)
		for _, id := range []int{1, 2, 3, 4} {
			g.AddNode(id)
		}
		g.AddEdge(Edge{From: 1, To: 2})
		g.AddEdge(Edge{From: 1, To: 3})
		g.AddEdge(Edge{From: 2, To: 4})
		g.AddEdge(Edge{From: 3, To: 4})
		if err := g.Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})

	t.Run("cycle detected", func(t *testing.T) {
		g := New(nil)
		for _, id := range []int{1, 2, 3} {
			g.AddNode(id)
		}
		g.AddEdge(Edge{From: 1, To: 2})
		g.AddEdge(Edge{From: 2, To: 3})
		g.AddEdge(Edge{From: 3, To: 1})
		if err := g.Validate(); !errors.Is(err, ErrGraphHasCycle) {
			t.Errorf("Validate() = %v, want %v", err, ErrGraphHasCycle)
		}
	})
}

func TestMeta(t *testing.T) {
	t.Run("nil becomes empty", func(t *testing.T) {
		g := New(nil)
		if g.Meta() == nil {
			t.Fatal("Meta() = nil, want empty map")
		}
		g.Meta()["seed"] = "42"
		if g.Meta()["seed"] != "42" {
			t.Error("metadata write not visible")
		}
	})

	t.Run("preserved", func(t *testing.T) {
		g := New(Metadata{"run_id": "abc"})
		if got := g.Meta()["run_id"]; got != "abc" {
			t.Errorf(`Meta()["run_id"] = %v, want "abc"`, got)
		}
	})
}

func TestEdgeAttributes(t *testing.T) {
	g := New(nil)
	g.AddNode(1)
	g.AddNode(2)
	g.AddEdge(Edge{From: 1, To: 2, Length: Some(0.5)})

	e, ok := g.Edge(1, 2)
	if !ok {
		t.Fatal("edge 1->2 not found")
	}
	if !e.Length.Valid || e.Length.Value != 0.5 {
		t.Errorf("Length = %+v, want {0.5 true}", e.Length)
	}
	if e.Prob.Valid {
		t.Errorf("Prob = %+v, want absent", e.Prob)
	}
}
