package dag

import (
	"errors"
	"reflect"
	"testing"
)

func newGraph(t *testing.T, nodes []string, edges [][2]string) *Graph {
	t.Helper()
	g := NewGraph()
	for _, n := range nodes {
		g.AddNode(n)
	}
	for _, e := range edges {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			t.Fatalf("failed to add edge %v: %v", e, err)
		}
	}
	return g
}

func TestGraph_AddNodeAndEdge(t *testing.T) {
	g := newGraph(t, []string{"Card", "Badge", "Icon"}, [][2]string{
		{"Card", "Badge"},
		{"Badge", "Icon"},
	})

	if g.NodeCount() != 3 {
		t.Errorf("expected 3 nodes, got %d", g.NodeCount())
	}
	if g.EdgeCount() != 2 {
		t.Errorf("expected 2 edges, got %d", g.EdgeCount())
	}

	g.AddNode("Card")
	if g.NodeCount() != 3 {
		t.Errorf("re-adding a node changed the count to %d", g.NodeCount())
	}
}

func TestGraph_AddEdge_InvalidNodes(t *testing.T) {
	g := NewGraph()
	g.AddNode("Card")

	if err := g.AddEdge("Card", "Missing"); err == nil {
		t.Error("expected error for missing target node")
	}
	if err := g.AddEdge("Missing", "Card"); err == nil {
		t.Error("expected error for missing source node")
	}
}

func TestGraph_DuplicateEdges(t *testing.T) {
	g := newGraph(t, []string{"a", "b"}, [][2]string{{"a", "b"}, {"a", "b"}})

	if g.EdgeCount() != 1 {
		t.Errorf("expected 1 edge, got %d", g.EdgeCount())
	}
	if got := g.Dependents("b"); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("unexpected dependents: %v", got)
	}
}

func TestGraph_DependenciesAndDependents(t *testing.T) {
	g := newGraph(t, []string{"a", "b", "c"}, [][2]string{
		{"c", "b"},
		{"c", "a"},
		{"b", "a"},
	})

	if got := g.Dependencies("c"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("unexpected dependencies of c: %v", got)
	}
	if got := g.Dependents("a"); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Errorf("unexpected dependents of a: %v", got)
	}
	if got := g.Dependencies("a"); len(got) != 0 {
		t.Errorf("expected a to have no dependencies, got %v", got)
	}
}

func TestGraph_HasCycle(t *testing.T) {
	tests := []struct {
		name  string
		edges [][2]string
		want  []string
	}{
		{name: "chain", edges: [][2]string{{"a", "b"}, {"b", "c"}}},
		{name: "diamond", edges: [][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}}},
		{name: "three", edges: [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}}, want: []string{"a", "b", "c", "a"}},
		{name: "self import", edges: [][2]string{{"b", "b"}}, want: []string{"b", "b"}},
		{name: "tail into cycle", edges: [][2]string{{"a", "b"}, {"b", "c"}, {"c", "b"}}, want: []string{"b", "c", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGraph(t, []string{"a", "b", "c", "d"}, tt.edges)
			hasCycle, path := g.HasCycle()
			if hasCycle != (tt.want != nil) {
				t.Fatalf("HasCycle = %v, path %v", hasCycle, path)
			}
			if !reflect.DeepEqual(path, tt.want) {
				t.Errorf("expected path %v, got %v", tt.want, path)
			}
		})
	}
}

func TestGraph_TopologicalSort(t *testing.T) {
	g := newGraph(t, []string{"Slide", "Card", "Badge", "Icon"}, [][2]string{
		{"Slide", "Card"},
		{"Card", "Badge"},
		{"Card", "Icon"},
		{"Badge", "Icon"},
	})

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"Icon", "Badge", "Card", "Slide"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("expected %v, got %v", want, order)
	}
}

func TestGraph_TopologicalSort_Disconnected(t *testing.T) {
	g := newGraph(t, []string{"b", "a", "c"}, nil)

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(order, []string{"a", "b", "c"}) {
		t.Errorf("expected name order, got %v", order)
	}
}

func TestGraph_TopologicalSort_WithCycle(t *testing.T) {
	g := newGraph(t, []string{"a", "b"}, [][2]string{{"a", "b"}, {"b", "a"}})

	_, err := g.TopologicalSort()
	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("expected *CycleError, got %v", err)
	}
	if got := cycleErr.Error(); got != "cycle detected: a -> b -> a" {
		t.Errorf("unexpected message: %s", got)
	}
}

func TestGraph_Levels(t *testing.T) {
	g := newGraph(t, []string{"Slide", "Card", "Badge", "Icon", "Logo"}, [][2]string{
		{"Card", "Badge"},
		{"Card", "Icon"},
		{"Badge", "Icon"},
		{"Slide", "Card"},
	})

	levels, err := g.Levels()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]string{{"Icon", "Logo"}, {"Badge"}, {"Card"}, {"Slide"}}
	if !reflect.DeepEqual(levels, want) {
		t.Errorf("levels = %v, want %v", levels, want)
	}

	empty, err := NewGraph().Levels()
	if err != nil || len(empty) != 0 {
		t.Errorf("empty graph levels = %v, %v", empty, err)
	}

	cyclic := newGraph(t, []string{"a", "b"}, [][2]string{{"a", "b"}, {"b", "a"}})
	if _, err := cyclic.Levels(); err == nil {
		t.Error("expected cycle error")
	}
}
