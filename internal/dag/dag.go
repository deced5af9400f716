// Package dag provides a small directed graph for component import
// dependencies. It supports cycle detection and topological ordering.
package dag

import (
	"fmt"
	"sort"
	"strings"
)

// Graph is a directed graph of named nodes. An edge from A to B records
// that A imports B.
type Graph struct {
	nodes      map[string]struct{}
	deps       map[string][]string // importer -> imported
	dependents map[string][]string // imported -> importers
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:      make(map[string]struct{}),
		deps:       make(map[string][]string),
		dependents: make(map[string][]string),
	}
}

// AddNode adds a node. Adding an existing node is a no-op.
func (g *Graph) AddNode(id string) {
	g.nodes[id] = struct{}{}
}

// Has reports whether id is a node of the graph.
func (g *Graph) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// AddEdge records that from imports to. Both nodes must exist. A node may
// import itself; HasCycle reports it.
func (g *Graph) AddEdge(from, to string) error {
	if !g.Has(from) {
		return fmt.Errorf("node %q does not exist", from)
	}
	if !g.Has(to) {
		return fmt.Errorf("node %q does not exist", to)
	}
	if !contains(g.deps[from], to) {
		g.deps[from] = append(g.deps[from], to)
		g.dependents[to] = append(g.dependents[to], from)
	}
	return nil
}

// Dependencies returns the nodes id imports, sorted.
func (g *Graph) Dependencies(id string) []string {
	return sorted(g.deps[id])
}

// Dependents returns the nodes importing id, sorted.
func (g *Graph) Dependents(id string) []string {
	return sorted(g.dependents[id])
}

// Nodes returns all node ids, sorted.
func (g *Graph) Nodes() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, to := range g.deps {
		count += len(to)
	}
	return count
}

// HasCycle reports whether the graph contains a cycle, along with the cycle
// path. The path starts and ends with the same node. Traversal is in sorted
// order so the reported cycle is stable.
func (g *Graph) HasCycle() (bool, []string) {
	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	var stack []string
	var cycle []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		visited[id] = true
		onStack[id] = true
		stack = append(stack, id)

		for _, next := range g.Dependencies(id) {
			if onStack[next] {
				start := len(stack) - 1
				for stack[start] != next {
					start--
				}
				cycle = append(append([]string(nil), stack[start:]...), next)
				return true
			}
			if !visited[next] && dfs(next) {
				return true
			}
		}

		stack = stack[:len(stack)-1]
		onStack[id] = false
		return false
	}

	for _, id := range g.Nodes() {
		if !visited[id] && dfs(id) {
			return true, cycle
		}
	}
	return false, nil
}

// CycleError is returned by TopologicalSort for cyclic graphs.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return "cycle detected: " + strings.Join(e.Path, " -> ")
}

// TopologicalSort returns the nodes with every dependency before its
// importers. Ties are broken by name.
func (g *Graph) TopologicalSort() ([]string, error) {
	if hasCycle, path := g.HasCycle(); hasCycle {
		return nil, &CycleError{Path: path}
	}

	visited := make(map[string]bool)
	result := make([]string, 0, len(g.nodes))

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, dep := range g.Dependencies(id) {
			visit(dep)
		}
		result = append(result, id)
	}

	for _, id := range g.Nodes() {
		visit(id)
	}
	return result, nil
}

// Levels groups nodes by depth: level 0 holds nodes that import nothing,
// and every other node sits one level above its deepest dependency.
func (g *Graph) Levels() ([][]string, error) {
	order, err := g.TopologicalSort()
	if err != nil {
		return nil, err
	}

	depth := make(map[string]int, len(order))
	maxDepth := -1
	for _, id := range order {
		d := 0
		for _, dep := range g.deps[id] {
			if depth[dep]+1 > d {
				d = depth[dep] + 1
			}
		}
		depth[id] = d
		if d > maxDepth {
			maxDepth = d
		}
	}

	levels := make([][]string, maxDepth+1)
	for _, id := range g.Nodes() {
		levels[depth[id]] = append(levels[depth[id]], id)
	}
	return levels, nil
}

func sorted(ids []string) []string {
	out := append([]string(nil), ids...)
	sort.Strings(out)
	return out
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
