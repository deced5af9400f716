package component

import (
	"errors"
	"sort"

	"github.com/leapstack-labs/leapslides/internal/dag"
	"github.com/leapstack-labs/leapslides/internal/module"
	"github.com/leapstack-labs/leapslides/internal/sfc"
)

// Imports returns the custom component names src imports, sorted and
// deduplicated.
func Imports(src *Source) ([]string, error) {
	doc, err := sfc.Parse(src.Code, src.Filename())
	if err != nil {
		return nil, &LoadError{File: src.Filename(), Message: "failed to parse component", Err: err}
	}

	seen := map[string]bool{}
	var names []string
	for _, script := range []*sfc.Script{doc.Script, doc.Setup} {
		if script == nil {
			continue
		}
		for _, imp := range script.Imports() {
			name, ok := module.ComponentName(imp.Specifier)
			if ok && !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names, nil
}

// Graph builds the import graph of sources. An edge from A to B records
// that A imports B. Imports of names outside sources are ignored.
func Graph(sources []*Source) (*dag.Graph, error) {
	g := dag.NewGraph()
	for _, src := range sources {
		g.AddNode(src.Name)
	}
	for _, src := range sources {
		deps, err := Imports(src)
		if err != nil {
			return nil, err
		}
		for _, dep := range deps {
			if !g.Has(dep) {
				continue
			}
			if err := g.AddEdge(src.Name, dep); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

// Order returns the component names with every imported component before
// its importers. A cycle is reported as a *CycleError.
func Order(sources []*Source) ([]string, error) {
	g, err := Graph(sources)
	if err != nil {
		return nil, err
	}
	order, err := g.TopologicalSort()
	var cycle *dag.CycleError
	if errors.As(err, &cycle) {
		return nil, &CycleError{Path: cycle.Path}
	}
	return order, err
}
