package component

import (
	"embed"
	"sort"
)

//go:embed layouts/*.vue
var layoutFS embed.FS

// BuiltinLayouts returns the layouts shipped with the renderer, sorted by
// name. "default" is always among them.
func BuiltinLayouts() []*Source {
	sources, err := LoadFS(layoutFS, "layouts", "layouts")
	if err != nil {
		// embedded files are validated by tests
		panic(err)
	}
	return sources
}

// MergeLayouts overlays user layouts on the built-ins. A user layout
// replaces the built-in of the same name.
func MergeLayouts(builtin, user []*Source) []*Source {
	byName := make(map[string]*Source, len(builtin)+len(user))
	for _, s := range builtin {
		byName[s.Name] = s
	}
	for _, s := range user {
		byName[s.Name] = s
	}
	out := make([]*Source, 0, len(byName))
	for _, s := range byName {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
