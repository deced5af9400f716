package lsp

import (
	"fmt"
	"sort"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/leapstack-labs/leapslides/internal/deck"
)

const maxLayoutFixes = 3

// fix is a replacement offered for one diagnostic.
type fix struct {
	Description string
	Edits       []TextEdit
}

// fixCache stores fixes for diagnostics, keyed by URI and diagnostic.
type fixCache struct {
	mu    sync.RWMutex
	fixes map[string]map[string][]fix // URI -> diagnostic key -> fixes
}

func newFixCache() *fixCache {
	return &fixCache{fixes: make(map[string]map[string][]fix)}
}

func fixKey(d Diagnostic) string {
	return fmt.Sprintf("%s:%d:%d", d.Code, d.Range.Start.Line, d.Range.Start.Character)
}

func (c *fixCache) add(uri string, d Diagnostic, fixes []fix) {
	if len(fixes) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fixes[uri] == nil {
		c.fixes[uri] = make(map[string][]fix)
	}
	c.fixes[uri][fixKey(d)] = fixes
}

func (c *fixCache) get(uri string, d Diagnostic) []fix {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fixes[uri][fixKey(d)]
}

// clearURI removes all cached fixes for a URI.
func (c *fixCache) clearURI(uri string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.fixes, uri)
}

// handleCodeAction handles the textDocument/codeAction request.
func (s *Server) handleCodeAction(msg *JSONRPCMessage) error {
	var params CodeActionParams
	if err := s.decodeParams(msg, &params); err != nil {
		return err
	}

	s.sendResponse(msg.ID, s.getCodeActions(params), nil)
	return nil
}

// getCodeActions returns quick fixes for the diagnostics in params.
func (s *Server) getCodeActions(params CodeActionParams) []CodeAction {
	if len(params.Context.Only) > 0 && !containsKind(params.Context.Only, CodeActionKindQuickFix) {
		return []CodeAction{}
	}

	actions := []CodeAction{}
	for _, diag := range params.Context.Diagnostics {
		fixes := s.fixes.get(params.TextDocument.URI, diag)
		for i, f := range fixes {
			actions = append(actions, CodeAction{
				Title:       f.Description,
				Kind:        CodeActionKindQuickFix,
				Diagnostics: []Diagnostic{diag},
				IsPreferred: i == 0,
				Edit: &WorkspaceEdit{
					Changes: map[string][]TextEdit{params.TextDocument.URI: f.Edits},
				},
			})
		}
	}
	return actions
}

func containsKind(kinds []CodeActionKind, kind CodeActionKind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// layoutFixes suggests registered layouts close to an unknown name. The
// default layout is offered when nothing is close.
func layoutFixes(name string, layouts []string, r Range) []fix {
	ranks := fuzzy.RankFindNormalizedFold(name, layouts)
	if len(ranks) == 0 {
		// Also match layouts spelled within the name, as "center" in "centerd".
		for _, layout := range layouts {
			if fuzzy.MatchNormalizedFold(layout, name) {
				ranks = append(ranks, fuzzy.Rank{Source: layout, Target: layout, Distance: len(name) - len(layout)})
			}
		}
	}
	sort.Sort(ranks)

	var suggestions []string
	for _, rank := range ranks {
		if len(suggestions) == maxLayoutFixes {
			break
		}
		suggestions = append(suggestions, rank.Target)
	}
	if len(suggestions) == 0 {
		suggestions = []string{deck.DefaultLayout}
	}

	fixes := make([]fix, len(suggestions))
	for i, layout := range suggestions {
		fixes[i] = fix{
			Description: fmt.Sprintf("Change layout to %q", layout),
			Edits:       []TextEdit{{Range: r, NewText: layout}},
		}
	}
	return fixes
}
