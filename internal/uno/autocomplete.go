package uno

import (
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxSuggestions caps a single hint.
const maxSuggestions = 50

// Suggestion is one completion candidate.
type Suggestion struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Hint is the completion result for a cursor position. Start and End are
// byte offsets of the token the suggestions replace.
type Hint struct {
	Suggestions []Suggestion `json:"suggestions"`
	Start       int          `json:"start"`
	End         int          `json:"end"`
}

var templateValues = map[string]func(*Theme) []string{
	"<num>": func(*Theme) []string {
		out := make([]string, 0, 28)
		for i := 0; i <= 12; i++ {
			out = append(out, strconv.Itoa(i))
		}
		for _, n := range []int{14, 16, 20, 24, 28, 32, 36, 40, 48, 56, 64, 72, 80, 96} {
			out = append(out, strconv.Itoa(n))
		}
		return out
	},
	"<percent>": func(*Theme) []string {
		out := make([]string, 0, 11)
		for i := 0; i <= 100; i += 10 {
			out = append(out, strconv.Itoa(i))
		}
		return out
	},
	"<color>": func(t *Theme) []string {
		if t == nil {
			return nil
		}
		return t.ColorNames()
	},
}

// Autocomplete ranks utility names against a partial token.
type Autocomplete struct {
	config *ResolvedConfig

	once      sync.Once
	utilities []string
	variants  []string
}

// NewAutocomplete builds the candidate index lazily from config.
func NewAutocomplete(config *ResolvedConfig) *Autocomplete {
	return &Autocomplete{config: config}
}

func (a *Autocomplete) index() {
	a.once.Do(func() {
		seen := map[string]bool{}
		add := func(dst *[]string, s string) {
			if s != "" && !seen[s] {
				seen[s] = true
				*dst = append(*dst, s)
			}
		}
		for _, r := range a.config.Rules {
			if r.Meta.Internal {
				continue
			}
			add(&a.utilities, r.Static)
			for _, tmpl := range r.Meta.Autocomplete {
				for _, s := range expandTemplate(tmpl, a.config.Theme) {
					add(&a.utilities, s)
				}
			}
		}
		for _, s := range a.config.Shortcuts {
			add(&a.utilities, s.Static)
		}
		for _, v := range a.config.Variants {
			for _, s := range v.Autocomplete {
				add(&a.variants, s)
			}
		}
		sort.Strings(a.utilities)
		sort.Strings(a.variants)
	})
}

func expandTemplate(tmpl string, theme *Theme) []string {
	for name, values := range templateValues {
		before, after, ok := strings.Cut(tmpl, name)
		if !ok {
			continue
		}
		var out []string
		for _, v := range values(theme) {
			out = append(out, expandTemplate(before+v+after, theme)...)
		}
		return out
	}
	if strings.Contains(tmpl, "<") {
		return nil
	}
	return []string{tmpl}
}

func isTokenBoundary(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '"', '\'', '`', ';', '{', '}', '<', '>', '=':
		return true
	}
	return false
}

// Suggest returns completions for the token under cursor in text, or nil
// when nothing matches.
func (a *Autocomplete) Suggest(text string, cursor int) *Hint {
	if cursor < 0 || cursor > len(text) {
		return nil
	}
	start := cursor
	for start > 0 && !isTokenBoundary(text[start-1]) {
		start--
	}
	end := cursor
	for end < len(text) && !isTokenBoundary(text[end]) {
		end++
	}
	input := text[start:cursor]
	if input == "" {
		return nil
	}

	a.index()
	variantPart, util := "", input
	if i := strings.LastIndex(input, ":"); i >= 0 {
		variantPart, util = input[:i+1], input[i+1:]
	}

	var ranked []string
	if util == "" {
		ranked = a.utilities
	} else {
		candidates := a.utilities
		if variantPart == "" {
			candidates = append(slices.Clone(a.variants), a.utilities...)
		}
		ranked = rank(util, candidates)
	}
	if len(ranked) == 0 {
		return nil
	}
	if len(ranked) > maxSuggestions {
		ranked = ranked[:maxSuggestions]
	}
	h := &Hint{Start: start, End: end}
	for _, r := range ranked {
		h.Suggestions = append(h.Suggestions, Suggestion{Value: variantPart + r, Label: variantPart + r})
	}
	return h
}

// rank orders fuzzy matches with prefix matches first, then by distance.
func rank(input string, candidates []string) []string {
	ranks := fuzzy.RankFindFold(input, candidates)
	lower := strings.ToLower(input)
	sort.SliceStable(ranks, func(i, j int) bool {
		pi := strings.HasPrefix(strings.ToLower(ranks[i].Target), lower)
		pj := strings.HasPrefix(strings.ToLower(ranks[j].Target), lower)
		if pi != pj {
			return pi
		}
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].Target < ranks[j].Target
	})
	out := make([]string, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, r.Target)
	}
	return out
}
