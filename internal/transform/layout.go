package transform

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/leapstack-labs/leapslides/internal/deck"
	"github.com/leapstack-labs/leapslides/internal/module"
	"github.com/leapstack-labs/leapslides/internal/sfc"
)

// LayoutTag is the element the slide body is wrapped in.
const LayoutTag = "InjectedLayout"

// LayoutInjector wraps each slide body in its layout component and binds
// the slide frontmatter to it.
type LayoutInjector struct {
	// Layouts returns the available layout names.
	Layouts func() []string
	// Slides returns the current deck.
	Slides func() []deck.SlideInfo
	Logger *slog.Logger
}

func (*LayoutInjector) Name() string { return "layout-wrapper" }

func (l *LayoutInjector) Transform(doc *sfc.Document, id string) error {
	index, ok := deck.ParseSlideID(id)
	if !ok {
		return nil
	}
	if doc.Setup == nil {
		return fmt.Errorf("slide %d: %w", index+1, ErrNoSetupBlock)
	}

	var infos []deck.SlideInfo
	if l.Slides != nil {
		infos = l.Slides()
	}
	name := l.resolve(infos, index)

	frontmatter, err := marshalFrontmatter(deck.ResolveFrontmatter(infos, index))
	if err != nil {
		return fmt.Errorf("slide %d: encode frontmatter: %w", index+1, err)
	}

	var body []sfc.Node
	if doc.Template != nil {
		body = doc.Template.Unwrap("div")
	} else {
		doc.Template = &sfc.Template{}
	}
	doc.Template.Nodes = []sfc.Node{
		sfc.NewElement(LayoutTag, []sfc.Attr{{Name: "v-bind", Value: "$frontmatter"}}, body...),
	}

	doc.Setup.Prepend(
		&sfc.ImportStmt{Default: LayoutTag, Specifier: module.LayoutSpecifier(name)},
		&sfc.ImportStmt{Default: "remote", Specifier: module.RemoteSpecifier},
		&sfc.ConstStmt{Name: "$frontmatter", Value: frontmatter},
	)
	return nil
}

// resolve returns the layout for the slide, falling back to the default
// layout when the name is unknown.
func (l *LayoutInjector) resolve(infos []deck.SlideInfo, index int) string {
	name := deck.ResolveLayout(infos, index)
	if name == "" {
		name = deck.DefaultLayout
	}

	var available []string
	if l.Layouts != nil {
		available = l.Layouts()
	}
	for _, a := range available {
		if a == name {
			return name
		}
	}

	logger := l.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	sorted := append([]string(nil), available...)
	sort.Strings(sorted)
	attrs := []any{"slide", index + 1, "layout", name, "available", sorted}
	if hint := suggest(name, sorted); hint != "" {
		attrs = append(attrs, "did_you_mean", hint)
	}
	logger.Error("unknown layout", attrs...)
	return deck.DefaultLayout
}

// suggest returns the closest known name, or "".
func suggest(name string, names []string) string {
	ranks := fuzzy.RankFindFold(name, names)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}
	best, bestDist := "", 3
	for _, n := range names {
		if d := fuzzy.LevenshteinDistance(name, n); d < bestDist {
			best, bestDist = n, d
		}
	}
	return best
}

func marshalFrontmatter(fm map[string]any) (string, error) {
	// HTML escapes keep a "</script>" in a value from closing the block.
	b, err := json.Marshal(fm)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
