package uno

import (
	"context"
	"regexp"
)

// Extractor collects candidate tokens from a source buffer.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, code, id string) ([]string, error)
}

var splitRE = regexp.MustCompile("[\\\\:]?[\\s'\"`;{}]+")

// SplitExtractor splits code on quotes, whitespace and braces.
type SplitExtractor struct{}

func (SplitExtractor) Name() string { return "split" }

func (SplitExtractor) Extract(_ context.Context, code, _ string) ([]string, error) {
	return splitTokens(code), nil
}

func splitTokens(code string) []string {
	var out []string
	for _, part := range splitRE.Split(code, -1) {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// extractAll runs every extractor and returns the distinct tokens in
// first-seen order.
func extractAll(ctx context.Context, extractors []Extractor, code, id string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, ex := range extractors {
		tokens, err := ex.Extract(ctx, code, id)
		if err != nil {
			return nil, &ConfigError{Stage: "extract " + ex.Name(), Err: err}
		}
		for _, t := range tokens {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out, nil
}
