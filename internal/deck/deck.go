// Package deck holds the slide data model: slide sources, the derived
// per-slide info records and the synthetic slide identifiers that route
// transform steps.
package deck

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultLayout is used when neither the slide nor the deck names a layout.
const DefaultLayout = "default"

// SlideSource is one slide as supplied by the caller.
type SlideSource struct {
	Frontmatter map[string]any `json:"frontmatter"`
	Content     string         `json:"content"`
	Note        string         `json:"note"`
}

// SourceInfo records where a slide came from. Offsets are zero when the
// slide was not parsed from a file.
type SourceInfo struct {
	Filepath string `json:"filepath"`
	Index    int    `json:"index"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Raw      string `json:"raw"`
}

// SlideInfo is the derived, read-only record for one slide.
type SlideInfo struct {
	Index       int            `json:"index"`
	ID          string         `json:"id"`
	Frontmatter map[string]any `json:"frontmatter"`
	Content     string         `json:"content"`
	Note        string         `json:"note"`
	Title       string         `json:"title,omitempty"`
	Source      SourceInfo     `json:"source"`
}

var reSlideID = regexp.MustCompile(`^/slides\.md__slide_(\d+)\.md$`)

// SlideID returns the synthetic identifier for the slide at index.
func SlideID(index int) string {
	return fmt.Sprintf("/slides.md__slide_%d.md", index)
}

// ParseSlideID recovers the slide index from an identifier.
func ParseSlideID(id string) (int, bool) {
	m := reSlideID.FindStringSubmatch(id)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// SlidesInfo derives one SlideInfo per source, in order.
func SlidesInfo(sources []SlideSource) []SlideInfo {
	infos := make([]SlideInfo, len(sources))
	for i, s := range sources {
		id := SlideID(i)
		infos[i] = SlideInfo{
			Index:       i,
			ID:          id,
			Frontmatter: s.Frontmatter,
			Content:     s.Content,
			Note:        s.Note,
			Title:       Title(s),
			Source:      SourceInfo{Filepath: id, Index: i},
		}
	}
	return infos
}

// ResolveLayout returns the layout name for slide index: its own layout,
// then the first slide's default.layout. It returns "" when neither is set.
func ResolveLayout(infos []SlideInfo, index int) string {
	if index >= 0 && index < len(infos) {
		if name, ok := infos[index].Frontmatter["layout"].(string); ok && name != "" {
			return name
		}
	}
	if d := deckDefaults(infos); d != nil {
		if name, ok := d["layout"].(string); ok {
			return name
		}
	}
	return ""
}

// ResolveFrontmatter returns the frontmatter bound to the slide's layout:
// the slide's own map, then the first slide's default map, then an empty map.
func ResolveFrontmatter(infos []SlideInfo, index int) map[string]any {
	if index >= 0 && index < len(infos) && infos[index].Frontmatter != nil {
		return infos[index].Frontmatter
	}
	if d := deckDefaults(infos); d != nil {
		return d
	}
	return map[string]any{}
}

func deckDefaults(infos []SlideInfo) map[string]any {
	if len(infos) == 0 {
		return nil
	}
	d, _ := infos[0].Frontmatter["default"].(map[string]any)
	return d
}

var reHeading = regexp.MustCompile(`^#{1,6}[ \t]+(.+?)[ \t#]*$`)

// Title returns the frontmatter title, or the first heading of the content.
func Title(s SlideSource) string {
	if t, ok := s.Frontmatter["title"].(string); ok && t != "" {
		return t
	}
	inFence := false
	for _, line := range strings.Split(s.Content, "\n") {
		if isFence(line) {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if m := reHeading.FindStringSubmatch(line); m != nil {
			return m[1]
		}
	}
	return ""
}

func isFence(line string) bool {
	t := strings.TrimSpace(line)
	return strings.HasPrefix(t, "```") || strings.HasPrefix(t, "~~~")
}
