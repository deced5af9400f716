package deck

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	reSeparator = regexp.MustCompile(`^---+[ \t]*$`)
	reNote      = regexp.MustCompile(`(?s)^<!--(.*)-->\s*$`)
)

// FrontmatterParseError is returned when a slide's frontmatter block is
// not valid YAML.
type FrontmatterParseError struct {
	Slide   int
	Line    int
	Message string
}

func (e *FrontmatterParseError) Error() string {
	return fmt.Sprintf("slide %d, line %d: %s", e.Slide+1, e.Line, e.Message)
}

type chunk struct {
	start, end  int
	frontmatter []string
	fmLine      int
	body        []string
}

// Parse splits deck markup into slide sources. Slides are separated by
// `---` lines outside code fences; a separator may be followed by a YAML
// block closed by another `---`, which becomes the slide's frontmatter. A
// trailing HTML comment becomes the slide's note.
func Parse(markup string) ([]SlideSource, []SourceInfo, error) {
	lines := strings.Split(strings.ReplaceAll(markup, "\r\n", "\n"), "\n")

	var chunks []*chunk
	cur := &chunk{}
	i := 0
	if len(lines) > 0 && reSeparator.MatchString(lines[0]) {
		if fm, next, ok := scanFrontmatter(lines, 1, true); ok {
			cur.frontmatter, cur.fmLine = fm, 2
			i = next
		}
	}

	inFence := false
	for ; i < len(lines); i++ {
		line := lines[i]
		if isFence(line) {
			inFence = !inFence
		}
		if inFence || !reSeparator.MatchString(line) {
			cur.body = append(cur.body, line)
			continue
		}
		cur.end = i
		chunks = append(chunks, cur)
		cur = &chunk{start: i}
		if fm, next, ok := scanFrontmatter(lines, i+1, false); ok {
			cur.frontmatter, cur.fmLine = fm, i+2
			i = next - 1
		}
	}
	cur.end = len(lines)
	chunks = append(chunks, cur)

	sources := make([]SlideSource, 0, len(chunks))
	infos := make([]SourceInfo, 0, len(chunks))
	for n, c := range chunks {
		src, err := c.source(n)
		if err != nil {
			return nil, nil, err
		}
		if n > 0 && src.Frontmatter == nil && strings.TrimSpace(src.Content) == "" && src.Note == "" && n == len(chunks)-1 {
			// trailing separator
			continue
		}
		sources = append(sources, src)
		infos = append(infos, SourceInfo{
			Filepath: SlideID(len(infos)),
			Index:    len(infos),
			Start:    c.start,
			End:      c.end,
			Raw:      strings.Join(lines[c.start:c.end], "\n"),
		})
	}
	return sources, infos, nil
}

// scanFrontmatter looks for a YAML block starting at from and closed by a
// separator line. Outside the head of the deck, the block only counts as
// frontmatter when it decodes to a mapping.
func scanFrontmatter(lines []string, from int, head bool) ([]string, int, bool) {
	if from >= len(lines) || strings.TrimSpace(lines[from]) == "" && !head {
		return nil, 0, false
	}
	for j := from; j < len(lines); j++ {
		if isFence(lines[j]) {
			return nil, 0, false
		}
		if !reSeparator.MatchString(lines[j]) {
			continue
		}
		block := lines[from:j]
		if head {
			return block, j + 1, true
		}
		var probe map[string]any
		if err := yaml.Unmarshal([]byte(strings.Join(block, "\n")), &probe); err != nil || probe == nil {
			return nil, 0, false
		}
		return block, j + 1, true
	}
	return nil, 0, false
}

func (c *chunk) source(n int) (SlideSource, error) {
	var src SlideSource
	if len(c.frontmatter) > 0 {
		var fm map[string]any
		if err := yaml.Unmarshal([]byte(strings.Join(c.frontmatter, "\n")), &fm); err != nil {
			return src, &FrontmatterParseError{Slide: n, Line: c.fmLine, Message: fmt.Sprintf("invalid YAML: %v", err)}
		}
		src.Frontmatter = fm
	}

	content := strings.Join(c.body, "\n")
	if at := strings.LastIndex(content, "<!--"); at >= 0 {
		if m := reNote.FindStringSubmatch(content[at:]); m != nil {
			src.Note = strings.TrimSpace(m[1])
			content = content[:at]
		}
	}
	src.Content = strings.TrimSpace(content)
	return src, nil
}
