package markdown

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var reClickMarker = regexp.MustCompile(`(?i)\[click(?::(\d+))?\]`)

// ClickMarkClass is the class of the element replacing a `[click]` marker in notes.
const ClickMarkClass = "slidev-note-click-mark"

// RenderNote renders speaker notes. Each `[click]` or `[click:N]` marker is
// replaced by an empty span whose data-clicks attribute carries the running
// click total; the final total is returned alongside the HTML. A marker
// whose count does not fit in an int is kept as text.
func (p *Parser) RenderNote(note string) (string, int, error) {
	if strings.TrimSpace(note) == "" {
		return "", 0, nil
	}

	clicks := 0
	marked := reClickMarker.ReplaceAllStringFunc(note, func(m string) string {
		n := 1
		if sub := reClickMarker.FindStringSubmatch(m); sub[1] != "" {
			var err error
			if n, err = strconv.Atoi(sub[1]); err != nil {
				return m
			}
		}
		// Markers that would overflow the total are left as text.
		if n > math.MaxInt-clicks {
			return m
		}
		clicks += n
		return fmt.Sprintf(`<span class="%s" data-clicks="%d"></span>`, ClickMarkClass, clicks)
	})

	html, err := p.Render(marked)
	if err != nil {
		return "", 0, err
	}
	return html, clicks, nil
}
