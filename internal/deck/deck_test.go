package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlideID(t *testing.T) {
	assert.Equal(t, "/slides.md__slide_3.md", SlideID(3))

	tests := []struct {
		id     string
		want   int
		wantOK bool
	}{
		{"/slides.md__slide_0.md", 0, true},
		{"/slides.md__slide_12.md", 12, true},
		{"/slides.md__slide_x.md", 0, false},
		{"/other.md", 0, false},
		{"/slides.md__slide_1.md.js", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			n, ok := ParseSlideID(tt.id)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestSlidesInfo(t *testing.T) {
	infos := SlidesInfo([]SlideSource{
		{Frontmatter: map[string]any{"title": "Intro"}, Content: "# Ignored"},
		{Content: "```\n# not a title\n```\n## Second"},
		{Content: "plain", Note: "n"},
	})
	require.Len(t, infos, 3)

	assert.Equal(t, 1, infos[1].Index)
	assert.Equal(t, "/slides.md__slide_1.md", infos[1].ID)
	assert.Equal(t, SourceInfo{Filepath: "/slides.md__slide_1.md", Index: 1}, infos[1].Source)
	assert.Equal(t, "Intro", infos[0].Title)
	assert.Equal(t, "Second", infos[1].Title)
	assert.Empty(t, infos[2].Title)
	assert.Equal(t, "n", infos[2].Note)
}

func TestResolveLayout(t *testing.T) {
	withDefault := SlidesInfo([]SlideSource{
		{Frontmatter: map[string]any{"default": map[string]any{"layout": "center", "theme": "x"}}},
		{Frontmatter: map[string]any{"layout": "cover"}},
		{},
	})
	bare := SlidesInfo([]SlideSource{{}, {Frontmatter: map[string]any{"class": "a"}}})

	tests := []struct {
		name  string
		infos []SlideInfo
		index int
		want  string
	}{
		{"slide layout wins", withDefault, 1, "cover"},
		{"deck default", withDefault, 2, "center"},
		{"none", bare, 1, ""},
		{"out of range", bare, 9, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveLayout(tt.infos, tt.index))
		})
	}
}

func TestResolveFrontmatter(t *testing.T) {
	infos := SlidesInfo([]SlideSource{
		{Frontmatter: map[string]any{"default": map[string]any{"layout": "center"}}},
		{Frontmatter: map[string]any{"layout": "cover"}},
		{},
	})
	assert.Equal(t, map[string]any{"layout": "cover"}, ResolveFrontmatter(infos, 1))
	assert.Equal(t, map[string]any{"layout": "center"}, ResolveFrontmatter(infos, 2))
	assert.Equal(t, map[string]any{}, ResolveFrontmatter(SlidesInfo([]SlideSource{{}}), 0))
}
