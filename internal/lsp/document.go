package lsp

import (
	"net/url"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Document is a snapshot of an open deck, component or CSS config file.
// Edits replace the snapshot; a Document is never mutated once stored.
type Document struct {
	URI     string
	Content string
	Version int
	// lineStarts holds the byte offset of every line start.
	lineStarts []int
}

func newDocument(uri, content string, version int) *Document {
	starts := []int{0}
	for off := 0; ; {
		i := strings.IndexByte(content[off:], '\n')
		if i < 0 {
			break
		}
		off += i + 1
		starts = append(starts, off)
	}
	return &Document{URI: uri, Content: content, Version: version, lineStarts: starts}
}

// DocumentStore holds the open documents by URI.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewDocumentStore returns an empty store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]*Document)}
}

// Open stores a document, replacing any earlier snapshot.
func (s *DocumentStore) Open(uri, content string, version int) {
	s.mu.Lock()
	s.docs[uri] = newDocument(uri, content, version)
	s.mu.Unlock()
}

// Update replaces the content of an open document. Unknown URIs are ignored.
func (s *DocumentStore) Update(uri, content string, version int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[uri]; ok {
		s.docs[uri] = newDocument(uri, content, version)
	}
}

// Close forgets a document.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
}

// Get returns the current snapshot of uri, or nil.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[uri]
}

// List returns the URIs of all open documents.
func (s *DocumentStore) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	uris := make([]string, 0, len(s.docs))
	for uri := range s.docs {
		uris = append(uris, uri)
	}
	return uris
}

// PositionToOffset maps an LSP position to a byte offset, clamped to the
// content.
func (d *Document) PositionToOffset(pos Position) int {
	if d == nil {
		return 0
	}
	line := int(pos.Line)
	if line >= len(d.lineStarts) {
		return len(d.Content)
	}
	return min(d.lineStarts[line]+int(pos.Character), len(d.Content))
}

// OffsetToPosition maps a byte offset back to an LSP position.
func (d *Document) OffsetToPosition(offset int) Position {
	if d == nil {
		return Position{}
	}
	offset = max(0, min(offset, len(d.Content)))
	line := sort.Search(len(d.lineStarts), func(i int) bool { return d.lineStarts[i] > offset }) - 1
	return Position{
		Line:      uint32(line),                        //nolint:gosec // G115: non-negative
		Character: uint32(offset - d.lineStarts[line]), //nolint:gosec // G115: non-negative
	}
}

// LineCount returns the number of lines, counting a trailing empty line.
func (d *Document) LineCount() int {
	if d == nil {
		return 0
	}
	return len(d.lineStarts)
}

// Line returns line n without its newline, or "" when out of range.
func (d *Document) Line(n int) string {
	if d == nil || n < 0 || n >= len(d.lineStarts) {
		return ""
	}
	start, end := d.lineStarts[n], len(d.Content)
	if n+1 < len(d.lineStarts) {
		end = d.lineStarts[n+1] - 1
	}
	return d.Content[start:end]
}

// WordAt returns the tag or layout name under pos: letters, digits, '_'
// and '-'.
func (d *Document) WordAt(pos Position) (string, Range) {
	return d.tokenAt(pos, isWordChar)
}

// ClassAt returns the utility class under pos. Class tokens run between
// whitespace, quotes and tag punctuation, so variant groups stay whole.
func (d *Document) ClassAt(pos Position) (string, Range) {
	return d.tokenAt(pos, isClassChar)
}

func (d *Document) tokenAt(pos Position, in func(byte) bool) (string, Range) {
	offset := d.PositionToOffset(pos)
	start, end := offset, offset
	for start > 0 && in(d.Content[start-1]) {
		start--
	}
	for end < len(d.Content) && in(d.Content[end]) {
		end++
	}
	if start == end {
		return "", Range{Start: pos, End: pos}
	}
	return d.Content[start:end], Range{Start: d.OffsetToPosition(start), End: d.OffsetToPosition(end)}
}

func isWordChar(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return c == '_' || c == '-'
}

func isClassChar(c byte) bool {
	return !strings.ContainsRune(" \t\n\r\"'`<>=", rune(c))
}

// URIToPath converts a file:// URI to a file system path, decoding escapes.
// Other strings are returned unchanged.
func URIToPath(uri string) string {
	if !strings.HasPrefix(uri, "file://") {
		return uri
	}
	u, err := url.Parse(uri)
	if err != nil {
		return strings.TrimPrefix(uri, "file://")
	}
	return filepath.FromSlash(u.Path)
}

// PathToURI converts a file system path to a file:// URI.
func PathToURI(path string) string {
	if strings.HasPrefix(path, "file://") {
		return path
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}
