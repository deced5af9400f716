package sfc

import (
	"strings"
	"unicode/utf8"
)

// TokenType identifies the type of top-level block token.
type TokenType int

// TokenType constants for component source blocks.
const (
	TokenText     TokenType = iota // Text between blocks (whitespace, comments)
	TokenTemplate                  // <template>...</template>
	TokenScript                    // <script ...>...</script>
	TokenStyle                     // <style ...>...</style>
	TokenEOF                       // End of input
)

func (t TokenType) String() string {
	switch t {
	case TokenText:
		return "TEXT"
	case TokenTemplate:
		return "TEMPLATE"
	case TokenScript:
		return "SCRIPT"
	case TokenStyle:
		return "STYLE"
	case TokenEOF:
		return "EOF"
	default:
		return "UNKNOWN"
	}
}

// Token is one top-level block. Attrs is the raw attribute text of the
// opening tag and Value the block content.
type Token struct {
	Type  TokenType
	Attrs string
	Value string
	Pos   Position
}

var blockTags = []struct {
	tag string
	typ TokenType
}{
	{"template", TokenTemplate},
	{"script", TokenScript},
	{"style", TokenStyle},
}

// Lexer splits component source into top-level blocks.
type Lexer struct {
	input    string
	file     string
	pos      int
	line     int
	col      int
	lastLine int
	lastCol  int
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input, file string) *Lexer {
	return &Lexer{
		input: input,
		file:  file,
		line:  1,
		col:   1,
	}
}

// Tokenize converts the input into a slice of tokens.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.nextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) nextToken() (Token, error) {
	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: l.position()}, nil
	}
	for _, b := range blockTags {
		if l.matchOpenTag(b.tag) {
			return l.scanBlock(b.tag, b.typ)
		}
	}
	return l.scanText(), nil
}

func (l *Lexer) scanText() Token {
	l.markStart()
	start := l.pos
	for l.pos < len(l.input) && !l.atBlock() {
		l.advance()
	}
	if l.pos == start {
		// A lone '<' that does not open a block.
		l.advance()
	}
	return Token{Type: TokenText, Value: l.input[start:l.pos], Pos: l.startPosition()}
}

func (l *Lexer) scanBlock(tag string, typ TokenType) (Token, error) {
	l.markStart()
	l.advanceN(len(tag) + 1)

	attrStart := l.pos
	var quote rune
	for {
		if l.pos >= len(l.input) {
			return Token{}, NewLexError(l.startPosition(), "unterminated <"+tag+"> opening tag")
		}
		r := l.peek()
		if quote != 0 {
			if r == quote {
				quote = 0
			}
		} else if r == '"' || r == '\'' {
			quote = r
		} else if r == '>' {
			break
		}
		l.advance()
	}
	attrs := strings.TrimSpace(l.input[attrStart:l.pos])
	l.advance()

	contentStart := l.pos
	closing := "</" + tag + ">"
	depth := 0
	for {
		if l.pos >= len(l.input) {
			return Token{}, NewLexError(l.startPosition(), "unclosed <"+tag+"> block: missing '"+closing+"'")
		}
		if typ == TokenTemplate && l.matchOpenTag(tag) {
			depth++
		} else if l.matchString(closing) {
			if depth == 0 {
				break
			}
			depth--
		}
		l.advance()
	}
	content := l.input[contentStart:l.pos]
	l.advanceN(len(closing))

	return Token{Type: typ, Attrs: attrs, Value: content, Pos: l.startPosition()}, nil
}

func (l *Lexer) atBlock() bool {
	for _, b := range blockTags {
		if l.matchOpenTag(b.tag) {
			return true
		}
	}
	return false
}

// matchOpenTag reports whether an opening tag named tag starts at the current position.
func (l *Lexer) matchOpenTag(tag string) bool {
	rest := l.input[l.pos:]
	if !strings.HasPrefix(rest, "<"+tag) || len(rest) == len(tag)+1 {
		return false
	}
	switch rest[len(tag)+1] {
	case '>', ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *Lexer) advanceN(n int) {
	end := min(l.pos+n, len(l.input))
	for l.pos < end {
		l.advance()
	}
}

func (l *Lexer) matchString(s string) bool {
	return strings.HasPrefix(l.input[l.pos:], s)
}

func (l *Lexer) markStart() {
	l.lastLine = l.line
	l.lastCol = l.col
}

func (l *Lexer) position() Position {
	return Position{File: l.file, Line: l.line, Column: l.col}
}

func (l *Lexer) startPosition() Position {
	return Position{File: l.file, Line: l.lastLine, Column: l.lastCol}
}
