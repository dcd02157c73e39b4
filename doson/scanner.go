package doson

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// scanner is a backtracking cursor over DOSON text. Alternatives save pos
// before trying and restore it on failure; the furthest failure is kept for
// diagnostics.
type scanner struct {
	input string
	pos   int

	failPos  int
	expected []string
}

func newScanner(input string) scanner {
	return scanner{input: input, failPos: -1}
}

// Helper methods

func (s *scanner) atEnd() bool {
	return s.pos >= len(s.input)
}

func (s *scanner) peek() byte {
	if s.pos >= len(s.input) {
		return 0
	}
	return s.input[s.pos]
}

// consume advances past lit if the input continues with it.
func (s *scanner) consume(lit string) bool {
	if strings.HasPrefix(s.input[s.pos:], lit) {
		s.pos += len(lit)
		return true
	}
	return false
}

// consumeFold is consume with ASCII case folding.
func (s *scanner) consumeFold(lit string) bool {
	end := s.pos + len(lit)
	if end <= len(s.input) && strings.EqualFold(s.input[s.pos:end], lit) {
		s.pos = end
		return true
	}
	return false
}

// consumeByte advances past ch if it is the next byte.
func (s *scanner) consumeByte(ch byte) bool {
	if s.peek() == ch && !s.atEnd() {
		s.pos++
		return true
	}
	return false
}

// skipWhitespace skips Unicode whitespace.
func (s *scanner) skipWhitespace() {
	for s.pos < len(s.input) {
		ch := s.input[s.pos]
		if ch < utf8.RuneSelf {
			if !isASCIISpace(ch) {
				return
			}
			s.pos++
			continue
		}
		r, size := utf8.DecodeRuneInString(s.input[s.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		s.pos += size
	}
}

// digits consumes a run of ASCII digits and returns its length.
func (s *scanner) digits() int {
	start := s.pos
	for s.pos < len(s.input) && isDigit(s.input[s.pos]) {
		s.pos++
	}
	return s.pos - start
}

// fail records that what was expected at the current position and returns
// false so alternatives can write `return s.fail("x")`.
func (s *scanner) fail(what string) bool {
	switch {
	case s.pos > s.failPos:
		s.failPos = s.pos
		s.expected = append(s.expected[:0], what)
	case s.pos == s.failPos && !slices.Contains(s.expected, what):
		s.expected = append(s.expected, what)
	}
	return false
}

// position converts a byte offset into a line/column position.
func (s *scanner) position(offset int) Position {
	if offset > len(s.input) {
		offset = len(s.input)
	}
	line := 1 + strings.Count(s.input[:offset], "\n")
	lineStart := strings.LastIndexByte(s.input[:offset], '\n') + 1
	col := 1 + utf8.RuneCountInString(s.input[lineStart:offset])
	return Position{Line: line, Column: col, Offset: offset}
}

// syntaxError describes the furthest failure seen so far.
func (s *scanner) syntaxError() *SyntaxError {
	offset := s.failPos
	if offset < 0 {
		offset = s.pos
	}
	return &SyntaxError{
		Expected: slices.Clone(s.expected),
		Found:    s.foundAt(offset),
		Pos:      s.position(offset),
	}
}

// foundAt returns the rune at offset, or "" at end of input.
func (s *scanner) foundAt(offset int) string {
	if offset >= len(s.input) {
		return ""
	}
	_, size := utf8.DecodeRuneInString(s.input[offset:])
	return s.input[offset : offset+size]
}

// Character classification

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func hexValue(ch byte) rune {
	switch {
	case ch >= 'a':
		return rune(ch-'a') + 10
	case ch >= 'A':
		return rune(ch-'A') + 10
	default:
		return rune(ch - '0')
	}
}

func isASCIISpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// isASCIIControl matches the characters a string literal may not contain raw.
func isASCIIControl(ch byte) bool {
	return ch < 0x20 || ch == 0x7f
}

// isBase64Char matches the standard base64 alphabet including padding.
func isBase64Char(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') || isDigit(ch) ||
		ch == '+' || ch == '/' || ch == '='
}
