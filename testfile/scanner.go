package testfile

import (
	"bufio"
	"io"
)

// Scanner is a line-buffered cursor over an input stream. It owns the
// current line's text, so positions never point into a transient buffer.
// Characters are never read across a line boundary; callers move to the
// next line explicitly with AdvanceLine.
type Scanner struct {
	lines *bufio.Scanner
	line  string
	pos   int
}

func NewScanner(r io.Reader) *Scanner {
	return &Scanner{lines: bufio.NewScanner(r)}
}

// AdvanceLine discards the current line and reads the next one,
// resetting the cursor to its start. Returns false at end of input.
func (s *Scanner) AdvanceLine() bool {
	if !s.lines.Scan() {
		s.line = ""
		s.pos = 0
		return false
	}
	s.line = s.lines.Text()
	s.pos = 0
	return true
}

// Current returns the character at the cursor. Callers must check EOL
// first; reading past the end of the line is a bug in the caller.
func (s *Scanner) Current() byte {
	if s.pos >= len(s.line) {
		panic("testfile: Scanner.Current called at end of line")
	}
	return s.line[s.pos]
}

// EOL reports whether the cursor has reached the end of the current line.
func (s *Scanner) EOL() bool {
	return s.pos >= len(s.line)
}

// Advance moves the cursor forward by one character.
func (s *Scanner) Advance() {
	s.pos++
}

// Line returns the full text of the current line.
func (s *Scanner) Line() string {
	return s.line
}

// Rest returns the text from the cursor to the end of the line.
func (s *Scanner) Rest() string {
	if s.EOL() {
		return ""
	}
	return s.line[s.pos:]
}
