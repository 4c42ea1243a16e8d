package testfile

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func TestScannerAdvanceLine(t *testing.T) {
	s := NewScanner(strings.NewReader("ab\ncd"))

	be.True(t, s.AdvanceLine())
	be.Equal(t, s.Line(), "ab")
	be.Equal(t, s.Current(), byte('a'))

	be.True(t, s.AdvanceLine())
	be.Equal(t, s.Line(), "cd")
	be.Equal(t, s.Current(), byte('c'))

	be.True(t, !s.AdvanceLine())
}

func TestScannerCursor(t *testing.T) {
	s := NewScanner(strings.NewReader("xy"))
	be.True(t, s.AdvanceLine())

	be.True(t, !s.EOL())
	be.Equal(t, s.Current(), byte('x'))
	s.Advance()
	be.Equal(t, s.Current(), byte('y'))
	be.Equal(t, s.Rest(), "y")
	s.Advance()
	be.True(t, s.EOL())
	be.Equal(t, s.Rest(), "")
}

func TestScannerEmptyLine(t *testing.T) {
	s := NewScanner(strings.NewReader("\nabc"))
	be.True(t, s.AdvanceLine())
	be.True(t, s.EOL())
	be.True(t, s.AdvanceLine())
	be.Equal(t, s.Rest(), "abc")
}

// Cursor position must not carry over from a longer previous line.
func TestScannerCursorResetsPerLine(t *testing.T) {
	s := NewScanner(strings.NewReader("long line here\nok"))
	be.True(t, s.AdvanceLine())
	for !s.EOL() {
		s.Advance()
	}
	be.True(t, s.AdvanceLine())
	be.True(t, !s.EOL())
	be.Equal(t, s.Current(), byte('o'))
}

func TestScannerCurrentAtEOLPanics(t *testing.T) {
	defer func() {
		be.True(t, recover() != nil)
	}()
	s := NewScanner(strings.NewReader(""))
	s.AdvanceLine()
	s.Current()
}
