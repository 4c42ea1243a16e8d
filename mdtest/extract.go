// Package mdtest extracts call specifications from Markdown documents.
// A test document holds one or more cases, each introduced by a heading
// of the form "Test: <name>" and carrying a ```contract fence (source
// handed to the executor) and a ```calls fence (the call DSL).
package mdtest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/callspec/callspec/testfile"
)

const (
	fenceContract = "contract"
	fenceCalls    = "calls"
)

// TestCase is one extracted test: the contract source, the raw calls
// text, and the calls parsed from it.
type TestCase struct {
	Name     string
	Contract string
	RawCalls string
	Calls    []testfile.FunctionCall
}

// ExtractTestCases parses a Markdown document and returns all test
// cases found. Fences outside a test case, unknown fence languages,
// duplicated fences, and unparseable calls text are all errors.
func ExtractTestCases(markdownContent string) ([]TestCase, error) {
	md := goldmark.New()
	source := []byte(markdownContent)
	doc := md.Parser().Parse(text.NewReader(source))

	var cases []TestCase
	var current *caseBuilder

	finish := func() error {
		if current == nil {
			return nil
		}
		if err := current.validate(); err != nil {
			return err
		}
		cases = append(cases, current.tc)
		return nil
	}

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			headingText := extractText(n, source)
			if name, ok := strings.CutPrefix(headingText, "Test: "); ok {
				if err := finish(); err != nil {
					return ast.WalkStop, err
				}
				current = &caseBuilder{tc: TestCase{Name: name}}
			}

		case *ast.FencedCodeBlock:
			language := string(n.Language(source))
			if language == "" {
				// Plain code blocks are allowed anywhere and ignored.
				return ast.WalkContinue, nil
			}
			line := lineNumber(n, source)
			if current == nil {
				return ast.WalkStop, fmt.Errorf("line %d: %s fence found outside of test case", line, language)
			}
			content := strings.TrimRight(fenceContent(n, source), "\n")

			switch language {
			case fenceContract:
				if current.hasContract {
					return ast.WalkStop, fmt.Errorf("line %d: multiple contract fences in test %q", line, current.tc.Name)
				}
				current.hasContract = true
				current.tc.Contract = content
			case fenceCalls:
				if current.hasCalls {
					return ast.WalkStop, fmt.Errorf("line %d: multiple calls fences in test %q", line, current.tc.Name)
				}
				calls, err := testfile.NewParser(strings.NewReader(content)).ParseCalls()
				if err != nil {
					return ast.WalkStop, fmt.Errorf("line %d: test %q: %w", line, current.tc.Name, err)
				}
				current.hasCalls = true
				current.tc.RawCalls = content
				current.tc.Calls = calls
			default:
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence language %q in test %q", line, language, current.tc.Name)
			}
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	if err := finish(); err != nil {
		return nil, err
	}
	return cases, nil
}

// caseBuilder accumulates one test case while walking the document.
// Fence presence is tracked separately from content so an explicitly
// empty fence is still "present" for duplicate and validation checks.
type caseBuilder struct {
	tc          TestCase
	hasContract bool
	hasCalls    bool
}

func (b *caseBuilder) validate() error {
	if !b.hasContract {
		return fmt.Errorf("test %q has no contract fence", b.tc.Name)
	}
	if !b.hasCalls {
		return fmt.Errorf("test %q has no calls fence", b.tc.Name)
	}
	return nil
}

func extractText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := n.(*ast.Text); ok {
				buf.Write(t.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func fenceContent(block *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	for i := 0; i < block.Lines().Len(); i++ {
		line := block.Lines().At(i)
		buf.Write(line.Value(source))
	}
	return buf.String()
}

func lineNumber(node ast.Node, source []byte) int {
	if node.Lines().Len() == 0 {
		return 1
	}
	start := node.Lines().At(0).Start
	line := 1
	for i := 0; i < start && i < len(source); i++ {
		if source[i] == '\n' {
			line++
		}
	}
	return line
}
