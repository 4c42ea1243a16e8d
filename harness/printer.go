package harness

import (
	"fmt"
	"io"
	"strings"

	"github.com/callspec/callspec/testfile"
)

const (
	ansiRed   = "\x1b[91m"
	ansiGreen = "\x1b[32m"
	ansiReset = "\x1b[0m"
)

// FormatCall renders the call line of a block in canonical DSL form:
// signature, optional ether clause, optional arguments, optional comment.
// The result re-parses to an equivalent call.
func FormatCall(call testfile.FunctionCall) string {
	var sb strings.Builder
	sb.WriteString(call.Signature)
	if !call.Value.IsZero() {
		sb.WriteString(", ")
		sb.WriteString(call.Value.Dec())
		sb.WriteString(" ether")
	}
	if call.Args.Raw != "" {
		sb.WriteString(": ")
		sb.WriteString(call.Args.Raw)
	}
	if call.Args.Comment != nil {
		sb.WriteString(" # ")
		sb.WriteString(*call.Args.Comment)
	}
	return sb.String()
}

// ExpectationLine renders the declared expectation line of a call.
func ExpectationLine(call testfile.FunctionCall) string {
	line := call.Expectations.Output
	if call.Expectations.Status && call.Expectations.Comment != nil {
		line += " # " + *call.Expectations.Comment
	}
	return line
}

// FormatCalls renders a whole specification in canonical form, one
// block per call.
func FormatCalls(calls []testfile.FunctionCall) string {
	var sb strings.Builder
	for _, call := range calls {
		sb.WriteString(FormatCall(call))
		sb.WriteByte('\n')
		sb.WriteString(ExpectationLine(call))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// updatedExpectationLine renders the actual outcome of an executed test
// in expectation syntax. The original comment is kept when the actual
// result is a successful one, since it annotates the call, not the
// stale value.
func updatedExpectationLine(t *FunctionCallTest) string {
	line := t.Output
	if t.Status && t.Call.Expectations.Comment != nil {
		line += " # " + *t.Call.Expectations.Comment
	}
	return line
}

// PrintUpdatedExpectations writes the whole specification back out with
// every expectation replaced by the actual result of the last run. The
// output is valid DSL text, directly substitutable for the original.
func (s *Suite) PrintUpdatedExpectations(w io.Writer, linePrefix string) {
	for _, t := range s.Tests {
		fmt.Fprintf(w, "%s%s\n", linePrefix, FormatCall(t.Call))
		fmt.Fprintf(w, "%s%s\n", linePrefix, updatedExpectationLine(t))
	}
}

// UpdatedText returns the regenerated specification as a string.
func (s *Suite) UpdatedText() string {
	var sb strings.Builder
	s.PrintUpdatedExpectations(&sb, "")
	return sb.String()
}

// PrintFailure writes a highlighted expected-vs-actual rendering of a
// mismatched test. With formatted set, the expectation prints green and
// the actual result red.
func PrintFailure(w io.Writer, t *FunctionCallTest, linePrefix string, formatted bool) {
	expected := ExpectationLine(t.Call)
	actual := t.Output
	if formatted {
		expected = ansiGreen + expected + ansiReset
		actual = ansiRed + actual + ansiReset
	}
	fmt.Fprintf(w, "%s%s\n", linePrefix, FormatCall(t.Call))
	fmt.Fprintf(w, "%s  expected: %s\n", linePrefix, expected)
	fmt.Fprintf(w, "%s  actual:   %s\n", linePrefix, actual)
}
