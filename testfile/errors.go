package testfile

import "fmt"

// ParserError reports malformed call-block grammar: a missing delimiter,
// a missing expectation line, a broken REVERT keyword.
type ParserError struct {
	Msg string
}

func (e *ParserError) Error() string {
	return "parser error: " + e.Msg
}

// EncodingError reports a literal list that cannot be converted to bytes:
// a non-numeric token, a value outside 256 bits, a malformed separator.
type EncodingError struct {
	Msg string
}

func (e *EncodingError) Error() string {
	return "encoding error: " + e.Msg
}

// ValueClauseError reports a malformed ether value clause.
type ValueClauseError struct {
	Msg string
}

func (e *ValueClauseError) Error() string {
	return "value clause error: " + e.Msg
}

func parserErrorf(format string, args ...any) error {
	return &ParserError{Msg: fmt.Sprintf(format, args...)}
}

func encodingErrorf(format string, args ...any) error {
	return &EncodingError{Msg: fmt.Sprintf(format, args...)}
}

func valueClauseErrorf(format string, args ...any) error {
	return &ValueClauseError{Msg: fmt.Sprintf(format, args...)}
}
