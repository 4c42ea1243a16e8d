package testfile

import (
	"io"
	"strings"

	"github.com/holiman/uint256"
)

// Parser reads function call blocks from a line-oriented test file.
//
// One block spans two or more non-blank lines:
//
//	f(uint256, uint256): 1, 1 # signature, arguments, comment
//	-> 1, 1                   # expected result
//	g(), 2 ether              # optional ether value to send
//	-> 2, 3
//	h(uint256), 1 ether: 42
//	REVERT
//
// Leading slash runs are skipped on every line, so blocks may live in
// a comment section of a contract source file.
type Parser struct {
	scanner *Scanner
}

func NewParser(r io.Reader) *Parser {
	return &Parser{scanner: NewScanner(r)}
}

// ParseCalls parses call blocks until the input is exhausted and
// returns them in source order. Any grammar or encoding violation
// aborts the whole parse; there is no partial result.
func (p *Parser) ParseCalls() ([]FunctionCall, error) {
	var calls []FunctionCall
	for p.advanceLine() {
		if p.scanner.EOL() {
			continue
		}

		var call FunctionCall
		signature, err := p.parseSignature()
		if err != nil {
			return nil, err
		}
		call.Signature = signature

		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		if value != nil {
			call.Value = *value
		}

		call.Args, err = p.parseArguments()
		if err != nil {
			return nil, err
		}

		if !p.advanceToNonBlank() {
			return nil, parserErrorf("expected result missing")
		}
		call.Expectations, err = p.parseExpectations()
		if err != nil {
			return nil, err
		}
		if call.Expectations.Status {
			call.Expectations.Output = "-> " + call.Expectations.Raw
		} else {
			call.Expectations.Output = "REVERT"
		}

		calls = append(calls, call)
	}
	return calls, nil
}

// parseSignature scans up to and consumes the closing ")". Whitespace
// inside the parameter list is stripped so the stored signature is
// selector-canonical.
func (p *Parser) parseSignature() (string, error) {
	var sb strings.Builder
	for !p.scanner.EOL() && p.scanner.Current() != ')' {
		if c := p.scanner.Current(); !isSpace(c) {
			sb.WriteByte(c)
		}
		p.scanner.Advance()
	}
	if err := p.expectChar(')'); err != nil {
		return "", err
	}
	sb.WriteByte(')')
	return sb.String(), nil
}

// parseValue parses the optional ether value clause. It is present only
// when the next non-whitespace character is ",". The clause must read
// "<amount> ether" with amount an unsigned 256-bit decimal.
func (p *Parser) parseValue() (*uint256.Int, error) {
	p.skipWhitespace()
	if p.scanner.EOL() || p.scanner.Current() != ',' {
		return nil, nil
	}
	p.scanner.Advance()

	clause := strings.TrimSpace(p.scanUntil(':'))
	fields := strings.Fields(clause)
	if len(fields) != 2 {
		return nil, valueClauseErrorf("ether value clause must be \"<amount> ether\", got %q", clause)
	}
	if fields[1] != "ether" {
		return nil, valueClauseErrorf("ether value unit must be \"ether\", got %q", fields[1])
	}
	value, err := uint256.FromDecimal(fields[0])
	if err != nil {
		return nil, valueClauseErrorf("ether value encoding invalid: %q", fields[0])
	}
	return value, nil
}

// parseArguments parses the optional ":"-introduced argument list and a
// trailing "#" comment. A "#" in argument text always starts the
// comment; quoting it is not supported.
func (p *Parser) parseArguments() (CallArgs, error) {
	var args CallArgs
	p.skipWhitespace()
	if p.scanner.EOL() {
		return args, nil
	}

	if p.scanner.Current() != '#' {
		if err := p.expectChar(':'); err != nil {
			return args, err
		}
		p.skipWhitespace()
		args.Raw = strings.TrimSpace(p.scanUntil('#'))
		values, err := EncodeValues(args.Raw)
		if err != nil {
			return args, err
		}
		args.Values = values
	}

	if !p.scanner.EOL() {
		if err := p.expectChar('#'); err != nil {
			return args, err
		}
		p.skipWhitespace()
		comment := p.scanner.Rest()
		args.Comment = &comment
	}
	return args, nil
}

// parseExpectations parses the result line of a block: either
// "-> <values>" with an optional comment, or the literal "REVERT".
func (p *Parser) parseExpectations() (CallExpectations, error) {
	var exp CallExpectations
	if !p.scanner.EOL() && p.scanner.Current() == '-' {
		p.scanner.Advance()
		if err := p.expectChar('>'); err != nil {
			return exp, err
		}
		p.skipWhitespace()

		exp.Raw = strings.TrimSpace(p.scanUntil('#'))
		values, err := EncodeValues(exp.Raw)
		if err != nil {
			return exp, err
		}
		exp.Values = values
		exp.Status = true

		if !p.scanner.EOL() {
			if err := p.expectChar('#'); err != nil {
				return exp, err
			}
			p.skipWhitespace()
			comment := p.scanner.Rest()
			exp.Comment = &comment
		}
		return exp, nil
	}

	if err := p.expectSequence("REVERT"); err != nil {
		return exp, err
	}
	exp.Status = false
	return exp, nil
}

// advanceLine moves to the next line and skips leading whitespace and
// slash runs, so "// "-prefixed blocks and slash separator lines reduce
// to their content (or to a blank line).
func (p *Parser) advanceLine() bool {
	ok := p.scanner.AdvanceLine()
	p.skipWhitespace()
	p.skipSlashes()
	p.skipWhitespace()
	return ok
}

// advanceToNonBlank advances lines until one with content remains.
func (p *Parser) advanceToNonBlank() bool {
	for p.advanceLine() {
		if !p.scanner.EOL() {
			return true
		}
	}
	return false
}

func (p *Parser) expectChar(want byte) error {
	if p.scanner.EOL() || p.scanner.Current() != want {
		return parserErrorf("expected %q in %q", string(want), p.scanner.Line())
	}
	p.scanner.Advance()
	return nil
}

func (p *Parser) expectSequence(want string) error {
	for i := 0; i < len(want); i++ {
		if err := p.expectChar(want[i]); err != nil {
			return err
		}
	}
	return nil
}

// scanUntil captures text up to (not consuming) the stop character or
// the end of the line.
func (p *Parser) scanUntil(stop byte) string {
	var sb strings.Builder
	for !p.scanner.EOL() && p.scanner.Current() != stop {
		sb.WriteByte(p.scanner.Current())
		p.scanner.Advance()
	}
	return sb.String()
}

func (p *Parser) skipWhitespace() {
	for !p.scanner.EOL() && isSpace(p.scanner.Current()) {
		p.scanner.Advance()
	}
}

func (p *Parser) skipSlashes() {
	for !p.scanner.EOL() && p.scanner.Current() == '/' {
		p.scanner.Advance()
	}
}
