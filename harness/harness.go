package harness

import (
	"bytes"

	"go.uber.org/zap"

	"github.com/callspec/callspec/testfile"
)

// FunctionCallTest pairs a parsed call with the result it actually
// produced. Status and RawBytes are written once per execution attempt;
// Reset clears them so the same call can be re-run in a fresh session
// without leaking stale results into the comparison.
type FunctionCallTest struct {
	Call     testfile.FunctionCall
	RawBytes []byte
	Output   string
	Status   bool
}

// MatchesExpectation compares the actual result against the call's
// expectations. Statuses must agree; for successful calls the output
// bytes must match the encoded expectation as well. A call expected to
// fail matches any failing execution, since a revert carries no bytes.
func (t *FunctionCallTest) MatchesExpectation() bool {
	exp := t.Call.Expectations
	if t.Status != exp.Status {
		return false
	}
	if !exp.Status {
		return true
	}
	return bytes.Equal(t.RawBytes, exp.Values.Bytes())
}

// Reset clears the stored result so the test reads as never executed.
func (t *FunctionCallTest) Reset() {
	t.Status = false
	t.RawBytes = nil
	t.Output = ""
}

// Execute runs the call through the executor and stores the outcome.
// A reverting call is stored as Status=false, not returned as an error;
// only executor transport failures propagate.
func (t *FunctionCallTest) Execute(executor Executor) error {
	ok, output, err := executor.Call(t.Call.Signature, t.Call.Args.Values.Bytes(), &t.Call.Value)
	if err != nil {
		return err
	}
	t.Status = ok
	t.RawBytes = output
	if ok {
		t.Output = "-> " + testfile.DecodeBytes(output, t.actualFormats())
	} else {
		t.Output = "REVERT"
	}
	return nil
}

// actualFormats picks formats for rendering the actual output. When the
// byte layout matches the expectation, its formats are reused so signed
// values keep their chosen representation; otherwise the bytes are split
// into 32-byte unsigned words with a final short word for any remainder.
func (t *FunctionCallTest) actualFormats() []testfile.Format {
	expected := t.Call.Expectations.Values.Formats()
	total := 0
	for _, f := range expected {
		total += f.Size
	}
	if total == len(t.RawBytes) {
		return expected
	}

	var formats []testfile.Format
	remaining := len(t.RawBytes)
	for remaining > 0 {
		size := testfile.WordSize
		if remaining < size {
			size = remaining
		}
		formats = append(formats, testfile.Format{Kind: testfile.UnsignedDec, Size: size})
		remaining -= size
	}
	return formats
}

// Suite owns the ordered tests parsed from one specification and runs
// them, in source order, against a shared executor.
type Suite struct {
	Tests []*FunctionCallTest

	executor Executor
	log      *zap.SugaredLogger
}

func NewSuite(calls []testfile.FunctionCall, executor Executor, log *zap.SugaredLogger) *Suite {
	tests := make([]*FunctionCallTest, len(calls))
	for i, call := range calls {
		tests[i] = &FunctionCallTest{Call: call}
	}
	return &Suite{Tests: tests, executor: executor, log: log}
}

// Reset clears every test's stored result. Required before re-running
// a suite, e.g. after updating expectations interactively.
func (s *Suite) Reset() {
	for _, t := range s.Tests {
		t.Reset()
	}
}

// Run executes every call in source order and reports whether all of
// them matched their expectations. Mismatches are data, not errors;
// only an executor transport failure aborts the run.
func (s *Suite) Run() (bool, error) {
	s.Reset()
	allMatched := true
	for _, t := range s.Tests {
		if err := t.Execute(s.executor); err != nil {
			return false, err
		}
		if t.MatchesExpectation() {
			s.log.Infof("PASS %s", t.Call.Signature)
		} else {
			allMatched = false
			s.log.Warnf("FAIL %s: expected %q, got %q",
				t.Call.Signature, t.Call.Expectations.Output, t.Output)
		}
	}
	return allMatched, nil
}
