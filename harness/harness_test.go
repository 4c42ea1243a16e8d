package harness

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/callspec/callspec/testfile"
)

func mustParse(t *testing.T, input string) []testfile.FunctionCall {
	t.Helper()
	calls, err := testfile.NewParser(strings.NewReader(input)).ParseCalls()
	require.NoError(t, err)
	return calls
}

func newTest(t *testing.T, input string) *FunctionCallTest {
	t.Helper()
	calls := mustParse(t, input)
	require.Len(t, calls, 1)
	return &FunctionCallTest{Call: calls[0]}
}

func TestMatchesExpectation(t *testing.T) {
	ft := newTest(t, "f(uint256): 1\n-> 1")

	ft.Status = true
	ft.RawBytes = []byte{0x01}
	require.True(t, ft.MatchesExpectation())

	ft.RawBytes = []byte{0x02}
	require.False(t, ft.MatchesExpectation())
}

func TestMatchesExpectationStatus(t *testing.T) {
	ft := newTest(t, "f(uint256): 1\n-> 1")
	ft.Status = false
	ft.RawBytes = []byte{0x01}
	require.False(t, ft.MatchesExpectation())
}

// A failing call matches a REVERT expectation regardless of bytes.
func TestMatchesExpectationRevert(t *testing.T) {
	ft := newTest(t, "f(uint256): 1\nREVERT")

	ft.Status = false
	require.True(t, ft.MatchesExpectation())

	ft.RawBytes = []byte{0xde, 0xad}
	require.True(t, ft.MatchesExpectation())

	ft.Status = true
	require.False(t, ft.MatchesExpectation())
}

func TestReset(t *testing.T) {
	ft := newTest(t, "f(): 1\n-> 1")
	ft.Status = true
	ft.RawBytes = []byte{0x01}
	ft.Output = "-> 1"

	ft.Reset()
	require.False(t, ft.Status)
	require.Nil(t, ft.RawBytes)
	require.Equal(t, "", ft.Output)
}

func TestExecuteStoresResult(t *testing.T) {
	ft := newTest(t, "f(uint256): 1\n-> 1")
	ex := &ScriptedExecutor{Results: []ScriptedResult{{OK: true, Output: []byte{0x01}}}}

	require.NoError(t, ft.Execute(ex))
	require.True(t, ft.Status)
	require.Equal(t, []byte{0x01}, ft.RawBytes)
	require.Equal(t, "-> 1", ft.Output)

	require.Len(t, ex.Calls, 1)
	require.Equal(t, "f(uint256)", ex.Calls[0].Signature)
	require.Equal(t, []byte{0x01}, ex.Calls[0].Input)
	require.True(t, ex.Calls[0].Value.IsZero())
}

func TestExecuteRevertIsData(t *testing.T) {
	ft := newTest(t, "f(): 1\n-> 1")
	ex := &ScriptedExecutor{Results: []ScriptedResult{{OK: false}}}

	require.NoError(t, ft.Execute(ex))
	require.False(t, ft.Status)
	require.Equal(t, "REVERT", ft.Output)
}

func TestExecuteTransportError(t *testing.T) {
	ft := newTest(t, "f(): 1\n-> 1")
	ex := &ScriptedExecutor{} // no scripted results

	require.Error(t, ft.Execute(ex))
}

// Matching byte layouts reuse the expectation's formats, so a negative
// expectation renders the actual bytes as a signed value again.
func TestActualOutputKeepsSignedFormat(t *testing.T) {
	ft := newTest(t, "negate(int256): 1\n-> -1")
	minusTwo := bytes.Repeat([]byte{0xff}, 32)
	minusTwo[31] = 0xfe
	ex := &ScriptedExecutor{Results: []ScriptedResult{{OK: true, Output: minusTwo}}}

	require.NoError(t, ft.Execute(ex))
	require.Equal(t, "-> -2", ft.Output)
}

func TestActualOutputUnexpectedLayout(t *testing.T) {
	ft := newTest(t, "f(): 1\n-> -1") // expectation is one 32-byte word
	ex := &ScriptedExecutor{Results: []ScriptedResult{{OK: true, Output: []byte{0x05}}}}

	require.NoError(t, ft.Execute(ex))
	require.Equal(t, "-> 5", ft.Output)
}

func TestActualOutputMultipleWords(t *testing.T) {
	ft := newTest(t, "pair(): 0\n->") // no layout to borrow
	out := make([]byte, 33)
	out[31] = 7
	out[32] = 9
	ex := &ScriptedExecutor{Results: []ScriptedResult{{OK: true, Output: out}}}

	require.NoError(t, ft.Execute(ex))
	require.Equal(t, "-> 7,9", ft.Output)
}

func TestSuiteRunAllMatch(t *testing.T) {
	calls := mustParse(t, "f(uint256): 1\n-> 1\ng()\nREVERT")
	ex := &ScriptedExecutor{Results: []ScriptedResult{
		{OK: true, Output: []byte{0x01}},
		{OK: false},
	}}
	suite := NewSuite(calls, ex, zap.NewNop().Sugar())

	ok, err := suite.Run()
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, ex.Calls, 2)
}

func TestSuiteRunMismatch(t *testing.T) {
	calls := mustParse(t, "f(uint256): 1\n-> 1")
	ex := &ScriptedExecutor{Results: []ScriptedResult{
		{OK: true, Output: []byte{0x02}},
	}}
	suite := NewSuite(calls, ex, zap.NewNop().Sugar())

	ok, err := suite.Run()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSuiteRunInOrder(t *testing.T) {
	calls := mustParse(t, "a(): 1\n-> 1\nb(): 2\n-> 2\nc(): 3\n-> 3")
	ex := &ScriptedExecutor{Results: []ScriptedResult{
		{OK: true, Output: []byte{0x01}},
		{OK: true, Output: []byte{0x02}},
		{OK: true, Output: []byte{0x03}},
	}}
	suite := NewSuite(calls, ex, zap.NewNop().Sugar())

	_, err := suite.Run()
	require.NoError(t, err)
	require.Equal(t, []string{"a()", "b()", "c()"}, []string{
		ex.Calls[0].Signature, ex.Calls[1].Signature, ex.Calls[2].Signature,
	})
}

// Re-running a suite must not observe results from the previous run.
func TestSuiteRunResets(t *testing.T) {
	calls := mustParse(t, "f(uint256): 1\n-> 1")
	ex := &ScriptedExecutor{Results: []ScriptedResult{
		{OK: true, Output: []byte{0x01}},
		{OK: true, Output: []byte{0x02}},
	}}
	suite := NewSuite(calls, ex, zap.NewNop().Sugar())

	ok, err := suite.Run()
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = suite.Run()
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, []byte{0x02}, suite.Tests[0].RawBytes)
}

func TestSuiteRunTransportError(t *testing.T) {
	calls := mustParse(t, "f(uint256): 1\n-> 1")
	suite := NewSuite(calls, &ScriptedExecutor{}, zap.NewNop().Sugar())

	_, err := suite.Run()
	require.Error(t, err)
}
