package harness

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/holiman/uint256"
)

// Executor runs one function call against a deployed contract and
// reports the outcome. ok is false when the call reverted; a revert is
// a normal result, not an error. err reports transport-level failures
// only (dead process, broken pipe), which abort a run.
//
// Executors are expected to serialize calls against a single contract
// instance, so state changes made by call N are visible to call N+1.
type Executor interface {
	Call(signature string, input []byte, value *uint256.Int) (ok bool, output []byte, err error)
}

// ProcessExecutor drives an external runtime binary over a stdin/stdout
// line protocol, one persistent process per suite:
//
//	DEPLOY <hex source>          -> OK
//	CALL <hex calldata> <value>  -> OK <hex output> | REVERT | ERR <msg>
//
// The calldata is the 4-byte selector of the signature followed by the
// encoded arguments. How the runtime maps that to the compiled contract
// is its own business.
type ProcessExecutor struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Scanner
}

// StartProcessExecutor launches the runtime binary and attaches to its
// pipes. The caller must Close it to reap the process.
func StartProcessExecutor(command string, args ...string) (*ProcessExecutor, error) {
	cmd := exec.Command(command, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("executor stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("executor stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting executor %q: %w", command, err)
	}
	return &ProcessExecutor{
		cmd:    cmd,
		stdin:  stdin,
		stdout: bufio.NewScanner(stdout),
	}, nil
}

// Deploy hands contract source to the runtime before any calls are made.
func (e *ProcessExecutor) Deploy(source string) error {
	if _, err := fmt.Fprintf(e.stdin, "DEPLOY %x\n", source); err != nil {
		return fmt.Errorf("executor write: %w", err)
	}
	reply, err := e.readReply()
	if err != nil {
		return err
	}
	if reply != "OK" {
		return fmt.Errorf("executor deploy failed: %s", reply)
	}
	return nil
}

func (e *ProcessExecutor) Call(signature string, input []byte, value *uint256.Int) (bool, []byte, error) {
	selector := Selector(signature)
	calldata := append(selector[:], input...)
	if _, err := fmt.Fprintf(e.stdin, "CALL %x %s\n", calldata, value.Dec()); err != nil {
		return false, nil, fmt.Errorf("executor write: %w", err)
	}

	reply, err := e.readReply()
	if err != nil {
		return false, nil, err
	}
	verb, rest, _ := strings.Cut(reply, " ")
	switch verb {
	case "OK":
		output, err := hex.DecodeString(rest)
		if err != nil {
			return false, nil, fmt.Errorf("executor returned bad hex %q: %w", rest, err)
		}
		return true, output, nil
	case "REVERT":
		return false, nil, nil
	case "ERR":
		return false, nil, fmt.Errorf("executor error: %s", rest)
	default:
		return false, nil, fmt.Errorf("executor returned unknown reply %q", reply)
	}
}

func (e *ProcessExecutor) readReply() (string, error) {
	if !e.stdout.Scan() {
		if err := e.stdout.Err(); err != nil {
			return "", fmt.Errorf("executor read: %w", err)
		}
		return "", fmt.Errorf("executor closed its output")
	}
	return strings.TrimSpace(e.stdout.Text()), nil
}

// Close shuts down the runtime process.
func (e *ProcessExecutor) Close() error {
	_ = e.stdin.Close()
	return e.cmd.Wait()
}

// ScriptedCall records one invocation received by a ScriptedExecutor.
type ScriptedCall struct {
	Signature string
	Input     []byte
	Value     *uint256.Int
}

// ScriptedResult is one canned outcome returned by a ScriptedExecutor.
type ScriptedResult struct {
	OK     bool
	Output []byte
}

// ScriptedExecutor replays canned results in order and records what it
// was asked to run. Used in tests and dry runs.
type ScriptedExecutor struct {
	Results []ScriptedResult
	Calls   []ScriptedCall

	next int
}

func (e *ScriptedExecutor) Call(signature string, input []byte, value *uint256.Int) (bool, []byte, error) {
	e.Calls = append(e.Calls, ScriptedCall{Signature: signature, Input: input, Value: value})
	if e.next >= len(e.Results) {
		return false, nil, fmt.Errorf("scripted executor: no result for call %d (%s)", e.next, signature)
	}
	r := e.Results[e.next]
	e.next++
	return r.OK, r.Output, nil
}
