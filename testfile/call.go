package testfile

import "github.com/holiman/uint256"

// CallArgs holds the data sent with a function call: the encoded value
// list, the trimmed source text it came from, and an optional trailing
// comment. Comment is nil when no "#" section was present, which is
// distinct from an empty comment.
type CallArgs struct {
	Raw     string
	Values  ValueList
	Comment *string
}

// CallExpectations holds the declared outcome of a function call.
// Status is true for a successful call, in which case Values carries
// the expected output; a failing call has no bytes to compare. Output
// is the pre-rendered display line, "-> <raw>" or "REVERT".
type CallExpectations struct {
	Raw     string
	Values  ValueList
	Status  bool
	Output  string
	Comment *string
}

// FunctionCall is one parsed call block: the canonical signature
// (parameter types included, whitespace stripped), the ether value to
// send (zero when the block has no value clause), the arguments and
// the expected result. Calls are identified by their position in the
// parsed sequence and are never merged.
type FunctionCall struct {
	Signature    string
	Value        uint256.Int
	Args         CallArgs
	Expectations CallExpectations
}
