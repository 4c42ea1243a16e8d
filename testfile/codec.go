package testfile

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// WordSize is the decoding width, in bytes, assigned to every value
// parsed from a literal list. It matches the 256-bit word size of the
// contract ABI.
const WordSize = 32

// Kind selects how a byte slice is rendered back to decimal text.
type Kind uint8

const (
	UnsignedDec Kind = iota
	SignedDec
)

// Format describes how one slice of a byte sequence was encoded:
// signed or unsigned decimal, and the slice width used when decoding.
type Format struct {
	Kind Kind
	Size int
}

// Value is one tagged record of a literal list: its format plus the
// bytes it contributed to the encoded stream. Data holds the compact
// big-endian encoding, which may be shorter than Size.
type Value struct {
	Format
	Data []byte
}

// ValueList is an ordered sequence of encoded values. The concatenated
// byte stream and the format list are projections of the same records,
// so their widths cannot fall out of sync.
type ValueList []Value

// Bytes returns the concatenation of all per-value byte sequences, in
// input order.
func (vl ValueList) Bytes() []byte {
	var out []byte
	for _, v := range vl {
		out = append(out, v.Data...)
	}
	return out
}

// Formats returns the per-value format metadata.
func (vl ValueList) Formats() []Format {
	formats := make([]Format, len(vl))
	for i, v := range vl {
		formats[i] = v.Format
	}
	return formats
}

// String renders the list back to normalized literal text: entries
// joined with "," and no insignificant whitespace.
func (vl ValueList) String() string {
	var sb strings.Builder
	for i, v := range vl {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(v.render(v.Data))
	}
	return sb.String()
}

// EncodeValues converts a comma-separated list of decimal literals to
// its byte representation, preserving the chosen format of each entry.
// A non-negative literal encodes as the minimal big-endian form of its
// unsigned 256-bit value; the literal zero encodes as a single zero
// byte. A negative literal is tagged SignedDec and encodes as its
// two's complement mod 2^256. Returns an EncodingError if a token is
// not a decimal literal or the comma separation is malformed.
func EncodeValues(raw string) (ValueList, error) {
	var values ValueList
	i, n := 0, len(raw)
	for i < n {
		for i < n && isSpace(raw[i]) {
			i++
		}
		if i == n {
			break
		}
		c := raw[i]
		if !isDigit(c) && !(c == '-' && i+1 < n && isDigit(raw[i+1])) {
			return nil, encodingErrorf("argument encoding invalid: %q", raw)
		}
		kind := UnsignedDec
		if c == '-' {
			kind = SignedDec
		}
		start := i
		for i < n && !isSpace(raw[i]) && raw[i] != ',' {
			i++
		}
		data, err := encodeToken(raw[start:i])
		if err != nil {
			return nil, err
		}
		values = append(values, Value{
			Format: Format{Kind: kind, Size: WordSize},
			Data:   data,
		})

		for i < n && isSpace(raw[i]) {
			i++
		}
		if i < n {
			if raw[i] != ',' {
				return nil, encodingErrorf("argument encoding invalid: %q", raw)
			}
			i++
		}
		for i < n && isSpace(raw[i]) {
			i++
		}
	}
	return values, nil
}

func encodeToken(token string) ([]byte, error) {
	magnitude := strings.TrimPrefix(token, "-")
	v, err := uint256.FromDecimal(magnitude)
	if err != nil {
		return nil, encodingErrorf("argument encoding invalid: %q", token)
	}
	if len(magnitude) != len(token) {
		v.Neg(v)
	}
	if v.IsZero() {
		return []byte{0}, nil
	}
	return v.Bytes(), nil
}

// DecodeBytes renders a byte sequence as literal text, consuming
// format.Size bytes per format entry. The format widths must sum to
// len(data) exactly; a mismatch is a bug in the caller and panics.
func DecodeBytes(data []byte, formats []Format) string {
	total := 0
	for _, f := range formats {
		total += f.Size
	}
	if total != len(data) {
		panic(fmt.Sprintf("testfile: format widths sum to %d, have %d bytes", total, len(data)))
	}

	var sb strings.Builder
	offset := 0
	for i, f := range formats {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(f.render(data[offset : offset+f.Size]))
		offset += f.Size
	}
	return sb.String()
}

// render converts one big-endian byte slice to decimal text. A SignedDec
// slice with its high bit set is decoded as two's complement: bitwise
// complement, plus one, rendered negative.
func (f Format) render(data []byte) string {
	var v uint256.Int
	if f.Kind == SignedDec && len(data) > 0 && data[0]&0x80 != 0 {
		complement := make([]byte, len(data))
		for i, b := range data {
			complement[i] = ^b
		}
		v.SetBytes(complement)
		v.AddUint64(&v, 1)
		return "-" + v.Dec()
	}
	v.SetBytes(data)
	return v.Dec()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}
