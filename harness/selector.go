package harness

import "golang.org/x/crypto/sha3"

// Selector returns the 4-byte ABI selector of a canonical function
// signature: the first four bytes of its keccak-256 hash. The signature
// must already be whitespace-free, which is how the parser stores it.
func Selector(signature string) [4]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(signature))
	var selector [4]byte
	copy(selector[:], h.Sum(nil))
	return selector
}
