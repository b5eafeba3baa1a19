package hash

import (
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
)

// Bytes computes the hex-encoded xxHash digest of a byte slice.
func Bytes(data []byte) string {
	h := xxhash.New()
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Strings streams a sequence of strings through a single digest and returns
// the hex-encoded result. Equivalent to hashing the concatenation of the
// parts without building it.
func Strings(parts ...string) string {
	h := xxhash.New()
	for _, part := range parts {
		h.WriteString(part)
	}
	return hex.EncodeToString(h.Sum(nil))
}
