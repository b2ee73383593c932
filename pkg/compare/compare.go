// Package compare decides whether two files, or a file and a checksum, are
// the same by comparing SHA-512 digests.
package compare

import "stackerbuild.io/issame/pkg/types"

// Compare reports whether a and b are the same string, byte for byte. Digests
// are already lowercase hex, so no case folding or trimming happens here.
func Compare(a, b string) types.Outcome {
	if a == b {
		return types.Match
	}

	return types.Mismatch
}
