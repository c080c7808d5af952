// Copyright (c) TokenFlow Authors.
// Licensed under the MIT License.

package gpt4

import "github.com/BaSui01/tokenflow/types"

// byteShuffle is a bijective permutation of the 256 byte values together with
// its inverse. Pretrained vocabularies assign single-byte tokens ids that do
// not match the raw byte value, so encoding maps every input byte forward
// into the vocabulary's byte ordering and decoding maps it back.
type byteShuffle struct {
	fwd [256]byte
	inv [256]byte
}

// newByteShuffle validates that perm is a bijection over 0-255 and derives
// its inverse. A repeated target value fails with PERMUTATION_MISMATCH.
func newByteShuffle(perm [256]byte) (*byteShuffle, error) {
	s := &byteShuffle{fwd: perm}
	var seen [256]bool
	for i, v := range perm {
		if seen[v] {
			return nil, types.Errorf(types.ErrPermutationMismatch,
				"byte permutation maps both %d and %d to %d", s.inv[v], i, v)
		}
		seen[v] = true
		s.inv[v] = byte(i)
	}
	return s, nil
}

// Forward returns a copy of b with every byte mapped into the vocabulary's
// byte ordering.
func (s *byteShuffle) Forward(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[i] = s.fwd[c]
	}
	return out
}

// Inverse returns a copy of b with every byte mapped back to its raw value.
func (s *byteShuffle) Inverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[i] = s.inv[c]
	}
	return out
}
