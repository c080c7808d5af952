package gpt4

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/BaSui01/tokenflow/types"
)

func reversePerm() [256]byte {
	var perm [256]byte
	for i := range perm {
		perm[i] = byte(255 - i)
	}
	return perm
}

func TestNewByteShuffle(t *testing.T) {
	t.Run("identity", func(t *testing.T) {
		var perm [256]byte
		for i := range perm {
			perm[i] = byte(i)
		}
		s, err := newByteShuffle(perm)
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), s.Forward([]byte("hello")))
		assert.Equal(t, []byte("hello"), s.Inverse([]byte("hello")))
	})

	t.Run("rejects repeated target", func(t *testing.T) {
		perm := reversePerm()
		perm[7] = perm[9]
		_, err := newByteShuffle(perm)
		require.Error(t, err)
		assert.True(t, types.IsErrorCode(err, types.ErrPermutationMismatch))
	})
}

// Property: Inverse undoes Forward and vice versa for any byte sequence and
// any bijective permutation.
func TestProperty_ShuffleInverseLaw(t *testing.T) {
	s, err := newByteShuffle(reversePerm())
	require.NoError(t, err)

	rapid.Check(t, func(rt *rapid.T) {
		data := rapid.SliceOf(rapid.Byte()).Draw(rt, "data")

		assert.Equal(rt, data, s.Inverse(s.Forward(data)))
		assert.Equal(rt, data, s.Forward(s.Inverse(data)))
	})
}

func TestShuffleCopiesInput(t *testing.T) {
	s, err := newByteShuffle(reversePerm())
	require.NoError(t, err)

	in := []byte{1, 2, 3}
	out := s.Forward(in)
	assert.Equal(t, []byte{1, 2, 3}, in)
	assert.NotEqual(t, in, out)
}
