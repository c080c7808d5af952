package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/tokenflow/testutil"
	"github.com/BaSui01/tokenflow/types"
)

// Wikipedia example: running BPE on "aaabdaaabac" for 3 merges compresses
// the text to five tokens, and the encoded form decodes back exactly.
// https://en.wikipedia.org/wiki/Byte_pair_encoding
func TestBasicWikipediaExample(t *testing.T) {
	tok := NewBasic()
	require.NoError(t, tok.Train("aaabdaaabac", 256+3, false))

	ids, err := tok.Encode("aaabdaaabac")
	require.NoError(t, err)
	assert.Equal(t, []types.Token{258, 100, 258, 97, 99}, ids)

	decoded, err := tok.Decode(ids)
	require.NoError(t, err)
	assert.Equal(t, "aaabdaaabac", decoded)
}

func TestBasicTrainInvalidVocabSize(t *testing.T) {
	tests := []struct {
		name      string
		vocabSize int
	}{
		{name: "exactly 256", vocabSize: 256},
		{name: "below 256", vocabSize: 100},
		{name: "zero", vocabSize: 0},
		{name: "negative", vocabSize: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := NewBasic()
			err := tok.Train("some text", tt.vocabSize, false)
			require.Error(t, err)
			assert.True(t, types.IsErrorCode(err, types.ErrInvalidVocabSize))
			// Failing fast: no merge was performed.
			assert.Empty(t, tok.Merges())
		})
	}
}

func TestBasicTrainStopsEarly(t *testing.T) {
	// "abcd" has no pair occurring twice, so no merge is possible.
	tok := NewBasic()
	require.NoError(t, tok.Train("abcd", 256+50, false))
	assert.Empty(t, tok.Merges())

	ids, err := tok.Encode("abcd")
	require.NoError(t, err)
	assert.Equal(t, []types.Token{97, 98, 99, 100}, ids)
}

func TestBasicMonotonicMergeIDs(t *testing.T) {
	tok := NewBasic()
	require.NoError(t, tok.Train(testutil.LlamaText, 256+64, false))

	merges := tok.Merges()
	require.NotEmpty(t, merges)
	for i, rule := range merges {
		assert.Equal(t, types.FirstMergeID+i, rule.ID)
	}
}

func TestBasicEmptyBoundaries(t *testing.T) {
	tok := NewBasic()

	ids, err := tok.Encode("")
	require.NoError(t, err)
	assert.Empty(t, ids)

	decoded, err := tok.Decode(nil)
	require.NoError(t, err)
	assert.Equal(t, "", decoded)
}

func TestBasicDecodeInvalidToken(t *testing.T) {
	tok := NewBasic()
	require.NoError(t, tok.Train("aaabdaaabac", 256+3, false))

	_, err := tok.Decode([]types.Token{97, 259})
	require.Error(t, err)
	assert.True(t, types.IsErrorCode(err, types.ErrInvalidToken))

	_, err = tok.Decode([]types.Token{-1})
	require.Error(t, err)
	assert.True(t, types.IsErrorCode(err, types.ErrInvalidToken))
}

func TestBasicRoundTripShortStrings(t *testing.T) {
	tok := NewBasic()
	require.NoError(t, tok.Train(testutil.LlamaText, 256+64, false))

	for _, text := range testutil.ShortStrings {
		ids, err := tok.Encode(text)
		require.NoError(t, err)
		decoded, err := tok.Decode(ids)
		require.NoError(t, err)
		assert.Equal(t, text, decoded)
	}
}

func TestBasicDecodeLossyRendering(t *testing.T) {
	tok := NewBasic()

	// Id 0xff alone is not valid UTF-8; decode substitutes instead of
	// failing.
	decoded, err := tok.Decode([]types.Token{0xff})
	require.NoError(t, err)
	assert.Equal(t, "�", decoded)
}
