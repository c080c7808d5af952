package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/BaSui01/tokenflow/testutil"
)

// Property: decode(encode(text)) == text for any Unicode string, for both
// variants, trained or not.
func TestProperty_RoundTrip_Basic(t *testing.T) {
	trained := NewBasic()
	require.NoError(t, trained.Train(testutil.LlamaText, 256+64, false))
	fresh := NewBasic()

	rapid.Check(t, func(rt *rapid.T) {
		text := rapid.String().Draw(rt, "text")

		for _, tok := range []*Basic{trained, fresh} {
			ids, err := tok.Encode(text)
			require.NoError(rt, err)
			decoded, err := tok.Decode(ids)
			require.NoError(rt, err)
			assert.Equal(rt, text, decoded)
		}
	})
}

func TestProperty_RoundTrip_Regex(t *testing.T) {
	tok, err := NewRegex("")
	require.NoError(t, err)
	require.NoError(t, tok.Train(testutil.LlamaText, 256+64, false))

	rapid.Check(t, func(rt *rapid.T) {
		text := rapid.String().Draw(rt, "text")

		ids, err := tok.Encode(text)
		require.NoError(rt, err)
		decoded, err := tok.Decode(ids)
		require.NoError(rt, err)
		assert.Equal(rt, text, decoded)
	})
}

// Property: training is deterministic. Two tokenizers trained on the same
// text with the same target produce identical merge lists and encodings.
func TestProperty_Training_Deterministic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		// Repeated runes keep pair counts above the merge threshold.
		text := rapid.StringMatching(`[ab cd]{4,40}`).Draw(rt, "text")
		vocabSize := rapid.IntRange(257, 280).Draw(rt, "vocabSize")

		first := NewBasic()
		require.NoError(rt, first.Train(text, vocabSize, false))
		second := NewBasic()
		require.NoError(rt, second.Train(text, vocabSize, false))

		assert.Equal(rt, first.Merges(), second.Merges())

		a, err := first.Encode(text)
		require.NoError(rt, err)
		b, err := second.Encode(text)
		require.NoError(rt, err)
		assert.Equal(rt, a, b)
	})
}

// Property: merge ids are assigned contiguously from 256, and encoding never
// produces an id outside the byte range plus the learned merges.
func TestProperty_EncodedIDs_WithinVocab(t *testing.T) {
	tok := NewBasic()
	require.NoError(t, tok.Train(testutil.LlamaText, 256+64, false))
	limit := 256 + len(tok.Merges())

	rapid.Check(t, func(rt *rapid.T) {
		text := rapid.String().Draw(rt, "text")

		ids, err := tok.Encode(text)
		require.NoError(rt, err)
		for _, id := range ids {
			assert.GreaterOrEqual(rt, id, 0)
			assert.Less(rt, id, limit)
		}
	})
}

// Property: splitting on specials and re-joining the segment texts restores
// the input, and special segments are exactly the registered labels.
func TestProperty_SplitSpecials_Partition(t *testing.T) {
	table, err := NewSpecialTable(
		SpecialToken{Label: "<|endoftext|>", ID: 100257},
		SpecialToken{Label: "<|fim_prefix|>", ID: 100258},
	)
	require.NoError(t, err)

	rapid.Check(t, func(rt *rapid.T) {
		parts := rapid.SliceOfN(rapid.SampledFrom([]string{
			"hello", " ", "<|endoftext|>", "<|fim_prefix|>", "ab<|c", "|>", "",
		}), 0, 8).Draw(rt, "parts")
		var text string
		for _, p := range parts {
			text += p
		}

		var rejoined string
		for _, seg := range splitSpecials(text, table) {
			if seg.special {
				_, ok := table.ID(seg.text)
				assert.True(rt, ok)
			}
			rejoined += seg.text
		}
		assert.Equal(rt, text, rejoined)
	})
}
