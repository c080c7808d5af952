package gpt4

import (
	"testing"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/BaSui01/tokenflow/testutil"
	"github.com/BaSui01/tokenflow/tokenizer"
	"github.com/BaSui01/tokenflow/types"
)

func TestNewSynthetic(t *testing.T) {
	// Swap 'a' and 'b' in the byte ordering so the shuffle is visible in the
	// raw ids but invisible after decode.
	ranks := identityRanks("ab")
	ranks["a"], ranks["b"] = 98, 97

	tok, err := New(ranks)
	require.NoError(t, err)

	// "ab" recovers as pair (98, 97) in shuffled ids; the chunk "abab"
	// shuffles to [98 97 98 97] and merges twice.
	ids, err := tok.Encode("abab")
	require.NoError(t, err)
	assert.Equal(t, []types.Token{256, 256}, ids)

	decoded, err := tok.Decode(ids)
	require.NoError(t, err)
	assert.Equal(t, "abab", decoded)
}

func TestNewRejectsBadRankTables(t *testing.T) {
	t.Run("missing byte entry", func(t *testing.T) {
		ranks := identityRanks()
		delete(ranks, "a")
		_, err := New(ranks)
		require.Error(t, err)
		assert.True(t, types.IsErrorCode(err, types.ErrPermutationMismatch))
	})

	t.Run("unreachable merged token", func(t *testing.T) {
		_, err := New(identityRanks("xyz"))
		require.Error(t, err)
		assert.True(t, types.IsErrorCode(err, types.ErrMalformedModel))
	})
}

func TestDecodeUnknownID(t *testing.T) {
	tok, err := New(identityRanks("ab"))
	require.NoError(t, err)

	_, err = tok.Decode([]types.Token{257})
	require.Error(t, err)
	assert.True(t, types.IsErrorCode(err, types.ErrInvalidToken))
}

func newCL100k(t *testing.T) *Tokenizer {
	t.Helper()
	tok, err := NewCL100kBase()
	require.NoError(t, err)
	return tok
}

func referenceCL100k(t *testing.T) *tiktoken.Tiktoken {
	t.Helper()
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	enc, err := tiktoken.GetEncoding("cl100k_base")
	require.NoError(t, err)
	return enc
}

func TestCL100kMatchesReference(t *testing.T) {
	tok := newCL100k(t)
	ref := referenceCL100k(t)

	texts := append([]string{
		"hello world!!!",
		"I'm counting: 1234567, don't I?",
		"FILE:taxonomy.txt\n\tindented line\r\nCRLF   trailing   ",
	}, testutil.ShortStrings...)

	for _, text := range texts {
		want := ref.EncodeOrdinary(text)
		got, err := tok.EncodeOrdinary(text)
		require.NoError(t, err)
		assert.Equal(t, want, got, "text %q", text)
	}
}

func TestCL100kSpecials(t *testing.T) {
	tok := newCL100k(t)

	ids, err := tok.EncodeWithSpecials("<|endoftext|>hello world", tokenizer.AllowAllSpecials)
	require.NoError(t, err)
	require.NotEmpty(t, ids)
	assert.Equal(t, 100257, ids[0])

	decoded, err := tok.Decode(ids)
	require.NoError(t, err)
	assert.Equal(t, "<|endoftext|>hello world", decoded)

	_, err = tok.Encode("<|endoftext|>")
	require.Error(t, err)
	assert.True(t, types.IsErrorCode(err, types.ErrDisallowedSpecial))
}

func TestCL100kKnownIDs(t *testing.T) {
	tok := newCL100k(t)

	// "hello world" is a stable cl100k encoding.
	ids, err := tok.Encode("hello world")
	require.NoError(t, err)
	assert.Equal(t, []types.Token{15339, 1917}, ids)
}

func TestProperty_CL100kRoundTrip(t *testing.T) {
	tok := newCL100k(t)

	rapid.Check(t, func(rt *rapid.T) {
		text := rapid.String().Draw(rt, "text")

		ids, err := tok.EncodeOrdinary(text)
		require.NoError(rt, err)
		decoded, err := tok.Decode(ids)
		require.NoError(rt, err)
		assert.Equal(rt, text, decoded)
	})
}
