package tokenizer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/tokenflow/testutil"
	"github.com/BaSui01/tokenflow/types"
)

func TestBasicSaveLoad(t *testing.T) {
	dir := t.TempDir()

	trained := NewBasic()
	require.NoError(t, trained.Train(testutil.LlamaText, 256+64, false))
	require.NoError(t, trained.Save(dir, "basic"))

	loaded, err := LoadBasic(filepath.Join(dir, "basic.model"))
	require.NoError(t, err)

	assert.Equal(t, trained.Merges(), loaded.Merges())
	assert.Equal(t, trained.Vocab(), loaded.Vocab())

	for _, text := range testutil.ShortStrings {
		want, err := trained.Encode(text)
		require.NoError(t, err)
		got, err := loaded.Encode(text)
		require.NoError(t, err)
		assert.Equal(t, want, got)

		decoded, err := loaded.Decode(got)
		require.NoError(t, err)
		assert.Equal(t, text, decoded)
	}
}

func TestRegexSaveLoadWithSpecials(t *testing.T) {
	dir := t.TempDir()

	trained, err := NewRegex("")
	require.NoError(t, err)
	require.NoError(t, trained.RegisterSpecials(specialFixtures(t)...))
	require.NoError(t, trained.Train(testutil.LlamaText, 256+64, false))
	require.NoError(t, trained.Save(dir, "regex"))

	loaded, err := LoadRegex(filepath.Join(dir, "regex.model"))
	require.NoError(t, err)

	assert.Equal(t, trained.Pattern(), loaded.Pattern())
	assert.Equal(t, trained.Merges(), loaded.Merges())
	assert.Equal(t, trained.SpecialTokens().Tokens(), loaded.SpecialTokens().Tokens())

	want, err := trained.EncodeWithSpecials(testutil.LlamaText, AllowAllSpecials)
	require.NoError(t, err)
	got, err := loaded.EncodeWithSpecials(testutil.LlamaText, AllowAllSpecials)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	decoded, err := loaded.Decode(got)
	require.NoError(t, err)
	assert.Equal(t, testutil.LlamaText, decoded)
}

func TestLoadPicksVariantByPattern(t *testing.T) {
	dir := t.TempDir()

	basic := NewBasic()
	require.NoError(t, basic.Train("aaabdaaabac", 256+3, false))
	require.NoError(t, basic.Save(dir, "b"))

	regex, err := NewRegex("")
	require.NoError(t, err)
	require.NoError(t, regex.Train("aaabdaaabac", 256+3, false))
	require.NoError(t, regex.Save(dir, "r"))

	fromBasic, err := Load(filepath.Join(dir, "b.model"))
	require.NoError(t, err)
	assert.IsType(t, &Basic{}, fromBasic)

	fromRegex, err := Load(filepath.Join(dir, "r.model"))
	require.NoError(t, err)
	assert.IsType(t, &Regex{}, fromRegex)

	_, err = LoadBasic(filepath.Join(dir, "r.model"))
	require.Error(t, err)
	_, err = LoadRegex(filepath.Join(dir, "b.model"))
	require.Error(t, err)
}

func TestSaveWritesVocabDump(t *testing.T) {
	dir := t.TempDir()

	tok := NewBasic()
	require.NoError(t, tok.Train("aaabdaaabac", 256+3, false))
	require.NoError(t, tok.Save(dir, "dump"))

	raw, err := os.ReadFile(filepath.Join(dir, "dump.vocab"))
	require.NoError(t, err)
	content := string(raw)

	// Base bytes and merged entries are rendered; the file is for humans
	// and is never parsed back.
	assert.Contains(t, content, "[a] 97")
	assert.Contains(t, content, "-> [aa] 256")
}

func TestLoadMalformedModel(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "empty file", content: ""},
		{name: "wrong version", content: "minbpe v1\n\n0\n"},
		{name: "missing pattern line", content: "tokenflow v1"},
		{name: "missing special count", content: "tokenflow v1\n\n"},
		{name: "non-numeric special count", content: "tokenflow v1\n\nmany\n"},
		{name: "negative special count", content: "tokenflow v1\n\n-2\n"},
		{name: "truncated special list", content: "tokenflow v1\n\n2\n<|endoftext|> 300\n"},
		{name: "special line missing id", content: "tokenflow v1\n\n1\n<|endoftext|>\n"},
		{name: "special id not a number", content: "tokenflow v1\n\n1\n<|endoftext|> abc\n"},
		{name: "merge line with one field", content: "tokenflow v1\n\n0\n97\n"},
		{name: "merge line not numeric", content: "tokenflow v1\n\n0\n97 b\n"},
		{name: "merge references future id", content: "tokenflow v1\n\n0\n300 97\n"},
		{name: "merge references negative id", content: "tokenflow v1\n\n0\n-1 97\n"},
		{name: "blank line inside merges", content: "tokenflow v1\n\n0\n97 97\n\n97 98\n"},
		{name: "specials on patternless model", content: "tokenflow v1\n\n1\n<|endoftext|> 300\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.model")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := Load(path)
			require.Error(t, err)
			assert.True(t, types.IsErrorCode(err, types.ErrMalformedModel), "got %v", err)
		})
	}
}

func TestLoadSpecialCollisionInFile(t *testing.T) {
	// Special id 256 collides with the first merge id.
	content := "tokenflow v1\n" + GPT4SplitPattern + "\n1\n<|endoftext|> 256\n97 97\n"
	path := filepath.Join(t.TempDir(), "collide.model")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, types.IsErrorCode(err, types.ErrSpecialTokenCollision))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.model"))
	require.Error(t, err)
	assert.True(t, types.IsErrorCode(err, types.ErrMalformedModel))
}
