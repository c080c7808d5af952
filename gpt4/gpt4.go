// Copyright (c) TokenFlow Authors.
// Licensed under the MIT License.

package gpt4

import (
	"bytes"
	"context"
	"strings"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"

	"github.com/BaSui01/tokenflow/bpe"
	"github.com/BaSui01/tokenflow/tokenizer"
	"github.com/BaSui01/tokenflow/types"
)

// cl100kBaseURL identifies the cl100k_base rank table. The offline loader
// resolves it from embedded data, so no network access happens.
const cl100kBaseURL = "https://openaipublic.blob.core.windows.net/encodings/cl100k_base.tiktoken"

// CL100kSpecialTokens is the special-token set of cl100k_base.
var CL100kSpecialTokens = []tokenizer.SpecialToken{
	{Label: "<|endoftext|>", ID: 100257},
	{Label: "<|fim_prefix|>", ID: 100258},
	{Label: "<|fim_middle|>", ID: 100259},
	{Label: "<|fim_suffix|>", ID: 100260},
	{Label: "<|endofprompt|>", ID: 100276},
}

// Tokenizer is a pretrained cl100k-style tokenizer. It wraps a regex
// tokenizer whose merges and byte permutation come from an external rank
// table; there is no training surface. Encoding shuffles input bytes forward
// into the vocabulary's byte ordering, decoding shuffles merge-token bytes
// back. Special tokens carry literal labels and are never shuffled.
type Tokenizer struct {
	core    *tokenizer.Regex
	shuffle *byteShuffle
}

var _ tokenizer.Tokenizer = (*Tokenizer)(nil)

// New builds a pretrained tokenizer from a rank table: merges are recovered
// in rank order and the byte permutation is taken from the single-byte
// entries.
func New(ranks RankTable, opts ...tokenizer.Option) (*Tokenizer, error) {
	shuffle, err := shuffleFromRanks(ranks)
	if err != nil {
		return nil, err
	}
	merges, err := RecoverMerges(ranks)
	if err != nil {
		return nil, err
	}
	core, err := tokenizer.NewRegexFromModel(tokenizer.GPT4SplitPattern, merges, nil,
		append(opts, tokenizer.WithByteTransform(shuffle.Forward))...)
	if err != nil {
		return nil, err
	}
	return &Tokenizer{core: core, shuffle: shuffle}, nil
}

// NewFromLoader fetches a rank table through a tiktoken BpeLoader and builds
// a tokenizer from it.
func NewFromLoader(loader tiktoken.BpeLoader, url string, opts ...tokenizer.Option) (*Tokenizer, error) {
	ranks, err := loader.LoadTiktokenBpe(url)
	if err != nil {
		return nil, types.NewError(types.ErrMalformedModel, "load rank table").WithCause(err)
	}
	return New(RankTable(ranks), opts...)
}

// NewCL100kBase builds the cl100k_base tokenizer from the embedded offline
// rank table, with the GPT-4 special tokens registered.
func NewCL100kBase(opts ...tokenizer.Option) (*Tokenizer, error) {
	t, err := NewFromLoader(tiktoken_loader.NewOfflineLoader(), cl100kBaseURL, opts...)
	if err != nil {
		return nil, err
	}
	if err := t.RegisterSpecials(CL100kSpecialTokens...); err != nil {
		return nil, err
	}
	return t, nil
}

// RegisterSpecials adds special tokens to the registry.
func (t *Tokenizer) RegisterSpecials(tokens ...tokenizer.SpecialToken) error {
	return t.core.RegisterSpecials(tokens...)
}

// Encode converts text to token ids under the default ForbidSpecials policy.
func (t *Tokenizer) Encode(text string) ([]types.Token, error) {
	return t.core.Encode(text)
}

// EncodeOrdinary encodes text ignoring special tokens entirely.
func (t *Tokenizer) EncodeOrdinary(text string) ([]types.Token, error) {
	return t.core.EncodeOrdinary(text)
}

// EncodeWithSpecials encodes text, handling registered special tokens
// according to policy.
func (t *Tokenizer) EncodeWithSpecials(text string, policy tokenizer.SpecialsPolicy) ([]types.Token, error) {
	return t.core.EncodeWithSpecials(text, policy)
}

// EncodeBatch encodes texts concurrently, preserving order.
func (t *Tokenizer) EncodeBatch(ctx context.Context, texts []string, policy tokenizer.SpecialsPolicy) ([][]types.Token, error) {
	return t.core.EncodeBatch(ctx, texts, policy)
}

// Decode converts ids back to text. Vocabulary bytes pass through the inverse
// byte permutation; special-token labels are emitted verbatim.
func (t *Tokenizer) Decode(ids []types.Token) (string, error) {
	vocab := t.core.Vocab()
	specials := t.core.SpecialTokens()
	var buf bytes.Buffer
	for _, id := range ids {
		if b, ok := vocab.Bytes(id); ok {
			buf.Write(t.shuffle.Inverse(b))
			continue
		}
		if label, ok := specials.Label(id); ok {
			buf.WriteString(label)
			continue
		}
		return "", types.Errorf(types.ErrInvalidToken, "unknown token id %d", id)
	}
	return strings.ToValidUTF8(buf.String(), "�"), nil
}

// Pattern returns the chunking pattern source text.
func (t *Tokenizer) Pattern() string { return t.core.Pattern() }

// Merges returns the recovered merge rules in rank order.
func (t *Tokenizer) Merges() []bpe.MergeRule { return t.core.Merges() }

// Vocab returns the id to byte-sequence table. Byte sequences are in the
// vocabulary's shuffled byte ordering, matching the external rank table.
func (t *Tokenizer) Vocab() bpe.Vocab { return t.core.Vocab() }

// SpecialTokens returns the registered special tokens.
func (t *Tokenizer) SpecialTokens() *tokenizer.SpecialTable { return t.core.SpecialTokens() }
