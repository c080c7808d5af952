package tokenizer

import (
	"fmt"

	"github.com/dlclark/regexp2"
	"go.uber.org/zap"

	"github.com/BaSui01/tokenflow/bpe"
	"github.com/BaSui01/tokenflow/types"
)

// GPT split patterns, matching tiktoken. Both need lookahead ((?!\S)), which
// is why chunking runs on regexp2 rather than the standard library regexp.
const (
	// GPT2SplitPattern is the GPT-2 text split pattern.
	GPT2SplitPattern = `'(?:[sdmt]|ll|ve|re)| ?\p{L}+| ?\p{N}+| ?[^\s\p{L}\p{N}]+|\s+(?!\S)|\s+`

	// GPT4SplitPattern is the cl100k_base text split pattern.
	GPT4SplitPattern = `(?i:'s|'t|'re|'ve|'m|'ll|'d)|[^\r\n\p{L}\p{N}]?\p{L}+|\p{N}{1,3}| ?[^\s\p{L}\p{N}]+[\r\n]*|\s*[\r\n]+|\s+(?!\S)|\s+`
)

// Regex is the regex-chunked BPE tokenizer: text is split into chunks by a
// token-boundary pattern and every chunk is merged independently, so merges
// never cross chunk boundaries. It optionally carries special tokens.
type Regex struct {
	pattern   string
	re        *regexp2.Regexp
	specials  *SpecialTable
	merges    *mergeTable
	vocab     bpe.Vocab
	logger    *zap.Logger
	transform func([]byte) []byte
}

var _ Trainable = (*Regex)(nil)
var _ Persistable = (*Regex)(nil)

// NewRegex creates an empty regex tokenizer. An empty pattern selects
// GPT4SplitPattern.
func NewRegex(pattern string, opts ...Option) (*Regex, error) {
	if pattern == "" {
		pattern = GPT4SplitPattern
	}
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("compile split pattern: %w", err)
	}
	s := newSettings(opts)
	return &Regex{
		pattern:   pattern,
		re:        re,
		merges:    newMergeTable(nil),
		vocab:     bpe.NewByteVocab(),
		logger:    s.logger,
		transform: s.transform,
	}, nil
}

// NewRegexFromModel builds a finalized tokenizer from pretrained state: an
// ordered merge list and a special-token set. The vocabulary is replayed
// from the merges; special ids overlapping it fail with
// SPECIAL_TOKEN_COLLISION.
func NewRegexFromModel(pattern string, merges []bpe.MergeRule, specials []SpecialToken, opts ...Option) (*Regex, error) {
	t, err := NewRegex(pattern, opts...)
	if err != nil {
		return nil, err
	}
	vocab, err := bpe.BuildVocab(merges)
	if err != nil {
		return nil, err
	}
	table, err := NewSpecialTable(specials...)
	if err != nil {
		return nil, err
	}
	for _, tok := range table.Tokens() {
		if _, ok := vocab.Bytes(tok.ID); ok {
			return nil, types.Errorf(types.ErrSpecialTokenCollision,
				"special token %q id %d overlaps the merge-id space", tok.Label, tok.ID)
		}
	}
	t.merges = newMergeTable(merges)
	t.vocab = vocab
	t.specials = table
	return t, nil
}

// RegisterSpecials adds special tokens to the registry. Ids must not collide
// with the merge-id space or previously registered specials.
func (t *Regex) RegisterSpecials(tokens ...SpecialToken) error {
	combined := append(t.specials.Tokens(), tokens...)
	table, err := NewSpecialTable(combined...)
	if err != nil {
		return err
	}
	for _, tok := range tokens {
		if _, ok := t.vocab.Bytes(tok.ID); ok {
			return types.Errorf(types.ErrSpecialTokenCollision,
				"special token %q id %d overlaps the merge-id space", tok.Label, tok.ID)
		}
	}
	t.specials = table
	return nil
}

// Train learns vocabSize-256 merge rules from text. Registered special-token
// occurrences are carved out as atomic chunks first and contribute no pairs;
// the rest is pattern-split and each chunk is merged independently.
func (t *Regex) Train(text string, vocabSize int, verbose bool) error {
	var chunks [][]types.Token
	for _, seg := range splitSpecials(text, t.specials) {
		if seg.special {
			continue
		}
		parts, err := t.splitChunks(seg.text)
		if err != nil {
			return err
		}
		for _, part := range parts {
			chunks = append(chunks, bytesToTokens([]byte(part)))
		}
	}

	merges, vocab, err := trainChunks(chunks, vocabSize, verbose, t.logger)
	if err != nil {
		return err
	}
	for _, tok := range t.specials.Tokens() {
		if _, ok := vocab.Bytes(tok.ID); ok {
			return types.Errorf(types.ErrSpecialTokenCollision,
				"trained merge id space reached special token %q id %d", tok.Label, tok.ID)
		}
	}
	t.merges = merges
	t.vocab = vocab
	return nil
}

// Encode converts text to token ids under the default ForbidSpecials policy.
func (t *Regex) Encode(text string) ([]types.Token, error) {
	return t.EncodeWithSpecials(text, ForbidSpecials)
}

// EncodeOrdinary encodes text ignoring special tokens entirely.
func (t *Regex) EncodeOrdinary(text string) ([]types.Token, error) {
	parts, err := t.splitChunks(text)
	if err != nil {
		return nil, err
	}
	ids := make([]types.Token, 0, len(text)/2)
	for _, part := range parts {
		ids = append(ids, encodeChunk([]byte(part), t.merges, t.transform)...)
	}
	return ids, nil
}

// EncodeWithSpecials encodes text, handling registered special tokens
// according to policy. Admitted specials become atomic ids at their original
// positions; merging never crosses their boundaries.
func (t *Regex) EncodeWithSpecials(text string, policy SpecialsPolicy) ([]types.Token, error) {
	active, err := policy.active(t.specials, text)
	if err != nil {
		return nil, err
	}
	if active.Len() == 0 {
		return t.EncodeOrdinary(text)
	}

	ids := make([]types.Token, 0, len(text)/2)
	for _, seg := range splitSpecials(text, active) {
		if seg.special {
			id, _ := active.ID(seg.text)
			ids = append(ids, id)
			continue
		}
		part, err := t.EncodeOrdinary(seg.text)
		if err != nil {
			return nil, err
		}
		ids = append(ids, part...)
	}
	return ids, nil
}

// Decode converts ids back to text, resolving merge and special ids.
func (t *Regex) Decode(ids []types.Token) (string, error) {
	return decodeIDs(ids, t.vocab, t.specials)
}

// Pattern returns the chunking pattern source text.
func (t *Regex) Pattern() string { return t.pattern }

// Merges returns the ordered merge rules.
func (t *Regex) Merges() []bpe.MergeRule { return t.merges.cloneRules() }

// Vocab returns the id to byte-sequence table.
func (t *Regex) Vocab() bpe.Vocab { return t.vocab }

// SpecialTokens returns the registered special tokens.
func (t *Regex) SpecialTokens() *SpecialTable { return t.specials }

// Save writes <prefix>.model and <prefix>.vocab under dir.
func (t *Regex) Save(dir, prefix string) error {
	return saveModel(dir, prefix, t.pattern, t.specials, t.merges.rules, t.vocab)
}

// splitChunks returns the pattern matches of text in order. The split
// patterns are exhaustive: concatenating the chunks reproduces the input.
func (t *Regex) splitChunks(text string) ([]string, error) {
	if text == "" {
		return nil, nil
	}
	var chunks []string
	m, err := t.re.FindStringMatch(text)
	if err != nil {
		return nil, fmt.Errorf("split text: %w", err)
	}
	for m != nil {
		chunks = append(chunks, m.String())
		m, err = t.re.FindNextMatch(m)
		if err != nil {
			return nil, fmt.Errorf("split text: %w", err)
		}
	}
	return chunks, nil
}
