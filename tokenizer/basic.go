package tokenizer

import (
	"go.uber.org/zap"

	"github.com/BaSui01/tokenflow/bpe"
	"github.com/BaSui01/tokenflow/types"
)

// Basic is the minimal byte-level BPE tokenizer: the whole input is a single
// chunk, there is no split pattern and no special-token handling.
type Basic struct {
	merges *mergeTable
	vocab  bpe.Vocab
	logger *zap.Logger
}

var _ Trainable = (*Basic)(nil)
var _ Persistable = (*Basic)(nil)

// NewBasic creates an empty basic tokenizer holding only the 256 byte ids.
func NewBasic(opts ...Option) *Basic {
	s := newSettings(opts)
	return &Basic{
		merges: newMergeTable(nil),
		vocab:  bpe.NewByteVocab(),
		logger: s.logger,
	}
}

// Train learns vocabSize-256 merge rules from text over a single chunk.
func (t *Basic) Train(text string, vocabSize int, verbose bool) error {
	chunks := [][]types.Token{bytesToTokens([]byte(text))}
	merges, vocab, err := trainChunks(chunks, vocabSize, verbose, t.logger)
	if err != nil {
		return err
	}
	t.merges = merges
	t.vocab = vocab
	return nil
}

// Encode converts text to token ids by applying trained merges in creation
// order. It never fails; the error return satisfies the Tokenizer interface.
func (t *Basic) Encode(text string) ([]types.Token, error) {
	return encodeChunk([]byte(text), t.merges, nil), nil
}

// Decode converts ids back to text.
func (t *Basic) Decode(ids []types.Token) (string, error) {
	return decodeIDs(ids, t.vocab, nil)
}

// Merges returns the ordered merge rules.
func (t *Basic) Merges() []bpe.MergeRule { return t.merges.cloneRules() }

// Vocab returns the id to byte-sequence table.
func (t *Basic) Vocab() bpe.Vocab { return t.vocab }

// SpecialTokens always returns nil: the basic variant has no specials.
func (t *Basic) SpecialTokens() *SpecialTable { return nil }

// Save writes <prefix>.model and <prefix>.vocab under dir. The model file
// carries an empty pattern line, which is how Load recognizes the variant.
func (t *Basic) Save(dir, prefix string) error {
	return saveModel(dir, prefix, "", nil, t.merges.rules, t.vocab)
}
