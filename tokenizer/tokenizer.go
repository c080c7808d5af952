package tokenizer

import (
	"bytes"
	"strings"

	"go.uber.org/zap"

	"github.com/BaSui01/tokenflow/bpe"
	"github.com/BaSui01/tokenflow/types"
)

// Tokenizer is the capability surface shared by all variants.
type Tokenizer interface {
	// Encode converts text into a sequence of token ids.
	Encode(text string) ([]types.Token, error)
	// Decode converts token ids back into text. Byte sequences that are not
	// valid UTF-8 render with the replacement character instead of failing.
	Decode(ids []types.Token) (string, error)
	// Merges returns the ordered merge rules, first-trained first.
	Merges() []bpe.MergeRule
	// Vocab returns the id to byte-sequence table.
	Vocab() bpe.Vocab
	// SpecialTokens returns the registered special tokens, possibly nil.
	SpecialTokens() *SpecialTable
}

// Trainable is a Tokenizer whose vocabulary can be learned from text.
type Trainable interface {
	Tokenizer
	// Train learns up to vocabSize-256 merge rules from text. It fails with
	// INVALID_VOCAB_SIZE before performing any merge when vocabSize <= 256,
	// and stops early when no adjacent pair occurs more than once.
	Train(text string, vocabSize int, verbose bool) error
}

// Persistable is a Tokenizer that can be written to a model file.
type Persistable interface {
	Tokenizer
	Save(dir, prefix string) error
}

type settings struct {
	logger    *zap.Logger
	transform func([]byte) []byte
}

// Option configures a tokenizer at construction time.
type Option func(*settings)

// WithLogger sets the zap logger used for training progress. Defaults to a
// nop logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithByteTransform sets a byte permutation applied to chunk bytes before
// merging. Pretrained vocabularies (gpt4 package) use this to align the
// local byte identity mapping with the external vocabulary's byte ordering.
func WithByteTransform(transform func([]byte) []byte) Option {
	return func(s *settings) { s.transform = transform }
}

func newSettings(opts []Option) settings {
	s := settings{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// mergeTable pairs the ordered rule list with a pair-to-creation-rank index.
// Encoding selects the lowest-ranked (earliest trained) applicable pair.
type mergeTable struct {
	rules []bpe.MergeRule
	rank  map[bpe.Pair]int
}

func newMergeTable(rules []bpe.MergeRule) *mergeTable {
	m := &mergeTable{rank: make(map[bpe.Pair]int, len(rules))}
	for _, rule := range rules {
		m.add(rule)
	}
	return m
}

func (m *mergeTable) add(rule bpe.MergeRule) {
	m.rank[rule.Pair] = len(m.rules)
	m.rules = append(m.rules, rule)
}

// bestPair returns the adjacent pair of ids with the lowest creation rank
// and the id it merges into, or false when no adjacent pair has a rule.
func (m *mergeTable) bestPair(ids []types.Token) (bpe.Pair, types.Token, bool) {
	bestRank := -1
	var best bpe.Pair
	for i := 0; i+1 < len(ids); i++ {
		pair := bpe.Pair{Left: ids[i], Right: ids[i+1]}
		if rank, ok := m.rank[pair]; ok && (bestRank == -1 || rank < bestRank) {
			bestRank = rank
			best = pair
		}
	}
	if bestRank == -1 {
		return bpe.Pair{}, 0, false
	}
	return best, m.rules[bestRank].ID, true
}

func (m *mergeTable) cloneRules() []bpe.MergeRule {
	out := make([]bpe.MergeRule, len(m.rules))
	copy(out, m.rules)
	return out
}

func bytesToTokens(b []byte) []types.Token {
	ids := make([]types.Token, len(b))
	for i, c := range b {
		ids[i] = types.Token(c)
	}
	return ids
}

// encodeChunk seeds ids from the chunk's bytes and repeatedly applies the
// earliest-trained applicable merge until none remains.
func encodeChunk(chunk []byte, merges *mergeTable, transform func([]byte) []byte) []types.Token {
	if transform != nil {
		chunk = transform(chunk)
	}
	ids := bytesToTokens(chunk)
	for len(ids) >= 2 {
		pair, id, ok := merges.bestPair(ids)
		if !ok {
			break
		}
		ids = bpe.Merge(ids, pair, id)
	}
	return ids
}

// trainChunks runs the count-select-merge loop over the chunk state and
// returns the resulting merge table and vocabulary. Chunks are mutated.
func trainChunks(chunks [][]types.Token, vocabSize int, verbose bool, logger *zap.Logger) (*mergeTable, bpe.Vocab, error) {
	if vocabSize <= types.NumByteTokens {
		return nil, nil, types.Errorf(types.ErrInvalidVocabSize,
			"target vocab size %d must exceed %d", vocabSize, types.NumByteTokens)
	}
	numMerges := vocabSize - types.NumByteTokens

	merges := newMergeTable(nil)
	vocab := bpe.NewByteVocab()

	for i := 0; i < numMerges; i++ {
		counts := make(map[bpe.Pair]int)
		for _, chunk := range chunks {
			bpe.AddPairCounts(chunk, counts)
		}

		pair, count, ok := bpe.MostFrequent(counts)
		if !ok || count < 2 {
			// No pair occurs more than once; further merges would only
			// memorize the remaining text.
			if verbose {
				logger.Info("training stopped early",
					zap.Int("merges", i),
					zap.Int("target", numMerges))
			}
			break
		}

		id := types.FirstMergeID + i
		for j := range chunks {
			chunks[j] = bpe.Merge(chunks[j], pair, id)
		}
		rule := bpe.MergeRule{Pair: pair, ID: id}
		if err := vocab.Extend(rule); err != nil {
			return nil, nil, err
		}
		merges.add(rule)

		if verbose {
			token, _ := vocab.Bytes(id)
			logger.Info("merge",
				zap.Int("round", i+1),
				zap.Int("total", numMerges),
				zap.Int("left", pair.Left),
				zap.Int("right", pair.Right),
				zap.Int("id", id),
				zap.Int("occurrences", count),
				zap.String("token", bpe.RenderToken(token)))
		}
	}

	return merges, vocab, nil
}

// decodeIDs maps ids through the vocabulary and special table, concatenates
// the byte sequences, and renders the result as UTF-8 with invalid sequences
// replaced. An id known to neither table fails with INVALID_TOKEN.
func decodeIDs(ids []types.Token, vocab bpe.Vocab, specials *SpecialTable) (string, error) {
	var buf bytes.Buffer
	for _, id := range ids {
		if b, ok := vocab.Bytes(id); ok {
			buf.Write(b)
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
