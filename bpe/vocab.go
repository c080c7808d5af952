package bpe

import "github.com/BaSui01/tokenflow/types"

// Vocab maps a token id to the byte sequence it stands for. It is derived
// deterministically by replaying the ordered merge list on top of the 256
// base byte entries; special tokens are layered on afterwards.
type Vocab map[types.Token][]byte

// NewByteVocab returns a vocabulary holding only the 256 base byte entries.
func NewByteVocab() Vocab {
	v := make(Vocab, 2*types.NumByteTokens)
	for i := 0; i < types.NumByteTokens; i++ {
		v[types.Token(i)] = []byte{byte(i)}
	}
	return v
}

// Extend adds the entry for rule.ID by concatenating the byte sequences of
// the rule's pair. Both ancestors must already be present; a dangling
// reference means the merge list is out of dependency order, which only a
// corrupted model file can produce.
func (v Vocab) Extend(rule MergeRule) error {
	left, ok := v[rule.Pair.Left]
	if !ok {
		return types.Errorf(types.ErrMalformedModel, "merge %d references unknown id %d", rule.ID, rule.Pair.Left)
	}
	right, ok := v[rule.Pair.Right]
	if !ok {
		return types.Errorf(types.ErrMalformedModel, "merge %d references unknown id %d", rule.ID, rule.Pair.Right)
	}
	joined := make([]byte, 0, len(left)+len(right))
	joined = append(joined, left...)
	joined = append(joined, right...)
	v[rule.ID] = joined
	return nil
}

// Bytes returns the byte sequence for id.
func (v Vocab) Bytes(id types.Token) ([]byte, bool) {
	b, ok := v[id]
	return b, ok
}

// BuildVocab replays merges, in order, on top of the base byte vocabulary.
func BuildVocab(merges []MergeRule) (Vocab, error) {
	v := NewByteVocab()
	for _, rule := range merges {
		if err := v.Extend(rule); err != nil {
			return nil, err
		}
	}
	return v, nil
}
