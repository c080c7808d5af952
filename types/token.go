package types

// Token is a tokenizer id. Ids 0-255 stand for the raw byte values and form
// the base vocabulary; ids from FirstMergeID upward are minted by training,
// one per merge rule, in strictly increasing creation order. Special tokens
// occupy ids outside the merge range, typically continuing after the highest
// merge id.
type Token = int

const (
	// NumByteTokens is the size of the base byte vocabulary.
	NumByteTokens = 256

	// FirstMergeID is the id assigned to the first trained merge rule.
	FirstMergeID Token = 256
)
