package bpe

import "github.com/BaSui01/tokenflow/types"

// Pair is an adjacent id pair inside a chunk.
type Pair struct {
	Left  types.Token
	Right types.Token
}

// Less orders pairs numerically, left id first. It is the pinned tie-break
// order for training: among equally frequent pairs the numerically smallest
// pair wins, so two training runs over the same text always produce the same
// merge sequence.
func (p Pair) Less(other Pair) bool {
	if p.Left != other.Left {
		return p.Left < other.Left
	}
	return p.Right < other.Right
}

// MergeRule records one trained merge: Pair fuses into ID. The byte
// representation of ID is the concatenation of the byte representations of
// Pair.Left and Pair.Right, both of which exist before the rule is created.
type MergeRule struct {
	Pair Pair
	ID   types.Token
}

// CountPairs returns the frequency of every adjacent pair in ids.
func CountPairs(ids []types.Token) map[Pair]int {
	counts := make(map[Pair]int)
	AddPairCounts(ids, counts)
	return counts
}

// AddPairCounts accumulates the adjacent pair frequencies of ids into counts.
// Training uses this to count across many chunks without allocating a map per
// chunk.
func AddPairCounts(ids []types.Token, counts map[Pair]int) {
	for i := 0; i+1 < len(ids); i++ {
		counts[Pair{ids[i], ids[i+1]}]++
	}
}

// MostFrequent returns the pair with the strictly greatest count. Ties are
// broken by the numerically smallest pair. The third return value is false
// when counts is empty.
func MostFrequent(counts map[Pair]int) (Pair, int, bool) {
	var best Pair
	bestCount := 0
	found := false
	for pair, count := range counts {
		if !found || count > bestCount || (count == bestCount && pair.Less(best)) {
			best = pair
			bestCount = count
			found = true
		}
	}
	return best, bestCount, found
}
