package bpe

import "github.com/BaSui01/tokenflow/types"

// Merge rewrites every occurrence of pair in ids with id, in a single
// left-to-right non-overlapping pass: a token consumed by one replacement is
// not reused by the next. Returns the original slice untouched when the pair
// does not occur.
func Merge(ids []types.Token, pair Pair, id types.Token) []types.Token {
	present := false
	for i := 0; i+1 < len(ids); i++ {
		if ids[i] == pair.Left && ids[i+1] == pair.Right {
			present = true
			break
		}
	}
	if !present {
		return ids
	}

	out := make([]types.Token, 0, len(ids))
	for i := 0; i < len(ids); {
		if i+1 < len(ids) && ids[i] == pair.Left && ids[i+1] == pair.Right {
			out = append(out, id)
			i += 2
		} else {
			out = append(out, ids[i])
			i++
		}
	}
	return out
}
