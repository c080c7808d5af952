// Copyright (c) TokenFlow Authors.
// Licensed under the MIT License.

package gpt4

import (
	"bufio"
	"encoding/base64"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/BaSui01/tokenflow/bpe"
	"github.com/BaSui01/tokenflow/types"
)

// RankTable maps a token's byte sequence (as a string key) to its rank. Ranks
// double as token ids: 0-255 are single bytes in the vocabulary's own
// ordering, 256 and up are merged tokens.
type RankTable map[string]int

// ParseRanks reads the tiktoken text format: one "base64-token rank" pair per
// line. Malformed lines fail with MALFORMED_MODEL.
func ParseRanks(r io.Reader) (RankTable, error) {
	ranks := make(RankTable)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, types.Errorf(types.ErrMalformedModel, "invalid rank line %q", line)
		}
		token, err := base64.StdEncoding.DecodeString(fields[0])
		if err != nil {
			return nil, types.Errorf(types.ErrMalformedModel, "invalid base64 token %q", fields[0]).WithCause(err)
		}
		rank, err := strconv.Atoi(fields[1])
		if err != nil || rank < 0 {
			return nil, types.Errorf(types.ErrMalformedModel, "invalid rank %q", fields[1])
		}
		ranks[string(token)] = rank
	}
	if err := scanner.Err(); err != nil {
		return nil, types.NewError(types.ErrMalformedModel, "read rank table").WithCause(err)
	}
	return ranks, nil
}

// RecoverMerges reconstructs the ordered merge list from a rank table. A rank
// table stores only final token byte sequences; the two tokens each merge
// joined are recovered by re-running the merge procedure on the token's own
// bytes, bounded to ranks below the token's rank.
func RecoverMerges(ranks RankTable) ([]bpe.MergeRule, error) {
	type entry struct {
		token string
		rank  int
	}
	merged := make([]entry, 0, len(ranks))
	for token, rank := range ranks {
		if len(token) == 1 {
			continue
		}
		merged = append(merged, entry{token: token, rank: rank})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].rank < merged[j].rank })

	rules := make([]bpe.MergeRule, 0, len(merged))
	for _, e := range merged {
		left, right, err := splitByRank(ranks, e.token, e.rank)
		if err != nil {
			return nil, err
		}
		leftRank, ok := ranks[left]
		if !ok {
			return nil, types.Errorf(types.ErrMalformedModel, "rank table missing part %q of token rank %d", left, e.rank)
		}
		rightRank, ok := ranks[right]
		if !ok {
			return nil, types.Errorf(types.ErrMalformedModel, "rank table missing part %q of token rank %d", right, e.rank)
		}
		rules = append(rules, bpe.MergeRule{
			Pair: bpe.Pair{Left: leftRank, Right: rightRank},
			ID:   e.rank,
		})
	}
	return rules, nil
}

// splitByRank replays the merge procedure on token's bytes using only ranks
// below maxRank, which leaves exactly the two parts the final merge joined.
func splitByRank(ranks RankTable, token string, maxRank int) (string, string, error) {
	parts := make([]string, len(token))
	for i := 0; i < len(token); i++ {
		parts[i] = token[i : i+1]
	}
	for len(parts) > 2 {
		best := -1
		bestRank := maxRank
		for i := 0; i+1 < len(parts); i++ {
			rank, ok := ranks[parts[i]+parts[i+1]]
			if ok && rank < bestRank {
				best = i
				bestRank = rank
			}
		}
		if best == -1 {
			return "", "", types.Errorf(types.ErrMalformedModel,
				"token rank %d is not reachable by merges of lower rank", maxRank)
		}
		parts[best] = parts[best] + parts[best+1]
		parts = append(parts[:best+1], parts[best+2:]...)
	}
	return parts[0], parts[1], nil
}

// shuffleFromRanks derives the byte permutation from the single-byte entries:
// raw byte i sits at id ranks[string(i)] in the pretrained vocabulary. A
// missing or out-of-range single-byte rank fails with PERMUTATION_MISMATCH.
func shuffleFromRanks(ranks RankTable) (*byteShuffle, error) {
	var perm [256]byte
	for i := 0; i < 256; i++ {
		rank, ok := ranks[string([]byte{byte(i)})]
		if !ok {
			return nil, types.Errorf(types.ErrPermutationMismatch, "rank table has no entry for byte %d", i)
		}
		if rank < 0 || rank > 255 {
			return nil, types.Errorf(types.ErrPermutationMismatch,
				"single byte %d has rank %d outside the byte range", i, rank)
		}
		perm[i] = byte(rank)
	}
	return newByteShuffle(perm)
}
