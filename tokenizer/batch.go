package tokenizer

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/BaSui01/tokenflow/types"
)

// EncodeBatch encodes texts concurrently under one policy. A finalized
// tokenizer is immutable and chunks never interact, so texts are fully
// independent. Results keep the input order. The first failing text aborts
// the batch.
func (t *Regex) EncodeBatch(ctx context.Context, texts []string, policy SpecialsPolicy) ([][]types.Token, error) {
	out := make([][]types.Token, len(texts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, text := range texts {
		i, text := i, text
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ids, err := t.EncodeWithSpecials(text, policy)
			if err != nil {
				return err
			}
			out[i] = ids
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
