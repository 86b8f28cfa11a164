package amplifier

import (
	"context"
	"runtime"

	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
)

// Permutations returns every ordering of values using Heap's algorithm.
func Permutations(values []int64) [][]int64 {
	a := slices.Clone(values)
	out := [][]int64{slices.Clone(a)}
	c := make([]int, len(a))
	for i := 0; i < len(a); {
		if c[i] < i {
			if i%2 == 0 {
				a[0], a[i] = a[i], a[0]
			} else {
				a[c[i]], a[i] = a[i], a[c[i]]
			}
			out = append(out, slices.Clone(a))
			c[i]++
			i = 0
			continue
		}
		c[i] = 0
		i++
	}
	return out
}

// evaluate runs fn over every ordering on a bounded pool and returns the
// signals in input order. The first error cancels the remaining work.
func evaluate(ctx context.Context, orders [][]int64, fn func([]int64) (int64, error)) ([]int64, error) {
	signals := make([]int64, len(orders))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, order := range orders {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := fn(order)
			if err != nil {
				return err
			}
			signals[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return signals, nil
}
