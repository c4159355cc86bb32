package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/verletsim/internal/dynamo"
)

// Factory builds an independent runner for one ensemble member.
type Factory func(seed int64) (*Runner, error)

// Ensemble runs independent runners concurrently. The first failure cancels
// the remaining members.
type Ensemble struct {
	factory   Factory
	numRuns   int
	seedStart int64
	limit     int
}

func NewEnsemble(factory Factory, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{factory: factory, numRuns: numRuns, seedStart: seedStart}
}

// SetLimit caps the number of members running at once. Zero means no cap.
func (e *Ensemble) SetLimit(n int) { e.limit = n }

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}
	for i := 0; i < e.numRuns; i++ {
		i := i
		seed := e.seedStart + int64(i)
		g.Go(func() error {
			r, err := e.factory(seed)
			if err != nil {
				return fmt.Errorf("ensemble member %d: %w", i, err)
			}
			res, err := r.Run(ctx, cfg)
			if err != nil {
				return fmt.Errorf("ensemble member %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Divergence returns the first slot at which two final states differ
// bit-for-bit, or -1 when they are identical.
func Divergence(a, b []dynamo.Particle) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	if len(a) != len(b) {
		return n
	}
	return -1
}
