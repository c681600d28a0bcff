package pipeline

import (
	"context"

	"github.com/sourcegraph/conc/pool"
)

// RunAll runs the Driver on every input with at most maxConcurrency runs in flight.
//
// A non-positive maxConcurrency means no limit. The returned Outcomes are in the same order as inputs.
func RunAll(ctx context.Context, d *Driver, inputs []string, maxConcurrency int) []Outcome {
	return RunAllFunc(ctx, inputs, maxConcurrency, func(ctx context.Context, _ int, input string) Outcome {
		return d.Run(ctx, input)
	})
}

// RunAllFunc is a variant of RunAll that lets the caller run each input differently, usually with a Driver whose sinks
// are specific to that input.
//
// fn is given the index of the input in inputs.
func RunAllFunc(ctx context.Context, inputs []string, maxConcurrency int, fn func(ctx context.Context, i int, input string) Outcome) []Outcome {
	outcomes := make([]Outcome, len(inputs))

	p := pool.New()
	if maxConcurrency > 0 {
		p = p.WithMaxGoroutines(maxConcurrency)
	}

	for i, input := range inputs {
		p.Go(func() {
			outcomes[i] = fn(ctx, i, input)
		})
	}

	p.Wait()
	return outcomes
}
