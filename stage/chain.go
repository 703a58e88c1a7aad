package stage

import (
	"context"

	"github.com/kbukum/textforge/value"
)

// Chained runs First and then Second on its result. It is itself a Stage
// whose input contract is First's and whose output contract is Second's.
//
// Compatibility between the two is not checked when the chain is built:
// Second validates what First produced on every call, which lets chains be
// assembled from configuration known only at run time.
type Chained struct {
	first  Stage
	second Stage
}

// Chain composes two stages. Composition is associative:
// Chain(Chain(a, b), c) and Chain(a, Chain(b, c)) produce the same output
// and the same name for every input a accepts.
func Chain(first, second Stage) *Chained {
	return &Chained{first: first, second: second}
}

// Then folds stages left to right into one stage. It returns nil for no
// stages and the stage itself for one.
func Then(stages ...Stage) Stage {
	if len(stages) == 0 {
		return nil
	}
	out := stages[0]
	for _, s := range stages[1:] {
		out = Chain(out, s)
	}
	return out
}

// First returns the stage that runs first.
func (c *Chained) First() Stage { return c.first }

// Second returns the stage that runs on First's output.
func (c *Chained) Second() Stage { return c.second }

// Name joins both names with " -> ".
func (c *Chained) Name() string {
	return c.first.Name() + " -> " + c.second.Name()
}

// Process runs First, then Second, stopping at the first error.
func (c *Chained) Process(ctx context.Context, in value.Value) (value.Value, error) {
	mid, err := c.first.Process(ctx, in)
	if err != nil {
		return value.Value{}, err
	}
	return c.second.Process(ctx, mid)
}
