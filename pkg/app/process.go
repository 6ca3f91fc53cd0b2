package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/birdayz/a85/pkg/codec"
)

// Result is the converted form of an Input.
type Result struct {
	Source string
	Mode   Mode
	Data   []byte
}

// Process runs c over inputs in the direction of mode, at most
// Concurrency() at a time. Results keep the order of inputs. The first
// failure cancels the remaining work and is returned.
func (a *App) Process(ctx context.Context, mode Mode, c codec.Codec, inputs []Input) ([]Result, error) {
	results := make([]Result, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.Concurrency())
	for i, in := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			out, err := mode.Run(c, in.Data)
			if err != nil {
				return fmt.Errorf("%s: failed to %v: %w", in.Source, mode, err)
			}
			a.Logger.Debug("processed input",
				zap.String("source", in.Source),
				zap.Stringer("mode", mode),
				zap.Int("in_bytes", len(in.Data)),
				zap.Int("out_bytes", len(out)),
			)

			results[i] = Result{Source: in.Source, Mode: mode, Data: out}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Run reads the inputs for one encode or decode invocation, converts them
// with the active pipeline and renders the results.
func (a *App) Run(ctx context.Context, mode Mode, opts InputOptions) error {
	if err := a.Validate(); err != nil {
		return err
	}

	pipe, err := a.Pipeline()
	if err != nil {
		return err
	}

	inputs, err := a.ReadInputs(mode, opts)
	if err != nil {
		return err
	}

	results, err := a.Process(ctx, mode, pipe, inputs)
	if err != nil {
		return err
	}

	for _, r := range results {
		if err := a.Render(r, a.Output()); err != nil {
			return err
		}
	}
	return nil
}
