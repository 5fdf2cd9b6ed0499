package pipeline

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/xbar/pkg/crossbar"
	apperr "github.com/matzehuels/xbar/pkg/errors"
	"github.com/matzehuels/xbar/pkg/observability"
)

// Verify generates and checks the plan for n terminals. Verification is
// never cached.
func (r *Runner) Verify(ctx context.Context, n int) (crossbar.Report, error) {
	if err := ctx.Err(); err != nil {
		return crossbar.Report{}, err
	}
	hooks := observability.Pipeline()
	hooks.OnVerifyStart(ctx, n)
	start := time.Now()

	rep, err := crossbar.Verify(n)
	elapsed := time.Since(start)
	hooks.OnVerifyComplete(ctx, n, elapsed, err)
	if err != nil {
		return rep, err
	}
	r.Logger.Debug("verified plan", "terminals", n, "connections", rep.Connections, "duration", elapsed)
	return rep, nil
}

// VerifyRange verifies every terminal count in [from, to] on up to workers
// goroutines (DefaultVerifyWorkers if workers <= 0). Reports are returned in
// terminal order. The first failure cancels the remaining work.
func (r *Runner) VerifyRange(ctx context.Context, from, to, workers int) ([]crossbar.Report, error) {
	if err := apperr.ValidateTerminalCount(from); err != nil {
		return nil, err
	}
	if to < from {
		return nil, apperr.New(apperr.ErrCodeInvalidArgument, "empty range [%d, %d]", from, to)
	}
	if workers <= 0 {
		workers = DefaultVerifyWorkers
	}

	reports := make([]crossbar.Report, to-from+1)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for n := from; n <= to; n++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			rep, err := r.Verify(gctx, n)
			if err != nil {
				return err
			}
			reports[n-from] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return reports, nil
}
