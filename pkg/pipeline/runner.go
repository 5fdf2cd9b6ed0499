package pipeline

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/xbar/pkg/cache"
	"github.com/matzehuels/xbar/pkg/crossbar"
	"github.com/matzehuels/xbar/pkg/observability"
	"github.com/matzehuels/xbar/pkg/plan"
)

const cacheKeyType = "plan"

// Runner executes the pipeline with caching. Both the CLI and the HTTP API
// use it.
//
// The Runner holds no per-run state, so one Runner may serve concurrent
// requests as long as its Cache is safe for concurrent use.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// means DefaultKeyer and a nil logger discards output.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute produces the encoded plan for opts.Terminals.
//
// Cache failures are logged and otherwise ignored: a broken cache degrades
// to regenerating the plan.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	x, err := crossbar.New(opts.Terminals)
	if err != nil {
		return nil, err
	}
	result := &Result{
		Summary: plan.Summarize(x),
		Format:  opts.Format,
	}
	result.Stats.Connections = x.Len()

	key := r.Keyer.PlanKey(opts.Terminals, opts.Format)
	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		switch {
		case err != nil:
			opts.Logger.Warn("cache lookup failed", "terminals", opts.Terminals, "err", err)
		case hit:
			observability.Cache().OnCacheHit(ctx, cacheKeyType)
			opts.Logger.Debug("plan from cache", "terminals", opts.Terminals, "format", opts.Format)
			result.Artifact = data
			result.ETag = cache.Hash(data)
			result.Stats.Bytes = len(data)
			result.CacheHit = true
			return result, nil
		default:
			observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		}
	}

	data, err := r.generate(ctx, x, opts, &result.Stats)
	if err != nil {
		return nil, err
	}
	result.Artifact = data
	result.ETag = cache.Hash(data)
	result.Stats.Bytes = len(data)

	if err := r.Cache.Set(ctx, key, data, opts.CacheTTL); err != nil {
		opts.Logger.Warn("cache store failed", "terminals", opts.Terminals, "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
	}

	opts.Logger.Info("generated plan",
		"terminals", opts.Terminals,
		"connections", result.Stats.Connections,
		"format", opts.Format,
		"bytes", result.Stats.Bytes,
		"duration", result.Stats.GenerateTime+result.Stats.EncodeTime)

	return result, nil
}

// generate encodes the plan for x, honouring cancellation between writes.
func (r *Runner) generate(ctx context.Context, x *crossbar.Crossbar, opts Options, stats *Stats) ([]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnPlanStart(ctx, x.Terminals())
	start := time.Now()

	var buf bytes.Buffer
	w := &ctxWriter{ctx: ctx, w: &buf}

	// Wires are produced while encoding, so generation time is only the
	// part spent before the first byte.
	var encodeStart time.Time
	w.first = func() { encodeStart = time.Now() }

	err := plan.Encode(w, x, opts.Format)
	total := time.Since(start)
	hooks.OnPlanComplete(ctx, x.Terminals(), x.Len(), total, err)
	if err != nil {
		return nil, err
	}
	if encodeStart.IsZero() {
		encodeStart = start
	}
	stats.GenerateTime = encodeStart.Sub(start)
	stats.EncodeTime = total - stats.GenerateTime
	return buf.Bytes(), nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// ctxWriter fails writes once ctx is done, which aborts an encode midway.
type ctxWriter struct {
	ctx   context.Context
	w     io.Writer
	first func()
}

func (cw *ctxWriter) Write(p []byte) (int, error) {
	if err := cw.ctx.Err(); err != nil {
		return 0, err
	}
	if cw.first != nil {
		cw.first()
		cw.first = nil
	}
	return cw.w.Write(p)
}
