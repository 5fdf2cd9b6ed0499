// Package pipeline produces encoded wiring plans for the CLI and the HTTP API.
//
// Both entry points go through a [Runner] so that validation, caching and
// instrumentation behave the same everywhere. A run has two stages:
//
//  1. Generate: build the crossbar for the requested terminal count
//  2. Encode: serialize its plan in the requested format
//
// The encoded artifact is cached under [cache.Keyer.PlanKey]; plans depend
// only on the terminal count and format, so a hit is always current.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Terminals: 64,
//	    Format:    plan.FormatJSONL,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Stdout.Write(result.Artifact)
//
// Verification runs through the same runner:
//
//	report, err := runner.Verify(ctx, 64)
//	reports, err := runner.VerifyRange(ctx, 2, 200)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/xbar/pkg/cache"
	apperr "github.com/matzehuels/xbar/pkg/errors"
	"github.com/matzehuels/xbar/pkg/plan"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultFormat is the plan encoding used when none is requested.
	DefaultFormat = plan.FormatJSON

	// DefaultCacheTTL is how long encoded plans stay cached.
	DefaultCacheTTL = cache.TTLPlan

	// DefaultVerifyWorkers bounds concurrent verifications in VerifyRange.
	DefaultVerifyWorkers = 4
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run.
type Options struct {
	Terminals int    `json:"terminals"`
	Format    string `json:"format,omitempty"`
	Refresh   bool   `json:"refresh,omitempty"` // Skip the cache lookup and overwrite the entry

	// MaxTerminals rejects larger requests with OUT_OF_RANGE. Zero disables
	// the limit.
	MaxTerminals int `json:"max_terminals,omitempty"`

	// CacheTTL overrides DefaultCacheTTL.
	CacheTTL time.Duration `json:"-"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result is the output of a pipeline run.
type Result struct {
	// Summary is the plan header for the requested crossbar.
	Summary plan.Summary

	// Format is the encoding of Artifact.
	Format string

	// Artifact is the encoded plan.
	Artifact []byte

	// ETag is the content hash of Artifact.
	ETag string

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether Artifact came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Connections  int
	Bytes        int
	GenerateTime time.Duration
	EncodeTime   time.Duration
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := apperr.ValidateTerminalCount(o.Terminals); err != nil {
		return err
	}
	if err := apperr.ValidateTerminalLimit(o.Terminals, o.MaxTerminals); err != nil {
		return err
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if err := plan.ValidateFormat(o.Format); err != nil {
		return err
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = DefaultCacheTTL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}
