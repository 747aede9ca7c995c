// Package pipeline provides the core generation pipeline for netgen.
//
// This package implements the complete build → mutate → encode pipeline
// used by the CLI and the HTTP service. By centralizing this logic, both
// entry points share validation, seeding, caching, and archiving behavior.
//
// # Architecture
//
// The pipeline consists of two stochastic stages and an encoding step:
//
//  1. Build: grow a rooted binary tree under the beta-splitting model
//  2. Mutate: insert reticulation edges, turning the tree into a DAG
//  3. Encode: serialize the network in the requested output format
//
// All randomness for a run is drawn from one PCG source seeded once before
// the build stage, so a seeded run is bit-reproducible.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Tips:          50,
//	    Beta:          -1.0,
//	    Reticulations: 5,
//	    Seed:          42,
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(string(result.Encoded))
package pipeline

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/RemieJanssen/NetworkGenerators/pkg/errors"
	netio "github.com/RemieJanssen/NetworkGenerators/pkg/io"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultTips is the default number of tips in the generated tree.
	DefaultTips = 100

	// DefaultBeta is the default beta-splitting parameter (Aldous branching).
	DefaultBeta = 0.0

	// DefaultReticulations is the default number of reticulation insertions.
	DefaultReticulations = 10

	// DefaultFormat is the default output format (edge list).
	DefaultFormat = netio.FormatEdgeList

	// DefaultMaxTries bounds edge-selection retry loops.
	DefaultMaxTries = 100
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the generation pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Generation options
	Tips          int     `json:"tips,omitempty"`
	Beta          float64 `json:"beta,omitempty"`
	Reticulations int     `json:"reticulations,omitempty"`

	// StopProb selects the local random-walk edge selector with the given
	// stop probability. nil selects uniform edge selection.
	StopProb *float64 `json:"stop_prob,omitempty"`

	// Seed fixes the random stream for a reproducible run. 0 means draw a
	// fresh seed and report it in the result. Only explicitly seeded runs
	// are cacheable.
	Seed uint64 `json:"seed,omitempty"`

	// MaxTries bounds selector retry loops. 0 means DefaultMaxTries.
	MaxTries int `json:"max_tries,omitempty"`

	// MaxSteps caps random-walk length. 0 means uncapped.
	MaxSteps int `json:"max_steps,omitempty"`

	// Format is the output encoding: "el", "pl", or "json".
	Format string `json:"format,omitempty"`

	// Refresh bypasses the cache lookup (the result is still stored).
	Refresh bool `json:"refresh,omitempty"`

	// Archive stores the run in the run archive when a store is configured.
	Archive bool `json:"archive,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks fields and applies defaults.
// Reticulations cannot be defaulted through zero (0 is a legal request), so
// callers wanting the default pass DefaultReticulations explicitly; the CLI
// flag default does exactly that. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Tips == 0 {
		o.Tips = DefaultTips
	}
	if o.Tips < 2 {
		return errors.New(errors.ErrCodeInvalidInput, "tip count must be at least 2, got %d", o.Tips)
	}
	if o.Reticulations < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "reticulation count must be non-negative, got %d", o.Reticulations)
	}
	if o.StopProb != nil && (*o.StopProb <= 0 || *o.StopProb > 1) {
		return errors.New(errors.ErrCodeInvalidInput, "stop probability must be in (0, 1], got %g", *o.StopProb)
	}
	if o.MaxTries == 0 {
		o.MaxTries = DefaultMaxTries
	}
	if o.MaxTries < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max tries must be non-negative, got %d", o.MaxTries)
	}
	if o.MaxSteps < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max steps must be non-negative, got %d", o.MaxSteps)
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if err := netio.ValidateFormat(o.Format); err != nil {
		return err
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// Seeded reports whether the run was given an explicit seed.
func (o *Options) Seeded() bool { return o.Seed != 0 }
