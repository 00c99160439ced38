// Package resolve recovers DOIs for free-text bibliography records by trying
// an ordered list of strategies.
package resolve

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// Strategy is one way of turning a reference text into a DOI.
//
// Lookup returns the DOI, or "" when the strategy has no answer. An error
// reports a failed attempt (network, malformed response); the resolver logs
// it and moves on to the next strategy.
type Strategy interface {
	Name() string
	Lookup(ctx context.Context, text string) (string, error)
}

// Result is the outcome of resolving one reference.
type Result struct {
	DOI    string `json:"doi,omitempty"`
	Source string `json:"source,omitempty"`
}

// Found reports whether a DOI was recovered.
func (r Result) Found() bool {
	return r.DOI != ""
}

// Resolver runs strategies in order and stops at the first DOI. Results are
// memoized by reference text for the lifetime of the Resolver, so a
// reference cited twice is looked up once.
type Resolver struct {
	strategies []Strategy
	memo       map[string]Result
	logger     zerolog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used to report failed strategy attempts.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// New creates a Resolver that tries strategies in the given order.
func New(strategies []Strategy, opts ...Option) *Resolver {
	r := &Resolver{
		strategies: strategies,
		memo:       make(map[string]Result),
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the DOI of the first strategy that finds one. An empty
// Result is a valid answer, not a failure.
func (r *Resolver) Resolve(ctx context.Context, text string) Result {
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{}
	}
	if res, ok := r.memo[text]; ok {
		return res
	}

	var res Result
	for _, s := range r.strategies {
		doi, err := s.Lookup(ctx, text)
		if err != nil {
			r.logger.Debug().Str("strategy", s.Name()).Err(err).Msg("lookup failed")
			continue
		}
		if doi != "" {
			res = Result{DOI: doi, Source: s.Name()}
			break
		}
	}

	// A canceled run must not poison the memo with misses.
	if ctx.Err() == nil {
		r.memo[text] = res
	}
	return res
}
