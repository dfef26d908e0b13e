package quote

import (
	"context"
	"sync"
	"time"

	"github.com/etnz/stockcard"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// DefaultRate is how many tickers a Batch starts per second by default.
const DefaultRate = 5

// Batch resolves many tickers concurrently from a single Source.
type Batch struct {
	source      Source
	concurrency int
	timeout     time.Duration
	limiter     *rate.Limiter
	log         zerolog.Logger
}

// Option configures a Batch.
type Option func(*Batch)

// WithConcurrency sets how many tickers are resolved at the same time.
func WithConcurrency(n int) Option {
	return func(b *Batch) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithTimeout bounds the time spent on a single ticker, fallbacks included.
func WithTimeout(d time.Duration) Option {
	return func(b *Batch) { b.timeout = d }
}

// WithRate limits how many tickers are started per second, after an initial
// burst. A rate of zero or less removes the limit.
func WithRate(perSecond float64, burst int) Option {
	return func(b *Batch) {
		if perSecond <= 0 {
			b.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		b.limiter = rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
	}
}

// NewBatch returns a Batch resolving tickers with source.
func NewBatch(source Source, log zerolog.Logger, opts ...Option) *Batch {
	b := &Batch{
		source:      source,
		concurrency: 10,
		timeout:     10 * time.Second,
		limiter:     rate.NewLimiter(DefaultRate, DefaultRate),
		log:         log.With().Str("component", "quotes").Logger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Resolve implements stockcard.QuoteResolver. Failures are logged and the
// ticker left out; the result is never nil.
func (b *Batch) Resolve(ctx context.Context, tickers []string) stockcard.PriceMap {
	result := make(stockcard.PriceMap)
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(b.concurrency)
	seen := make(map[string]bool)
	for _, ticker := range tickers {
		if ticker == "" || seen[ticker] {
			continue
		}
		seen[ticker] = true
		g.Go(func() error {
			if err := b.limiter.Wait(ctx); err != nil {
				b.log.Warn().Err(err).Str("ticker", ticker).Msg("quote skipped")
				return nil
			}
			tctx, cancel := context.WithTimeout(ctx, b.timeout)
			defer cancel()
			q, err := b.source.Quote(tctx, ticker)
			if err != nil {
				b.log.Warn().Err(err).Str("ticker", ticker).Msg("quote not resolved")
				return nil
			}
			mu.Lock()
			result[ticker] = q
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	b.log.Debug().Int("requested", len(seen)).Int("resolved", len(result)).Msg("quotes resolved")
	return result
}
