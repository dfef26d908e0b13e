// Package quote resolves live stock quotes from public web endpoints.
//
// The primary source is the NYSE JSON quote API. The Schwab research page is
// scraped as a fallback, and eodhd.com can be queried last. All are
// best-effort: a ticker that no source can resolve is simply missing from the
// result.
package quote

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/etnz/stockcard"
	"github.com/shopspring/decimal"
)

// ErrNoQuote reports a response that carried no usable price.
var ErrNoQuote = errors.New("no quote")

// Source returns the quote of a single ticker.
type Source interface {
	Quote(ctx context.Context, ticker string) (stockcard.Quote, error)
}

// Fallback tries each source in turn and returns the first quote found.
type Fallback []Source

func (f Fallback) Quote(ctx context.Context, ticker string) (stockcard.Quote, error) {
	errs := []error{ErrNoQuote}
	for _, s := range f {
		q, err := s.Quote(ctx, ticker)
		if err == nil {
			return q, nil
		}
		errs = append(errs, err)
	}
	return stockcard.Quote{}, errors.Join(errs...)
}

// isPrice is the shape a price must have: unsigned, digits and dots.
var isPrice = regexp.MustCompile(`^[0-9.]+$`)

// parseQuote builds a Quote from the raw price and change text. The price is
// mandatory, an unreadable change counts as no change.
func parseQuote(price, change string) (stockcard.Quote, error) {
	if !isPrice.MatchString(price) {
		return stockcard.Quote{}, ErrNoQuote
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return stockcard.Quote{}, ErrNoQuote
	}
	c, err := decimal.NewFromString(strings.TrimPrefix(change, "+"))
	if err != nil {
		c = decimal.Zero
	}
	return stockcard.Quote{Price: p, Change: c}, nil
}
