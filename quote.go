package stockcard

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack/v5"
)

// Quote is the latest known price of a ticker and its same-day price delta.
type Quote struct {
	Price  decimal.Decimal `json:"price"`
	Change decimal.Decimal `json:"change"` // signed, absolute, per share
}

// NewQuote is a convenient factory for tests and literals.
func NewQuote[T float64 | int | decimal.Decimal](price, change T) Quote {
	return Quote{Price: newDecimal(price), Change: newDecimal(change)}
}

// MarshalJSON writes price and change as bare numbers, {"price":120,"change":2}.
func (q Quote) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Number("price", q.Price)
	w.Number("change", q.Change)
	return w.MarshalJSON()
}

// EncodeMsgpack stores decimals as strings to keep every digit.
func (q Quote) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeMulti(q.Price.String(), q.Change.String())
}

func (q *Quote) DecodeMsgpack(dec *msgpack.Decoder) error {
	var price, change string
	if err := dec.DecodeMulti(&price, &change); err != nil {
		return err
	}
	var err error
	if q.Price, err = decimal.NewFromString(price); err != nil {
		return fmt.Errorf("invalid price %q: %w", price, err)
	}
	if q.Change, err = decimal.NewFromString(change); err != nil {
		return fmt.Errorf("invalid change %q: %w", change, err)
	}
	return nil
}

// PriceMap maps a ticker to its quote. A ticker absent from the map reads as
// a zero price with no change.
type PriceMap map[string]Quote

// Get returns the quote for ticker, or the zero Quote.
func (p PriceMap) Get(ticker string) (Quote, bool) {
	q, ok := p[ticker]
	return q, ok
}

// Tickers returns the map's tickers in lexicographic order.
func (p PriceMap) Tickers() []string { return slices.Sorted(maps.Keys(p)) }

// Clone returns a copy of p. Quotes are values, so the copy is independent.
func (p PriceMap) Clone() PriceMap {
	if p == nil {
		return PriceMap{}
	}
	return maps.Clone(p)
}

// Validate rejects an empty ticker or a negative price.
func (p PriceMap) Validate() error {
	for _, ticker := range p.Tickers() {
		if strings.TrimSpace(ticker) == "" {
			return errors.New("empty ticker")
		}
		if price := p[ticker].Price; price.IsNegative() {
			return fmt.Errorf("%s: negative price %s", ticker, price)
		}
	}
	return nil
}

// QuoteResolver resolves tickers into quotes. Tickers it cannot resolve are
// left out of the result; it never fails a whole batch.
type QuoteResolver interface {
	Resolve(ctx context.Context, tickers []string) PriceMap
}
