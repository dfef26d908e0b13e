package stockcard

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/etnz/stockcard/date"
	"github.com/etnz/stockcard/kv"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapResolver resolves from a fixed PriceMap and remembers what it was asked.
type mapResolver struct {
	prices PriceMap
	asked  []string
}

func (r *mapResolver) Resolve(_ context.Context, tickers []string) PriceMap {
	r.asked = tickers
	out := PriceMap{}
	for _, t := range tickers {
		if q, ok := r.prices[t]; ok {
			out[t] = q
		}
	}
	return out
}

func TestRefresh(t *testing.T) {
	c, err := ParseConfig(strings.NewReader(card))
	require.NoError(t, err)
	store := NewSnapshotStore(kv.NewMemory(), zerolog.Nop())
	r := &mapResolver{prices: PriceMap{"AAPL": NewQuote(160.0, 1.0), "MSFT": NewQuote(400.0, -2.0)}}
	now := time.Date(2025, 7, 10, 16, 0, 0, 0, time.UTC)

	live, h, err := Refresh(context.Background(), c, r, store, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "VTI", "MSFT"}, r.asked, "cash is never resolved")
	assert.Equal(t, []string{"AAPL", "MSFT"}, live.Tickers())

	snap, ok := h.Get(date.New(2025, 7, 10))
	require.True(t, ok)
	assert.Equal(t, live.Tickers(), snap.Prices.Tickers())
}

func TestRefresh_NothingResolved(t *testing.T) {
	c, err := ParseConfig(strings.NewReader(card))
	require.NoError(t, err)
	m := kv.NewMemory()
	live, h, err := Refresh(context.Background(), c, &mapResolver{}, NewSnapshotStore(m, zerolog.Nop()), time.Now())
	require.NoError(t, err)
	assert.Empty(t, live)
	assert.Equal(t, 0, h.Len())
	assert.Empty(t, m.Keys())
}
