package stockcard

import (
	"context"
	"time"
)

// Refresh resolves the live prices of every ticker in c and records them as
// the snapshot of DayOf(now). It returns the live prices and the history as
// persisted.
//
// When nothing could be resolved, no snapshot is written.
func Refresh(ctx context.Context, c *Config, resolver QuoteResolver, store *SnapshotStore, now time.Time) (PriceMap, *History, error) {
	live := resolver.Resolve(ctx, c.Tickers())
	h, err := store.Record(ctx, DayOf(now), live, now)
	if err != nil {
		return live, nil, err
	}
	return live, h, nil
}
