package stockcard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/etnz/stockcard/date"
	"github.com/etnz/stockcard/kv"
	"github.com/rs/zerolog"
)

// HistoryKey is the fixed key the history blob is stored under.
const HistoryKey = "stock-portfolio-card-history"

// SnapshotStore persists the History as a single blob in a kv.Store.
//
// The blob is always read, modified and written back as a whole, relying on
// the store's atomic replace: the persisted history is either the previous
// one or the fully updated one.
type SnapshotStore struct {
	kv    kv.Store
	key   string
	codec Codec
	log   zerolog.Logger
}

// NewSnapshotStore returns a store using JSONCodec under HistoryKey.
func NewSnapshotStore(store kv.Store, log zerolog.Logger) *SnapshotStore {
	return &SnapshotStore{
		kv:    store,
		key:   HistoryKey,
		codec: JSONCodec{},
		log:   log.With().Str("component", "snapshots").Logger(),
	}
}

// WithCodec returns a copy of s using codec.
func (s *SnapshotStore) WithCodec(codec Codec) *SnapshotStore {
	c := *s
	c.codec = codec
	return &c
}

// Load returns the persisted history.
//
// A missing, unreadable or corrupt blob is an empty history: Load never fails.
func (s *SnapshotStore) Load(ctx context.Context) *History {
	h, err := s.read(ctx)
	if err != nil {
		s.log.Warn().Err(err).Str("key", s.key).Msg("cannot read history, starting empty")
		return new(History)
	}
	return h
}

// read returns the persisted history. A missing or corrupt blob is an empty
// history, any other read failure is returned.
func (s *SnapshotStore) read(ctx context.Context) (*History, error) {
	data, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, kv.ErrNotFound) {
		return new(History), nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read history: %w", err)
	}
	h, err := DecodeHistory(s.codec, data)
	if err != nil {
		s.log.Warn().Err(err).Str("key", s.key).Msg("corrupt history, starting empty")
		return new(History), nil
	}
	return h, nil
}

// Record stores prices as today's snapshot and prunes the history to
// HistoryRetention days. It returns the history as persisted.
//
// Empty prices are not recorded and nothing is written. A history that
// cannot be read is an error, and nothing is written either.
func (s *SnapshotStore) Record(ctx context.Context, today date.Date, prices PriceMap, now time.Time) (*History, error) {
	h, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	if len(prices) == 0 {
		s.log.Debug().Stringer("day", today).Msg("no prices, snapshot not recorded")
		return h, nil
	}
	h = RecordSnapshot(h, today, prices, now)
	data, err := EncodeHistory(s.codec, h)
	if err != nil {
		return nil, err
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		return nil, fmt.Errorf("cannot persist history: %w", err)
	}
	s.log.Info().Stringer("day", today).Int("tickers", len(prices)).Int("days", h.Len()).Msg("snapshot recorded")
	return h, nil
}

// Days returns the past days available for selection, newest first.
func (s *SnapshotStore) Days(ctx context.Context, today date.Date) []date.Date {
	return AvailableDays(s.Load(ctx), today, MaxAvailableDays)
}
