package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/etnz/stockcard"
	"github.com/etnz/stockcard/date"
	"github.com/etnz/stockcard/kv"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const card = `
entity: sensor.stock_prices
title: Stocks
portfolios:
  - name: Brokerage
    stocks:
      - {ticker: X, shares: 10, basis: 1000}
      - {ticker: CASH, shares: 500}
`

// fixedResolver resolves from a fixed map.
type fixedResolver stockcard.PriceMap

func (f fixedResolver) Resolve(ctx context.Context, tickers []string) stockcard.PriceMap {
	out := stockcard.PriceMap{}
	for _, t := range tickers {
		if q, ok := f[t]; ok {
			out[t] = q
		}
	}
	return out
}

var now = time.Date(2025, 7, 10, 15, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, resolver stockcard.QuoteResolver) (*Server, *stockcard.SnapshotStore) {
	t.Helper()
	c, err := stockcard.ParseConfig(strings.NewReader(card))
	require.NoError(t, err)
	store := stockcard.NewSnapshotStore(kv.NewMemory(), zerolog.Nop())
	s := New(Config{
		Log:      zerolog.Nop(),
		Card:     c,
		Store:    store,
		Resolver: resolver,
		Now:      func() time.Time { return now },
	})
	return s, store
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestSnapshotThenPortfolios(t *testing.T) {
	s, store := newTestServer(t, nil)

	rec := do(t, s, http.MethodPost, "/api/snapshot", `{"data":{"X":{"price":120,"change":2}}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"day":"2025-07-10","tickers":1,"days":1}`, rec.Body.String())

	h := store.Load(context.Background())
	_, ok := h.Get(date.New(2025, 7, 10))
	assert.True(t, ok, "snapshot persisted")

	rec = do(t, s, http.MethodGet, "/api/portfolios", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Day        string `json:"day"`
		Label      string `json:"label"`
		CardSize   int    `json:"cardSize"`
		TotalValue struct {
			Amount float64 `json:"amount"`
		} `json:"totalValue"`
		TotalGainPct float64 `json:"totalGainPct"`
		Portfolios   []struct {
			Name     string `json:"name"`
			Holdings []struct {
				Ticker      string `json:"ticker"`
				DailyChange struct {
					Amount float64 `json:"amount"`
				} `json:"dailyChange"`
			} `json:"holdings"`
		} `json:"portfolios"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "today", resp.Day)
	assert.Equal(t, "Today", resp.Label)
	assert.Equal(t, 5, resp.CardSize)
	assert.Equal(t, 1700.0, resp.TotalValue.Amount)
	assert.InDelta(t, 13.33, resp.TotalGainPct, 0.01)
	require.Len(t, resp.Portfolios, 1)
	assert.Equal(t, 20.0, resp.Portfolios[0].Holdings[0].DailyChange.Amount)
}

func TestSnapshot_BareMap(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := do(t, s, http.MethodPost, "/api/snapshot", `{"X":{"price":"101.5","change":"-0.5"}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	q, ok := s.Live().Get("X")
	require.True(t, ok)
	assert.Equal(t, "101.5", q.Price.String())
}

func TestSnapshot_Invalid(t *testing.T) {
	s, store := newTestServer(t, nil)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/api/snapshot", `not json`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/api/snapshot", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/api/snapshot", `{"X":{"price":"abc"}}`).Code)
	assert.Equal(t, 0, store.Load(context.Background()).Len())
}

func TestSnapshot_RejectsInvalidPrices(t *testing.T) {
	s, store := newTestServer(t, nil)
	for _, body := range []string{
		`{"X":{"price":-1,"change":0}}`,
		`{"data":{"X":{"price":"-0.01","change":0}}}`,
		`{"data":{"":{"price":1,"change":0}}}`,
		`{"data":{" ":{"price":1,"change":0}}}`,
		`{"":{"price":1,"change":0}}`,
	} {
		rec := do(t, s, http.MethodPost, "/api/snapshot", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	assert.Equal(t, 0, store.Load(context.Background()).Len())
	assert.Empty(t, s.Live())

	// a zero price is a valid quote.
	rec := do(t, s, http.MethodPost, "/api/snapshot", `{"data":{"X":{"price":0,"change":0}}}`)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestNew_RestoresTodaysSnapshot(t *testing.T) {
	ctx := context.Background()
	c, err := stockcard.ParseConfig(strings.NewReader(card))
	require.NoError(t, err)
	store := stockcard.NewSnapshotStore(kv.NewMemory(), zerolog.Nop())
	_, err = store.Record(ctx, date.New(2025, 7, 10), stockcard.PriceMap{"X": stockcard.NewQuote(120.0, 2.0)}, now.Add(-time.Hour))
	require.NoError(t, err)

	s := New(Config{Log: zerolog.Nop(), Card: c, Store: store, Now: func() time.Time { return now }})
	q, ok := s.Live().Get("X")
	require.True(t, ok, "today's snapshot is the starting live prices")
	assert.Equal(t, "120", q.Price.String())

	rec := do(t, s, http.MethodGet, "/api/portfolios?day=today", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		TotalValue struct {
			Amount float64 `json:"amount"`
		} `json:"totalValue"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1700.0, resp.TotalValue.Amount)

	// an older snapshot is not today's live prices.
	later := func() time.Time { return now.Add(24 * time.Hour) }
	s = New(Config{Log: zerolog.Nop(), Card: c, Store: store, Now: later})
	assert.Empty(t, s.Live())
}

func TestPortfolios_PastDay(t *testing.T) {
	s, store := newTestServer(t, nil)
	ctx := context.Background()
	yesterday := date.New(2025, 7, 9)
	_, err := store.Record(ctx, yesterday, stockcard.PriceMap{"X": stockcard.NewQuote(90.0, -1.0)}, now.Add(-24*time.Hour))
	require.NoError(t, err)

	rec := do(t, s, http.MethodGet, "/api/portfolios?day=2025-07-09", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Label      string `json:"label"`
		TotalValue struct {
			Amount float64 `json:"amount"`
		} `json:"totalValue"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Yesterday", resp.Label)
	assert.Equal(t, 1400.0, resp.TotalValue.Amount)

	// an unknown day values every priced holding at zero.
	rec = do(t, s, http.MethodGet, "/api/portfolios?day=2025-01-01", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 500.0, resp.TotalValue.Amount)
}

func TestDays(t *testing.T) {
	s, store := newTestServer(t, nil)
	ctx := context.Background()
	for _, d := range []date.Date{date.New(2025, 7, 7), date.New(2025, 7, 9), date.New(2025, 7, 10)} {
		_, err := store.Record(ctx, d, stockcard.PriceMap{"X": stockcard.NewQuote(100.0, 0.0)}, now)
		require.NoError(t, err)
	}

	rec := do(t, s, http.MethodGet, "/api/days?day=2025-07-07", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[
		{"key":"today","label":"Today"},
		{"key":"2025-07-09","label":"Yesterday"},
		{"key":"2025-07-07","label":"3d ago","selected":true}
	]`, rec.Body.String())
}

func TestHistory(t *testing.T) {
	s, store := newTestServer(t, nil)
	_, err := store.Record(context.Background(), date.New(2025, 7, 9), stockcard.PriceMap{"X": stockcard.NewQuote(90.0, -1.0)}, time.UnixMilli(1752062400000))
	require.NoError(t, err)

	rec := do(t, s, http.MethodGet, "/api/history/2025-07-09", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"date":"2025-07-09","data":{"X":{"price":90,"change":-1}},"ts":1752062400000}`, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/api/history/2025-07-08", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/api/history/yesterday", "").Code)
}

func TestRefresh(t *testing.T) {
	s, _ := newTestServer(t, nil)
	assert.Equal(t, http.StatusNotImplemented, do(t, s, http.MethodPost, "/api/refresh", "").Code)

	s, store := newTestServer(t, fixedResolver{"X": stockcard.NewQuote(110.0, 1.0)})
	rec := do(t, s, http.MethodPost, "/api/refresh", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"day":"2025-07-10","tickers":1,"days":1}`, rec.Body.String())
	assert.Equal(t, 1, store.Load(context.Background()).Len())
	assert.Len(t, s.Live(), 1)
}

func TestReport(t *testing.T) {
	s, _ := newTestServer(t, fixedResolver{})
	do(t, s, http.MethodPost, "/api/snapshot", `{"X":{"price":120,"change":2}}`)

	rec := do(t, s, http.MethodGet, "/api/report", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "<h1>Stocks (Today)</h1>")
	assert.Contains(t, rec.Body.String(), "$1,200.00")

	rec = do(t, s, http.MethodGet, "/api/report?format=markdown&view=bars", "")
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/markdown")
	assert.Contains(t, rec.Body.String(), "## Brokerage")
	assert.Contains(t, rec.Body.String(), "█")
}

func TestCORS(t *testing.T) {
	s, _ := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/portfolios", nil)
	req.Header.Set("Origin", "http://dashboard.local")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
