package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/etnz/stockcard"
	"github.com/etnz/stockcard/date"
	"github.com/etnz/stockcard/renderer"
	"github.com/go-chi/chi/v5"
)

// maxBody caps the size of a posted snapshot.
const maxBody = 1 << 20

type portfoliosResponse struct {
	Day      string `json:"day"`
	Label    string `json:"label"`
	CardSize int    `json:"cardSize"`
	stockcard.Overview
}

type snapshotResponse struct {
	Date date.Date          `json:"date"`
	Data stockcard.PriceMap `json:"data"`
	TS   int64              `json:"ts"`
}

type recordResponse struct {
	Day     date.Date `json:"day"`
	Tickers int       `json:"tickers"`
	Days    int       `json:"days"`
}

// handleHealth reports that the server is up.
// GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// overview values the card for the selected day.
func (s *Server) overview(r *http.Request) (day string, o stockcard.Overview) {
	day = r.URL.Query().Get("day")
	if day == "" {
		day = stockcard.Today
	}
	prices := stockcard.SelectPrices(day, s.Live(), s.store.Load(r.Context()))
	return day, s.card.Value(prices)
}

// handlePortfolios returns the valued portfolios for a day.
// GET /api/portfolios?day=today|YYYY-MM-DD
func (s *Server) handlePortfolios(w http.ResponseWriter, r *http.Request) {
	day, o := s.overview(r)
	s.writeJSON(w, portfoliosResponse{
		Day:      day,
		Label:    renderer.DayLabel(day, s.now()),
		CardSize: s.card.CardSize(),
		Overview: o,
	})
}

// handleReport returns the card as an HTML fragment, or as markdown.
// GET /api/report?day=&view=table|bars&format=html|markdown
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	day, o := s.overview(r)
	view := renderer.NewOverview(s.card.Title, renderer.DayLabel(day, s.now()), o)
	md := renderer.RenderOverview(view, renderer.RenderOptions{Bars: r.URL.Query().Get("view") == "bars"})

	if r.URL.Query().Get("format") == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		io.WriteString(w, md)
		return
	}
	html, err := renderer.HTML(md)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to render report")
		http.Error(w, "Failed to render report", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, html)
}

// handleDays returns the selectable days, today first.
// GET /api/days?day=
func (s *Server) handleDays(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	days := s.store.Days(r.Context(), stockcard.DayOf(now))
	s.writeJSON(w, renderer.NewDays(days, r.URL.Query().Get("day"), now))
}

// handleHistory returns one recorded snapshot.
// GET /api/history/{date}
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	day, err := date.Parse(chi.URLParam(r, "date"))
	if err != nil {
		http.Error(w, "Invalid date", http.StatusBadRequest)
		return
	}
	snap, ok := s.store.Load(r.Context()).Get(day)
	if !ok {
		http.Error(w, "No snapshot for this date", http.StatusNotFound)
		return
	}
	s.writeJSON(w, snapshotResponse{Date: snap.Date, Data: snap.Prices, TS: snap.CapturedAt.UnixMilli()})
}

// handleSnapshot sets the live prices and records them as today's snapshot.
// The body is a price map, bare or wrapped as {"data": {...}}.
// POST /api/snapshot
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	prices, err := decodePrices(io.LimitReader(r.Body, maxBody))
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid price map: %v", err), http.StatusBadRequest)
		return
	}
	if len(prices) == 0 {
		http.Error(w, "No prices", http.StatusBadRequest)
		return
	}

	now := s.now()
	s.setLive(prices)
	h, err := s.store.Record(r.Context(), stockcard.DayOf(now), prices, now)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to record snapshot")
		http.Error(w, "Failed to record snapshot", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, recordResponse{Day: stockcard.DayOf(now), Tickers: len(prices), Days: h.Len()})
}

// handleRefresh resolves the live prices and records them.
// POST /api/refresh
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	prices, h, err := s.Refresh(r.Context())
	if errors.Is(err, errNoResolver) {
		http.Error(w, "No quote resolver configured", http.StatusNotImplemented)
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to record snapshot")
		http.Error(w, "Failed to record snapshot", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, recordResponse{Day: stockcard.DayOf(s.now()), Tickers: len(prices), Days: h.Len()})
}

// decodePrices reads a PriceMap, optionally wrapped in a "data" object, and
// validates it.
func decodePrices(r io.Reader) (stockcard.PriceMap, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, err
	}
	if data, ok := raw["data"]; ok && len(raw) == 1 {
		var wrapped map[string]json.RawMessage
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, err
		}
		raw = wrapped
	}
	prices := make(stockcard.PriceMap, len(raw))
	for ticker, data := range raw {
		var q stockcard.Quote
		if err := json.Unmarshal(data, &q); err != nil {
			return nil, fmt.Errorf("%s: %w", ticker, err)
		}
		prices[ticker] = q
	}
	if err := prices.Validate(); err != nil {
		return nil, err
	}
	return prices, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
