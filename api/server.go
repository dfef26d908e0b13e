// Package api serves the valued card over HTTP for the dashboard host.
package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/etnz/stockcard"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

var errNoResolver = errors.New("no quote resolver configured")

// Config holds the server dependencies.
type Config struct {
	Addr     string
	Log      zerolog.Logger
	Card     *stockcard.Config
	Store    *stockcard.SnapshotStore
	Resolver stockcard.QuoteResolver // optional, live prices are then only posted
	Now      func() time.Time        // defaults to time.Now
}

// Server is the HTTP API server.
type Server struct {
	router   *chi.Mux
	server   *http.Server
	log      zerolog.Logger
	card     *stockcard.Config
	store    *stockcard.SnapshotStore
	resolver stockcard.QuoteResolver
	now      func() time.Time

	mu   sync.RWMutex
	live stockcard.PriceMap
}

// New creates a new server.
func New(cfg Config) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		log:      cfg.Log.With().Str("component", "server").Logger(),
		card:     cfg.Card,
		store:    cfg.Store,
		resolver: cfg.Resolver,
		now:      cfg.Now,
		live:     stockcard.PriceMap{},
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.restoreLive(context.Background())

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/portfolios", s.handlePortfolios)
		r.Get("/report", s.handleReport)
		r.Get("/days", s.handleDays)
		r.Get("/history/{date}", s.handleHistory)
		r.Post("/snapshot", s.handleSnapshot)
		r.Post("/refresh", s.handleRefresh)
	})
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Start listens and serves until Shutdown.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Live returns the current live prices.
func (s *Server) Live() stockcard.PriceMap {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.live
}

// Refresh resolves the live prices of the card, and records them as the
// snapshot of the day.
func (s *Server) Refresh(ctx context.Context) (stockcard.PriceMap, *stockcard.History, error) {
	if s.resolver == nil {
		return nil, nil, errNoResolver
	}
	prices, h, err := stockcard.Refresh(ctx, s.card, s.resolver, s.store, s.now())
	if len(prices) > 0 {
		s.setLive(prices)
	}
	return prices, h, err
}

// restoreLive starts from today's recorded snapshot, if any, until fresher
// prices are posted or resolved.
func (s *Server) restoreLive(ctx context.Context) {
	day := stockcard.DayOf(s.now())
	snap, ok := s.store.Load(ctx).Get(day)
	if !ok {
		return
	}
	s.setLive(snap.Prices)
	s.log.Info().Stringer("day", day).Int("tickers", len(snap.Prices)).Msg("Live prices restored from snapshot")
}

func (s *Server) setLive(prices stockcard.PriceMap) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live = prices.Clone()
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
