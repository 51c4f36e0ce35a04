// internal/httpserver/server.go
//
// HTTP server wiring for the Hardle backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/metrics", "/debug/words".
//   - Game endpoints (optional auth): mounted under /game (routes_game.go).
//   - Auth + stats endpoints: /auth/*, /stats/me (auth.go).
//
// Notes:
//   - Each game session gets its own engine, validator and a clone of the base
//     dictionary, so remote-confirmed words and the validation cache are
//     scoped to that session.
//   - Players are the authenticated user or, for guests, an anonymous cookie ID.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/stevethucpham/worldle/internal/config"
	"github.com/stevethucpham/worldle/internal/metrics"
	"github.com/stevethucpham/worldle/internal/stats"
	"github.com/stevethucpham/worldle/internal/store"
	"github.com/stevethucpham/worldle/internal/validator"
	"github.com/stevethucpham/worldle/internal/words"
)

// Deps are the collaborators a Server needs.
type Deps struct {
	Store    store.Store
	DB       *sql.DB
	Dict     *words.List      // base dictionary, cloned per session
	Lookup   validator.Lookup // remote word lookup; nil disables it
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer // served on /metrics; nil → default registry
	Now      func() time.Time    // daily word clock; nil → time.Now
}

// Server bundles router, session store, and DB handle.
type Server struct {
	r        *chi.Mux
	cfg      config.Config
	store    store.Store
	db       *sql.DB
	stats    *stats.Store
	dict     *words.List
	lookup   validator.Lookup
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	now      func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, d Deps) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      cfg,
		store:    d.Store,
		db:       d.DB,
		stats:    stats.NewStore(d.DB),
		dict:     d.Dict,
		lookup:   d.Lookup,
		metrics:  d.Metrics,
		gatherer: d.Gatherer,
		now:      d.Now,
	}
	if s.gatherer == nil {
		s.gatherer = prometheus.DefaultGatherer
	}
	if s.now == nil {
		s.now = time.Now
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                   // add X-Request-ID
	s.r.Use(chimw.RealIP)                      // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog)                         // zerolog request line
	s.r.Use(chimw.Recoverer)                   // recover from panics
	s.r.Use(chimw.Timeout(cfg.RequestTimeout)) // bound handler time
	s.r.Use(jsonContentType)                   // default JSON responses
	s.r.Use(s.cors)                            // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"hardle","endpoints":["/health","POST /game/new","/game/{id}","/auth/*","/stats/me"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]int{"dictionary": s.dict.Len(), "sessions": s.store.Len()})
	})
	s.r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	// Game endpoints — OPTIONAL AUTH (guests can play)
	s.r.With(s.withOptionalAuth()).Route("/game", s.mountGame)

	// Auth + stats
	s.mountAuthRoutes()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Handler exposes the router (used by main and tests).
func (s *Server) Handler() http.Handler { return s.r }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// accessLog writes one zerolog line per request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("reqId", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
