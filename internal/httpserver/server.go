// internal/httpserver/server.go
//
// HTTP server wiring for the Color Cascade backend. It is a thin
// presentation transport: every request drives the round engine of exactly
// one player session and renders the resulting snapshot as JSON.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     zerolog access logs).
//   - Public endpoints: "/", "/health", "/palette", "/leaderboard".
//   - Session endpoints: POST /session, DELETE /session, GET /session/history.
//   - Round endpoints (session token required): /round/*.
//
// Notes:
//   - Session tokens are HS256 JWTs carrying the session id; see session.go.
//   - Finished rounds are appended to the results log best effort; a failed
//     insert is logged and never fails the request.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/colorcascade/internal/game"
	"github.com/robalobadob/colorcascade/internal/results"
	"github.com/robalobadob/colorcascade/internal/store"
)

// ResultLog is the slice of the results store the server uses.
type ResultLog interface {
	Insert(ctx context.Context, r results.Result) error
	Leaderboard(ctx context.Context, difficulty string, limit int) ([]results.Result, error)
	SessionHistory(ctx context.Context, sessionID string, limit int) ([]results.Result, error)
}

// Options carries the server's dependencies and settings.
type Options struct {
	Store         store.Store
	Results       ResultLog
	Palette       []game.Color
	SessionSecret string
	SessionTTL    time.Duration
	RevealDelay   time.Duration
	ClientOrigin  string
	SecureCookies bool

	// EngineOptions are applied after the defaults derived from the fields
	// above, so they win.
	EngineOptions []game.Option

	// Now defaults to time.Now.
	Now func() time.Time
}

// Server bundles router, session store, and results log.
type Server struct {
	r    *chi.Mux
	opts Options
	http *http.Server
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) *Server {
	if opts.Palette == nil {
		opts.Palette = game.DefaultPalette
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 12 * time.Hour
	}
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "http://localhost:5173"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Server{r: chi.NewRouter(), opts: opts}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(hlog.NewHandler(log.Logger))
	s.r.Use(accessLog)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(cors(opts.ClientOrigin))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"colorcascade","endpoints":["/health","POST /session","/round/*","/leaderboard"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "sessions": s.opts.Store.Len()})
	})

	s.r.Get("/palette", s.handlePalette)
	s.r.Get("/leaderboard", s.handleLeaderboard)

	s.r.Post("/session", s.handleNewSession)
	s.r.With(s.requireSession()).Delete("/session", s.handleEndSession)
	s.r.With(s.requireSession()).Get("/session/history", s.handleHistory)

	s.r.Route("/round", func(r chi.Router) {
		r.Use(s.requireSession())
		r.Get("/", s.handleState)
		r.Post("/start", s.handleStart)
		r.Post("/select", s.handleSelect)
		r.Post("/again", s.handleAgain)
		r.Post("/menu", s.handleMenu)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, "not_found", http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr. It returns http.ErrServerClosed after Shutdown.
func (s *Server) Start(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s.http.ListenAndServe()
}

// Shutdown gracefully stops a server started with Start.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// newEngine builds an engine for a fresh session.
func (s *Server) newEngine() *game.Engine {
	opts := []game.Option{
		game.WithPalette(s.opts.Palette),
		game.WithRevealDelay(s.opts.RevealDelay),
	}
	return game.New(append(opts, s.opts.EngineOptions...)...)
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
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
}

// accessLog writes one line per request through the request-scoped logger.
var accessLog = hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("reqId", chimw.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("took", d).
		Msg("request")
})

// ------------------------------- helpers -----------------------------------

// writeError responds with {"error": code}.
func writeError(w http.ResponseWriter, code string, status int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}

// queryLimit parses ?limit=, clamped to [1, max]; def when absent or invalid.
func queryLimit(r *http.Request, def, max int) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
