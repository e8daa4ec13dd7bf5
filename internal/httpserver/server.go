// internal/httpserver/server.go
//
// HTTP server wiring for the Galactic Brain game.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/state", "/destinations", "/ws".
//   - Pilot launch (MENU) issues a pilot token; map/mission endpoints require it.
//   - Map engine errors onto JSON error bodies.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so the pilot cookie works).
//   - The websocket route sits outside the handler timeout.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/galactic-brain/internal/content"
	"github.com/robalobadob/galactic-brain/internal/galaxy"
	"github.com/robalobadob/galactic-brain/internal/game"
	"github.com/robalobadob/galactic-brain/internal/mission"
	"github.com/robalobadob/galactic-brain/internal/player"
	"github.com/robalobadob/galactic-brain/internal/travel"
)

const defaultOrigin = "http://localhost:5173"

// Options configures the HTTP layer.
type Options struct {
	ClientOrigin   string
	JWTSecret      string
	JWTExpiresDays int
	SecureCookies  bool
	Timeout        time.Duration
}

// Server bundles the router, the engine and the notification hub.
type Server struct {
	r    *chi.Mux
	eng  *game.Engine
	hub  *Hub
	opts Options
	http *http.Server
}

// New constructs a Server, installs middleware, and registers routes.
func New(eng *game.Engine, hub *Hub, opts Options) *Server {
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = defaultOrigin
	}
	if opts.JWTSecret == "" {
		opts.JWTSecret = "dev_secret_change_me"
	}
	if opts.JWTExpiresDays <= 0 {
		opts.JWTExpiresDays = 14
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if hub == nil {
		hub = NewHub(opts.ClientOrigin)
	}
	s := &Server{r: chi.NewRouter(), eng: eng, hub: hub, opts: opts}
	s.http = &http.Server{Handler: s.r, ReadHeaderTimeout: 10 * time.Second}

	// --- middleware ---
	s.r.Use(chimw.RequestID)         // add X-Request-ID
	s.r.Use(chimw.RealIP)            // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)         // recover from panics
	s.r.Use(cors(opts.ClientOrigin)) // credentials-friendly CORS

	// Push channel: long-lived, so no handler timeout.
	s.r.Get("/ws", s.handleWS)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(opts.Timeout)) // bound handler time
		r.Use(jsonContentType)             // default JSON responses

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"galactic-brain","endpoints":["/health","/state","/destinations","POST /pilot","/ws"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})

		s.mountGame(r)

		// JSON 404 for easier debugging
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
		})
	})

	return s
}

// Start begins serving HTTP on addr and blocks until Shutdown.
func (s *Server) Start(addr string) error {
	s.http.Addr = addr
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and closes websocket clients.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.http.Shutdown(ctx)
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

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
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------ responses ----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

type errorRes struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// writeErr maps engine errors to status codes and stable error codes.
func writeErr(w http.ResponseWriter, err error) {
	status, code := http.StatusBadRequest, "bad_request"
	switch {
	case errors.Is(err, game.ErrIllegalTransition):
		status, code = http.StatusConflict, "illegal_transition"
	case errors.Is(err, game.ErrClosed):
		status, code = http.StatusServiceUnavailable, "shutting_down"
	case errors.Is(err, player.ErrEmptyName), errors.Is(err, player.ErrNameTooLong):
		code = "invalid_name"
	case errors.Is(err, galaxy.ErrUnknownDestination):
		code = "unknown_destination"
	case errors.Is(err, mission.ErrInvalidOption):
		code = "invalid_option"
	case errors.Is(err, mission.ErrAlreadyAnswered):
		status, code = http.StatusConflict, "already_answered"
	case errors.Is(err, mission.ErrNotAnswered):
		status, code = http.StatusConflict, "not_answered"
	case errors.Is(err, mission.ErrFinished):
		status, code = http.StatusConflict, "mission_finished"
	case errors.Is(err, travel.ErrNoFuel):
		status, code = http.StatusConflict, "no_fuel"
	case errors.Is(err, content.ErrProvider):
		status, code = http.StatusBadGateway, "provider_failed"
	}
	writeJSON(w, status, errorRes{Error: code, Message: err.Error()})
}
