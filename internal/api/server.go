// Package api provides the HTTP API for playing on and archiving hex maps.
// GET endpoints observe the game; POST and DELETE endpoints change it and
// require a bearer token when an admin key is configured.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/talgya/hexworld/internal/engine"
	"github.com/talgya/hexworld/internal/mapgen"
	"github.com/talgya/hexworld/internal/persistence"
	"github.com/talgya/hexworld/internal/world"
)

// Largest map POST /api/v1/maps will generate, per side.
const maxMapSide = 400

// Server serves the game over HTTP. Every handler holds the game lock while
// it touches the grid, since the grid is not safe for concurrent use.
type Server struct {
	Game      *engine.Game
	Store     *persistence.Store // Nil disables the archive endpoints.
	Generator *mapgen.Generator
	Addr      string
	AdminKey  string // Bearer token for mutating endpoints. Empty leaves them open.

	GenerateLimit int // Map generations per client per hour, zero for unlimited.

	// Describe the map in play; guarded by the game lock.
	ActiveMap string
	Seed      int64

	started time.Time
}

// Router builds the chi routing tree.
func (s *Server) Router() http.Handler {
	if s.started.IsZero() {
		s.started = time.Now()
	}
	generateLimiter := NewRateLimiter(s.GenerateLimit, time.Hour)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(corsMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/map", s.handleMap)
		r.Get("/cells/{x}/{z}", s.handleCell)
		r.Get("/maps", s.handleListMaps)
		r.Get("/path", s.handlePath)
		r.Get("/visible", s.handleVisible)
		r.Get("/units", s.handleUnits)

		r.Group(func(r chi.Router) {
			r.Use(s.adminOnly)
			r.With(generateLimiter.Middleware).Post("/maps", s.handleGenerate)
			r.Post("/maps/{id}/load", s.handleLoad)
			r.Delete("/maps/{id}", s.handleDeleteMap)
			r.Post("/units", s.handleSpawn)
			r.Post("/units/{id}/orders", s.handleOrder)
			r.Post("/turn", s.handleTurn)
		})
	})
	return r
}

// Start begins serving the HTTP API in a goroutine. Shut the returned
// server down to stop it.
func (s *Server) Start() *http.Server {
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("HTTP API starting", "addr", s.Addr, "admin_auth", s.AdminKey != "", "archive", s.Store != nil)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()
	return srv
}

// requestLogger logs each request at debug level.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set HEXWORLD_CORS_ORIGINS to a comma-separated list of allowed origins.
// Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("HEXWORLD_CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly requires the bearer token when an admin key is configured.
func (s *Server) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.AdminKey != "" && !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// cellAt resolves offset coordinates from URL params or query values.
func (s *Server) cellAt(xs, zs string) (*world.Cell, error) {
	x, err := strconv.Atoi(xs)
	if err != nil {
		return nil, fmt.Errorf("invalid x coordinate %q", xs)
	}
	z, err := strconv.Atoi(zs)
	if err != nil {
		return nil, fmt.Errorf("invalid z coordinate %q", zs)
	}
	return s.Game.Grid.CellAt(x, z), nil
}

// cellParam parses an "x,z" query value.
func (s *Server) cellParam(r *http.Request, name string) (*world.Cell, error) {
	v := r.URL.Query().Get(name)
	xs, zs, ok := strings.Cut(v, ",")
	if !ok {
		return nil, fmt.Errorf("%s must be x,z", name)
	}
	return s.cellAt(strings.TrimSpace(xs), strings.TrimSpace(zs))
}

// decodeBody reads a JSON request body. An empty body leaves v untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
