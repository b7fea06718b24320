// Package api exposes the seed resolution engine over HTTP: session
// lifecycle, fact assertion, option enumeration, spawn analysis, token
// replay, and the catalog/resolution read surface.
package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Artimuz/nightreign-seed-finder-go/internal/catalog"
	"github.com/Artimuz/nightreign-seed-finder-go/internal/record"
	"github.com/Artimuz/nightreign-seed-finder-go/internal/resolve"
	"github.com/Artimuz/nightreign-seed-finder-go/internal/store"
)

// Server handles HTTP requests
type Server struct {
	cat       *catalog.Catalog
	db        store.DB
	recorder  *record.Recorder
	sessions  *sessionRegistry
	logger    *log.Logger
	startTime time.Time
	timeout   time.Duration
}

// NewServer creates a new API server. db and recorder may be nil: the
// resolution surface still works, only the durable log endpoints degrade.
func NewServer(cat *catalog.Catalog, db store.DB, recorder *record.Recorder) *Server {
	logger := log.New(os.Stdout, "[API] ", log.LstdFlags|log.Lshortfile)

	return &Server{
		cat:       cat,
		db:        db,
		recorder:  recorder,
		sessions:  newSessionRegistry(),
		logger:    logger,
		startTime: time.Now(),
		timeout:   60 * time.Second,
	}
}

// SetRequestTimeout overrides the per-request timeout.
func (s *Server) SetRequestTimeout(d time.Duration) {
	if d > 0 {
		s.timeout = d
	}
}

// Routes sets up the HTTP routes with proper middleware
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.recoveryMiddleware)
	r.Use(middleware.Timeout(s.timeout))
	r.Use(s.corsMiddleware)

	// Health and monitoring endpoints
	r.Get("/health", s.handleHealthCheck)
	r.Get("/health/ready", s.handleReadiness)
	r.Get("/health/live", s.handleLiveness)
	r.Get("/version", s.handleVersion)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Post("/facts", s.handleAssertFact)
			r.Post("/retract", s.handleRetract)
			r.Post("/undo", s.handleUndo)
			r.Post("/restart", s.handleRestart)
			r.Get("/options", s.handleOptions)
			r.Get("/spawns", s.handleSpawns)
			r.Get("/token", s.handleToken)
		})

		r.Post("/replay", s.handleReplay)

		r.Get("/maptypes", s.handleMapTypes)
		r.Get("/catalog/entries/{id}", s.handleGetEntry)
		r.Get("/resolutions", s.handleListResolutions)
		r.Get("/resolutions/top", s.handleTopEntries)
	})

	return r
}

// ReapSessions periodically drops sessions idle for longer than maxIdle.
// It blocks until ctx is cancelled; run it in its own goroutine.
func (s *Server) ReapSessions(ctx context.Context, maxIdle, every time.Duration) {
	if maxIdle <= 0 || every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.pruneIdle(maxIdle); n > 0 {
				s.logger.Printf("reaped %d idle session(s)", n)
			}
		}
	}
}

// newSession creates a registered session wired into the recorder.
func (s *Server) newSession() *sessionHandle {
	return s.sessions.create(s.cat, func(id string, sess *resolve.Session) {
		sess.SetLogger(s.logger)
		if s.recorder != nil {
			sess.OnConverged(func(conv resolve.Convergence) {
				s.recorder.Record(id, conv)
			})
		}
	})
}

// writeJSON writes a JSON response with proper headers
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Engine-Version", EngineVersion)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// writeError writes a structured error response
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, errType, message string, context map[string]interface{}) {
	errorResponse := EngineError{
		Type:      errType,
		Message:   message,
		Context:   context,
		RequestID: middleware.GetReqID(r.Context()),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	s.writeJSON(w, status, errorResponse)
}
