package api

import (
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/Artimuz/nightreign-seed-finder-go/internal/store"
)

// Health status values
const (
	HealthStatusHealthy   = "healthy"
	HealthStatusDegraded  = "degraded"
	HealthStatusUnhealthy = "unhealthy"
)

// HealthCheck represents one component check
type HealthCheck struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthCheckResponse is the full health report
type HealthCheckResponse struct {
	Status        string                 `json:"status"`
	Timestamp     string                 `json:"timestamp"`
	EngineVersion string                 `json:"engine_version"`
	GitCommit     string                 `json:"git_commit"`
	BuildTime     string                 `json:"build_time"`
	Uptime        string                 `json:"uptime"`
	Checks        map[string]HealthCheck `json:"checks"`
	Goroutines    int                    `json:"goroutines"`
	Sessions      int                    `json:"sessions"`
	RequestID     string                 `json:"request_id,omitempty"`
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	checks := map[string]HealthCheck{}
	overall := HealthStatusHealthy

	checks["catalog"] = s.checkCatalogHealth()
	if checks["catalog"].Status != HealthStatusHealthy {
		overall = HealthStatusUnhealthy
	}

	checks["database"] = s.checkDatabaseHealth()
	if checks["database"].Status == HealthStatusDegraded && overall == HealthStatusHealthy {
		// The engine resolves fine without the log; degrade, don't fail.
		overall = HealthStatusDegraded
	}

	response := HealthCheckResponse{
		Status:        overall,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		EngineVersion: EngineVersion,
		GitCommit:     GitCommit,
		BuildTime:     BuildTime,
		Uptime:        time.Since(s.startTime).String(),
		Checks:        checks,
		Goroutines:    runtime.NumGoroutine(),
		Sessions:      s.sessions.count(),
		RequestID:     middleware.GetReqID(r.Context()),
	}

	statusCode := http.StatusOK
	if overall == HealthStatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	s.writeJSON(w, statusCode, response)
}

func (s *Server) checkCatalogHealth() HealthCheck {
	if s.cat == nil || s.cat.Len() == 0 {
		return HealthCheck{Status: HealthStatusUnhealthy, Message: "catalog is empty"}
	}
	return HealthCheck{Status: HealthStatusHealthy}
}

func (s *Server) checkDatabaseHealth() HealthCheck {
	if s.db == nil {
		return HealthCheck{Status: HealthStatusDegraded, Message: "resolution log disabled"}
	}
	if _, err := s.db.ListResolutions(store.ResolutionsQuery{Page: 1, PerPage: 1}); err != nil {
		return HealthCheck{Status: HealthStatusDegraded, Message: err.Error()}
	}
	return HealthCheck{Status: HealthStatusHealthy}
}

// handleReadiness reports whether the server can serve lookups.
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	if s.cat == nil || s.cat.Len() == 0 {
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLiveness is the trivial am-I-running probe.
func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, GetVersionInfo())
}
