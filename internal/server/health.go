package server

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"gallery-indexer/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusStarting = "starting"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status          string `json:"status"`
	Ready           bool   `json:"ready"`
	Version         string `json:"version"`
	Uptime          string `json:"uptime"`
	Indexing        bool   `json:"indexing"`
	LastRun         string `json:"lastRun,omitempty"`
	FilesIndexed    int    `json:"filesIndexed"`
	ManifestWritten bool   `json:"manifestWritten"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`

	// Memory monitor readings, present when a memory limit is configured
	MemoryLimit int64   `json:"memoryLimit,omitempty"`
	MemoryUsage float64 `json:"memoryUsage,omitempty"`

	// Run index summary, present when the index database is enabled
	TotalFiles int `json:"totalFiles,omitempty"`
	TotalTags  int `json:"totalTags,omitempty"`
}

// HealthCheck reports whether a run has completed and what it produced.
// Ready means the first run finished; degraded means a run finished but
// there is no manifest on disk to serve (an empty image tree).
func (s *Server) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	last := s.idx.LastReport()

	response := HealthResponse{
		Ready:        last != nil,
		Version:      startup.Version,
		Uptime:       time.Since(s.startTime).Round(time.Second).String(),
		Indexing:     s.idx.IsRunning(),
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}

	if last != nil {
		response.Status = statusHealthy
		response.LastRun = last.StartedAt.UTC().Format(time.RFC3339)
		response.FilesIndexed = last.Files
		response.ManifestWritten = last.ManifestWritten
		if _, err := os.Stat(s.cfg.AbsOutputFile); err != nil {
			response.Status = statusDegraded
		}
	} else {
		response.Status = statusStarting
	}

	if s.mon != nil {
		if _, limit, usage := s.mon.GetStats(); limit > 0 {
			response.MemoryLimit = limit
			response.MemoryUsage = usage
		}
	}

	if s.ix != nil {
		stats := s.ix.GetStats()
		response.TotalFiles = stats.TotalFiles
		response.TotalTags = stats.TotalTags
	}

	w.Header().Set("Content-Type", "application/json")

	// Return 503 only while no run has completed yet
	if !response.Ready {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	writeJSON(w, response)
}

// LivenessCheck is a simple liveness probe (always returns 200 if the server is running)
func (s *Server) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	// For HEAD requests, only send headers (no body)
	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{
			"status": "alive",
		})
	}
}

// ReadinessCheck returns 200 once the first index run has completed
func (s *Server) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if s.idx.LastReport() != nil {
		w.WriteHeader(http.StatusOK)
		writeJSON(w, map[string]string{
			"status": "ready",
		})
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
		writeJSON(w, map[string]string{
			"status": "not_ready",
		})
	}
}
