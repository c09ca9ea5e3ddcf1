package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"gallery-indexer/internal/indexer"
	"gallery-indexer/internal/logging"
)

// StatsResponse summarizes the most recent run and, when the run index
// is enabled, the database totals.
type StatsResponse struct {
	LastRun         string         `json:"lastRun,omitempty"`
	Duration        string         `json:"duration,omitempty"`
	Files           int            `json:"files"`
	Records         int            `json:"records"`
	ThumbsCreated   int            `json:"thumbsCreated"`
	ThumbsSkipped   int            `json:"thumbsSkipped"`
	ThumbsErrored   int            `json:"thumbsErrored"`
	ManifestWritten bool           `json:"manifestWritten"`
	ByExtension     map[string]int `json:"byExtension,omitempty"`
	Indexing        bool           `json:"indexing"`

	TotalFiles int `json:"totalFiles,omitempty"`
	TotalTags  int `json:"totalTags,omitempty"`
}

// GetStats reports the latest run and the run index totals.
func (s *Server) GetStats(w http.ResponseWriter, _ *http.Request) {
	response := StatsResponse{Indexing: s.idx.IsRunning()}

	if last := s.idx.LastReport(); last != nil {
		response.LastRun = last.StartedAt.UTC().Format(time.RFC3339)
		response.Duration = last.Duration.Round(time.Millisecond).String()
		response.Files = last.Files
		response.Records = last.Records
		response.ThumbsCreated = last.ThumbsCreated
		response.ThumbsSkipped = last.ThumbsSkipped
		response.ThumbsErrored = last.ThumbsErrored
		response.ManifestWritten = last.ManifestWritten
		response.ByExtension = last.ByExtension
	}

	if s.ix != nil {
		stats := s.ix.GetStats()
		response.TotalFiles = stats.TotalFiles
		response.TotalTags = stats.TotalTags
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, response)
}

// TriggerReindex starts a background run unless one is already going.
func (s *Server) TriggerReindex(w http.ResponseWriter, _ *http.Request) {
	if s.idx.IsRunning() {
		w.Header().Set("Content-Type", "application/json")
		writeJSON(w, map[string]string{
			"status":  "already_running",
			"message": "An index run is already in progress",
		})
		return
	}

	go func() {
		_, err := s.idx.Run(s.baseCtx)
		switch {
		case err == nil:
		case errors.Is(err, indexer.ErrRunInProgress):
			// Lost the race to another trigger.
		case errors.Is(err, context.Canceled):
			// Shutting down.
		default:
			logging.Error("Requested reindex failed: %v", err)
		}
	}()

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]string{
		"status":  "started",
		"message": "Reindex started",
	})
}
