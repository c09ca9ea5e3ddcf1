package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsHandler returns the Prometheus metrics handler
func (s *Server) MetricsHandler() http.Handler {
	return promhttp.Handler()
}
