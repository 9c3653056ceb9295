package endpoints

import (
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/doodlesbykumbi/signatories/pkg/server"
	"github.com/doodlesbykumbi/signatories/pkg/server/store"
)

// StatusResponse represents the response from /status
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Error   string `json:"error,omitempty"`
}

// RegisterStatusEndpoints registers the status and metrics endpoints
func RegisterStatusEndpoints(s *server.Server) {
	// GET /status - Database connectivity (no auth required)
	s.Router.HandleFunc("/status", handleStatus(s.HealthStore)).Methods("GET")

	// GET /metrics - Prometheus metrics
	s.Router.Handle("/metrics", promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{})).Methods("GET")
}

func handleStatus(healthStore store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := os.Getenv("SIGNATORIES_VERSION")
		if version == "" {
			version = "0.1.0"
		}

		if healthStore != nil {
			if err := healthStore.CheckConnectivity(); err != nil {
				respondWithJSON(w, http.StatusServiceUnavailable, StatusResponse{
					Status:  "error",
					Version: version,
					Error:   "database connectivity check failed",
				})
				return
			}
		}

		respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok", Version: version})
	}
}
