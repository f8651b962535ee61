// Package ops serves the operational HTTP surface of a drillbot process:
// health, Prometheus metrics, and a session census.
package ops

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SessionLister is the slice of the session layer the census endpoint needs.
type SessionLister interface {
	List(ctx context.Context) ([]string, error)
}

// NewHandler builds the ops router.
func NewHandler(gatherer prometheus.Gatherer, sessions SessionLister) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Get("/sessions", func(w http.ResponseWriter, req *http.Request) {
		keys, err := sessions.List(req.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"count": len(keys),
			"keys":  keys,
		})
	})

	return r
}
