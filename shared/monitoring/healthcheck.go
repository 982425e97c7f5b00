package monitoring

import (
	"fmt"
	"net/http"
)

// HealthHandler reports liveness: 200 while the most recent request
// succeeded (or none have run yet), 503 otherwise.
func (m *Monitor) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if m.IsHealthy() {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK - %s", m.StatusSummary())
		return
	}

	w.WriteHeader(http.StatusServiceUnavailable)
	fmt.Fprintf(w, "Service unhealthy - %s", m.StatusSummary())
}

func (m *Monitor) StatusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "%s", m.StatusSummary())
}
