package handlers

import (
	"fmt"
	"net/http"

	"pricewatch_api/internal/health"
)

type healthResponse struct {
	Status health.Status  `json:"status"`
	Checks []health.Check `json:"checks"`
}

type HealthHandler struct {
	checker   HealthChecker
	synthetic Toggler
	metrics   MetricsSource
}

func NewHealthHandler(checker HealthChecker, synthetic Toggler, metrics MetricsSource) *HealthHandler {
	return &HealthHandler{checker: checker, synthetic: synthetic, metrics: metrics}
}

// Live handles GET /health/live.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	status, checks := h.checker.CheckHealth(r.Context())
	code := http.StatusOK
	if status != health.StatusUp {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, healthResponse{Status: status, Checks: checks})
}

// Toggle handles PUT /health/test/toggle and reports the synthetic check's new state.
func (h *HealthHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	status := h.synthetic.Toggle()
	writeJSON(w, http.StatusOK, health.Check{Name: "test", Status: status})
}

// Metrics handles GET /metrics as plain "<name> <value>" lines.
func (h *HealthHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	for _, m := range h.metrics.GetMetrics(r.Context()) {
		fmt.Fprintf(w, "%s %s\n", m.Name, m.Value)
	}
}
