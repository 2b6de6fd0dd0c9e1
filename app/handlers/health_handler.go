package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Rakhulsr/e-agri/app/helpers"
	"github.com/unrolled/render"
)

// Pinger is satisfied by each dependency the health check probes.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	render *render.Render
	checks map[string]Pinger
}

func NewHealthHandler(r *render.Render, checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{render: r, checks: checks}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{}
	healthy := true
	for name, ping := range h.checks {
		if err := ping(ctx); err != nil {
			status[name] = "down"
			healthy = false
			continue
		}
		status[name] = "up"
	}

	if !healthy {
		helpers.Fail(h.render, w, http.StatusServiceUnavailable, "Service degraded", status)
		return
	}
	helpers.Success(h.render, w, http.StatusOK, "OK", status)
}

func (h *HealthHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	helpers.Fail(h.render, w, http.StatusNotFound, "Invalid endpoint or method", nil)
}
