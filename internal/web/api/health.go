package api

import (
	"context"
	"net/http"
	"time"

	"github.com/conduit-lang/querykit/internal/web/response"
)

// healthTimeout bounds the database probe
const healthTimeout = 2 * time.Second

// HealthStatus is the health check payload
type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
	Models   int    `json:"models"`
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{Status: "ok", Models: h.compiler.ModelCount()}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		if err := h.db.PingContext(ctx); err != nil {
			status.Status = "unavailable"
			status.Database = "unreachable"
			response.JSON(w, http.StatusServiceUnavailable, status)
			return
		}
		status.Database = "ok"
	}

	response.JSON(w, http.StatusOK, status)
}
