package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/ivankudzin/spark/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/spark/internal/transport/http/errors"
)

const statusMessage = "Spark API is running 🔥"

// Pinger is a dependency whose reachability gates /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

type HealthHandler struct {
	checks map[string]Pinger
}

func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) Status(w http.ResponseWriter, _ *http.Request) {
	httperrors.Write(w, http.StatusOK, dto.StatusResponse{Status: statusMessage})
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	for name, check := range h.checks {
		if check == nil {
			continue
		}
		if err := check.Ping(ctx); err != nil {
			httperrors.Write(w, http.StatusServiceUnavailable, httperrors.APIError{
				Code:    "DEPENDENCY_UNAVAILABLE",
				Message: name + " is unavailable",
			})
			return
		}
	}

	httperrors.Write(w, http.StatusOK, dto.HealthResponse{OK: true})
}
