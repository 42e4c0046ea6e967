package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"go-account-portal/internal/model"
)

// HealthChecker reports whether the backing store is reachable.
// Implemented by database.DB.
type HealthChecker interface {
	Health(ctx context.Context) error
}

type HealthHandler struct {
	db HealthChecker
}

func NewHealthHandler(db HealthChecker) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Health(r.Context()); err != nil {
		slog.Error("health check failed", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(model.APIResponse{
			Success: false,
			Error: &model.APIError{
				Code:    "UNAVAILABLE",
				Message: "database unavailable",
			},
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
