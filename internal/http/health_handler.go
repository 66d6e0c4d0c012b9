package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/tuanvumaihuynh/store-ledger/internal/repository"
)

type healthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type healthHandler struct {
	store  repository.Store
	logger *slog.Logger
}

func newHealthHandler(store repository.Store, logger *slog.Logger) *healthHandler {
	return &healthHandler{
		store:  store,
		logger: logger,
	}
}

func (h *healthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, res := http.StatusOK, healthResponse{Status: "ok"}
	if err := h.store.Ping(ctx); err != nil {
		status, res = http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Error: err.Error()}
	}

	if err := writeJSON(w, status, res); err != nil {
		h.logger.WarnContext(r.Context(), "error writing health response", slog.Any("error", err))
	}
}
