package handler

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/yusufkecer/nyenyak-backend/internal/response"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db     Pinger
	logger *zap.Logger
}

func NewHealthHandler(db Pinger, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		response.Fail(w, http.StatusServiceUnavailable, "database unavailable", "UNHEALTHY")
		return
	}
	response.Success(w, http.StatusOK, "ok", nil)
}
