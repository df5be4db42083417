package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskdesk/api/transport"
	"github.com/fastygo/taskdesk/internal/infrastructure/monitor"
	"github.com/fastygo/taskdesk/pkg/httpcontext"
)

// StatusSource reports the last probe results.
type StatusSource interface {
	GetStatus() monitor.Status
}

type HealthHandler struct {
	baseHandler
	monitor StatusSource
}

// NewHealthHandler serves probe results from mon. A nil mon always reports ok.
func NewHealthHandler(mon StatusSource, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger, taskErrorShape),
		monitor:     mon,
	}
}

// @Summary Health check
// @Tags health
// @Router /api/health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	payload := transport.HealthResponse{Status: "ok", Services: map[string]bool{}}
	if h.monitor == nil {
		h.respondJSON(ctx, http.StatusOK, payload)
		return
	}

	status := h.monitor.GetStatus()
	payload.Services = status.Services
	payload.BufferSize = status.BufferSize
	if !status.LastCheck.IsZero() {
		checked := status.LastCheck.UTC()
		payload.CheckedAt = &checked
	}
	if !status.Healthy() {
		payload.Status = "degraded"
		h.respondJSON(ctx, http.StatusServiceUnavailable, payload)
		return
	}
	h.respondJSON(ctx, http.StatusOK, payload)
}
