package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskdesk/domain"
	"github.com/fastygo/taskdesk/pkg/httpcontext"
	dashboardUC "github.com/fastygo/taskdesk/usecase/dashboard"
)

type DashboardHandler struct {
	baseHandler
	uc *dashboardUC.UseCase
}

func NewDashboardHandler(uc *dashboardUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		baseHandler: newBaseHandler(adapter, logger, taskErrorShape),
		uc:          uc,
	}
}

// @Summary Profession dashboard
// @Tags dashboard
// @Router /api/dashboard/{profession} [get]
func (h *DashboardHandler) Get(ctx *fasthttp.RequestCtx) {
	profession, _ := ctx.UserValue("profession").(string)
	if profession == "" {
		if claims := httpcontext.Claims(ctx); claims != nil {
			profession = string(claims.User.Profession)
		}
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	dashboard, err := h.uc.Build(stdCtx, profession)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, dashboard)
}

// Professions lists the selectable professions with their dashboard layout.
func (h *DashboardHandler) Professions(ctx *fasthttp.RequestCtx) {
	profiles := make([]domain.ProfessionProfile, 0, len(domain.Professions()))
	for _, p := range domain.Professions() {
		profile, _ := p.Profile()
		profiles = append(profiles, profile)
	}
	h.respondJSON(ctx, http.StatusOK, profiles)
}
