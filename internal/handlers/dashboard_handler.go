package handlers

import (
	"net/http"

	"course_quest/internal/middleware"
	"course_quest/internal/service"
	"course_quest/internal/webutil"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetDashboard は役割に応じたダッシュボードを返します
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	principal, err := middleware.GetPrincipal(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if principal.IsProfessor() {
		dashboard, err := h.service.ProfessorDashboard(r.Context(), principal)
		if err != nil {
			webutil.HandleError(w, logger, err)
			return
		}
		webutil.RespondWithJSON(w, http.StatusOK, dashboard, logger)
		return
	}

	dashboard, err := h.service.StudentDashboard(r.Context(), principal)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, dashboard, logger)
}
