package handlers

import (
	"net/http"

	"course_quest/internal/middleware"
	"course_quest/internal/service"
	"course_quest/internal/webutil"
)

type BadgeHandler struct {
	service service.BadgeService
}

func NewBadgeHandler(s service.BadgeService) *BadgeHandler {
	return &BadgeHandler{service: s}
}

// ListCatalog はバッジカタログを返します
func (h *BadgeHandler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	badges, err := h.service.ListCatalog(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, badges, logger)
}

// ListMine は認証ユーザーの獲得済みバッジを返します
func (h *BadgeHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	principal, err := middleware.GetPrincipal(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	earned, err := h.service.ListEarned(r.Context(), principal.UserID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, earned, logger)
}
