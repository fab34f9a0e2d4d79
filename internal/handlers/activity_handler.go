package handlers

import (
	"net/http"

	"course_quest/internal/middleware"
	"course_quest/internal/model"
	"course_quest/internal/service"
	"course_quest/internal/webutil"
)

type ActivityHandler struct {
	service service.ActivityService
}

func NewActivityHandler(s service.ActivityService) *ActivityHandler {
	return &ActivityHandler{service: s}
}

// RecordActivity は今日の学習時間を記録し、連続日数と新たに獲得したバッジを返します
func (h *ActivityHandler) RecordActivity(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	principal, err := middleware.GetPrincipal(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.RecordActivityRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid activity request", "error", err)
		webutil.HandleError(w, logger, err)
		return
	}

	result, err := h.service.RecordActivity(r.Context(), principal, req.TimeSpentMinutes)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, result, logger)
}
