package handlers

import (
	"errors"
	"net/http"

	"course_quest/internal/middleware"
	"course_quest/internal/model"
	"course_quest/internal/service"
	"course_quest/internal/webutil"
)

type EnrollmentHandler struct {
	service service.EnrollmentService
}

func NewEnrollmentHandler(s service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{service: s}
}

// Enroll はコースに受講登録します。登録済みの場合も 200 で案内メッセージを返します
func (h *EnrollmentHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	principal, err := middleware.GetPrincipal(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	courseID, err := webutil.URLParamUUID(r, "courseID")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	resp, err := h.service.Enroll(r.Context(), principal, courseID)
	if err != nil {
		if errors.Is(err, model.ErrAlreadyEnrolled) {
			var appErr *model.AppError
			message := "このコースには既に登録済みです。"
			if errors.As(err, &appErr) {
				message = appErr.Detail.Message
			}
			webutil.RespondWithJSON(w, http.StatusOK, &model.EnrollResponse{
				CourseID: courseID,
				Status:   "already_enrolled",
				Message:  message,
			}, logger)
			return
		}
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusCreated, resp, logger)
}

// ToggleFavorite はお気に入りを切り替えます
func (h *EnrollmentHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	principal, err := middleware.GetPrincipal(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	courseID, err := webutil.URLParamUUID(r, "courseID")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	resp, err := h.service.ToggleFavorite(r.Context(), principal, courseID)
	if err != nil {
		// 未登録 (ErrNotEnrolled) は 409 と案内メッセージ
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}
