package handlers

import (
	"net/http"

	"course_quest/internal/middleware"
	"course_quest/internal/model"
	"course_quest/internal/webutil"

	"github.com/google/uuid"
)

// lessonParams はパスから principal・コースID・レッスンIDを取り出します。
// lessonParam が空の場合はレッスンIDを読みません。
func lessonParams(r *http.Request, lessonParam string) (model.Principal, uuid.UUID, uuid.UUID, error) {
	principal, err := middleware.GetPrincipal(r.Context())
	if err != nil {
		return model.Principal{}, uuid.Nil, uuid.Nil, err
	}
	courseID, err := webutil.URLParamUUID(r, "courseID")
	if err != nil {
		return model.Principal{}, uuid.Nil, uuid.Nil, err
	}
	if lessonParam == "" {
		return principal, courseID, uuid.Nil, nil
	}
	lessonID, err := webutil.URLParamUUID(r, lessonParam)
	if err != nil {
		return model.Principal{}, uuid.Nil, uuid.Nil, err
	}
	return principal, courseID, lessonID, nil
}

func (h *CourseHandler) CreateLesson(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	principal, courseID, _, err := lessonParams(r, "")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	var req model.LessonRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	lesson, err := h.service.CreateLesson(r.Context(), principal, courseID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusCreated, lesson, logger)
}

func (h *CourseHandler) GetLesson(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	principal, courseID, lessonID, err := lessonParams(r, "lessonID")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	lesson, err := h.service.GetLesson(r.Context(), principal, courseID, lessonID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, lesson, logger)
}

func (h *CourseHandler) UpdateLesson(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	principal, courseID, lessonID, err := lessonParams(r, "lessonID")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	var req model.LessonRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	lesson, err := h.service.UpdateLesson(r.Context(), principal, courseID, lessonID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, lesson, logger)
}

func (h *CourseHandler) DeleteLesson(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	principal, courseID, lessonID, err := lessonParams(r, "lessonID")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.service.DeleteLesson(r.Context(), principal, courseID, lessonID); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
