package handlers

import (
	"net/http"

	"course_quest/internal/middleware"
	"course_quest/internal/model"
	"course_quest/internal/service"
	"course_quest/internal/webutil"
)

// CourseHandler はコースとレッスンのAPIを扱います。
type CourseHandler struct {
	service service.CourseService
}

func NewCourseHandler(s service.CourseService) *CourseHandler {
	return &CourseHandler{service: s}
}

// ListCourses は教授なら担当コース、学生なら登録済みコースを返します
func (h *CourseHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	principal, err := middleware.GetPrincipal(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	courses, err := h.service.ListCourses(r.Context(), principal)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, courses, logger)
}

func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	principal, err := middleware.GetPrincipal(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	var req model.CourseRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	course, err := h.service.CreateCourse(r.Context(), principal, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusCreated, course, logger)
}

// GetCourse はレッスン一覧付きでコースを返します。学生の閲覧日時も記録されます
func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
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

	course, err := h.service.GetCourse(r.Context(), principal, courseID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, course, logger)
}

func (h *CourseHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
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
	var req model.CourseRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	course, err := h.service.UpdateCourse(r.Context(), principal, courseID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, course, logger)
}

func (h *CourseHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.DeleteCourse(r.Context(), principal, courseID); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
