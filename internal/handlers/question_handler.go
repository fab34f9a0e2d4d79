package handlers

import (
	"net/http"

	"course_quest/internal/middleware"
	"course_quest/internal/model"
	"course_quest/internal/service"
	"course_quest/internal/webutil"
)

// QuestionHandler は問題の作成・更新・削除と回答送信を扱います。
type QuestionHandler struct {
	questions service.QuestionService
	progress  service.ProgressService
}

func NewQuestionHandler(questions service.QuestionService, progress service.ProgressService) *QuestionHandler {
	return &QuestionHandler{questions: questions, progress: progress}
}

func (h *QuestionHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	principal, courseID, lessonID, err := lessonParams(r, "lessonID")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	var req model.QuestionRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	question, err := h.questions.CreateQuestion(r.Context(), principal, courseID, lessonID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusCreated, question, logger)
}

func (h *QuestionHandler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	principal, courseID, lessonID, err := lessonParams(r, "lessonID")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	questionID, err := webutil.URLParamUUID(r, "questionID")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	var req model.QuestionRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	question, err := h.questions.UpdateQuestion(r.Context(), principal, courseID, lessonID, questionID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, question, logger)
}

func (h *QuestionHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	principal, courseID, lessonID, err := lessonParams(r, "lessonID")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	questionID, err := webutil.URLParamUUID(r, "questionID")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.questions.DeleteQuestion(r.Context(), principal, courseID, lessonID, questionID); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SubmitAnswer は回答を送信し、正誤と獲得XPを返します
func (h *QuestionHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	principal, err := middleware.GetPrincipal(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	questionID, err := webutil.URLParamUUID(r, "questionID")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	var req model.SubmitAnswerRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid answer request", "error", err)
		webutil.HandleError(w, logger, err)
		return
	}

	result, err := h.progress.SubmitAnswer(r.Context(), principal, questionID, req.SelectedOptionID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, result, logger)
}
