package handlers_test

import (
	"net/http"
	"testing"

	"course_quest/internal/handlers"
	"course_quest/internal/model"
	svc_mocks "course_quest/internal/service/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestQuestionHandler_SubmitAnswer(t *testing.T) {
	studentID := uuid.New()
	questionID := uuid.New()
	optionID := uuid.New()
	student := model.Principal{UserID: studentID, Role: model.RoleStudent}
	path := "/api/v1/questions/" + questionID.String() + "/answer"

	tests := []struct {
		name         string
		body         interface{}
		setupMock    func(m *svc_mocks.ProgressService)
		expectedCode int
		expectedMsg  string
		expected     *model.AnswerResult
	}{
		{
			name: "正常系: 正解でXP獲得",
			body: map[string]string{"selected_option_id": optionID.String()},
			setupMock: func(m *svc_mocks.ProgressService) {
				m.On("SubmitAnswer", mock.Anything, student, questionID, optionID).
					Return(&model.AnswerResult{IsCorrect: true, XPAwarded: 10}, nil).Once()
			},
			expectedCode: http.StatusOK,
			expected:     &model.AnswerResult{IsCorrect: true, XPAwarded: 10},
		},
		{
			name: "正常系: 不正解",
			body: map[string]string{"selected_option_id": optionID.String()},
			setupMock: func(m *svc_mocks.ProgressService) {
				m.On("SubmitAnswer", mock.Anything, student, questionID, optionID).
					Return(&model.AnswerResult{IsCorrect: false, XPAwarded: 0}, nil).Once()
			},
			expectedCode: http.StatusOK,
			expected:     &model.AnswerResult{IsCorrect: false, XPAwarded: 0},
		},
		{
			name: "異常系: 別の問題の選択肢は400",
			body: map[string]string{"selected_option_id": optionID.String()},
			setupMock: func(m *svc_mocks.ProgressService) {
				m.On("SubmitAnswer", mock.Anything, student, questionID, optionID).
					Return(nil, model.NewAppError("INVALID_SELECTION", "選択肢がこの問題に属していません。", "selected_option_id", model.ErrInvalidSelection)).Once()
			},
			expectedCode: http.StatusBadRequest,
			expectedMsg:  "選択肢がこの問題に属していません",
		},
		{
			name: "異常系: 問題が存在しない",
			body: map[string]string{"selected_option_id": optionID.String()},
			setupMock: func(m *svc_mocks.ProgressService) {
				m.On("SubmitAnswer", mock.Anything, student, questionID, optionID).
					Return(nil, model.NewAppError("QUESTION_NOT_FOUND", "問題が見つかりません。", "", model.ErrNotFound)).Once()
			},
			expectedCode: http.StatusNotFound,
			expectedMsg:  "問題が見つかりません",
		},
		{
			name:         "異常系: 選択肢IDなし",
			body:         map[string]string{},
			setupMock:    func(m *svc_mocks.ProgressService) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "異常系: 未知のフィールド",
			body:         map[string]string{"selected_option_id": optionID.String(), "extra": "x"},
			setupMock:    func(m *svc_mocks.ProgressService) {},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockService := svc_mocks.NewProgressService(t)
			tc.setupMock(mockService)
			server := newTestServer(t, &handlers.Handlers{Question: handlers.NewQuestionHandler(nil, mockService)})

			_, body := sendRequest(t, server,
				httpRequestDetails{Method: http.MethodPost, Path: path, Body: tc.body, Headers: principalHeaders(studentID, model.RoleStudent)},
				httpResponseExpectations{ExpectedCode: tc.expectedCode, ExpectedErrorMsg: tc.expectedMsg},
			)
			if tc.expected != nil {
				var result model.AnswerResult
				decodeJSON(t, body, &result)
				assert.Equal(t, *tc.expected, result)
			}
		})
	}
}
