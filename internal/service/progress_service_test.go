package service_test

import (
	"context"
	"testing"

	"course_quest/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressService_SubmitAnswer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	quiz := env.createQuiz(t)
	other := env.createQuiz(t)
	student := env.createUser(t, model.RoleStudent)

	correct := quiz.question.Options[0].OptionID
	wrong := quiz.question.Options[1].OptionID
	foreign := other.question.Options[0].OptionID

	tests := []struct {
		name       string
		principal  model.Principal
		questionID uuid.UUID
		optionID   uuid.UUID
		target     error
		want       *model.AnswerResult
		wantXP     int
		wantRows   int64
	}{
		{
			name: "正常系: 正解で10XP", principal: student, questionID: quiz.question.QuestionID, optionID: correct,
			want: &model.AnswerResult{IsCorrect: true, XPAwarded: 10}, wantXP: 10, wantRows: 1,
		},
		{
			name: "正常系: 不正解はXPなし", principal: student, questionID: quiz.question.QuestionID, optionID: wrong,
			want: &model.AnswerResult{IsCorrect: false, XPAwarded: 0}, wantXP: 10, wantRows: 2,
		},
		{
			name: "正常系: 同じ問題に再回答しても記録は追加される", principal: student, questionID: quiz.question.QuestionID, optionID: correct,
			want: &model.AnswerResult{IsCorrect: true, XPAwarded: 10}, wantXP: 20, wantRows: 3,
		},
		{
			name: "異常系: 他の問題の選択肢", principal: student, questionID: quiz.question.QuestionID, optionID: foreign,
			target: model.ErrInvalidSelection, wantXP: 20, wantRows: 3,
		},
		{
			name: "異常系: 存在しない問題", principal: student, questionID: uuid.New(), optionID: correct,
			target: model.ErrNotFound, wantXP: 20, wantRows: 3,
		},
		{
			name: "異常系: 存在しない選択肢", principal: student, questionID: quiz.question.QuestionID, optionID: uuid.New(),
			target: model.ErrNotFound, wantXP: 20, wantRows: 3,
		},
		{
			name: "異常系: 教授は回答できない", principal: quiz.professor, questionID: quiz.question.QuestionID, optionID: correct,
			target: model.ErrForbidden, wantXP: 20, wantRows: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := env.progress.SubmitAnswer(ctx, tt.principal, tt.questionID, tt.optionID)
			if tt.target != nil {
				assert.Nil(t, result)
				assertAppError(t, err, tt.target, "")
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, result)
			}
			assert.Equal(t, tt.wantXP, env.xpOf(t, student.UserID))
			assert.Equal(t, tt.wantRows, env.countRows(t, &model.ProgressRecord{}, "user_id = ?", student.UserID))
		})
	}
}

func TestProgressService_SubmitAnswer_UsesConfiguredReward(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.App.CorrectAnswerXP = 25
	ctx := context.Background()
	quiz := env.createQuiz(t)
	student := env.createUser(t, model.RoleStudent)

	result, err := env.progress.SubmitAnswer(ctx, student, quiz.question.QuestionID, quiz.question.Options[0].OptionID)
	require.NoError(t, err)
	assert.Equal(t, 25, result.XPAwarded)
	assert.Equal(t, 25, env.xpOf(t, student.UserID))
}

func TestProgressService_OptionDeleteKeepsHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	quiz := env.createQuiz(t)
	student := env.createUser(t, model.RoleStudent)

	_, err := env.progress.SubmitAnswer(ctx, student, quiz.question.QuestionID, quiz.question.Options[0].OptionID)
	require.NoError(t, err)

	// 選択肢を入れ替えると、既存の回答記録の選択肢は NULL になる
	_, err = env.questions.UpdateQuestion(ctx, quiz.professor, quiz.course.CourseID, quiz.lesson.LessonID, quiz.question.QuestionID,
		&model.QuestionRequest{
			QuestionText:   "短縮変数宣言は?",
			QuestionType:   model.QuestionTypeMultipleChoice,
			Options:        []string{":=", "=", "=="},
			CorrectOptions: []int{0},
		})
	require.NoError(t, err)

	var record model.ProgressRecord
	require.NoError(t, env.db.Where("user_id = ?", student.UserID).First(&record).Error)
	assert.Nil(t, record.SelectedOptionID)
	assert.True(t, record.IsCorrect)
}
