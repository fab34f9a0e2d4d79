package service

import (
	"context"
	"errors"
	"fmt"

	"course_quest/internal/middleware"
	"course_quest/internal/model"
	"course_quest/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuestionService interface {
	CreateQuestion(ctx context.Context, principal model.Principal, courseID, lessonID uuid.UUID, req *model.QuestionRequest) (*model.Question, error)
	UpdateQuestion(ctx context.Context, principal model.Principal, courseID, lessonID, questionID uuid.UUID, req *model.QuestionRequest) (*model.Question, error)
	DeleteQuestion(ctx context.Context, principal model.Principal, courseID, lessonID, questionID uuid.UUID) error
}

type questionService struct {
	db           *gorm.DB
	courseRepo   repository.CourseRepository
	questionRepo repository.QuestionRepository
}

func NewQuestionService(db *gorm.DB, courseRepo repository.CourseRepository, questionRepo repository.QuestionRepository) QuestionService {
	return &questionService{
		db:           db,
		courseRepo:   courseRepo,
		questionRepo: questionRepo,
	}
}

// buildOptions はリクエストの選択肢と正解インデックスから AnswerOption を組み立てます。
func buildOptions(questionID uuid.UUID, req *model.QuestionRequest) ([]model.AnswerOption, error) {
	correct := make(map[int]bool, len(req.CorrectOptions))
	for _, idx := range req.CorrectOptions {
		if idx < 0 || idx >= len(req.Options) {
			return nil, model.NewAppError("INVALID_CORRECT_OPTION",
				fmt.Sprintf("正解の指定(%d)が選択肢の範囲外です。", idx), "correct_options", model.ErrInvalidInput)
		}
		correct[idx] = true
	}

	options := make([]model.AnswerOption, 0, len(req.Options))
	for i, text := range req.Options {
		options = append(options, model.AnswerOption{
			OptionID:   uuid.New(),
			QuestionID: questionID,
			OptionText: text,
			IsCorrect:  correct[i],
		})
	}
	return options, nil
}

func (s *questionService) CreateQuestion(ctx context.Context, principal model.Principal, courseID, lessonID uuid.UUID, req *model.QuestionRequest) (*model.Question, error) {
	logger := middleware.GetLogger(ctx).With("course_id", courseID, "lesson_id", lessonID)

	questionID := uuid.New()
	options, err := buildOptions(questionID, req)
	if err != nil {
		logger.Warn("Invalid question options", "error", err)
		return nil, err
	}
	question := &model.Question{
		QuestionID:   questionID,
		LessonID:     lessonID,
		QuestionText: req.QuestionText,
		QuestionType: req.QuestionType,
		Options:      options,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findOwnedLesson(ctx, tx, s.courseRepo, principal, courseID, lessonID); err != nil {
			return err
		}
		if err := s.questionRepo.Create(ctx, tx, question); err != nil {
			logger.Error("Failed to create question", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "問題の作成に失敗しました。", "", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Question created", "question_id", question.QuestionID, "options", len(options))
	return question, nil
}

func (s *questionService) UpdateQuestion(ctx context.Context, principal model.Principal, courseID, lessonID, questionID uuid.UUID, req *model.QuestionRequest) (*model.Question, error) {
	logger := middleware.GetLogger(ctx).With("course_id", courseID, "lesson_id", lessonID, "question_id", questionID)

	options, err := buildOptions(questionID, req)
	if err != nil {
		logger.Warn("Invalid question options", "error", err)
		return nil, err
	}

	var updated *model.Question
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		question, err := s.ownedQuestion(ctx, tx, principal, courseID, lessonID, questionID)
		if err != nil {
			return err
		}
		question.QuestionText = req.QuestionText
		question.QuestionType = req.QuestionType
		question.Options = options
		if err := s.questionRepo.Update(ctx, tx, question); err != nil {
			logger.Error("Failed to update question", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "問題の更新に失敗しました。", "", err)
		}
		updated = question
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Question updated")
	return updated, nil
}

func (s *questionService) DeleteQuestion(ctx context.Context, principal model.Principal, courseID, lessonID, questionID uuid.UUID) error {
	logger := middleware.GetLogger(ctx).With("course_id", courseID, "lesson_id", lessonID, "question_id", questionID)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.ownedQuestion(ctx, tx, principal, courseID, lessonID, questionID); err != nil {
			return err
		}
		if err := s.questionRepo.Delete(ctx, tx, questionID); err != nil {
			logger.Error("Failed to delete question", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "問題の削除に失敗しました。", "", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.Info("Question deleted")
	return nil
}

func (s *questionService) ownedQuestion(ctx context.Context, tx *gorm.DB, principal model.Principal, courseID, lessonID, questionID uuid.UUID) (*model.Question, error) {
	if _, err := findOwnedLesson(ctx, tx, s.courseRepo, principal, courseID, lessonID); err != nil {
		return nil, err
	}
	question, err := s.questionRepo.FindInLesson(ctx, tx, lessonID, questionID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("QUESTION_NOT_FOUND", "問題が見つかりません。", "", model.ErrNotFound)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "問題の取得に失敗しました。", "", err)
	}
	return question, nil
}
