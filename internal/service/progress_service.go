package service

import (
	"context"
	"errors"

	"course_quest/internal/config"
	"course_quest/internal/middleware"
	"course_quest/internal/model"
	"course_quest/internal/repository"
	"course_quest/internal/timeutil"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProgressService interface {
	// SubmitAnswer は回答を判定して記録し、正解ならXPを加算します。
	SubmitAnswer(ctx context.Context, principal model.Principal, questionID, selectedOptionID uuid.UUID) (*model.AnswerResult, error)
}

type progressService struct {
	db           *gorm.DB
	questionRepo repository.QuestionRepository
	progressRepo repository.ProgressRepository
	ledger       XPLedger
	clock        timeutil.Clock
	cfg          *config.Config
}

func NewProgressService(db *gorm.DB, questionRepo repository.QuestionRepository, progressRepo repository.ProgressRepository, ledger XPLedger, clock timeutil.Clock, cfg *config.Config) ProgressService {
	return &progressService{
		db:           db,
		questionRepo: questionRepo,
		progressRepo: progressRepo,
		ledger:       ledger,
		clock:        clock,
		cfg:          cfg,
	}
}

func (s *progressService) SubmitAnswer(ctx context.Context, principal model.Principal, questionID, selectedOptionID uuid.UUID) (*model.AnswerResult, error) {
	logger := middleware.GetLogger(ctx).With("user_id", principal.UserID, "question_id", questionID, "option_id", selectedOptionID)

	if !principal.IsStudent() {
		logger.Warn("Non-student attempted to submit an answer", "role", principal.Role)
		return nil, model.NewAppError("FORBIDDEN", "回答できるのは学生のみです。", "", model.ErrForbidden)
	}

	var result *model.AnswerResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.questionRepo.FindByID(ctx, tx, questionID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				logger.Warn("Question not found")
				return model.NewAppError("QUESTION_NOT_FOUND", "問題が見つかりません。", "", model.ErrNotFound)
			}
			logger.Error("Failed to find question", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "問題の取得に失敗しました。", "", err)
		}

		option, err := s.questionRepo.FindOptionByID(ctx, tx, selectedOptionID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				logger.Warn("Answer option not found")
				return model.NewAppError("OPTION_NOT_FOUND", "選択肢が見つかりません。", "selected_option_id", model.ErrNotFound)
			}
			logger.Error("Failed to find answer option", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "選択肢の取得に失敗しました。", "", err)
		}
		if option.QuestionID != questionID {
			logger.Warn("Selected option belongs to another question", "option_question_id", option.QuestionID)
			return model.NewAppError("INVALID_SELECTION", "選択肢がこの問題のものではありません。", "selected_option_id", model.ErrInvalidSelection)
		}

		optionID := option.OptionID
		record := &model.ProgressRecord{
			ProgressID:       uuid.New(),
			UserID:           principal.UserID,
			QuestionID:       questionID,
			SelectedOptionID: &optionID,
			IsCorrect:        option.IsCorrect,
			AnsweredAt:       s.clock.Now(),
		}
		if err := s.progressRepo.Create(ctx, tx, record); err != nil {
			logger.Error("Failed to create progress record", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "回答の記録に失敗しました。", "", err)
		}

		result = &model.AnswerResult{IsCorrect: option.IsCorrect}
		if option.IsCorrect {
			if err := s.ledger.CreditXP(ctx, tx, principal.UserID, s.cfg.App.CorrectAnswerXP); err != nil {
				return err
			}
			result.XPAwarded = s.cfg.App.CorrectAnswerXP
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Answer submitted", "is_correct", result.IsCorrect, "xp_awarded", result.XPAwarded)
	return result, nil
}
