package service

import (
	"context"
	"errors"

	"course_quest/internal/middleware"
	"course_quest/internal/model"
	"course_quest/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// XPLedger はユーザーのXP残高を加算する唯一の経路です。
// 呼び出し側のトランザクション (tx) の中で実行されます。
type XPLedger interface {
	CreditXP(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount int) error
}

type xpLedger struct {
	userRepo repository.UserRepository
}

func NewXPLedger(userRepo repository.UserRepository) XPLedger {
	return &xpLedger{userRepo: userRepo}
}

func (l *xpLedger) CreditXP(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount int) error {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "amount", amount)

	if amount < 0 {
		logger.Warn("Rejected negative XP credit")
		return model.NewAppError("INVALID_XP_AMOUNT", "XPの加算量は0以上である必要があります。", "amount", model.ErrInvalidInput)
	}
	if amount == 0 {
		return nil
	}

	if err := l.userRepo.IncrementXP(ctx, tx, userID, amount); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("XP credit target user not found")
			return model.NewAppError("USER_NOT_FOUND", "ユーザーが見つかりません。", "", model.ErrNotFound)
		}
		logger.Error("Failed to increment XP", "error", err)
		return model.NewAppError("INTERNAL_SERVER_ERROR", "XPの加算に失敗しました。", "", err)
	}

	logger.Debug("XP credited")
	return nil
}
