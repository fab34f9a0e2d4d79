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

type BadgeService interface {
	// EvaluateStreakBadges は独自のトランザクションで連続日数バッジを判定し、新たに付与したバッジIDを返します。
	EvaluateStreakBadges(ctx context.Context, userID uuid.UUID, currentStreak int) ([]uint, error)
	// EvaluateStreakBadgesTx は呼び出し側のトランザクション内で判定します。
	EvaluateStreakBadgesTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID, currentStreak int) ([]uint, error)
	ListCatalog(ctx context.Context) ([]*model.Badge, error)
	ListEarned(ctx context.Context, userID uuid.UUID) ([]*model.EarnedBadge, error)
}

type badgeService struct {
	db        *gorm.DB
	badgeRepo repository.BadgeRepository
	ledger    XPLedger
	clock     timeutil.Clock
	rules     []config.StreakBadgeRule
}

func NewBadgeService(db *gorm.DB, badgeRepo repository.BadgeRepository, ledger XPLedger, clock timeutil.Clock, cfg *config.Config) BadgeService {
	return &badgeService{
		db:        db,
		badgeRepo: badgeRepo,
		ledger:    ledger,
		clock:     clock,
		rules:     cfg.Gamification.SortedStreakRules(),
	}
}

func (s *badgeService) EvaluateStreakBadges(ctx context.Context, userID uuid.UUID, currentStreak int) ([]uint, error) {
	var awarded []uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		awarded, err = s.EvaluateStreakBadgesTx(ctx, tx, userID, currentStreak)
		return err
	})
	if err != nil {
		return nil, err
	}
	return awarded, nil
}

func (s *badgeService) EvaluateStreakBadgesTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID, currentStreak int) ([]uint, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "current_streak", currentStreak)

	awarded := make([]uint, 0)
	for _, rule := range s.rules {
		if currentStreak < rule.MinStreak {
			// ルールは閾値の昇順
			break
		}

		// バッジごとにセーブポイントを切り、付与とXP加算をまとめて確定させる
		var newlyAwarded bool
		err := tx.Transaction(func(sp *gorm.DB) error {
			var err error
			newlyAwarded, err = s.awardBadge(ctx, sp, userID, rule.BadgeID)
			return err
		})
		if err != nil {
			logger.Error("Failed to award streak badge", "badge_id", rule.BadgeID, "error", err)
			return nil, err
		}
		if newlyAwarded {
			awarded = append(awarded, rule.BadgeID)
		}
	}

	if len(awarded) > 0 {
		logger.Info("Streak badges awarded", "badge_ids", awarded)
	}
	return awarded, nil
}

// awardBadge は未付与ならバッジを付与し、カタログの報酬XPを加算します。
func (s *badgeService) awardBadge(ctx context.Context, tx *gorm.DB, userID uuid.UUID, badgeID uint) (bool, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID, "badge_id", badgeID)

	inserted, err := s.badgeRepo.Award(ctx, tx, &model.UserBadge{
		UserBadgeID: uuid.New(),
		UserID:      userID,
		BadgeID:     badgeID,
		AwardedAt:   s.clock.Now(),
	})
	if err != nil {
		return false, model.NewAppError("INTERNAL_SERVER_ERROR", "バッジの付与に失敗しました。", "", err)
	}
	if !inserted {
		logger.Debug("Badge already awarded, skipping")
		return false, nil
	}

	badge, err := s.badgeRepo.FindByID(ctx, tx, badgeID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Data integrity: awarded badge is missing from catalog, no XP credited")
			return true, nil
		}
		return false, model.NewAppError("INTERNAL_SERVER_ERROR", "バッジ情報の取得に失敗しました。", "", err)
	}

	if err := s.ledger.CreditXP(ctx, tx, userID, badge.XPReward); err != nil {
		return false, err
	}
	return true, nil
}

func (s *badgeService) ListCatalog(ctx context.Context) ([]*model.Badge, error) {
	logger := middleware.GetLogger(ctx)
	badges, err := s.badgeRepo.ListAll(ctx, s.db)
	if err != nil {
		logger.Error("Failed to list badge catalog", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "バッジ一覧の取得に失敗しました。", "", err)
	}
	return badges, nil
}

func (s *badgeService) ListEarned(ctx context.Context, userID uuid.UUID) ([]*model.EarnedBadge, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID)
	earned, err := s.badgeRepo.ListEarned(ctx, s.db, userID)
	if err != nil {
		logger.Error("Failed to list earned badges", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "獲得バッジの取得に失敗しました。", "", err)
	}
	return earned, nil
}
