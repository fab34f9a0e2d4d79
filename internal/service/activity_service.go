package service

import (
	"context"
	"errors"
	"time"

	"course_quest/internal/middleware"
	"course_quest/internal/model"
	"course_quest/internal/repository"
	"course_quest/internal/timeutil"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityService interface {
	// RecordActivity は今日の学習時間を加算し、連続日数を更新してバッジを判定します。
	RecordActivity(ctx context.Context, principal model.Principal, minutesSpent int) (*model.ActivityResult, error)
}

type activityService struct {
	db           *gorm.DB
	activityRepo repository.ActivityRepository
	badges       BadgeService
	clock        timeutil.Clock
}

func NewActivityService(db *gorm.DB, activityRepo repository.ActivityRepository, badges BadgeService, clock timeutil.Clock) ActivityService {
	return &activityService{
		db:           db,
		activityRepo: activityRepo,
		badges:       badges,
		clock:        clock,
	}
}

func (s *activityService) RecordActivity(ctx context.Context, principal model.Principal, minutesSpent int) (*model.ActivityResult, error) {
	logger := middleware.GetLogger(ctx).With("user_id", principal.UserID, "minutes", minutesSpent)

	if !principal.IsStudent() {
		logger.Warn("Non-student attempted to record activity", "role", principal.Role)
		return nil, model.NewAppError("FORBIDDEN", "学習記録は学生のみ登録できます。", "", model.ErrForbidden)
	}
	if minutesSpent < 1 {
		logger.Warn("Invalid minutes for activity")
		return nil, model.NewAppError("INVALID_MINUTES", "学習時間は1分以上で指定してください。", "time_spent_minutes", model.ErrInvalidInput)
	}

	today := timeutil.Today(s.clock)
	var result *model.ActivityResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		streak, err := s.streakFor(ctx, tx, principal.UserID, today)
		if err != nil {
			return err
		}

		record := &model.ActivityRecord{
			ActivityID:       uuid.New(),
			UserID:           principal.UserID,
			ActivityDate:     today,
			TimeSpentMinutes: minutesSpent,
			IsActiveDay:      true,
			CurrentStreak:    streak,
		}
		if err := s.activityRepo.UpsertAccumulate(ctx, tx, record); err != nil {
			logger.Error("Failed to upsert activity record", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "学習記録の保存に失敗しました。", "", err)
		}

		// 加算後の分数を読み直す
		saved, err := s.activityRepo.FindByUserAndDate(ctx, tx, principal.UserID, today)
		if err != nil {
			logger.Error("Failed to reload activity record", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "学習記録の取得に失敗しました。", "", err)
		}

		awarded, err := s.badges.EvaluateStreakBadgesTx(ctx, tx, principal.UserID, saved.CurrentStreak)
		if err != nil {
			return err
		}

		result = &model.ActivityResult{
			ActivityDate:     saved.ActivityDate.Format(model.DateLayout),
			CurrentStreak:    saved.CurrentStreak,
			TimeSpentMinutes: saved.TimeSpentMinutes,
			AwardedBadgeIDs:  awarded,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Activity recorded",
		"activity_date", result.ActivityDate,
		"current_streak", result.CurrentStreak,
		"total_minutes", result.TimeSpentMinutes,
		"awarded_badges", len(result.AwardedBadgeIDs),
	)
	return result, nil
}

// streakFor は前日の記録から今日の連続日数を求めます。前日が活動日でなければ1です。
func (s *activityService) streakFor(ctx context.Context, tx *gorm.DB, userID uuid.UUID, today time.Time) (int, error) {
	logger := middleware.GetLogger(ctx)

	prev, err := s.activityRepo.FindByUserAndDate(ctx, tx, userID, timeutil.PreviousDay(today))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return 1, nil
		}
		logger.Error("Failed to find previous day activity", "error", err)
		return 0, model.NewAppError("INTERNAL_SERVER_ERROR", "学習記録の取得に失敗しました。", "", err)
	}
	if !prev.IsActiveDay {
		return 1, nil
	}
	return prev.CurrentStreak + 1, nil
}
