package repository

import (
	"context"

	"course_quest/internal/config"
	"course_quest/internal/model"

	"gorm.io/gorm"
)

// DefaultBadgeCatalog は初期投入するバッジカタログです。ID 1〜3 は連続学習バッジです。
func DefaultBadgeCatalog() []*model.Badge {
	return []*model.Badge{
		{BadgeID: config.BadgeIDThreeDayStreak, Name: "3-Day Streak", Description: "3日連続で学習しました。", IconPath: "badges/streak_3.png", XPReward: 30},
		{BadgeID: config.BadgeIDSevenDayStreak, Name: "7-Day Streak", Description: "7日連続で学習しました。", IconPath: "badges/streak_7.png", XPReward: 70},
		{BadgeID: config.BadgeIDThirtyDayStreak, Name: "30-Day Streak", Description: "30日連続で学習しました。", IconPath: "badges/streak_30.png", XPReward: 300},
		{BadgeID: 4, Name: "First Course Completed", Description: "初めてコースを修了しました。", IconPath: "badges/first_course.png", XPReward: 100},
		{BadgeID: 5, Name: "Quiz Master", Description: "多くのクイズに正解しました。", IconPath: "badges/quiz_master.png", XPReward: 150},
		{BadgeID: 6, Name: "Perfect Score", Description: "クイズで満点を取りました。", IconPath: "badges/perfect_score.png", XPReward: 50},
		{BadgeID: 7, Name: "Knowledge Seeker", Description: "多くのレッスンを閲覧しました。", IconPath: "badges/knowledge_seeker.png", XPReward: 75},
		{BadgeID: 8, Name: "Dedicated Learner", Description: "長時間の学習を達成しました。", IconPath: "badges/dedicated_learner.png", XPReward: 200},
	}
}

// SeedBadgeCatalog はカタログを投入します。既存のIDは内容を上書きします。
func SeedBadgeCatalog(ctx context.Context, db *gorm.DB, repo BadgeRepository) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return repo.UpsertCatalog(ctx, tx, DefaultBadgeCatalog())
	})
}
