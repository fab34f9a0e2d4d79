// internal/config/constants.go
package config

import "time"

// アプリケーション情報
const (
	AppName    = "CourseQuest"
	AppVersion = "1.0.0"
)

// デフォルト設定値
const (
	DefaultServerPort      = ":8080"
	DefaultLogLevel        = "info"
	DefaultTimezone        = "UTC"
	DefaultCorrectAnswerXP = 10
	DefaultAccessTokenTTL  = 24 * time.Hour
	DefaultAuthEnabled     = true
)

// 連続学習バッジのカタログID
const (
	BadgeIDThreeDayStreak  uint = 1
	BadgeIDSevenDayStreak  uint = 2
	BadgeIDThirtyDayStreak uint = 3
)

// DefaultStreakBadgeRules は設定ファイルにルールがない場合の閾値表です。
func DefaultStreakBadgeRules() []StreakBadgeRule {
	return []StreakBadgeRule{
		{MinStreak: 3, BadgeID: BadgeIDThreeDayStreak},
		{MinStreak: 7, BadgeID: BadgeIDSevenDayStreak},
		{MinStreak: 30, BadgeID: BadgeIDThirtyDayStreak},
	}
}
