package model

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout は ActivityDate を文字列で扱うときの形式です。
const DateLayout = "2006-01-02"

// ActivityRecord はユーザーごと・暦日ごとに1行の学習記録です。
// ActivityDate は設定タイムゾーンでの暦日を UTC の0時で表したものです。
type ActivityRecord struct {
	ActivityID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"activity_id"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_activity_user_date" json:"user_id"`
	ActivityDate     time.Time `gorm:"type:date;not null;uniqueIndex:uq_activity_user_date" json:"activity_date"`
	TimeSpentMinutes int       `gorm:"not null" json:"time_spent_minutes"`
	IsActiveDay      bool      `gorm:"not null" json:"is_active_day"`
	CurrentStreak    int       `gorm:"not null" json:"current_streak"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	User *User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (ActivityRecord) TableName() string {
	return "activity_records"
}

// RecordActivityRequest は学習時間記録リクエストのDTO
type RecordActivityRequest struct {
	TimeSpentMinutes int `json:"time_spent_minutes" validate:"required,min=1"`
}

// ActivityResult は学習記録後の状態です。
type ActivityResult struct {
	ActivityDate     string `json:"activity_date"`
	CurrentStreak    int    `json:"current_streak"`
	TimeSpentMinutes int    `json:"time_spent_minutes"`
	AwardedBadgeIDs  []uint `json:"awarded_badge_ids"`
}

// ActivityResponse はダッシュボード表示用の日別記録です。
type ActivityResponse struct {
	ActivityDate     string `json:"activity_date"`
	TimeSpentMinutes int    `json:"time_spent_minutes"`
	IsActiveDay      bool   `json:"is_active_day"`
	CurrentStreak    int    `json:"current_streak"`
}

func NewActivityResponse(a *ActivityRecord) ActivityResponse {
	return ActivityResponse{
		ActivityDate:     a.ActivityDate.Format(DateLayout),
		TimeSpentMinutes: a.TimeSpentMinutes,
		IsActiveDay:      a.IsActiveDay,
		CurrentStreak:    a.CurrentStreak,
	}
}
