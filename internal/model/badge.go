package model

import (
	"time"

	"github.com/google/uuid"
)

// Badge はバッジのカタログです。IDは固定値でシードされます。
type Badge struct {
	BadgeID     uint      `gorm:"primaryKey;autoIncrement:false" json:"badge_id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	IconPath    string    `gorm:"size:255" json:"icon_path,omitempty"`
	XPReward    int       `gorm:"not null" json:"xp_reward"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Badge) TableName() string {
	return "badges"
}

// UserBadge はバッジの付与記録です。(UserID, BadgeID) は一意です。
// カタログにないバッジIDも記録できるよう、badges への外部キーは張りません。
type UserBadge struct {
	UserBadgeID uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_badge_id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_user_badge" json:"user_id"`
	BadgeID     uint      `gorm:"not null;uniqueIndex:uq_user_badge" json:"badge_id"`
	AwardedAt   time.Time `gorm:"not null" json:"awarded_at"`

	User *User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (UserBadge) TableName() string {
	return "user_badges"
}

// EarnedBadge は獲得済みバッジの表示用DTOです。
type EarnedBadge struct {
	BadgeID     uint      `json:"badge_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	XPReward    int       `json:"xp_reward"`
	AwardedAt   time.Time `json:"awarded_at"`
}
