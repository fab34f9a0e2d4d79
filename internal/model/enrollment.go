package model

import (
	"time"

	"github.com/google/uuid"
)

// Enrollment は学生とコースの関係です。(UserID, CourseID) で一意になります。
// 受講登録または初回閲覧で作成され、閲覧やお気に入り切り替えで更新されます。
type Enrollment struct {
	UserID       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"user_id"`
	CourseID     uuid.UUID  `gorm:"type:uuid;primaryKey" json:"course_id"`
	IsFavorite   bool       `gorm:"not null" json:"is_favorite"`
	AddedAt      *time.Time `json:"added_at,omitempty"`
	LastViewedAt *time.Time `json:"last_viewed_at,omitempty"`

	User   *User   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Course *Course `gorm:"constraint:OnDelete:CASCADE" json:"course,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

type EnrollResponse struct {
	CourseID uuid.UUID `json:"course_id"`
	Status   string    `json:"status"` // "enrolled" | "already_enrolled"
	Message  string    `json:"message"`
}

type FavoriteResponse struct {
	CourseID   uuid.UUID `json:"course_id"`
	IsFavorite bool      `json:"is_favorite"`
	Message    string    `json:"message"`
}
