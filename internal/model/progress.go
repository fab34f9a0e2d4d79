// internal/model/progress.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// ProgressRecord は回答1回分の記録です。追記のみで、更新・削除はしません。
type ProgressRecord struct {
	ProgressID       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"progress_id"`
	UserID           uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	QuestionID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"question_id"`
	SelectedOptionID *uuid.UUID `gorm:"type:uuid" json:"selected_option_id,omitempty"`
	IsCorrect        bool       `gorm:"not null" json:"is_correct"`
	AnsweredAt       time.Time  `gorm:"not null" json:"answered_at"`

	User           *User         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Question       *Question     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SelectedOption *AnswerOption `gorm:"foreignKey:SelectedOptionID;constraint:OnDelete:SET NULL" json:"-"`
}

func (ProgressRecord) TableName() string {
	return "progress_records"
}

// SubmitAnswerRequest は回答送信リクエストのDTO
type SubmitAnswerRequest struct {
	SelectedOptionID uuid.UUID `json:"selected_option_id" validate:"required"`
}

// AnswerResult は回答の判定結果です。
type AnswerResult struct {
	IsCorrect bool `json:"is_correct"`
	XPAwarded int  `json:"xp_awarded"`
}

// AnswerStats はユーザーの回答数の集計です。
type AnswerStats struct {
	Total   int64 `json:"total"`
	Correct int64 `json:"correct"`
}
