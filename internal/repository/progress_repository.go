// internal/repository/progress_repository.go
package repository

import (
	"context"
	"fmt"

	"course_quest/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProgressRepository は回答記録を追記します。更新・削除のメソッドは持ちません。
type ProgressRepository interface {
	Create(ctx context.Context, tx *gorm.DB, record *model.ProgressRecord) error
	StatsByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.AnswerStats, error)
	CountByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) (int64, error)
}

type gormProgressRepository struct {
	// DB接続はService層から渡される想定
}

func NewGormProgressRepository() ProgressRepository {
	return &gormProgressRepository{}
}

func (r *gormProgressRepository) Create(ctx context.Context, tx *gorm.DB, record *model.ProgressRecord) error {
	if err := tx.WithContext(ctx).Omit("User", "Question", "SelectedOption").Create(record).Error; err != nil {
		return fmt.Errorf("gormProgressRepository.Create: %w", err)
	}
	return nil
}

func (r *gormProgressRepository) StatsByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.AnswerStats, error) {
	var stats model.AnswerStats
	err := db.WithContext(ctx).
		Model(&model.ProgressRecord{}).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN is_correct THEN 1 ELSE 0 END), 0) AS correct").
		Where("user_id = ?", userID).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("gormProgressRepository.StatsByUser: %w", err)
	}
	return &stats, nil
}

func (r *gormProgressRepository) CountByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) (int64, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&model.ProgressRecord{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("gormProgressRepository.CountByUser: %w", err)
	}
	return count, nil
}
