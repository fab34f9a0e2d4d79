package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"course_quest/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ActivityRepository interface {
	FindByUserAndDate(ctx context.Context, db *gorm.DB, userID uuid.UUID, date time.Time) (*model.ActivityRecord, error)
	// UpsertAccumulate は (user_id, activity_date) の行を作成するか、既存行に分数を加算します。
	// 加算は SQL 上で行い、is_active_day と current_streak は record の値で上書きします。
	UpsertAccumulate(ctx context.Context, tx *gorm.DB, record *model.ActivityRecord) error
	ListRecent(ctx context.Context, db *gorm.DB, userID uuid.UUID, limit int) ([]*model.ActivityRecord, error)
	FindLatest(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.ActivityRecord, error)
}

type gormActivityRepository struct{}

func NewGormActivityRepository() ActivityRepository {
	return &gormActivityRepository{}
}

func (r *gormActivityRepository) FindByUserAndDate(ctx context.Context, db *gorm.DB, userID uuid.UUID, date time.Time) (*model.ActivityRecord, error) {
	var record model.ActivityRecord
	result := db.WithContext(ctx).
		Where("user_id = ? AND activity_date = ?", userID, date).
		First(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("gormActivityRepository.FindByUserAndDate: %w", result.Error)
	}
	return &record, nil
}

func (r *gormActivityRepository) UpsertAccumulate(ctx context.Context, tx *gorm.DB, record *model.ActivityRecord) error {
	result := tx.WithContext(ctx).
		Omit("User").
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "activity_date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"time_spent_minutes": gorm.Expr("activity_records.time_spent_minutes + excluded.time_spent_minutes"),
				"is_active_day":      gorm.Expr("excluded.is_active_day"),
				"current_streak":     gorm.Expr("excluded.current_streak"),
				"updated_at":         gorm.Expr("excluded.updated_at"),
			}),
		}).
		Create(record)
	if result.Error != nil {
		return fmt.Errorf("gormActivityRepository.UpsertAccumulate: %w", result.Error)
	}
	return nil
}

func (r *gormActivityRepository) ListRecent(ctx context.Context, db *gorm.DB, userID uuid.UUID, limit int) ([]*model.ActivityRecord, error) {
	var records []*model.ActivityRecord
	result := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("activity_date DESC").
		Limit(limit).
		Find(&records)
	if result.Error != nil {
		return nil, fmt.Errorf("gormActivityRepository.ListRecent: %w", result.Error)
	}
	return records, nil
}

func (r *gormActivityRepository) FindLatest(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.ActivityRecord, error) {
	var record model.ActivityRecord
	result := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("activity_date DESC").
		First(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("gormActivityRepository.FindLatest: %w", result.Error)
	}
	return &record, nil
}
