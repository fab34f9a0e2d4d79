//go:generate mockery --name BadgeRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"course_quest/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BadgeRepository interface {
	FindByID(ctx context.Context, db *gorm.DB, badgeID uint) (*model.Badge, error)
	ListAll(ctx context.Context, db *gorm.DB) ([]*model.Badge, error)
	// Award は (user_id, badge_id) がまだなければ付与し、今回新たに付与したかを返します。
	Award(ctx context.Context, tx *gorm.DB, userBadge *model.UserBadge) (bool, error)
	ListEarned(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.EarnedBadge, error)
	// UpsertCatalog はカタログを名前・説明・報酬ごと上書きします (シード用)。
	UpsertCatalog(ctx context.Context, tx *gorm.DB, badges []*model.Badge) error
}

type gormBadgeRepository struct{}

func NewGormBadgeRepository() BadgeRepository {
	return &gormBadgeRepository{}
}

func (r *gormBadgeRepository) FindByID(ctx context.Context, db *gorm.DB, badgeID uint) (*model.Badge, error) {
	var badge model.Badge
	result := db.WithContext(ctx).Where("badge_id = ?", badgeID).First(&badge)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("gormBadgeRepository.FindByID: %w", result.Error)
	}
	return &badge, nil
}

func (r *gormBadgeRepository) ListAll(ctx context.Context, db *gorm.DB) ([]*model.Badge, error) {
	var badges []*model.Badge
	if err := db.WithContext(ctx).Order("badge_id ASC").Find(&badges).Error; err != nil {
		return nil, fmt.Errorf("gormBadgeRepository.ListAll: %w", err)
	}
	return badges, nil
}

func (r *gormBadgeRepository) Award(ctx context.Context, tx *gorm.DB, userBadge *model.UserBadge) (bool, error) {
	result := tx.WithContext(ctx).
		Omit("User").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "badge_id"}},
			DoNothing: true,
		}).
		Create(userBadge)
	if result.Error != nil {
		return false, fmt.Errorf("gormBadgeRepository.Award: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *gormBadgeRepository) ListEarned(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.EarnedBadge, error) {
	var earned []*model.EarnedBadge
	// カタログにないバッジも付与記録としては返す
	err := db.WithContext(ctx).
		Table("user_badges").
		Select("user_badges.badge_id, COALESCE(badges.name, '') AS name, COALESCE(badges.description, '') AS description, COALESCE(badges.xp_reward, 0) AS xp_reward, user_badges.awarded_at").
		Joins("LEFT JOIN badges ON badges.badge_id = user_badges.badge_id").
		Where("user_badges.user_id = ?", userID).
		Order("user_badges.awarded_at ASC, user_badges.badge_id ASC").
		Scan(&earned).Error
	if err != nil {
		return nil, fmt.Errorf("gormBadgeRepository.ListEarned: %w", err)
	}
	return earned, nil
}

func (r *gormBadgeRepository) UpsertCatalog(ctx context.Context, tx *gorm.DB, badges []*model.Badge) error {
	if len(badges) == 0 {
		return nil
	}
	result := tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "badge_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "description", "icon_path", "xp_reward", "updated_at"}),
		}).
		Create(&badges)
	if result.Error != nil {
		return fmt.Errorf("gormBadgeRepository.UpsertCatalog: %w", result.Error)
	}
	return nil
}
