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

type EnrollmentRepository interface {
	Find(ctx context.Context, db *gorm.DB, userID, courseID uuid.UUID) (*model.Enrollment, error)
	// CreateIfAbsent は行がなければ作成し、作成したかどうかを返します。
	CreateIfAbsent(ctx context.Context, tx *gorm.DB, enrollment *model.Enrollment) (bool, error)
	// TouchLastViewed は last_viewed_at を更新します。行がなければ作成します。
	TouchLastViewed(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID, at time.Time) error
	// ToggleFavorite は is_favorite を SQL 上で反転し、反転後の値を返します。
	ToggleFavorite(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (bool, error)
	ListRecentlyViewed(ctx context.Context, db *gorm.DB, userID uuid.UUID, limit int) ([]*model.Enrollment, error)
	ListFavorites(ctx context.Context, db *gorm.DB, userID uuid.UUID, limit int) ([]*model.Enrollment, error)
	CountStudents(ctx context.Context, db *gorm.DB, courseID uuid.UUID) (int64, error)
	CountDistinctStudentsByProfessor(ctx context.Context, db *gorm.DB, professorID uuid.UUID) (int64, error)
}

type gormEnrollmentRepository struct{}

func NewGormEnrollmentRepository() EnrollmentRepository {
	return &gormEnrollmentRepository{}
}

func (r *gormEnrollmentRepository) Find(ctx context.Context, db *gorm.DB, userID, courseID uuid.UUID) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	result := db.WithContext(ctx).Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("gormEnrollmentRepository.Find: %w", result.Error)
	}
	return &enrollment, nil
}

func (r *gormEnrollmentRepository) CreateIfAbsent(ctx context.Context, tx *gorm.DB, enrollment *model.Enrollment) (bool, error) {
	result := tx.WithContext(ctx).
		Omit("User", "Course").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoNothing: true,
		}).
		Create(enrollment)
	if result.Error != nil {
		return false, fmt.Errorf("gormEnrollmentRepository.CreateIfAbsent: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *gormEnrollmentRepository) TouchLastViewed(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID, at time.Time) error {
	enrollment := &model.Enrollment{UserID: userID, CourseID: courseID, LastViewedAt: &at}
	result := tx.WithContext(ctx).
		Omit("User", "Course").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_viewed_at"}),
		}).
		Create(enrollment)
	if result.Error != nil {
		return fmt.Errorf("gormEnrollmentRepository.TouchLastViewed: %w", result.Error)
	}
	return nil
}

func (r *gormEnrollmentRepository) ToggleFavorite(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (bool, error) {
	result := tx.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Update("is_favorite", gorm.Expr("NOT is_favorite"))
	if result.Error != nil {
		return false, fmt.Errorf("gormEnrollmentRepository.ToggleFavorite: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return false, model.ErrNotFound
	}

	enrollment, err := r.Find(ctx, tx, userID, courseID)
	if err != nil {
		return false, err
	}
	return enrollment.IsFavorite, nil
}

func (r *gormEnrollmentRepository) ListRecentlyViewed(ctx context.Context, db *gorm.DB, userID uuid.UUID, limit int) ([]*model.Enrollment, error) {
	var enrollments []*model.Enrollment
	result := db.WithContext(ctx).
		Preload("Course").
		Where("user_id = ?", userID).
		// 未閲覧 (NULL) は最後に回す
		Order("last_viewed_at IS NULL, last_viewed_at DESC").
		Limit(limit).
		Find(&enrollments)
	if result.Error != nil {
		return nil, fmt.Errorf("gormEnrollmentRepository.ListRecentlyViewed: %w", result.Error)
	}
	return enrollments, nil
}

func (r *gormEnrollmentRepository) ListFavorites(ctx context.Context, db *gorm.DB, userID uuid.UUID, limit int) ([]*model.Enrollment, error) {
	var enrollments []*model.Enrollment
	result := db.WithContext(ctx).
		Preload("Course").
		Where("user_id = ? AND is_favorite = ?", userID, true).
		Order("added_at IS NULL, added_at DESC").
		Limit(limit).
		Find(&enrollments)
	if result.Error != nil {
		return nil, fmt.Errorf("gormEnrollmentRepository.ListFavorites: %w", result.Error)
	}
	return enrollments, nil
}

func (r *gormEnrollmentRepository) CountStudents(ctx context.Context, db *gorm.DB, courseID uuid.UUID) (int64, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&model.Enrollment{}).Where("course_id = ?", courseID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("gormEnrollmentRepository.CountStudents: %w", err)
	}
	return count, nil
}

func (r *gormEnrollmentRepository) CountDistinctStudentsByProfessor(ctx context.Context, db *gorm.DB, professorID uuid.UUID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Joins("JOIN courses ON courses.course_id = enrollments.course_id").
		Where("courses.professor_id = ?", professorID).
		Distinct("enrollments.user_id").
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("gormEnrollmentRepository.CountDistinctStudentsByProfessor: %w", err)
	}
	return count, nil
}
