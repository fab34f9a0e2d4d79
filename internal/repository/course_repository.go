package repository

import (
	"context"
	"errors"
	"fmt"

	"course_quest/internal/middleware"
	"course_quest/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CourseRepository はコースとレッスンの永続化を扱います。
type CourseRepository interface {
	CreateCourse(ctx context.Context, tx *gorm.DB, course *model.Course) error
	FindCourseByID(ctx context.Context, db *gorm.DB, courseID uuid.UUID) (*model.Course, error)
	FindCourseWithLessons(ctx context.Context, db *gorm.DB, courseID uuid.UUID) (*model.Course, error)
	UpdateCourse(ctx context.Context, tx *gorm.DB, course *model.Course) error
	DeleteCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) error
	ListByProfessor(ctx context.Context, db *gorm.DB, professorID uuid.UUID) ([]*model.Course, error)
	ListByStudent(ctx context.Context, db *gorm.DB, studentID uuid.UUID) ([]*model.Course, error)

	CreateLesson(ctx context.Context, tx *gorm.DB, lesson *model.Lesson) error
	// FindLesson はコースに属するレッスンのみを返します。別コースのレッスンは ErrNotFound です。
	FindLesson(ctx context.Context, db *gorm.DB, courseID, lessonID uuid.UUID) (*model.Lesson, error)
	UpdateLesson(ctx context.Context, tx *gorm.DB, lesson *model.Lesson) error
	DeleteLesson(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) error
	CountLessons(ctx context.Context, db *gorm.DB, courseID uuid.UUID) (int64, error)
}

type gormCourseRepository struct{}

func NewGormCourseRepository() CourseRepository {
	return &gormCourseRepository{}
}

func (r *gormCourseRepository) CreateCourse(ctx context.Context, tx *gorm.DB, course *model.Course) error {
	if err := tx.WithContext(ctx).Omit("Lessons", "Professor").Create(course).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error creating course in DB", "error", err, "title", course.Title)
		return fmt.Errorf("gormCourseRepository.CreateCourse: %w", err)
	}
	return nil
}

func (r *gormCourseRepository) FindCourseByID(ctx context.Context, db *gorm.DB, courseID uuid.UUID) (*model.Course, error) {
	var course model.Course
	result := db.WithContext(ctx).Where("course_id = ?", courseID).First(&course)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("gormCourseRepository.FindCourseByID: %w", result.Error)
	}
	return &course, nil
}

func (r *gormCourseRepository) FindCourseWithLessons(ctx context.Context, db *gorm.DB, courseID uuid.UUID) (*model.Course, error) {
	var course model.Course
	result := db.WithContext(ctx).
		Preload("Lessons", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("course_id = ?", courseID).
		First(&course)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("gormCourseRepository.FindCourseWithLessons: %w", result.Error)
	}
	return &course, nil
}

func (r *gormCourseRepository) UpdateCourse(ctx context.Context, tx *gorm.DB, course *model.Course) error {
	result := tx.WithContext(ctx).
		Model(&model.Course{}).
		Where("course_id = ?", course.CourseID).
		Select("title", "description", "total_hours", "uploaded_file_path").
		Updates(course)
	if result.Error != nil {
		return fmt.Errorf("gormCourseRepository.UpdateCourse: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormCourseRepository) DeleteCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) error {
	// レッスン以下は外部キーの ON DELETE CASCADE で削除される
	result := tx.WithContext(ctx).Where("course_id = ?", courseID).Delete(&model.Course{})
	if result.Error != nil {
		return fmt.Errorf("gormCourseRepository.DeleteCourse: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormCourseRepository) ListByProfessor(ctx context.Context, db *gorm.DB, professorID uuid.UUID) ([]*model.Course, error) {
	var courses []*model.Course
	result := db.WithContext(ctx).
		Where("professor_id = ?", professorID).
		Order("created_at DESC").
		Find(&courses)
	if result.Error != nil {
		return nil, fmt.Errorf("gormCourseRepository.ListByProfessor: %w", result.Error)
	}
	return courses, nil
}

func (r *gormCourseRepository) ListByStudent(ctx context.Context, db *gorm.DB, studentID uuid.UUID) ([]*model.Course, error) {
	var courses []*model.Course
	result := db.WithContext(ctx).
		Joins("JOIN enrollments ON enrollments.course_id = courses.course_id").
		Where("enrollments.user_id = ?", studentID).
		Order("courses.created_at DESC").
		Find(&courses)
	if result.Error != nil {
		return nil, fmt.Errorf("gormCourseRepository.ListByStudent: %w", result.Error)
	}
	return courses, nil
}

func (r *gormCourseRepository) CreateLesson(ctx context.Context, tx *gorm.DB, lesson *model.Lesson) error {
	if err := tx.WithContext(ctx).Omit("Questions").Create(lesson).Error; err != nil {
		return fmt.Errorf("gormCourseRepository.CreateLesson: %w", err)
	}
	return nil
}

func (r *gormCourseRepository) FindLesson(ctx context.Context, db *gorm.DB, courseID, lessonID uuid.UUID) (*model.Lesson, error) {
	var lesson model.Lesson
	result := db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Questions.Options").
		Where("lesson_id = ? AND course_id = ?", lessonID, courseID).
		First(&lesson)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("gormCourseRepository.FindLesson: %w", result.Error)
	}
	return &lesson, nil
}

func (r *gormCourseRepository) UpdateLesson(ctx context.Context, tx *gorm.DB, lesson *model.Lesson) error {
	result := tx.WithContext(ctx).
		Model(&model.Lesson{}).
		Where("lesson_id = ?", lesson.LessonID).
		Updates(map[string]interface{}{"title": lesson.Title, "content": lesson.Content})
	if result.Error != nil {
		return fmt.Errorf("gormCourseRepository.UpdateLesson: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormCourseRepository) DeleteLesson(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) error {
	result := tx.WithContext(ctx).Where("lesson_id = ?", lessonID).Delete(&model.Lesson{})
	if result.Error != nil {
		return fmt.Errorf("gormCourseRepository.DeleteLesson: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormCourseRepository) CountLessons(ctx context.Context, db *gorm.DB, courseID uuid.UUID) (int64, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&model.Lesson{}).Where("course_id = ?", courseID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("gormCourseRepository.CountLessons: %w", err)
	}
	return count, nil
}
