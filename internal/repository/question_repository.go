package repository

import (
	"context"
	"errors"
	"fmt"

	"course_quest/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuestionRepository は問題と選択肢の永続化を扱います。
type QuestionRepository interface {
	// Create は問題と選択肢をまとめて保存します。
	Create(ctx context.Context, tx *gorm.DB, question *model.Question) error
	FindByID(ctx context.Context, db *gorm.DB, questionID uuid.UUID) (*model.Question, error)
	FindInLesson(ctx context.Context, db *gorm.DB, lessonID, questionID uuid.UUID) (*model.Question, error)
	// Update は問題本文を更新し、選択肢を入れ替えます。
	Update(ctx context.Context, tx *gorm.DB, question *model.Question) error
	Delete(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) error
	FindOptionByID(ctx context.Context, db *gorm.DB, optionID uuid.UUID) (*model.AnswerOption, error)
	CountByProfessor(ctx context.Context, db *gorm.DB, professorID uuid.UUID) (int64, error)
}

type gormQuestionRepository struct{}

func NewGormQuestionRepository() QuestionRepository {
	return &gormQuestionRepository{}
}

func (r *gormQuestionRepository) Create(ctx context.Context, tx *gorm.DB, question *model.Question) error {
	// Options は has-many の関連として同じ INSERT 群で作成される
	if err := tx.WithContext(ctx).Create(question).Error; err != nil {
		return fmt.Errorf("gormQuestionRepository.Create: %w", err)
	}
	return nil
}

func (r *gormQuestionRepository) FindByID(ctx context.Context, db *gorm.DB, questionID uuid.UUID) (*model.Question, error) {
	var question model.Question
	result := db.WithContext(ctx).Preload("Options").Where("question_id = ?", questionID).First(&question)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("gormQuestionRepository.FindByID: %w", result.Error)
	}
	return &question, nil
}

func (r *gormQuestionRepository) FindInLesson(ctx context.Context, db *gorm.DB, lessonID, questionID uuid.UUID) (*model.Question, error) {
	var question model.Question
	result := db.WithContext(ctx).
		Preload("Options").
		Where("question_id = ? AND lesson_id = ?", questionID, lessonID).
		First(&question)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("gormQuestionRepository.FindInLesson: %w", result.Error)
	}
	return &question, nil
}

func (r *gormQuestionRepository) Update(ctx context.Context, tx *gorm.DB, question *model.Question) error {
	result := tx.WithContext(ctx).
		Model(&model.Question{}).
		Where("question_id = ?", question.QuestionID).
		Updates(map[string]interface{}{
			"question_text": question.QuestionText,
			"question_type": question.QuestionType,
		})
	if result.Error != nil {
		return fmt.Errorf("gormQuestionRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}

	if err := tx.WithContext(ctx).Where("question_id = ?", question.QuestionID).Delete(&model.AnswerOption{}).Error; err != nil {
		return fmt.Errorf("gormQuestionRepository.Update: delete options: %w", err)
	}
	if len(question.Options) > 0 {
		if err := tx.WithContext(ctx).Create(&question.Options).Error; err != nil {
			return fmt.Errorf("gormQuestionRepository.Update: create options: %w", err)
		}
	}
	return nil
}

func (r *gormQuestionRepository) Delete(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) error {
	result := tx.WithContext(ctx).Where("question_id = ?", questionID).Delete(&model.Question{})
	if result.Error != nil {
		return fmt.Errorf("gormQuestionRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormQuestionRepository) FindOptionByID(ctx context.Context, db *gorm.DB, optionID uuid.UUID) (*model.AnswerOption, error) {
	var option model.AnswerOption
	result := db.WithContext(ctx).Where("option_id = ?", optionID).First(&option)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("gormQuestionRepository.FindOptionByID: %w", result.Error)
	}
	return &option, nil
}

func (r *gormQuestionRepository) CountByProfessor(ctx context.Context, db *gorm.DB, professorID uuid.UUID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&model.Question{}).
		Joins("JOIN lessons ON lessons.lesson_id = questions.lesson_id").
		Joins("JOIN courses ON courses.course_id = lessons.course_id").
		Where("courses.professor_id = ?", professorID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("gormQuestionRepository.CountByProfessor: %w", err)
	}
	return count, nil
}
