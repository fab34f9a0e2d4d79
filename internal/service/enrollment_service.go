package service

import (
	"context"
	"errors"

	"course_quest/internal/middleware"
	"course_quest/internal/model"
	"course_quest/internal/repository"
	"course_quest/internal/timeutil"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EnrollmentService interface {
	// Enroll は受講登録します。登録済みなら ErrAlreadyEnrolled を返します。
	Enroll(ctx context.Context, principal model.Principal, courseID uuid.UUID) (*model.EnrollResponse, error)
	// RecordView は学生の最終閲覧日時を記録します。教授の場合は何もしません。
	RecordView(ctx context.Context, principal model.Principal, courseID uuid.UUID) error
	// ToggleFavorite はお気に入りを反転します。未登録なら ErrNotEnrolled を返します。
	ToggleFavorite(ctx context.Context, principal model.Principal, courseID uuid.UUID) (*model.FavoriteResponse, error)
}

type enrollmentService struct {
	db             *gorm.DB
	courseRepo     repository.CourseRepository
	enrollmentRepo repository.EnrollmentRepository
	clock          timeutil.Clock
}

func NewEnrollmentService(db *gorm.DB, courseRepo repository.CourseRepository, enrollmentRepo repository.EnrollmentRepository, clock timeutil.Clock) EnrollmentService {
	return &enrollmentService{
		db:             db,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		clock:          clock,
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, principal model.Principal, courseID uuid.UUID) (*model.EnrollResponse, error) {
	logger := middleware.GetLogger(ctx).With("user_id", principal.UserID, "course_id", courseID)

	if principal.IsProfessor() {
		logger.Warn("Professor attempted to enroll")
		return nil, model.NewAppError("FORBIDDEN", "教授はコースに受講登録できません。", "", model.ErrForbidden)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.courseRepo.FindCourseByID(ctx, tx, courseID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				logger.Warn("Course not found for enrollment")
				return model.NewAppError("COURSE_NOT_FOUND", "コースが見つかりません。", "", model.ErrNotFound)
			}
			logger.Error("Failed to find course", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "コースの取得に失敗しました。", "", err)
		}

		now := s.clock.Now()
		created, err := s.enrollmentRepo.CreateIfAbsent(ctx, tx, &model.Enrollment{
			UserID:   principal.UserID,
			CourseID: courseID,
			AddedAt:  &now,
		})
		if err != nil {
			logger.Error("Failed to create enrollment", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "受講登録に失敗しました。", "", err)
		}
		if !created {
			logger.Info("Already enrolled")
			return model.NewAppError("ALREADY_ENROLLED", "このコースには既に登録済みです。", "", model.ErrAlreadyEnrolled)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Enrolled in course")
	return &model.EnrollResponse{
		CourseID: courseID,
		Status:   "enrolled",
		Message:  "コースに登録しました。",
	}, nil
}

func (s *enrollmentService) RecordView(ctx context.Context, principal model.Principal, courseID uuid.UUID) error {
	if !principal.IsStudent() {
		return nil
	}
	logger := middleware.GetLogger(ctx).With("user_id", principal.UserID, "course_id", courseID)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.enrollmentRepo.TouchLastViewed(ctx, tx, principal.UserID, courseID, s.clock.Now())
	})
	if err != nil {
		logger.Error("Failed to record course view", "error", err)
		return model.NewAppError("INTERNAL_SERVER_ERROR", "閲覧履歴の保存に失敗しました。", "", err)
	}
	logger.Debug("Course view recorded")
	return nil
}

func (s *enrollmentService) ToggleFavorite(ctx context.Context, principal model.Principal, courseID uuid.UUID) (*model.FavoriteResponse, error) {
	logger := middleware.GetLogger(ctx).With("user_id", principal.UserID, "course_id", courseID)

	if principal.IsProfessor() {
		logger.Warn("Professor attempted to toggle favorite")
		return nil, model.NewAppError("FORBIDDEN", "お気に入りは学生のみ利用できます。", "", model.ErrForbidden)
	}

	var isFavorite bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		isFavorite, err = s.enrollmentRepo.ToggleFavorite(ctx, tx, principal.UserID, courseID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				logger.Info("Favorite toggle without enrollment")
				return model.NewAppError("NOT_ENROLLED", "お気に入りに追加するには、先にコースに登録してください。", "", model.ErrNotEnrolled)
			}
			logger.Error("Failed to toggle favorite", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "お気に入りの更新に失敗しました。", "", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	message := "お気に入りから削除しました。"
	if isFavorite {
		message = "お気に入りに追加しました。"
	}
	logger.Info("Favorite toggled", "is_favorite", isFavorite)
	return &model.FavoriteResponse{CourseID: courseID, IsFavorite: isFavorite, Message: message}, nil
}
