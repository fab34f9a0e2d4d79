package service

import (
	"context"
	"errors"

	"course_quest/internal/middleware"
	"course_quest/internal/model"
	"course_quest/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseService interface {
	ListCourses(ctx context.Context, principal model.Principal) ([]*model.Course, error)
	CreateCourse(ctx context.Context, principal model.Principal, req *model.CourseRequest) (*model.Course, error)
	// GetCourse はレッスン一覧付きでコースを返し、学生の場合は閲覧を記録します。
	GetCourse(ctx context.Context, principal model.Principal, courseID uuid.UUID) (*model.Course, error)
	UpdateCourse(ctx context.Context, principal model.Principal, courseID uuid.UUID, req *model.CourseRequest) (*model.Course, error)
	DeleteCourse(ctx context.Context, principal model.Principal, courseID uuid.UUID) error

	CreateLesson(ctx context.Context, principal model.Principal, courseID uuid.UUID, req *model.LessonRequest) (*model.Lesson, error)
	GetLesson(ctx context.Context, principal model.Principal, courseID, lessonID uuid.UUID) (*model.Lesson, error)
	UpdateLesson(ctx context.Context, principal model.Principal, courseID, lessonID uuid.UUID, req *model.LessonRequest) (*model.Lesson, error)
	DeleteLesson(ctx context.Context, principal model.Principal, courseID, lessonID uuid.UUID) error
}

type courseService struct {
	db          *gorm.DB
	courseRepo  repository.CourseRepository
	enrollments EnrollmentService
}

func NewCourseService(db *gorm.DB, courseRepo repository.CourseRepository, enrollments EnrollmentService) CourseService {
	return &courseService{
		db:          db,
		courseRepo:  courseRepo,
		enrollments: enrollments,
	}
}

// requireCourseOwner はコースが存在し、principal がその担当教授であることを確認します。
func requireCourseOwner(ctx context.Context, db *gorm.DB, courseRepo repository.CourseRepository, principal model.Principal, courseID uuid.UUID) (*model.Course, error) {
	logger := middleware.GetLogger(ctx).With("course_id", courseID)

	if !principal.IsProfessor() {
		logger.Warn("Non-professor attempted to modify course content", "role", principal.Role)
		return nil, model.NewAppError("FORBIDDEN", "この操作は教授のみ実行できます。", "", model.ErrForbidden)
	}
	course, err := courseRepo.FindCourseByID(ctx, db, courseID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Course not found")
			return nil, model.NewAppError("COURSE_NOT_FOUND", "コースが見つかりません。", "", model.ErrNotFound)
		}
		logger.Error("Failed to find course", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "コースの取得に失敗しました。", "", err)
	}
	if course.ProfessorID != principal.UserID {
		logger.Warn("Professor is not the owner of the course", "owner_id", course.ProfessorID)
		return nil, model.NewAppError("FORBIDDEN", "このコースを編集する権限がありません。", "", model.ErrForbidden)
	}
	return course, nil
}

func (s *courseService) ListCourses(ctx context.Context, principal model.Principal) ([]*model.Course, error) {
	logger := middleware.GetLogger(ctx)

	var courses []*model.Course
	var err error
	if principal.IsProfessor() {
		courses, err = s.courseRepo.ListByProfessor(ctx, s.db, principal.UserID)
	} else {
		courses, err = s.courseRepo.ListByStudent(ctx, s.db, principal.UserID)
	}
	if err != nil {
		logger.Error("Failed to list courses", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "コース一覧の取得に失敗しました。", "", err)
	}
	logger.Info("Successfully retrieved courses", "count", len(courses))
	return courses, nil
}

func (s *courseService) CreateCourse(ctx context.Context, principal model.Principal, req *model.CourseRequest) (*model.Course, error) {
	logger := middleware.GetLogger(ctx)

	if !principal.IsProfessor() {
		logger.Warn("Non-professor attempted to create course")
		return nil, model.NewAppError("FORBIDDEN", "コースを作成できるのは教授のみです。", "", model.ErrForbidden)
	}

	course := &model.Course{
		CourseID:         uuid.New(),
		ProfessorID:      principal.UserID,
		Title:            req.Title,
		Description:      req.Description,
		TotalHours:       req.TotalHours,
		UploadedFilePath: req.UploadedFilePath,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.courseRepo.CreateCourse(ctx, tx, course)
	})
	if err != nil {
		logger.Error("Failed to create course", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "コースの作成に失敗しました。", "", err)
	}

	logger.Info("Course created", "course_id", course.CourseID)
	return course, nil
}

func (s *courseService) GetCourse(ctx context.Context, principal model.Principal, courseID uuid.UUID) (*model.Course, error) {
	logger := middleware.GetLogger(ctx).With("course_id", courseID)

	course, err := s.courseRepo.FindCourseWithLessons(ctx, s.db, courseID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Course not found")
			return nil, model.NewAppError("COURSE_NOT_FOUND", "コースが見つかりません。", "", model.ErrNotFound)
		}
		logger.Error("Failed to find course", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "コースの取得に失敗しました。", "", err)
	}
	if principal.IsProfessor() && course.ProfessorID != principal.UserID {
		logger.Warn("Professor attempted to view another professor's course")
		return nil, model.NewAppError("FORBIDDEN", "このコースを閲覧する権限がありません。", "", model.ErrForbidden)
	}

	if err := s.enrollments.RecordView(ctx, principal, courseID); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *courseService) UpdateCourse(ctx context.Context, principal model.Principal, courseID uuid.UUID, req *model.CourseRequest) (*model.Course, error) {
	logger := middleware.GetLogger(ctx).With("course_id", courseID)

	var updated *model.Course
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		course, err := requireCourseOwner(ctx, tx, s.courseRepo, principal, courseID)
		if err != nil {
			return err
		}
		course.Title = req.Title
		course.Description = req.Description
		course.TotalHours = req.TotalHours
		course.UploadedFilePath = req.UploadedFilePath
		if err := s.courseRepo.UpdateCourse(ctx, tx, course); err != nil {
			logger.Error("Failed to update course", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "コースの更新に失敗しました。", "", err)
		}
		updated = course
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Course updated")
	return updated, nil
}

func (s *courseService) DeleteCourse(ctx context.Context, principal model.Principal, courseID uuid.UUID) error {
	logger := middleware.GetLogger(ctx).With("course_id", courseID)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := requireCourseOwner(ctx, tx, s.courseRepo, principal, courseID); err != nil {
			return err
		}
		if err := s.courseRepo.DeleteCourse(ctx, tx, courseID); err != nil {
			logger.Error("Failed to delete course", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "コースの削除に失敗しました。", "", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.Info("Course deleted")
	return nil
}

func (s *courseService) CreateLesson(ctx context.Context, principal model.Principal, courseID uuid.UUID, req *model.LessonRequest) (*model.Lesson, error) {
	logger := middleware.GetLogger(ctx).With("course_id", courseID)

	lesson := &model.Lesson{
		LessonID: uuid.New(),
		CourseID: courseID,
		Title:    req.Title,
		Content:  req.Content,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := requireCourseOwner(ctx, tx, s.courseRepo, principal, courseID); err != nil {
			return err
		}
		if err := s.courseRepo.CreateLesson(ctx, tx, lesson); err != nil {
			logger.Error("Failed to create lesson", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "レッスンの作成に失敗しました。", "", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Lesson created", "lesson_id", lesson.LessonID)
	return lesson, nil
}

func (s *courseService) GetLesson(ctx context.Context, principal model.Principal, courseID, lessonID uuid.UUID) (*model.Lesson, error) {
	logger := middleware.GetLogger(ctx).With("course_id", courseID, "lesson_id", lessonID)

	if principal.IsProfessor() {
		if _, err := requireCourseOwner(ctx, s.db, s.courseRepo, principal, courseID); err != nil {
			return nil, err
		}
	}

	lesson, err := s.courseRepo.FindLesson(ctx, s.db, courseID, lessonID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Lesson not found in course")
			return nil, model.NewAppError("LESSON_NOT_FOUND", "レッスンが見つかりません。", "", model.ErrNotFound)
		}
		logger.Error("Failed to find lesson", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "レッスンの取得に失敗しました。", "", err)
	}

	// 学生には正解を見せない
	if principal.IsStudent() {
		for qi := range lesson.Questions {
			for oi := range lesson.Questions[qi].Options {
				lesson.Questions[qi].Options[oi].IsCorrect = false
			}
		}
	}
	return lesson, nil
}

func (s *courseService) UpdateLesson(ctx context.Context, principal model.Principal, courseID, lessonID uuid.UUID, req *model.LessonRequest) (*model.Lesson, error) {
	logger := middleware.GetLogger(ctx).With("course_id", courseID, "lesson_id", lessonID)

	var updated *model.Lesson
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lesson, err := s.ownedLesson(ctx, tx, principal, courseID, lessonID)
		if err != nil {
			return err
		}
		lesson.Title = req.Title
		lesson.Content = req.Content
		if err := s.courseRepo.UpdateLesson(ctx, tx, lesson); err != nil {
			logger.Error("Failed to update lesson", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "レッスンの更新に失敗しました。", "", err)
		}
		updated = lesson
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Lesson updated")
	return updated, nil
}

func (s *courseService) DeleteLesson(ctx context.Context, principal model.Principal, courseID, lessonID uuid.UUID) error {
	logger := middleware.GetLogger(ctx).With("course_id", courseID, "lesson_id", lessonID)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.ownedLesson(ctx, tx, principal, courseID, lessonID); err != nil {
			return err
		}
		if err := s.courseRepo.DeleteLesson(ctx, tx, lessonID); err != nil {
			logger.Error("Failed to delete lesson", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "レッスンの削除に失敗しました。", "", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.Info("Lesson deleted")
	return nil
}

func (s *courseService) ownedLesson(ctx context.Context, tx *gorm.DB, principal model.Principal, courseID, lessonID uuid.UUID) (*model.Lesson, error) {
	return findOwnedLesson(ctx, tx, s.courseRepo, principal, courseID, lessonID)
}

// findOwnedLesson はコースの所有者チェックをした上で、コースに属するレッスンを返します。
func findOwnedLesson(ctx context.Context, tx *gorm.DB, courseRepo repository.CourseRepository, principal model.Principal, courseID, lessonID uuid.UUID) (*model.Lesson, error) {
	if _, err := requireCourseOwner(ctx, tx, courseRepo, principal, courseID); err != nil {
		return nil, err
	}
	lesson, err := courseRepo.FindLesson(ctx, tx, courseID, lessonID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("LESSON_NOT_FOUND", "レッスンが見つかりません。", "", model.ErrNotFound)
		}
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "レッスンの取得に失敗しました。", "", err)
	}
	return lesson, nil
}
