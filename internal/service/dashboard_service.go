package service

import (
	"context"
	"errors"

	"course_quest/internal/middleware"
	"course_quest/internal/model"
	"course_quest/internal/repository"
	"course_quest/internal/timeutil"

	"gorm.io/gorm"
)

const (
	dashboardRecentCourses    = 5
	dashboardFavoriteCourses  = 3
	dashboardRecentActivities = 7
)

type DashboardService interface {
	StudentDashboard(ctx context.Context, principal model.Principal) (*model.StudentDashboard, error)
	ProfessorDashboard(ctx context.Context, principal model.Principal) (*model.ProfessorDashboard, error)
}

type dashboardService struct {
	db             *gorm.DB
	userRepo       repository.UserRepository
	courseRepo     repository.CourseRepository
	questionRepo   repository.QuestionRepository
	enrollmentRepo repository.EnrollmentRepository
	progressRepo   repository.ProgressRepository
	activityRepo   repository.ActivityRepository
	badgeRepo      repository.BadgeRepository
	clock          timeutil.Clock
}

func NewDashboardService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	courseRepo repository.CourseRepository,
	questionRepo repository.QuestionRepository,
	enrollmentRepo repository.EnrollmentRepository,
	progressRepo repository.ProgressRepository,
	activityRepo repository.ActivityRepository,
	badgeRepo repository.BadgeRepository,
	clock timeutil.Clock,
) DashboardService {
	return &dashboardService{
		db:             db,
		userRepo:       userRepo,
		courseRepo:     courseRepo,
		questionRepo:   questionRepo,
		enrollmentRepo: enrollmentRepo,
		progressRepo:   progressRepo,
		activityRepo:   activityRepo,
		badgeRepo:      badgeRepo,
		clock:          clock,
	}
}

func (s *dashboardService) StudentDashboard(ctx context.Context, principal model.Principal) (*model.StudentDashboard, error) {
	logger := middleware.GetLogger(ctx).With("user_id", principal.UserID)

	if !principal.IsStudent() {
		return nil, model.NewAppError("FORBIDDEN", "学生用ダッシュボードです。", "", model.ErrForbidden)
	}
	internalErr := func(msg string, err error) error {
		logger.Error(msg, "error", err)
		return model.NewAppError("INTERNAL_SERVER_ERROR", "ダッシュボードの取得に失敗しました。", "", err)
	}

	user, err := s.userRepo.FindByID(ctx, s.db, principal.UserID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("USER_NOT_FOUND", "ユーザーが見つかりません。", "", model.ErrNotFound)
		}
		return nil, internalErr("Failed to find user", err)
	}

	recent, err := s.enrollmentRepo.ListRecentlyViewed(ctx, s.db, principal.UserID, dashboardRecentCourses)
	if err != nil {
		return nil, internalErr("Failed to list recently viewed courses", err)
	}
	favorites, err := s.enrollmentRepo.ListFavorites(ctx, s.db, principal.UserID, dashboardFavoriteCourses)
	if err != nil {
		return nil, internalErr("Failed to list favorite courses", err)
	}
	stats, err := s.progressRepo.StatsByUser(ctx, s.db, principal.UserID)
	if err != nil {
		return nil, internalErr("Failed to aggregate answers", err)
	}
	activities, err := s.activityRepo.ListRecent(ctx, s.db, principal.UserID, dashboardRecentActivities)
	if err != nil {
		return nil, internalErr("Failed to list recent activities", err)
	}
	earned, err := s.badgeRepo.ListEarned(ctx, s.db, principal.UserID)
	if err != nil {
		return nil, internalErr("Failed to list earned badges", err)
	}

	dashboard := &model.StudentDashboard{
		XPPoints:         user.XPPoints,
		CurrentStreak:    s.liveStreak(activities),
		RecentCourses:    toCourseSummaries(recent),
		FavoriteCourses:  toCourseSummaries(favorites),
		Answers:          *stats,
		RecentActivities: make([]model.ActivityResponse, 0, len(activities)),
		Badges:           make([]model.EarnedBadge, 0, len(earned)),
	}
	for _, a := range activities {
		dashboard.RecentActivities = append(dashboard.RecentActivities, model.NewActivityResponse(a))
	}
	for _, b := range earned {
		dashboard.Badges = append(dashboard.Badges, *b)
	}

	logger.Info("Student dashboard built", "xp_points", dashboard.XPPoints, "current_streak", dashboard.CurrentStreak)
	return dashboard, nil
}

// liveStreak は最新の記録が今日か昨日の活動日であればその連続日数を、そうでなければ0を返します。
// activities は日付の降順です。
func (s *dashboardService) liveStreak(activities []*model.ActivityRecord) int {
	if len(activities) == 0 {
		return 0
	}
	latest := activities[0]
	today := timeutil.Today(s.clock)
	if !latest.IsActiveDay {
		return 0
	}
	if latest.ActivityDate.Equal(today) || timeutil.IsYesterday(latest.ActivityDate, today) {
		return latest.CurrentStreak
	}
	return 0
}

func toCourseSummaries(enrollments []*model.Enrollment) []model.CourseSummary {
	summaries := make([]model.CourseSummary, 0, len(enrollments))
	for _, e := range enrollments {
		if e.Course == nil {
			continue
		}
		summaries = append(summaries, model.CourseSummary{
			CourseID:     e.CourseID,
			Title:        e.Course.Title,
			IsFavorite:   e.IsFavorite,
			LastViewedAt: e.LastViewedAt,
		})
	}
	return summaries
}

func (s *dashboardService) ProfessorDashboard(ctx context.Context, principal model.Principal) (*model.ProfessorDashboard, error) {
	logger := middleware.GetLogger(ctx).With("user_id", principal.UserID)

	if !principal.IsProfessor() {
		return nil, model.NewAppError("FORBIDDEN", "教授用ダッシュボードです。", "", model.ErrForbidden)
	}
	internalErr := func(msg string, err error) error {
		logger.Error(msg, "error", err)
		return model.NewAppError("INTERNAL_SERVER_ERROR", "ダッシュボードの取得に失敗しました。", "", err)
	}

	courses, err := s.courseRepo.ListByProfessor(ctx, s.db, principal.UserID)
	if err != nil {
		return nil, internalErr("Failed to list taught courses", err)
	}

	dashboard := &model.ProfessorDashboard{Courses: make([]model.TaughtCourseStats, 0, len(courses))}
	for _, c := range courses {
		lessons, err := s.courseRepo.CountLessons(ctx, s.db, c.CourseID)
		if err != nil {
			return nil, internalErr("Failed to count lessons", err)
		}
		students, err := s.enrollmentRepo.CountStudents(ctx, s.db, c.CourseID)
		if err != nil {
			return nil, internalErr("Failed to count students", err)
		}
		dashboard.Courses = append(dashboard.Courses, model.TaughtCourseStats{
			CourseID:     c.CourseID,
			Title:        c.Title,
			LessonCount:  lessons,
			StudentCount: students,
		})
	}

	if dashboard.TotalStudents, err = s.enrollmentRepo.CountDistinctStudentsByProfessor(ctx, s.db, principal.UserID); err != nil {
		return nil, internalErr("Failed to count distinct students", err)
	}
	if dashboard.TotalQuestions, err = s.questionRepo.CountByProfessor(ctx, s.db, principal.UserID); err != nil {
		return nil, internalErr("Failed to count questions", err)
	}

	logger.Info("Professor dashboard built", "courses", len(dashboard.Courses))
	return dashboard, nil
}
