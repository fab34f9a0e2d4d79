package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"course_quest/internal/config"
	"course_quest/internal/model"
	"course_quest/internal/repository"
	"course_quest/internal/service"
	"course_quest/internal/timeutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv はインメモリSQLiteと固定時計で組み立てたサービス一式です。
type testEnv struct {
	db    *gorm.DB
	clock *timeutil.FixedClock
	cfg   *config.Config

	userRepo     repository.UserRepository
	activityRepo repository.ActivityRepository
	badgeRepo    repository.BadgeRepository

	ledger      service.XPLedger
	badges      service.BadgeService
	activity    service.ActivityService
	progress    service.ProgressService
	enrollments service.EnrollmentService
	courses     service.CourseService
	questions   service.QuestionService
	dashboard   service.DashboardService
}

// setupTestDB はテストごとに独立したインメモリSQLiteを作成し、マイグレーションします。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "failed to connect database for testing")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 共有キャッシュのロック競合を避けるため接続は1本
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, repository.AutoMigrate(db))
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)

	cfg := config.Default()
	cfg.App.Timezone = "Asia/Tokyo"
	cfg.JWT.SecretKey = "test-secret"
	loc, err := cfg.App.Location()
	require.NoError(t, err)

	// 2024-05-10 09:00 JST
	clock := timeutil.NewFixedClock(time.Date(2024, 5, 10, 9, 0, 0, 0, loc), loc)

	userRepo := repository.NewGormUserRepository()
	courseRepo := repository.NewGormCourseRepository()
	questionRepo := repository.NewGormQuestionRepository()
	enrollmentRepo := repository.NewGormEnrollmentRepository()
	progressRepo := repository.NewGormProgressRepository()
	activityRepo := repository.NewGormActivityRepository()
	badgeRepo := repository.NewGormBadgeRepository()

	require.NoError(t, repository.SeedBadgeCatalog(context.Background(), db, badgeRepo))

	ledger := service.NewXPLedger(userRepo)
	badges := service.NewBadgeService(db, badgeRepo, ledger, clock, cfg)
	enrollments := service.NewEnrollmentService(db, courseRepo, enrollmentRepo, clock)

	return &testEnv{
		db:           db,
		clock:        clock,
		cfg:          cfg,
		userRepo:     userRepo,
		activityRepo: activityRepo,
		badgeRepo:    badgeRepo,
		ledger:       ledger,
		badges:       badges,
		activity:     service.NewActivityService(db, activityRepo, badges, clock),
		progress:     service.NewProgressService(db, questionRepo, progressRepo, ledger, clock, cfg),
		enrollments:  enrollments,
		courses:      service.NewCourseService(db, courseRepo, enrollments),
		questions:    service.NewQuestionService(db, courseRepo, questionRepo),
		dashboard: service.NewDashboardService(db, userRepo, courseRepo, questionRepo,
			enrollmentRepo, progressRepo, activityRepo, badgeRepo, clock),
	}
}

func (e *testEnv) createUser(t *testing.T, role model.Role) model.Principal {
	t.Helper()
	user := &model.User{
		UserID:       uuid.New(),
		Name:         string(role) + "-user",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, e.userRepo.Create(context.Background(), e.db, user))
	return model.Principal{UserID: user.UserID, Role: role}
}

func (e *testEnv) xpOf(t *testing.T, userID uuid.UUID) int {
	t.Helper()
	user, err := e.userRepo.FindByID(context.Background(), e.db, userID)
	require.NoError(t, err)
	return user.XPPoints
}

func (e *testEnv) countRows(t *testing.T, m interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, e.db.Model(m).Where(query, args...).Count(&count).Error)
	return count
}

// quizFixture は教授1人のコース・レッスン・2択問題です。options[0] が正解です。
type quizFixture struct {
	professor model.Principal
	course    *model.Course
	lesson    *model.Lesson
	question  *model.Question
}

func (e *testEnv) createQuiz(t *testing.T) *quizFixture {
	t.Helper()
	ctx := context.Background()
	professor := e.createUser(t, model.RoleProfessor)

	course, err := e.courses.CreateCourse(ctx, professor, &model.CourseRequest{Title: "Go入門"})
	require.NoError(t, err)
	lesson, err := e.courses.CreateLesson(ctx, professor, course.CourseID, &model.LessonRequest{Title: "変数", Content: "var と :="})
	require.NoError(t, err)
	question, err := e.questions.CreateQuestion(ctx, professor, course.CourseID, lesson.LessonID, &model.QuestionRequest{
		QuestionText:   "短縮変数宣言は?",
		QuestionType:   model.QuestionTypeMultipleChoice,
		Options:        []string{":=", "=="},
		CorrectOptions: []int{0},
	})
	require.NoError(t, err)

	return &quizFixture{professor: professor, course: course, lesson: lesson, question: question}
}

func assertAppError(t *testing.T, err error, target error, code string) {
	t.Helper()
	require.Error(t, err)
	if target != nil {
		require.ErrorIs(t, err, target)
	}
	var appErr *model.AppError
	require.ErrorAs(t, err, &appErr)
	if code != "" {
		require.Equal(t, code, appErr.Detail.Code)
	}
}
