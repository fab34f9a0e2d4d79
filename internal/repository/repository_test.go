package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"course_quest/internal/model"
	"course_quest/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

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
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, repository.AutoMigrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, role model.Role) *model.User {
	t.Helper()
	user := &model.User{
		UserID:       uuid.New(),
		Name:         "user-" + string(role),
		Email:        uuid.NewString()[:8] + "@example.com",
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, repository.NewGormUserRepository().Create(context.Background(), db, user))
	return user
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.NewGormUserRepository()
	user := createUser(t, db, model.RoleStudent)

	t.Run("メールアドレス重複は ErrConflict", func(t *testing.T) {
		dup := &model.User{UserID: uuid.New(), Name: "dup", Email: user.Email, PasswordHash: "x", Role: model.RoleStudent}
		err := repo.Create(ctx, db, dup)
		assert.ErrorIs(t, err, model.ErrConflict)
	})

	t.Run("IncrementXP は加算する", func(t *testing.T) {
		require.NoError(t, repo.IncrementXP(ctx, db, user.UserID, 10))
		require.NoError(t, repo.IncrementXP(ctx, db, user.UserID, 30))

		found, err := repo.FindByID(ctx, db, user.UserID)
		require.NoError(t, err)
		assert.Equal(t, 40, found.XPPoints)
	})

	t.Run("存在しないユーザー", func(t *testing.T) {
		_, err := repo.FindByID(ctx, db, uuid.New())
		assert.ErrorIs(t, err, model.ErrNotFound)
		assert.ErrorIs(t, repo.IncrementXP(ctx, db, uuid.New(), 5), model.ErrNotFound)
	})
}

func TestActivityRepository_UpsertAccumulate(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.NewGormActivityRepository()
	user := createUser(t, db, model.RoleStudent)
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	upsert := func(minutes, streak int) {
		t.Helper()
		require.NoError(t, repo.UpsertAccumulate(ctx, db, &model.ActivityRecord{
			ActivityID:       uuid.New(),
			UserID:           user.UserID,
			ActivityDate:     day,
			TimeSpentMinutes: minutes,
			IsActiveDay:      true,
			CurrentStreak:    streak,
		}))
	}

	upsert(20, 1)
	upsert(15, 2)

	record, err := repo.FindByUserAndDate(ctx, db, user.UserID, day)
	require.NoError(t, err)
	assert.Equal(t, 35, record.TimeSpentMinutes)
	assert.Equal(t, 2, record.CurrentStreak)
	assert.True(t, record.IsActiveDay)

	var count int64
	require.NoError(t, db.Model(&model.ActivityRecord{}).Where("user_id = ?", user.UserID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	latest, err := repo.FindLatest(ctx, db, user.UserID)
	require.NoError(t, err)
	assert.Equal(t, record.ActivityID, latest.ActivityID)

	_, err = repo.FindByUserAndDate(ctx, db, user.UserID, day.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestBadgeRepository(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.NewGormBadgeRepository()
	user := createUser(t, db, model.RoleStudent)

	require.NoError(t, repository.SeedBadgeCatalog(ctx, db, repo))
	// 2回目のシードで件数は変わらない
	require.NoError(t, repository.SeedBadgeCatalog(ctx, db, repo))

	badges, err := repo.ListAll(ctx, db)
	require.NoError(t, err)
	require.Len(t, badges, 8)
	assert.Equal(t, 30, badges[0].XPReward)
	assert.Equal(t, 300, badges[2].XPReward)

	award := func(badgeID uint) bool {
		t.Helper()
		created, err := repo.Award(ctx, db, &model.UserBadge{
			UserBadgeID: uuid.New(), UserID: user.UserID, BadgeID: badgeID, AwardedAt: time.Now(),
		})
		require.NoError(t, err)
		return created
	}

	assert.True(t, award(1), "初回は付与される")
	assert.False(t, award(1), "2回目は付与されない")
	assert.True(t, award(99), "カタログにないIDも付与記録は残る")

	earned, err := repo.ListEarned(ctx, db, user.UserID)
	require.NoError(t, err)
	require.Len(t, earned, 2)

	_, err = repo.FindByID(ctx, db, 99)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestEnrollmentRepository(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.NewGormEnrollmentRepository()
	professor := createUser(t, db, model.RoleProfessor)
	student := createUser(t, db, model.RoleStudent)
	course := &model.Course{CourseID: uuid.New(), ProfessorID: professor.UserID, Title: "Go"}
	require.NoError(t, db.Create(course).Error)

	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

	t.Run("未登録のお気に入り切替は ErrNotFound", func(t *testing.T) {
		_, err := repo.ToggleFavorite(ctx, db, student.UserID, course.CourseID)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("CreateIfAbsent は1行だけ作る", func(t *testing.T) {
		created, err := repo.CreateIfAbsent(ctx, db, &model.Enrollment{UserID: student.UserID, CourseID: course.CourseID, AddedAt: &now})
		require.NoError(t, err)
		assert.True(t, created)

		created, err = repo.CreateIfAbsent(ctx, db, &model.Enrollment{UserID: student.UserID, CourseID: course.CourseID, AddedAt: &now})
		require.NoError(t, err)
		assert.False(t, created)

		count, err := repo.CountStudents(ctx, db, course.CourseID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("ToggleFavorite は反転する", func(t *testing.T) {
		fav, err := repo.ToggleFavorite(ctx, db, student.UserID, course.CourseID)
		require.NoError(t, err)
		assert.True(t, fav)

		fav, err = repo.ToggleFavorite(ctx, db, student.UserID, course.CourseID)
		require.NoError(t, err)
		assert.False(t, fav)
	})

	t.Run("TouchLastViewed は added_at を保ったまま更新する", func(t *testing.T) {
		later := now.Add(2 * time.Hour)
		require.NoError(t, repo.TouchLastViewed(ctx, db, student.UserID, course.CourseID, later))

		found, err := repo.Find(ctx, db, student.UserID, course.CourseID)
		require.NoError(t, err)
		require.NotNil(t, found.LastViewedAt)
		require.NotNil(t, found.AddedAt)
		assert.True(t, found.LastViewedAt.Equal(later))
		assert.True(t, found.AddedAt.Equal(now))
	})

	t.Run("TouchLastViewed は行がなければ作る", func(t *testing.T) {
		other := createUser(t, db, model.RoleStudent)
		require.NoError(t, repo.TouchLastViewed(ctx, db, other.UserID, course.CourseID, now))

		found, err := repo.Find(ctx, db, other.UserID, course.CourseID)
		require.NoError(t, err)
		assert.Nil(t, found.AddedAt)

		distinct, err := repo.CountDistinctStudentsByProfessor(ctx, db, professor.UserID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), distinct)
	})
}

// cascadeFixture は1人の学生が1コースに関わる行を一通り持つ状態です。
type cascadeFixture struct {
	professor *model.User
	student   *model.User
	course    *model.Course
	question  *model.Question
	option    *model.AnswerOption
}

func createCascadeFixture(t *testing.T, db *gorm.DB) *cascadeFixture {
	t.Helper()
	ctx := context.Background()
	now := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	f := &cascadeFixture{
		professor: createUser(t, db, model.RoleProfessor),
		student:   createUser(t, db, model.RoleStudent),
	}

	f.course = &model.Course{CourseID: uuid.New(), ProfessorID: f.professor.UserID, Title: "Go"}
	require.NoError(t, db.Create(f.course).Error)
	lesson := &model.Lesson{LessonID: uuid.New(), CourseID: f.course.CourseID, Title: "変数", Content: "var"}
	require.NoError(t, db.Create(lesson).Error)
	f.question = &model.Question{QuestionID: uuid.New(), LessonID: lesson.LessonID, QuestionText: "?", QuestionType: model.QuestionTypeTrueFalse}
	require.NoError(t, db.Create(f.question).Error)
	f.option = &model.AnswerOption{OptionID: uuid.New(), QuestionID: f.question.QuestionID, OptionText: "true", IsCorrect: true}
	require.NoError(t, db.Create(f.option).Error)

	_, err := repository.NewGormEnrollmentRepository().CreateIfAbsent(ctx, db, &model.Enrollment{UserID: f.student.UserID, CourseID: f.course.CourseID, AddedAt: &now})
	require.NoError(t, err)
	require.NoError(t, repository.NewGormProgressRepository().Create(ctx, db, &model.ProgressRecord{
		ProgressID: uuid.New(), UserID: f.student.UserID, QuestionID: f.question.QuestionID,
		SelectedOptionID: &f.option.OptionID, IsCorrect: true, AnsweredAt: now,
	}))
	require.NoError(t, repository.NewGormActivityRepository().UpsertAccumulate(ctx, db, &model.ActivityRecord{
		ActivityID: uuid.New(), UserID: f.student.UserID, ActivityDate: now, TimeSpentMinutes: 15, IsActiveDay: true, CurrentStreak: 1,
	}))
	_, err = repository.NewGormBadgeRepository().Award(ctx, db, &model.UserBadge{UserBadgeID: uuid.New(), UserID: f.student.UserID, BadgeID: 1, AwardedAt: now})
	require.NoError(t, err)
	return f
}

func countWhere(t *testing.T, db *gorm.DB, m interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(m).Where(query, args...).Count(&count).Error)
	return count
}

func TestForeignKeys_PointFromChildToParent(t *testing.T) {
	db := setupTestDB(t)

	type foreignKey struct {
		Table string
		From  string
		To    string
	}
	listFKs := func(table string) []foreignKey {
		var fks []foreignKey
		require.NoError(t, db.Raw(fmt.Sprintf("PRAGMA foreign_key_list(%s)", table)).Scan(&fks).Error)
		return fks
	}

	// 親テーブルは子テーブルを参照しない
	assert.Empty(t, listFKs("users"))
	assert.Empty(t, listFKs("badges"))
	for _, fk := range listFKs("courses") {
		assert.Equal(t, "users", fk.Table)
	}

	tests := []struct {
		child  string
		parent string
		column string
	}{
		{child: "user_badges", parent: "users", column: "user_id"},
		{child: "activity_records", parent: "users", column: "user_id"},
		{child: "enrollments", parent: "users", column: "user_id"},
		{child: "enrollments", parent: "courses", column: "course_id"},
		{child: "progress_records", parent: "users", column: "user_id"},
		{child: "progress_records", parent: "questions", column: "question_id"},
		{child: "progress_records", parent: "answer_options", column: "selected_option_id"},
	}
	for _, tt := range tests {
		t.Run(tt.child+"."+tt.column, func(t *testing.T) {
			var found bool
			for _, fk := range listFKs(tt.child) {
				if fk.From == tt.column {
					found = true
					assert.Equal(t, tt.parent, fk.Table)
				}
			}
			assert.True(t, found, "外部キー %s.%s がありません", tt.child, tt.column)
		})
	}
}

func TestForeignKeys_DeleteParent(t *testing.T) {
	tests := []struct {
		name   string
		delete func(t *testing.T, db *gorm.DB, f *cascadeFixture)
		verify func(t *testing.T, db *gorm.DB, f *cascadeFixture)
	}{
		{
			name: "ユーザー削除で本人の記録が消える",
			delete: func(t *testing.T, db *gorm.DB, f *cascadeFixture) {
				require.NoError(t, db.Where("user_id = ?", f.student.UserID).Delete(&model.User{}).Error)
			},
			verify: func(t *testing.T, db *gorm.DB, f *cascadeFixture) {
				id := f.student.UserID
				assert.Zero(t, countWhere(t, db, &model.UserBadge{}, "user_id = ?", id))
				assert.Zero(t, countWhere(t, db, &model.ActivityRecord{}, "user_id = ?", id))
				assert.Zero(t, countWhere(t, db, &model.ProgressRecord{}, "user_id = ?", id))
				assert.Zero(t, countWhere(t, db, &model.Enrollment{}, "user_id = ?", id))
				// コース側は残る
				assert.Equal(t, int64(1), countWhere(t, db, &model.Course{}, "course_id = ?", f.course.CourseID))
				assert.Equal(t, int64(1), countWhere(t, db, &model.User{}, "user_id = ?", f.professor.UserID))
			},
		},
		{
			name: "コース削除で受講登録と回答記録が消える",
			delete: func(t *testing.T, db *gorm.DB, f *cascadeFixture) {
				require.NoError(t, repository.NewGormCourseRepository().DeleteCourse(context.Background(), db, f.course.CourseID))
			},
			verify: func(t *testing.T, db *gorm.DB, f *cascadeFixture) {
				assert.Zero(t, countWhere(t, db, &model.Enrollment{}, "course_id = ?", f.course.CourseID))
				assert.Zero(t, countWhere(t, db, &model.ProgressRecord{}, "question_id = ?", f.question.QuestionID))
				assert.Zero(t, countWhere(t, db, &model.AnswerOption{}, "option_id = ?", f.option.OptionID))
				// 学生とその学習記録は残る
				assert.Equal(t, int64(1), countWhere(t, db, &model.User{}, "user_id = ?", f.student.UserID))
				assert.Equal(t, int64(1), countWhere(t, db, &model.UserBadge{}, "user_id = ?", f.student.UserID))
				assert.Equal(t, int64(1), countWhere(t, db, &model.ActivityRecord{}, "user_id = ?", f.student.UserID))
			},
		},
		{
			name: "教授削除で担当コース以下が消える",
			delete: func(t *testing.T, db *gorm.DB, f *cascadeFixture) {
				require.NoError(t, db.Where("user_id = ?", f.professor.UserID).Delete(&model.User{}).Error)
			},
			verify: func(t *testing.T, db *gorm.DB, f *cascadeFixture) {
				assert.Zero(t, countWhere(t, db, &model.Course{}, "course_id = ?", f.course.CourseID))
				assert.Zero(t, countWhere(t, db, &model.Enrollment{}, "course_id = ?", f.course.CourseID))
				assert.Equal(t, int64(1), countWhere(t, db, &model.User{}, "user_id = ?", f.student.UserID))
			},
		},
		{
			name: "選択肢削除で回答記録の選択肢がNULLになる",
			delete: func(t *testing.T, db *gorm.DB, f *cascadeFixture) {
				require.NoError(t, db.Where("option_id = ?", f.option.OptionID).Delete(&model.AnswerOption{}).Error)
			},
			verify: func(t *testing.T, db *gorm.DB, f *cascadeFixture) {
				var records []model.ProgressRecord
				require.NoError(t, db.Where("user_id = ?", f.student.UserID).Find(&records).Error)
				require.Len(t, records, 1)
				assert.Nil(t, records[0].SelectedOptionID)
				assert.True(t, records[0].IsCorrect)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			f := createCascadeFixture(t, db)
			tt.delete(t, db, f)
			tt.verify(t, db, f)
		})
	}
}
