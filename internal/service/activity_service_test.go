package service_test

import (
	"context"
	"testing"
	"time"

	"course_quest/internal/config"
	"course_quest/internal/model"
	"course_quest/internal/timeutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityService_RecordActivity_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	student := env.createUser(t, model.RoleStudent)
	professor := env.createUser(t, model.RoleProfessor)

	tests := []struct {
		name      string
		principal model.Principal
		minutes   int
		target    error
	}{
		{name: "異常系: 教授は記録できない", principal: professor, minutes: 10, target: model.ErrForbidden},
		{name: "異常系: 0分", principal: student, minutes: 0, target: model.ErrInvalidInput},
		{name: "異常系: 負の分数", principal: student, minutes: -5, target: model.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := env.activity.RecordActivity(ctx, tt.principal, tt.minutes)
			assert.Nil(t, result)
			assertAppError(t, err, tt.target, "")
		})
	}

	assert.Zero(t, env.countRows(t, &model.ActivityRecord{}, "1 = 1"))
}

func TestActivityService_RecordActivity_StreakScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	student := env.createUser(t, model.RoleStudent)

	// 初日
	result, err := env.activity.RecordActivity(ctx, student, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CurrentStreak)
	assert.Equal(t, 20, result.TimeSpentMinutes)
	assert.Equal(t, "2024-05-10", result.ActivityDate)
	assert.Empty(t, result.AwardedBadgeIDs)

	// 翌日
	env.clock.AddDays(1)
	result, err = env.activity.RecordActivity(ctx, student, 15)
	require.NoError(t, err)
	assert.Equal(t, 2, result.CurrentStreak)
	assert.Equal(t, 15, result.TimeSpentMinutes)

	// 1日空けるとリセット
	env.clock.AddDays(2)
	result, err = env.activity.RecordActivity(ctx, student, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CurrentStreak)
	assert.Equal(t, 10, result.TimeSpentMinutes)
	assert.Equal(t, "2024-05-13", result.ActivityDate)

	assert.Equal(t, int64(3), env.countRows(t, &model.ActivityRecord{}, "user_id = ?", student.UserID))
}

func TestActivityService_RecordActivity_SameDayAccumulates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	student := env.createUser(t, model.RoleStudent)

	env.clock.AddDays(-1)
	_, err := env.activity.RecordActivity(ctx, student, 5)
	require.NoError(t, err)
	env.clock.AddDays(1)

	first, err := env.activity.RecordActivity(ctx, student, 12)
	require.NoError(t, err)
	second, err := env.activity.RecordActivity(ctx, student, 30)
	require.NoError(t, err)

	assert.Equal(t, 2, first.CurrentStreak)
	assert.Equal(t, first.CurrentStreak, second.CurrentStreak, "同日の再記録で連続日数は変わらない")
	assert.Equal(t, 42, second.TimeSpentMinutes)
	assert.Equal(t, int64(1), env.countRows(t, &model.ActivityRecord{}, "user_id = ? AND activity_date = ?",
		student.UserID, timeutil.Today(env.clock)))
}

func TestActivityService_RecordActivity_InactiveYesterdayResets(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	student := env.createUser(t, model.RoleStudent)

	// 前日の行はあるが活動日ではない
	yesterday := timeutil.PreviousDay(timeutil.Today(env.clock))
	require.NoError(t, env.db.Create(&model.ActivityRecord{
		ActivityID:    uuid.New(),
		UserID:        student.UserID,
		ActivityDate:  yesterday,
		IsActiveDay:   false,
		CurrentStreak: 5,
	}).Error)

	result, err := env.activity.RecordActivity(ctx, student, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CurrentStreak)
}

func TestActivityService_RecordActivity_StreakFollowsPreviousDay(t *testing.T) {
	tests := []struct {
		name       string
		activeDays []bool // 今日から遡って何日前に活動したか (index 0 = 今日の前日)
		want       int
	}{
		{name: "正常系: 初回は1", activeDays: nil, want: 1},
		{name: "正常系: 3日連続", activeDays: []bool{true, true}, want: 3},
		{name: "正常系: 2日前のみ活動なら1", activeDays: []bool{false, true}, want: 1},
		{name: "正常系: 6日連続", activeDays: []bool{true, true, true, true, true}, want: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			ctx := context.Background()
			student := env.createUser(t, model.RoleStudent)

			// 古い日から順に記録する
			start := env.clock.Now()
			for i := len(tt.activeDays) - 1; i >= 0; i-- {
				if !tt.activeDays[i] {
					continue
				}
				env.clock.Set(start.AddDate(0, 0, -(i + 1)))
				_, err := env.activity.RecordActivity(ctx, student, 10)
				require.NoError(t, err)
			}
			env.clock.Set(start)

			result, err := env.activity.RecordActivity(ctx, student, 10)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.CurrentStreak)
		})
	}
}

func TestActivityService_RecordActivity_AwardsStreakBadge(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	student := env.createUser(t, model.RoleStudent)

	var result *model.ActivityResult
	var err error
	for day := 0; day < 3; day++ {
		result, err = env.activity.RecordActivity(ctx, student, 10)
		require.NoError(t, err)
		env.clock.AddDays(1)
	}
	assert.Equal(t, 3, result.CurrentStreak)
	assert.Equal(t, []uint{config.BadgeIDThreeDayStreak}, result.AwardedBadgeIDs)
	assert.Equal(t, 30, env.xpOf(t, student.UserID))

	// 同じ日にもう一度記録しても再付与されない
	env.clock.AddDays(-1)
	result, err = env.activity.RecordActivity(ctx, student, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, result.CurrentStreak)
	assert.Empty(t, result.AwardedBadgeIDs)
	assert.Equal(t, 30, env.xpOf(t, student.UserID))
	assert.Equal(t, int64(1), env.countRows(t, &model.UserBadge{}, "user_id = ?", student.UserID))
}

func TestActivityService_RecordActivity_UsesConfiguredTimezone(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	student := env.createUser(t, model.RoleStudent)

	// UTC では 5/10 15:30 だが、JST では 5/11 00:30
	env.clock.Set(time.Date(2024, 5, 10, 15, 30, 0, 0, time.UTC))
	result, err := env.activity.RecordActivity(ctx, student, 10)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-11", result.ActivityDate)
}
