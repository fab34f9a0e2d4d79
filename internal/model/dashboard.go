package model

import (
	"time"

	"github.com/google/uuid"
)

type CourseSummary struct {
	CourseID     uuid.UUID  `json:"course_id"`
	Title        string     `json:"title"`
	IsFavorite   bool       `json:"is_favorite"`
	LastViewedAt *time.Time `json:"last_viewed_at,omitempty"`
}

type StudentDashboard struct {
	XPPoints         int                `json:"xp_points"`
	CurrentStreak    int                `json:"current_streak"`
	RecentCourses    []CourseSummary    `json:"recent_courses"`
	FavoriteCourses  []CourseSummary    `json:"favorite_courses"`
	Answers          AnswerStats        `json:"answers"`
	RecentActivities []ActivityResponse `json:"recent_activities"`
	Badges           []EarnedBadge      `json:"badges"`
}

// TaughtCourseStats は教授が担当するコースごとの集計です。
type TaughtCourseStats struct {
	CourseID     uuid.UUID `json:"course_id"`
	Title        string    `json:"title"`
	LessonCount  int64     `json:"lesson_count"`
	StudentCount int64     `json:"student_count"`
}

type ProfessorDashboard struct {
	Courses        []TaughtCourseStats `json:"courses"`
	TotalStudents  int64               `json:"total_students"`
	TotalQuestions int64               `json:"total_questions"`
}
