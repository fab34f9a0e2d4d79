package model

import (
	"time"

	"github.com/google/uuid"
)

// QuestionType は問題の形式です。
type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeTrueFalse      QuestionType = "true_false"
	QuestionTypeFillInBlank    QuestionType = "fill_in_blank"
	QuestionTypeMatching       QuestionType = "matching"
)

// Course は教授1人が所有するコースです。削除するとレッスン以下も削除されます。
type Course struct {
	CourseID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"course_id"`
	ProfessorID      uuid.UUID `gorm:"type:uuid;not null;index" json:"professor_id"`
	Title            string    `gorm:"size:255;not null" json:"title"`
	Description      *string   `gorm:"type:text" json:"description,omitempty"`
	TotalHours       *int      `json:"total_hours,omitempty"`
	UploadedFilePath *string   `gorm:"size:255" json:"uploaded_file_path,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Professor *User    `gorm:"foreignKey:ProfessorID;references:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Lessons   []Lesson `gorm:"foreignKey:CourseID;references:CourseID;constraint:OnDelete:CASCADE" json:"lessons,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

type Lesson struct {
	LessonID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"lesson_id"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Questions []Question `gorm:"foreignKey:LessonID;references:LessonID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}

type Question struct {
	QuestionID   uuid.UUID    `gorm:"type:uuid;primaryKey" json:"question_id"`
	LessonID     uuid.UUID    `gorm:"type:uuid;not null;index" json:"lesson_id"`
	QuestionText string       `gorm:"type:text;not null" json:"question_text"`
	QuestionType QuestionType `gorm:"type:varchar(30);not null" json:"question_type"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	Options []AnswerOption `gorm:"foreignKey:QuestionID;references:QuestionID;constraint:OnDelete:CASCADE" json:"options,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// AnswerOption は問題の選択肢です。1つの問題に複数の正解があり得ます。
type AnswerOption struct {
	OptionID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"option_id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	OptionText string    `gorm:"size:255;not null" json:"option_text"`
	IsCorrect  bool      `gorm:"not null" json:"is_correct,omitempty"`
}

func (AnswerOption) TableName() string {
	return "answer_options"
}

// --- リクエストDTO ---

type CourseRequest struct {
	Title            string  `json:"title" validate:"required,min=1,max=255"`
	Description      *string `json:"description,omitempty"`
	TotalHours       *int    `json:"total_hours,omitempty" validate:"omitempty,gte=0"`
	UploadedFilePath *string `json:"uploaded_file_path,omitempty" validate:"omitempty,max=255"`
}

type LessonRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=255"`
	Content string `json:"content" validate:"required"`
}

// QuestionRequest は問題の作成・更新用です。CorrectOptions は Options のインデックスです。
type QuestionRequest struct {
	QuestionText   string       `json:"question_text" validate:"required"`
	QuestionType   QuestionType `json:"question_type" validate:"required,oneof=multiple_choice true_false fill_in_blank matching"`
	Options        []string     `json:"options" validate:"required,min=2,dive,required,max=255"`
	CorrectOptions []int        `json:"correct_options" validate:"required,min=1,dive,gte=0"`
}
