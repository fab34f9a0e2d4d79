package model

import (
	"time"

	"github.com/google/uuid"
)

// Role はユーザーの役割です。作成後は変更されません。
type Role string

const (
	RoleStudent   Role = "student"
	RoleProfessor Role = "professor"
)

func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleProfessor
}

// User は学生または教授のアカウントです。XPPoints は減少しません。
type User struct {
	UserID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         Role      `gorm:"type:varchar(20);not null" json:"role"`
	XPPoints     int       `gorm:"not null;default:0" json:"xp_points"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsStudent() bool   { return u.Role == RoleStudent }
func (u *User) IsProfessor() bool { return u.Role == RoleProfessor }

// Principal はリクエストごとに認証済みのユーザーを表し、各サービス呼び出しに明示的に渡されます。
type Principal struct {
	UserID uuid.UUID
	Role   Role
}

func (p Principal) IsStudent() bool   { return p.Role == RoleStudent }
func (p Principal) IsProfessor() bool { return p.Role == RoleProfessor }

type ContextKey string

const (
	PrincipalKey ContextKey = "principal"
)

// RegisterRequest は新規登録APIのリクエストボディの構造体 (DTO)
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     Role   `json:"role" validate:"required,oneof=student professor"`
}

// UserResponse はクライアントに返すユーザー情報の構造体
type UserResponse struct {
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	XPPoints  int       `json:"xp_points"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUserResponse(u *User) *UserResponse {
	return &UserResponse{
		UserID:    u.UserID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		XPPoints:  u.XPPoints,
		CreatedAt: u.CreatedAt,
	}
}
