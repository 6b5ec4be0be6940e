package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// User roles. Author accounts are protected from moderation actions.
const (
	RoleAdmin  = "admin"
	RoleAuthor = "author"
	RoleReader = "reader"
)

// Account statuses toggled by moderation.
const (
	StatusActive = "active"
	StatusBanned = "banned"
)

type User struct {
	gorm.Model `json:"-"`
	ID         uint   `json:"id" gorm:"primaryKey"`
	Name       string `json:"name"`
	Email      string `json:"email" gorm:"uniqueIndex"` // Ensure email is unique across all users
	Password   string `json:"-"`                        // Store hashed password, ignore for JSON serialization
	// Pointer so local accounts store NULL instead of ""; the unique
	// index would otherwise reject every local signup after the first.
	FirebaseUID   *string `json:"firebase_uid,omitempty" gorm:"uniqueIndex"` // Link to Firebase User UID
	Role          string  `json:"role" gorm:"size:20;default:reader"`
	AccountStatus string  `json:"account_status" gorm:"size:10;default:active"`
}

// IsBanned reports whether the user is currently banned
func (u *User) IsBanned() bool {
	return u.AccountStatus == StatusBanned
}

// UserCompact is the public shape of a user embedded in other resources
type UserCompact struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// ToCompact strips a user down to its public fields
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:   u.ID,
		Name: u.Name,
		Role: u.Role,
	}
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type FirebaseLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
	Name    string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
}

type UpdateUserRequest struct {
	Name  string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
