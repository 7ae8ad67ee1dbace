package models

import (
	"time"
)

// User is an account row. The password hash is never serialized.
type User struct {
	UserID       string    `gorm:"type:char(36);primaryKey" json:"user_id"`
	Username     string    `gorm:"size:255;not null;uniqueIndex" json:"username"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// PasswordReset is a single-use password reset token with an expiry.
type PasswordReset struct {
	Token     string     `gorm:"type:char(36);primaryKey" json:"token"`
	UserID    string     `gorm:"type:char(36);not null;index" json:"user_id"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// TableName overrides the table name for PasswordReset
func (PasswordReset) TableName() string {
	return "password_resets"
}
