// Package domain contains core types for user accounts.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// User is the stored account record. The password hash never leaves
// this package's service layer; read paths return PublicUser.
type User struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	ExternalID   string       `gorm:"type:text;not null"`
	Name         string       `gorm:"type:text;not null"`
	Email        string       `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string       `gorm:"type:text;not null" json:"-"`
	CreatedAt    time.Time    `gorm:"not null"`
	UpdatedAt    time.Time    `gorm:"not null"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }

// PublicUser is the client-facing account representation. It has no
// hash field at all, so no serialization path can leak it.
type PublicUser struct {
	ID         snowflake.ID `json:"id"`
	ExternalID string       `json:"external_id"`
	Name       string       `json:"name"`
	Email      string       `json:"email"`
	CreatedAt  time.Time    `json:"created_at"`
}

// Public strips the credential material from a stored user.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:         u.ID,
		ExternalID: u.ExternalID,
		Name:       u.Name,
		Email:      u.Email,
		CreatedAt:  u.CreatedAt,
	}
}
