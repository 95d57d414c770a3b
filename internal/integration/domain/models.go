// Package domain contains core types for the integration registry.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Integration is a registered external API credential tracked for
// usage and cost.
type Integration struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	OwnerID   snowflake.ID `gorm:"index" json:"owner_id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Type      string       `gorm:"type:text;not null" json:"type"`
	APIKey    string       `gorm:"type:text;not null" json:"api_key"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (Integration) TableName() string { return "integrations" }
