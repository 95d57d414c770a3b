// Package domain contains persistence models for the usage ledger.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Entry is one dated record of consumption and cost for an integration.
// Rows carry a stable synthetic id, but the external contract addresses
// entries by their rank in insertion order (ascending id).
type Entry struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"-"`
	IntegrationID snowflake.ID `gorm:"index;not null" json:"-"`
	// Date is stored as TEXT on purpose: range queries compare the raw
	// strings, matching SQL byte-wise comparison. Non-ISO dates get
	// undefined ordering.
	Date      string    `gorm:"type:text;not null" json:"date"`
	Usage     float64   `gorm:"not null" json:"usage"`
	Cost      float64   `gorm:"not null" json:"cost"`
	CreatedAt time.Time `gorm:"not null" json:"-"`
}

// TableName sets the database table name.
func (Entry) TableName() string { return "usage_entries" }
