// Package domain contains core types for threshold alerts.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Type selects which running total an alert watches.
type Type string

const (
	TypeUsage Type = "usage"
	TypeCost  Type = "cost"
)

// NotificationMethod is how a triggered alert is delivered.
type NotificationMethod string

const (
	NotifyEmail NotificationMethod = "email"
	NotifySlack NotificationMethod = "slack"
)

// Alert is a threshold rule on an integration's cumulative usage or
// cost. Triggered is monotonic: once set it is never reset by
// evaluation.
type Alert struct {
	ID                 snowflake.ID       `gorm:"primaryKey" json:"id"`
	IntegrationID      snowflake.ID       `gorm:"index;not null" json:"integration_id"`
	Threshold          float64            `gorm:"not null" json:"threshold"`
	Type               Type               `gorm:"type:text;not null" json:"type"`
	NotificationMethod NotificationMethod `gorm:"type:text;not null" json:"notification_method"`
	Triggered          bool               `gorm:"not null;default:false" json:"triggered"`
	CreatedAt          time.Time          `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time          `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (Alert) TableName() string { return "alerts" }

// ValidType reports whether t is a known alert type.
func ValidType(t Type) bool {
	return t == TypeUsage || t == TypeCost
}

// ValidNotificationMethod reports whether m is a known delivery method.
func ValidNotificationMethod(m NotificationMethod) bool {
	return m == NotifyEmail || m == NotifySlack
}
