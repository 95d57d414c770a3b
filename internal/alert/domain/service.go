package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrAlertNotFound             = errors.New("alert not found")
	ErrInvalidThreshold          = errors.New("alert threshold must be a number")
	ErrInvalidType               = errors.New("alert type must be usage or cost")
	ErrInvalidNotificationMethod = errors.New("notification method must be email or slack")
)

type CreateRequest struct {
	IntegrationID      string             `json:"integration_id"`
	Threshold          float64            `json:"threshold"`
	Type               Type               `json:"type"`
	NotificationMethod NotificationMethod `json:"notification_method"`
}

// UpdateRequest merges threshold and notification method only;
// integration id and type are immutable after creation.
type UpdateRequest struct {
	Threshold          *float64            `json:"threshold"`
	NotificationMethod *NotificationMethod `json:"notification_method"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Alert, error)
	Get(ctx context.Context, id string) (*Alert, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Alert, error)
	Delete(ctx context.Context, id string) error
	ListByIntegration(ctx context.Context, integrationID string) ([]Alert, error)

	// EvaluateForIntegration recomputes the integration's usage and cost
	// totals from the full ledger and flips matching alerts to
	// triggered. Idempotent and monotonic.
	EvaluateForIntegration(ctx context.Context, integrationID snowflake.ID) error
}
