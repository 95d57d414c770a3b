package domain

import (
	"context"
	"errors"
)

var (
	ErrEntryNotFound = errors.New("usage entry not found")
	ErrInvalidValue  = errors.New("usage and cost must be non-negative numbers")
	ErrDateRequired  = errors.New("usage date is required")
)

type RecordRequest struct {
	Date  string  `json:"date"`
	Usage float64 `json:"usage"`
	Cost  float64 `json:"cost"`
}

// UpdateRequest merges only the provided fields onto an entry.
type UpdateRequest struct {
	Date  *string  `json:"date"`
	Usage *float64 `json:"usage"`
	Cost  *float64 `json:"cost"`
}

type Service interface {
	Record(ctx context.Context, integrationID string, req RecordRequest) (*Entry, error)
	List(ctx context.Context, integrationID string) ([]Entry, error)
	ListRange(ctx context.Context, integrationID, start, end string) ([]Entry, error)
	UpdateAt(ctx context.Context, integrationID, position string, req UpdateRequest) (*Entry, error)
	DeleteAt(ctx context.Context, integrationID, position string) (*Entry, error)
}
