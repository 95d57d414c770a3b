package domain

import (
	"context"
	"errors"
)

var (
	ErrIntegrationNotFound = errors.New("integration does not exist")
	ErrNameRequired        = errors.New("integration name is required")
	ErrTypeRequired        = errors.New("integration type is required")
	// ErrTypeImmutable rejects attempts to change an integration's type
	// after creation.
	ErrTypeImmutable = errors.New("integration type cannot be changed")
)

type CreateRequest struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	APIKey string `json:"api_key"`
}

// UpdateRequest is a shallow merge: nil fields are left untouched.
// Type is accepted so clients can echo the record back, but changing it
// is rejected with ErrTypeImmutable.
type UpdateRequest struct {
	Name   *string `json:"name"`
	Type   *string `json:"type"`
	APIKey *string `json:"api_key"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Integration, error)
	Get(ctx context.Context, id string) (*Integration, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Integration, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Integration, error)
}
