package domain

import (
	"context"
	"errors"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
	// ErrInvalidCredentials is returned for unknown email and wrong
	// password alike, so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrNameRequired     = errors.New("user name is required")
	ErrEmailRequired    = errors.New("user email is required")
	ErrInvalidEmail     = errors.New("user email is invalid")
	ErrPasswordRequired = errors.New("user password is required")
)

type CreateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*PublicUser, error)
	Get(ctx context.Context, id string) (*PublicUser, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*PublicUser, error)
	Delete(ctx context.Context, id string) error
	Authenticate(ctx context.Context, email, password string) (*PublicUser, error)
}
