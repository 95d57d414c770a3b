package service

import (
	"context"
	"net/mail"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/costwatch/costwatch/internal/auth/password"
	userdomain "github.com/costwatch/costwatch/internal/user/domain"
	"github.com/costwatch/costwatch/pkg/db"
	"github.com/costwatch/costwatch/pkg/repository"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  repository.Repository[userdomain.User]
}

func NewService(p ServiceParam) userdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("user.service"),
		genID: p.GenID,
		repo:  repository.ProvideStore[userdomain.User](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req userdomain.CreateRequest) (*userdomain.PublicUser, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, userdomain.ErrNameRequired
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Password) == "" {
		return nil, userdomain.ErrPasswordRequired
	}

	existing, err := s.repo.FindOne(ctx, &userdomain.User{Email: email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, userdomain.ErrUserExists
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &userdomain.User{
		ID:           s.genID.Generate(),
		ExternalID:   uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, userdomain.ErrUserExists
		}
		return nil, err
	}

	return user.Public(), nil
}

func (s *Service) Get(ctx context.Context, id string) (*userdomain.PublicUser, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

func (s *Service) Update(ctx context.Context, id string, req userdomain.UpdateRequest) (*userdomain.PublicUser, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, userdomain.ErrNameRequired
		}
		user.Name = name
	}
	if req.Email != nil {
		email, err := normalizeEmail(*req.Email)
		if err != nil {
			return nil, err
		}
		user.Email = email
	}

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, userdomain.ErrUserExists
		}
		return nil, err
	}
	return user.Public(), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	user, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, user.ID.String())
}

func (s *Service) Authenticate(ctx context.Context, email, plaintext string) (*userdomain.PublicUser, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, userdomain.ErrInvalidCredentials
	}
	if plaintext == "" {
		return nil, userdomain.ErrInvalidCredentials
	}

	user, err := s.repo.FindOne(ctx, &userdomain.User{Email: normalized})
	if err != nil {
		return nil, err
	}
	if user == nil || !password.Verify(plaintext, user.PasswordHash) {
		return nil, userdomain.ErrInvalidCredentials
	}

	return user.Public(), nil
}

func (s *Service) find(ctx context.Context, id string) (*userdomain.User, error) {
	userID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, userdomain.ErrUserNotFound
	}

	user, err := s.repo.FindOne(ctx, &userdomain.User{ID: userID})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, userdomain.ErrUserNotFound
	}
	return user, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", userdomain.ErrEmailRequired
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", userdomain.ErrInvalidEmail
	}
	return email, nil
}
