package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	alertdomain "github.com/costwatch/costwatch/internal/alert/domain"
	integrationdomain "github.com/costwatch/costwatch/internal/integration/domain"
	"github.com/costwatch/costwatch/internal/ownerctx"
	usagedomain "github.com/costwatch/costwatch/internal/usage/domain"
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

	repo      repository.Repository[integrationdomain.Integration]
	usageRepo repository.Repository[usagedomain.Entry]
	alertRepo repository.Repository[alertdomain.Alert]
}

func NewService(p ServiceParam) integrationdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("integration.service"),
		genID: p.GenID,

		repo:      repository.ProvideStore[integrationdomain.Integration](p.DB),
		usageRepo: repository.ProvideStore[usagedomain.Entry](p.DB),
		alertRepo: repository.ProvideStore[alertdomain.Alert](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req integrationdomain.CreateRequest) (*integrationdomain.Integration, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, integrationdomain.ErrNameRequired
	}
	kind := strings.TrimSpace(req.Type)
	if kind == "" {
		return nil, integrationdomain.ErrTypeRequired
	}

	apiKey := strings.TrimSpace(req.APIKey)
	if apiKey == "" {
		apiKey = uuid.NewString()
	}

	integration := &integrationdomain.Integration{
		ID:      s.genID.Generate(),
		OwnerID: callerOwner(ctx),
		Name:    name,
		Type:    kind,
		APIKey:  apiKey,
	}

	if err := s.repo.Create(ctx, integration); err != nil {
		return nil, err
	}

	return integration, nil
}

func (s *Service) Get(ctx context.Context, id string) (*integrationdomain.Integration, error) {
	integrationID, err := parseID(id)
	if err != nil {
		return nil, integrationdomain.ErrIntegrationNotFound
	}

	integration, err := s.repo.FindOne(ctx, &integrationdomain.Integration{ID: integrationID})
	if err != nil {
		return nil, err
	}
	if integration == nil {
		return nil, integrationdomain.ErrIntegrationNotFound
	}
	return integration, nil
}

func (s *Service) Update(ctx context.Context, id string, req integrationdomain.UpdateRequest) (*integrationdomain.Integration, error) {
	integration, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Type != nil && strings.TrimSpace(*req.Type) != integration.Type {
		return nil, integrationdomain.ErrTypeImmutable
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, integrationdomain.ErrNameRequired
		}
		integration.Name = name
	}
	if req.APIKey != nil {
		integration.APIKey = strings.TrimSpace(*req.APIKey)
	}

	if err := s.db.WithContext(ctx).Save(integration).Error; err != nil {
		return nil, err
	}
	return integration, nil
}

// Delete removes the integration together with its usage entries and
// alerts, so no dangling references survive.
func (s *Service) Delete(ctx context.Context, id string) error {
	integration, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.usageRepo.WithTrx(tx).DeleteWhere(ctx, &usagedomain.Entry{IntegrationID: integration.ID}); err != nil {
			return err
		}
		if err := s.alertRepo.WithTrx(tx).DeleteWhere(ctx, &alertdomain.Alert{IntegrationID: integration.ID}); err != nil {
			return err
		}
		return s.repo.WithTrx(tx).Delete(ctx, integration.ID.String())
	})
}

func (s *Service) List(ctx context.Context) ([]integrationdomain.Integration, error) {
	owner := callerOwner(ctx)

	var integrations []integrationdomain.Integration
	if err := s.db.WithContext(ctx).
		Where("owner_id = ?", owner).
		Order("id ASC").
		Find(&integrations).Error; err != nil {
		return nil, err
	}
	return integrations, nil
}

func callerOwner(ctx context.Context) snowflake.ID {
	owner, ok := ownerctx.OwnerIDFromContext(ctx)
	if !ok {
		return ownerctx.AnonymousOwner
	}
	return owner
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}
