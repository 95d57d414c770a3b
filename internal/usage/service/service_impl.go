package service

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	alertdomain "github.com/costwatch/costwatch/internal/alert/domain"
	integrationdomain "github.com/costwatch/costwatch/internal/integration/domain"
	obsmetrics "github.com/costwatch/costwatch/internal/observability/metrics"
	usagedomain "github.com/costwatch/costwatch/internal/usage/domain"
	"github.com/costwatch/costwatch/pkg/db/option"
	"github.com/costwatch/costwatch/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	AlertSvc alertdomain.Service
	Metrics  *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	alertsvc alertdomain.Service
	metrics  *obsmetrics.Metrics

	repo            repository.Repository[usagedomain.Entry]
	integrationRepo repository.Repository[integrationdomain.Integration]
}

func NewService(p ServiceParam) usagedomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("usage.service"),
		genID:    p.GenID,
		alertsvc: p.AlertSvc,
		metrics:  p.Metrics,

		repo:            repository.ProvideStore[usagedomain.Entry](p.DB),
		integrationRepo: repository.ProvideStore[integrationdomain.Integration](p.DB),
	}
}

// Record appends an entry to the integration's ledger, then re-evaluates
// that integration's alerts. The append is committed first so the new
// entry is visible to the evaluation; an evaluation failure is logged
// and never surfaced as a failure of the write.
func (s *Service) Record(ctx context.Context, integrationID string, req usagedomain.RecordRequest) (*usagedomain.Entry, error) {
	id, err := s.resolveIntegration(ctx, integrationID)
	if err != nil {
		return nil, err
	}

	if err := validateEntry(req); err != nil {
		return nil, err
	}

	entry := &usagedomain.Entry{
		ID:            s.genID.Generate(),
		IntegrationID: id,
		Date:          strings.TrimSpace(req.Date),
		Usage:         req.Usage,
		Cost:          req.Cost,
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.metrics.IncUsageRecord(id.String())

	if err := s.alertsvc.EvaluateForIntegration(ctx, id); err != nil {
		s.log.Warn("alert evaluation failed after usage record",
			zap.String("integration_id", id.String()),
			zap.Error(err),
		)
	}

	return entry, nil
}

// List returns the integration's entries in insertion order. Unknown
// integrations and empty ledgers both yield an empty slice.
func (s *Service) List(ctx context.Context, integrationID string) ([]usagedomain.Entry, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(integrationID))
	if err != nil {
		return []usagedomain.Entry{}, nil
	}
	return s.entries(ctx, id)
}

// ListRange returns entries whose date satisfies start <= date <= end
// under plain string comparison. The TEXT column keeps the comparison
// byte-wise, matching the recording contract.
func (s *Service) ListRange(ctx context.Context, integrationID, start, end string) ([]usagedomain.Entry, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(integrationID))
	if err != nil {
		return []usagedomain.Entry{}, nil
	}

	entries := make([]usagedomain.Entry, 0)
	if err := s.db.WithContext(ctx).
		Where("integration_id = ? AND date >= ? AND date <= ?", id, start, end).
		Order("id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// UpdateAt merges the provided fields onto the entry at the given
// zero-based position in insertion order.
func (s *Service) UpdateAt(ctx context.Context, integrationID, position string, req usagedomain.UpdateRequest) (*usagedomain.Entry, error) {
	entry, err := s.entryAt(ctx, integrationID, position)
	if err != nil {
		return nil, err
	}

	if req.Date != nil {
		date := strings.TrimSpace(*req.Date)
		if date == "" {
			return nil, usagedomain.ErrDateRequired
		}
		entry.Date = date
	}
	if req.Usage != nil {
		if !validAmount(*req.Usage) {
			return nil, usagedomain.ErrInvalidValue
		}
		entry.Usage = *req.Usage
	}
	if req.Cost != nil {
		if !validAmount(*req.Cost) {
			return nil, usagedomain.ErrInvalidValue
		}
		entry.Cost = *req.Cost
	}

	if err := s.db.WithContext(ctx).Save(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// DeleteAt removes and returns the entry at the given position.
// Subsequent positions shift down; positional ids are not stable across
// deletions.
func (s *Service) DeleteAt(ctx context.Context, integrationID, position string) (*usagedomain.Entry, error) {
	entry, err := s.entryAt(ctx, integrationID, position)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, entry.ID.String()); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *Service) resolveIntegration(ctx context.Context, integrationID string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(integrationID))
	if err != nil {
		return 0, integrationdomain.ErrIntegrationNotFound
	}

	integration, err := s.integrationRepo.FindOne(ctx, &integrationdomain.Integration{ID: id})
	if err != nil {
		return 0, err
	}
	if integration == nil {
		return 0, integrationdomain.ErrIntegrationNotFound
	}
	return id, nil
}

func (s *Service) entries(ctx context.Context, integrationID snowflake.ID) ([]usagedomain.Entry, error) {
	rows, err := s.repo.Find(ctx,
		&usagedomain.Entry{IntegrationID: integrationID},
		option.WithOrderBy("id ASC"),
	)
	if err != nil {
		return nil, err
	}

	entries := make([]usagedomain.Entry, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		entries = append(entries, *row)
	}
	return entries, nil
}

func (s *Service) entryAt(ctx context.Context, integrationID, position string) (*usagedomain.Entry, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(integrationID))
	if err != nil {
		return nil, usagedomain.ErrEntryNotFound
	}

	index, err := strconv.Atoi(strings.TrimSpace(position))
	if err != nil || index < 0 {
		return nil, usagedomain.ErrEntryNotFound
	}

	entries, err := s.entries(ctx, id)
	if err != nil {
		return nil, err
	}
	if index >= len(entries) {
		return nil, usagedomain.ErrEntryNotFound
	}

	entry := entries[index]
	return &entry, nil
}

func validateEntry(req usagedomain.RecordRequest) error {
	if strings.TrimSpace(req.Date) == "" {
		return usagedomain.ErrDateRequired
	}
	if !validAmount(req.Usage) || !validAmount(req.Cost) {
		return usagedomain.ErrInvalidValue
	}
	return nil
}

func validAmount(v float64) bool {
	return v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
