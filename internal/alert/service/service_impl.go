package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	alertdomain "github.com/costwatch/costwatch/internal/alert/domain"
	integrationdomain "github.com/costwatch/costwatch/internal/integration/domain"
	obsmetrics "github.com/costwatch/costwatch/internal/observability/metrics"
	"github.com/costwatch/costwatch/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Metrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	metrics *obsmetrics.Metrics

	repo            repository.Repository[alertdomain.Alert]
	integrationRepo repository.Repository[integrationdomain.Integration]
}

func NewService(p ServiceParam) alertdomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("alert.service"),
		genID:   p.GenID,
		metrics: p.Metrics,

		repo:            repository.ProvideStore[alertdomain.Alert](p.DB),
		integrationRepo: repository.ProvideStore[integrationdomain.Integration](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req alertdomain.CreateRequest) (*alertdomain.Alert, error) {
	if err := validateAlert(req); err != nil {
		return nil, err
	}

	integrationID, err := snowflake.ParseString(strings.TrimSpace(req.IntegrationID))
	if err != nil {
		return nil, integrationdomain.ErrIntegrationNotFound
	}

	// Existence is checked at creation time only. A later integration
	// delete cascades to its alerts, so no dangling references survive.
	integration, err := s.integrationRepo.FindOne(ctx, &integrationdomain.Integration{ID: integrationID})
	if err != nil {
		return nil, err
	}
	if integration == nil {
		return nil, integrationdomain.ErrIntegrationNotFound
	}

	alert := &alertdomain.Alert{
		ID:                 s.genID.Generate(),
		IntegrationID:      integrationID,
		Threshold:          req.Threshold,
		Type:               req.Type,
		NotificationMethod: req.NotificationMethod,
		Triggered:          false,
	}

	if err := s.repo.Create(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

func (s *Service) Get(ctx context.Context, id string) (*alertdomain.Alert, error) {
	alertID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, alertdomain.ErrAlertNotFound
	}

	alert, err := s.repo.FindOne(ctx, &alertdomain.Alert{ID: alertID})
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, alertdomain.ErrAlertNotFound
	}
	return alert, nil
}

func (s *Service) Update(ctx context.Context, id string, req alertdomain.UpdateRequest) (*alertdomain.Alert, error) {
	alert, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Threshold != nil {
		if math.IsNaN(*req.Threshold) || math.IsInf(*req.Threshold, 0) {
			return nil, alertdomain.ErrInvalidThreshold
		}
		alert.Threshold = *req.Threshold
	}
	if req.NotificationMethod != nil {
		if !alertdomain.ValidNotificationMethod(*req.NotificationMethod) {
			return nil, alertdomain.ErrInvalidNotificationMethod
		}
		alert.NotificationMethod = *req.NotificationMethod
	}

	if err := s.db.WithContext(ctx).Save(alert).Error; err != nil {
		return nil, err
	}
	return alert, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	alert, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, alert.ID.String())
}

func (s *Service) ListByIntegration(ctx context.Context, integrationID string) ([]alertdomain.Alert, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(integrationID))
	if err != nil {
		return nil, integrationdomain.ErrIntegrationNotFound
	}

	var alerts []alertdomain.Alert
	if err := s.db.WithContext(ctx).
		Where("integration_id = ?", id).
		Order("id ASC").
		Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

type ledgerTotals struct {
	TotalUsage float64
	TotalCost  float64
}

// EvaluateForIntegration recomputes totals from the full ledger rather
// than tracking running sums, so edits and deletes of historical
// entries never cause drift.
func (s *Service) EvaluateForIntegration(ctx context.Context, integrationID snowflake.ID) error {
	var totals ledgerTotals
	if err := s.db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(usage), 0) AS total_usage, COALESCE(SUM(cost), 0) AS total_cost
		 FROM usage_entries WHERE integration_id = ?`,
		integrationID,
	).Scan(&totals).Error; err != nil {
		return err
	}

	var alerts []alertdomain.Alert
	if err := s.db.WithContext(ctx).
		Where("integration_id = ?", integrationID).
		Find(&alerts).Error; err != nil {
		return err
	}

	now := time.Now().UTC()
	for i := range alerts {
		alert := &alerts[i]
		if alert.Triggered || !crossed(alert, totals) {
			continue
		}

		if err := s.repo.Update(ctx, alert.ID.String(), map[string]any{"triggered": true, "updated_at": now}); err != nil {
			return err
		}

		s.metrics.IncAlertTriggered(string(alert.Type))
		s.log.Info("alert triggered",
			zap.String("alert_id", alert.ID.String()),
			zap.String("integration_id", integrationID.String()),
			zap.String("type", string(alert.Type)),
			zap.Float64("threshold", alert.Threshold),
		)
	}

	return nil
}

func crossed(alert *alertdomain.Alert, totals ledgerTotals) bool {
	switch alert.Type {
	case alertdomain.TypeUsage:
		return totals.TotalUsage >= alert.Threshold
	case alertdomain.TypeCost:
		return totals.TotalCost >= alert.Threshold
	default:
		return false
	}
}

func validateAlert(req alertdomain.CreateRequest) error {
	if math.IsNaN(req.Threshold) || math.IsInf(req.Threshold, 0) {
		return alertdomain.ErrInvalidThreshold
	}
	if !alertdomain.ValidType(req.Type) {
		return alertdomain.ErrInvalidType
	}
	if !alertdomain.ValidNotificationMethod(req.NotificationMethod) {
		return alertdomain.ErrInvalidNotificationMethod
	}
	return nil
}
