package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	alertdomain "github.com/costwatch/costwatch/internal/alert/domain"
	integrationdomain "github.com/costwatch/costwatch/internal/integration/domain"
	"github.com/costwatch/costwatch/internal/migration"
	"github.com/costwatch/costwatch/internal/ownerctx"
	usagedomain "github.com/costwatch/costwatch/internal/usage/domain"
	"github.com/costwatch/costwatch/pkg/db"
)

func newTestService(t *testing.T) (integrationdomain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, migration.Run(conn))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := NewService(ServiceParam{
		DB:    conn,
		Log:   zaptest.NewLogger(t),
		GenID: node,
	})
	return svc, conn, node
}

func TestCreateGeneratesAPIKeyWhenAbsent(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, integrationdomain.CreateRequest{
		Name: "OpenAI",
		Type: "openai",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.APIKey)

	explicit, err := svc.Create(ctx, integrationdomain.CreateRequest{
		Name:   "Anthropic",
		Type:   "anthropic",
		APIKey: "sk-test-key",
	})
	require.NoError(t, err)
	assert.Equal(t, "sk-test-key", explicit.APIKey)
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, integrationdomain.CreateRequest{Type: "openai"})
	assert.ErrorIs(t, err, integrationdomain.ErrNameRequired)

	_, err = svc.Create(ctx, integrationdomain.CreateRequest{Name: "OpenAI"})
	assert.ErrorIs(t, err, integrationdomain.ErrTypeRequired)
}

func TestGetUnknownIntegration(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, "123456789")
	assert.ErrorIs(t, err, integrationdomain.ErrIntegrationNotFound)

	_, err = svc.Get(ctx, "not-an-id")
	assert.ErrorIs(t, err, integrationdomain.ErrIntegrationNotFound)
}

func TestUpdateMergesProvidedFieldsOnly(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, integrationdomain.CreateRequest{
		Name:   "OpenAI",
		Type:   "openai",
		APIKey: "sk-original",
	})
	require.NoError(t, err)

	name := "OpenAI Prod"
	updated, err := svc.Update(ctx, created.ID.String(), integrationdomain.UpdateRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "OpenAI Prod", updated.Name)
	assert.Equal(t, "sk-original", updated.APIKey)
	assert.Equal(t, "openai", updated.Type)

	key := "sk-rotated"
	updated, err = svc.Update(ctx, created.ID.String(), integrationdomain.UpdateRequest{APIKey: &key})
	require.NoError(t, err)
	assert.Equal(t, "OpenAI Prod", updated.Name)
	assert.Equal(t, "sk-rotated", updated.APIKey)
}

func TestUpdateRejectsTypeChange(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, integrationdomain.CreateRequest{Name: "OpenAI", Type: "openai"})
	require.NoError(t, err)

	other := "anthropic"
	_, err = svc.Update(ctx, created.ID.String(), integrationdomain.UpdateRequest{Type: &other})
	assert.ErrorIs(t, err, integrationdomain.ErrTypeImmutable)

	// Echoing the current type back is not a change.
	same := "openai"
	updated, err := svc.Update(ctx, created.ID.String(), integrationdomain.UpdateRequest{Type: &same})
	require.NoError(t, err)
	assert.Equal(t, "openai", updated.Type)
}

func TestDeleteCascadesToUsageAndAlerts(t *testing.T) {
	svc, conn, node := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, integrationdomain.CreateRequest{Name: "OpenAI", Type: "openai"})
	require.NoError(t, err)

	require.NoError(t, conn.Create(&usagedomain.Entry{
		ID:            node.Generate(),
		IntegrationID: created.ID,
		Date:          "2025-09-01",
		Usage:         10,
		Cost:          2,
	}).Error)
	require.NoError(t, conn.Create(&alertdomain.Alert{
		ID:                 node.Generate(),
		IntegrationID:      created.ID,
		Threshold:          100,
		Type:               alertdomain.TypeUsage,
		NotificationMethod: alertdomain.NotifyEmail,
	}).Error)

	require.NoError(t, svc.Delete(ctx, created.ID.String()))

	_, err = svc.Get(ctx, created.ID.String())
	assert.ErrorIs(t, err, integrationdomain.ErrIntegrationNotFound)

	var usageCount, alertCount int64
	require.NoError(t, conn.Model(&usagedomain.Entry{}).Where("integration_id = ?", created.ID).Count(&usageCount).Error)
	require.NoError(t, conn.Model(&alertdomain.Alert{}).Where("integration_id = ?", created.ID).Count(&alertCount).Error)
	assert.Zero(t, usageCount)
	assert.Zero(t, alertCount)
}

func TestListScopedToCallerOwner(t *testing.T) {
	svc, _, node := newTestService(t)

	owner := node.Generate()
	ownedCtx := ownerctx.WithOwnerID(context.Background(), owner)
	anonCtx := context.Background()

	_, err := svc.Create(ownedCtx, integrationdomain.CreateRequest{Name: "Owned", Type: "openai"})
	require.NoError(t, err)
	_, err = svc.Create(anonCtx, integrationdomain.CreateRequest{Name: "Anonymous", Type: "openai"})
	require.NoError(t, err)

	owned, err := svc.List(ownedCtx)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, "Owned", owned[0].Name)

	anon, err := svc.List(anonCtx)
	require.NoError(t, err)
	require.Len(t, anon, 1)
	assert.Equal(t, "Anonymous", anon[0].Name)
	assert.Equal(t, ownerctx.AnonymousOwner, anon[0].OwnerID)
}
