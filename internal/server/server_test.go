package server

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap/zaptest"

	alertdomain "github.com/costwatch/costwatch/internal/alert/domain"
	"github.com/costwatch/costwatch/internal/auth/token"
	"github.com/costwatch/costwatch/internal/config"
	integrationdomain "github.com/costwatch/costwatch/internal/integration/domain"
	usagedomain "github.com/costwatch/costwatch/internal/usage/domain"
	userdomain "github.com/costwatch/costwatch/internal/user/domain"
)

type fakeIntegrationService struct {
	integration *integrationdomain.Integration
	err         error
}

func (f *fakeIntegrationService) Create(ctx context.Context, req integrationdomain.CreateRequest) (*integrationdomain.Integration, error) {
	_ = ctx
	_ = req
	return f.integration, f.err
}

func (f *fakeIntegrationService) Get(ctx context.Context, id string) (*integrationdomain.Integration, error) {
	_ = ctx
	_ = id
	return f.integration, f.err
}

func (f *fakeIntegrationService) Update(ctx context.Context, id string, req integrationdomain.UpdateRequest) (*integrationdomain.Integration, error) {
	_ = ctx
	_ = id
	_ = req
	return f.integration, f.err
}

func (f *fakeIntegrationService) Delete(ctx context.Context, id string) error {
	_ = ctx
	_ = id
	return f.err
}

func (f *fakeIntegrationService) List(ctx context.Context) ([]integrationdomain.Integration, error) {
	_ = ctx
	if f.err != nil {
		return nil, f.err
	}
	if f.integration == nil {
		return []integrationdomain.Integration{}, nil
	}
	return []integrationdomain.Integration{*f.integration}, nil
}

type fakeUsageService struct {
	entry   *usagedomain.Entry
	entries []usagedomain.Entry
	err     error
}

func (f *fakeUsageService) Record(ctx context.Context, integrationID string, req usagedomain.RecordRequest) (*usagedomain.Entry, error) {
	_ = ctx
	_ = integrationID
	_ = req
	return f.entry, f.err
}

func (f *fakeUsageService) List(ctx context.Context, integrationID string) ([]usagedomain.Entry, error) {
	_ = ctx
	_ = integrationID
	return f.entries, f.err
}

func (f *fakeUsageService) ListRange(ctx context.Context, integrationID, start, end string) ([]usagedomain.Entry, error) {
	_ = ctx
	_ = integrationID
	_ = start
	_ = end
	return f.entries, f.err
}

func (f *fakeUsageService) UpdateAt(ctx context.Context, integrationID, position string, req usagedomain.UpdateRequest) (*usagedomain.Entry, error) {
	_ = ctx
	_ = integrationID
	_ = position
	_ = req
	return f.entry, f.err
}

func (f *fakeUsageService) DeleteAt(ctx context.Context, integrationID, position string) (*usagedomain.Entry, error) {
	_ = ctx
	_ = integrationID
	_ = position
	return f.entry, f.err
}

type fakeAlertService struct {
	alert  *alertdomain.Alert
	alerts []alertdomain.Alert
	err    error
}

func (f *fakeAlertService) Create(ctx context.Context, req alertdomain.CreateRequest) (*alertdomain.Alert, error) {
	_ = ctx
	_ = req
	return f.alert, f.err
}

func (f *fakeAlertService) Get(ctx context.Context, id string) (*alertdomain.Alert, error) {
	_ = ctx
	_ = id
	return f.alert, f.err
}

func (f *fakeAlertService) Update(ctx context.Context, id string, req alertdomain.UpdateRequest) (*alertdomain.Alert, error) {
	_ = ctx
	_ = id
	_ = req
	return f.alert, f.err
}

func (f *fakeAlertService) Delete(ctx context.Context, id string) error {
	_ = ctx
	_ = id
	return f.err
}

func (f *fakeAlertService) ListByIntegration(ctx context.Context, integrationID string) ([]alertdomain.Alert, error) {
	_ = ctx
	_ = integrationID
	return f.alerts, f.err
}

func (f *fakeAlertService) EvaluateForIntegration(ctx context.Context, integrationID snowflake.ID) error {
	_ = ctx
	_ = integrationID
	return f.err
}

type fakeUserService struct {
	user *userdomain.PublicUser
	err  error
}

func (f *fakeUserService) Create(ctx context.Context, req userdomain.CreateRequest) (*userdomain.PublicUser, error) {
	_ = ctx
	_ = req
	return f.user, f.err
}

func (f *fakeUserService) Get(ctx context.Context, id string) (*userdomain.PublicUser, error) {
	_ = ctx
	_ = id
	return f.user, f.err
}

func (f *fakeUserService) Update(ctx context.Context, id string, req userdomain.UpdateRequest) (*userdomain.PublicUser, error) {
	_ = ctx
	_ = id
	_ = req
	return f.user, f.err
}

func (f *fakeUserService) Delete(ctx context.Context, id string) error {
	_ = ctx
	_ = id
	return f.err
}

func (f *fakeUserService) Authenticate(ctx context.Context, email, password string) (*userdomain.PublicUser, error) {
	_ = ctx
	_ = email
	_ = password
	return f.user, f.err
}

func testConfig() config.Config {
	return config.Config{
		AuthAnonymous:      true,
		AccessTokenSecret:  "test-access-secret",
		RefreshTokenSecret: "test-refresh-secret",
		AccessTokenTTL:     time.Minute,
		RefreshTokenTTL:    time.Hour,
	}
}

func newTestServer(t *testing.T, mutate func(s *Server)) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	cfg := testConfig()
	s := &Server{
		engine: engine,
		cfg:    cfg,
		log:    zaptest.NewLogger(t),
		tokens: token.NewManager(cfg),

		integrationSvc: &fakeIntegrationService{},
		usageSvc:       &fakeUsageService{},
		alertSvc:       &fakeAlertService{},
		userSvc:        &fakeUserService{},
	}
	if mutate != nil {
		mutate(s)
	}
	registerRoutes(s)
	return s
}

func perform(s *Server, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}
