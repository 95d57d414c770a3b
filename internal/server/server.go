package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/costwatch/costwatch/internal/alert"
	alertdomain "github.com/costwatch/costwatch/internal/alert/domain"
	"github.com/costwatch/costwatch/internal/auth/token"
	"github.com/costwatch/costwatch/internal/config"
	"github.com/costwatch/costwatch/internal/integration"
	integrationdomain "github.com/costwatch/costwatch/internal/integration/domain"
	obsmetrics "github.com/costwatch/costwatch/internal/observability/metrics"
	"github.com/costwatch/costwatch/internal/usage"
	usagedomain "github.com/costwatch/costwatch/internal/usage/domain"
	"github.com/costwatch/costwatch/internal/user"
	userdomain "github.com/costwatch/costwatch/internal/user/domain"
)

var Module = fx.Module("http.server",
	obsmetrics.Module,
	token.Module,
	integration.Module,
	alert.Module,
	usage.Module,
	user.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

func NewEngine(metrics *obsmetrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})))

	return r
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			_ = ctx
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine *gin.Engine
	cfg    config.Config
	log    *zap.Logger
	db     *gorm.DB

	tokens         *token.Manager
	integrationSvc integrationdomain.Service
	usageSvc       usagedomain.Service
	alertSvc       alertdomain.Service
	userSvc        userdomain.Service
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Cfg            config.Config
	Log            *zap.Logger
	DB             *gorm.DB
	Tokens         *token.Manager
	IntegrationSvc integrationdomain.Service
	UsageSvc       usagedomain.Service
	AlertSvc       alertdomain.Service
	UserSvc        userdomain.Service
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine: p.Gin,
		cfg:    p.Cfg,
		log:    p.Log.Named("server"),
		db:     p.DB,

		tokens:         p.Tokens,
		integrationSvc: p.IntegrationSvc,
		usageSvc:       p.UsageSvc,
		alertSvc:       p.AlertSvc,
		userSvc:        p.UserSvc,
	}
}

func registerRoutes(s *Server) {
	r := s.engine

	r.POST("/users", s.CreateUser)
	r.POST("/auth/login", s.Login)
	r.POST("/auth/refresh", s.Refresh)
	r.POST("/auth/logout", s.Logout)

	authed := r.Group("/", s.AuthRequired())

	authed.GET("/users/:id", s.GetUser)
	authed.PUT("/users/:id", s.UpdateUser)
	authed.DELETE("/users/:id", s.DeleteUser)

	authed.POST("/integrations", s.CreateIntegration)
	authed.GET("/integrations", s.ListIntegrations)
	authed.GET("/integrations/:id", s.GetIntegration)
	authed.PUT("/integrations/:id", s.UpdateIntegration)
	authed.DELETE("/integrations/:id", s.DeleteIntegration)
	authed.GET("/integrations/:id/alerts", s.ListIntegrationAlerts)

	authed.POST("/usage/:integrationId", s.RecordUsage)
	authed.GET("/usage/:integrationId", s.GetUsage)
	authed.GET("/usage/:integrationId/range", s.GetUsageRange)
	authed.PUT("/usage/:integrationId/:usageId", s.UpdateUsageEntry)
	authed.DELETE("/usage/:integrationId/:usageId", s.DeleteUsageEntry)

	authed.POST("/alerts", s.CreateAlert)
	authed.GET("/alerts/:id", s.GetAlert)
	authed.PUT("/alerts/:id", s.UpdateAlert)
	authed.DELETE("/alerts/:id", s.DeleteAlert)
}
