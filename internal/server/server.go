package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gokulraja-dev/infintree/internal/auth"
	authdomain "github.com/gokulraja-dev/infintree/internal/auth/domain"
	"github.com/gokulraja-dev/infintree/internal/config"
	"github.com/gokulraja-dev/infintree/internal/department"
	departmentdomain "github.com/gokulraja-dev/infintree/internal/department/domain"
	"github.com/gokulraja-dev/infintree/internal/document"
	documentdomain "github.com/gokulraja-dev/infintree/internal/document/domain"
	"github.com/gokulraja-dev/infintree/internal/group"
	groupdomain "github.com/gokulraja-dev/infintree/internal/group/domain"
	"github.com/gokulraja-dev/infintree/internal/iam"
	iamdomain "github.com/gokulraja-dev/infintree/internal/iam/domain"
	"github.com/gokulraja-dev/infintree/internal/keystore"
	"github.com/gokulraja-dev/infintree/internal/observability"
	"github.com/gokulraja-dev/infintree/internal/token"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	observability.Module,
	fx.Provide(registerGin),
	keystore.Module,
	token.Module,
	auth.Module,
	iam.Module,
	department.Module,
	group.Module,
	document.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, httpMetrics *observability.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.GinLoggingMiddleware(log))
	r.Use(observability.GinMetricsMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger, httpMetrics *observability.HTTPMetrics) *gin.Engine {
	return NewEngine(log, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.ListenAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
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
	engine        *gin.Engine
	cfg           config.Config
	authsvc       authdomain.Service
	iamsvc        iamdomain.Service
	departmentsvc departmentdomain.Service
	groupsvc      groupdomain.Service
	documentsvc   documentdomain.Service
	verifier      *token.Verifier
	keys          *keystore.Store
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	Authsvc       authdomain.Service
	IAMSvc        iamdomain.Service
	DepartmentSvc departmentdomain.Service
	GroupSvc      groupdomain.Service
	DocumentSvc   documentdomain.Service
	Verifier      *token.Verifier
	Keys          *keystore.Store
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		authsvc:       p.Authsvc,
		iamsvc:        p.IAMSvc,
		departmentsvc: p.DepartmentSvc,
		groupsvc:      p.GroupSvc,
		documentsvc:   p.DocumentSvc,
		verifier:      p.Verifier,
		keys:          p.Keys,
	}

	svc.registerWellKnownRoutes()
	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerWellKnownRoutes() {
	s.engine.GET("/.well-known/jwks.json", s.JWKS)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Auth --------
	api.POST("/auth/login", s.Login)
	api.POST("/auth/set-password", s.SetPassword)
	api.GET("/auth/roles", s.AuthRequired(), s.RequirePermission("user.read"), s.ListRoles)

	// -------- Users & grants --------
	api.POST("/users", s.AuthRequired(), s.RequirePermission("user.create"), s.CreateUser)
	api.POST("/users/:user_id/grants", s.AuthRequired(), s.RequirePermission("user.grant"), s.AssignGrant)

	// -------- Departments --------
	api.POST("/departments", s.AuthRequired(), s.RequirePermission("departments.create"), s.CreateDepartment)
	api.GET("/departments", s.AuthRequired(), s.RequirePermission("departments.read"), s.ListDepartments)
	api.GET("/departments/:department_id", s.AuthRequired(), s.RequirePermission("departments.read"), s.GetDepartment)
	api.PUT("/departments/:department_id", s.AuthRequired(), s.RequirePermission("departments.update"), s.UpdateDepartment)
	api.DELETE("/departments/:department_id", s.AuthRequired(), s.RequirePermission("departments.delete"), s.DeleteDepartment)

	// -------- Groups --------
	api.POST("/groups", s.AuthRequired(), s.RequirePermission("group.create"), s.CreateGroup)
	api.GET("/groups", s.AuthRequired(), s.RequirePermission("group.read"), s.ListGroups)
	api.GET("/groups/:group_id", s.AuthRequired(), s.RequirePermission("group.read"), s.GetGroup)
	api.DELETE("/groups/:group_id", s.AuthRequired(), s.RequirePermission("group.delete"), s.DeleteGroup)
	api.POST("/groups/:group_id/departments", s.AuthRequired(), s.RequirePermission("group.update"), s.AttachGroupDepartment)
	api.GET("/groups/:group_id/departments", s.AuthRequired(), s.RequirePermission("group.read"), s.ListGroupDepartments)

	// -------- Documents --------
	documents := api.Group("/departments/:department_id/documents", s.AuthRequired())
	documents.POST("", s.RequirePermission("documents.create"), s.CreateDocument)
	documents.GET("/:node_id", s.RequirePermission("document.read"), s.GetDocument)
	documents.PUT("/:node_id", s.RequirePermission("document.update"), s.UpdateDocument)
	documents.DELETE("/:node_id", s.RequirePermission("document.delete"), s.DeleteDocument)
}
