package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Ashutosh-Mohanty/wowb/internal/account"
	"github.com/Ashutosh-Mohanty/wowb/internal/auth"
	"github.com/Ashutosh-Mohanty/wowb/internal/config"
	"github.com/Ashutosh-Mohanty/wowb/internal/ledger"
	"github.com/Ashutosh-Mohanty/wowb/internal/logger"
	"github.com/Ashutosh-Mohanty/wowb/internal/member"
	"github.com/Ashutosh-Mohanty/wowb/internal/session"
	"github.com/Ashutosh-Mohanty/wowb/internal/tenant"
	"github.com/gin-gonic/gin"
)

// Handlers groups the HTTP handlers mounted by the server.
type Handlers struct {
	Account *account.Handler
	Tenant  *tenant.Handler
	Member  *member.Handler
	Ledger  *ledger.Handler
}

type Server struct {
	router *gin.Engine
	http   *http.Server
	config *config.Config
}

func New(cfg *config.Config, sessions session.Store, h Handlers, mailer Mailer) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	useJSONFieldNames()

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	public := router.Group("/auth")
	{
		public.POST("/login", RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst), h.Account.Login)
	}

	authMiddleware := session.Middleware(cfg.JWTSecret, sessions)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.POST("/auth/logout", h.Account.Logout)
		protected.GET("/me", h.Account.GetMe)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, session.RequireRole(auth.RoleSuperAdmin))
	{
		admin.GET("/tenants", h.Tenant.List)
		admin.POST("/tenants", h.Tenant.Create)
		admin.GET("/tenants/:id", h.Tenant.Get)
		admin.PUT("/tenants/:id", h.Tenant.Update)
		admin.DELETE("/tenants/:id", h.Tenant.Delete)
		admin.POST("/tenants/:id/toggle-status", h.Tenant.ToggleStatus)
		admin.GET("/stats", h.Tenant.Stats)
		admin.POST("/test-email", TestEmail(mailer))
	}

	manager := router.Group("/manager")
	manager.Use(authMiddleware, session.RequireRole(auth.RoleManager))
	{
		manager.GET("/tenant", h.Tenant.Mine)
		manager.PUT("/policy", h.Tenant.UpdatePolicy)

		manager.GET("/members", h.Member.List)
		manager.POST("/members", h.Member.Register)
		manager.GET("/members/:id", h.Member.Get)
		manager.PUT("/members/:id", h.Member.UpdateProfile)
		manager.DELETE("/members/:id", h.Member.Delete)
		manager.POST("/members/:id/extend", h.Member.Extend)
		manager.POST("/members/:id/supplements", h.Member.AddSupplement)
		manager.PUT("/members/:id/photos", h.Member.SetPhotos)
		manager.POST("/members/:id/outreach", h.Member.Outreach)

		manager.GET("/transactions", h.Ledger.ListTransactions)
		manager.GET("/revenue", h.Ledger.Revenue)
	}

	memberGroup := router.Group("/member")
	memberGroup.Use(authMiddleware, session.RequireRole(auth.RoleMember))
	{
		memberGroup.GET("/dashboard", h.Member.Dashboard)
	}

	return &Server{
		router: router,
		config: cfg,
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks until the server stops. A graceful Shutdown is not an error.
func (s *Server) Start() error {
	logger.Info("http server listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
