package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/onoyima/project-exeat-sub001/config"
	"github.com/onoyima/project-exeat-sub001/internal/api/handler"
	"github.com/onoyima/project-exeat-sub001/internal/api/middleware"
	"github.com/onoyima/project-exeat-sub001/internal/workflow"
	"github.com/onoyima/project-exeat-sub001/pkg/jwt"
)

const maxBodyBytes = 1 << 20

// Setup builds the gin engine. limiter may be nil, which disables login
// rate limiting.
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	sessions middleware.SessionResolver,
	limiter middleware.RateLimiter,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── Global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── Health ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// public
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(limiter, cfg.Auth.LoginRateLimit, time.Minute), h.Auth.Login)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, sessions))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			authorized.GET("/workflow", h.Workflow.Describe)

			// exeat requests; per-gate permissions are checked in the service
			exeats := authorized.Group("/exeat-requests")
			{
				exeats.GET("", h.Exeat.List)
				exeats.POST("", h.Exeat.Create)
				exeats.GET("/:id", h.Exeat.Get)
				exeats.GET("/:id/countdown", h.Exeat.Countdown)
				exeats.GET("/:id/countdown/stream", h.Exeat.CountdownStream)
				exeats.GET("/:id/calendar.ics", h.Exeat.Calendar)
				exeats.POST("/:id/:action", h.Exeat.Act)
			}

			export := authorized.Group("/export")
			{
				export.GET("/exeat-requests", middleware.StaffOnly(), h.Export.ExportRequests)
			}

			debts := authorized.Group("/debts")
			{
				debts.GET("", h.Debt.List)
				debts.POST("", middleware.RoleAuth(workflow.RoleAdmin, workflow.RoleDean, workflow.RoleDeputyDean), h.Debt.Create)
				debts.POST("/:id/clear", middleware.RoleAuth(workflow.RoleAdmin, workflow.RoleDean, workflow.RoleDeputyDean), h.Debt.Clear)
				debts.GET("/:id/verify-payment", h.Debt.VerifyPayment)
			}

			admin := authorized.Group("/admin", middleware.RoleAuth(workflow.RoleAdmin))
			{
				admin.GET("/staff/:id/exeat-roles", h.Admin.ListStaffRoles)
				admin.POST("/staff/:id/assign-exeat-role", h.Admin.AssignRole)
				admin.DELETE("/staff/:id/unassign-exeat-role", h.Admin.UnassignRole)
				admin.GET("/audit-logs", h.Admin.AuditLogs)
			}

			drafts := authorized.Group("/drafts", middleware.RoleAuth(workflow.RoleStudent))
			{
				drafts.GET("/me", h.Draft.Get)
				drafts.PUT("/me", h.Draft.Save)
				drafts.DELETE("/me", h.Draft.Delete)
				drafts.POST("/me/submit", h.Draft.Submit)
			}
		}
	}

	return r
}
