package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"sermonforge_backend/internal/config"
	"sermonforge_backend/internal/handlers"
	"sermonforge_backend/internal/middleware"
	"sermonforge_backend/pkg/contextkeys"
)

// RegisterRoutes wires every handler under /api/v1.
func RegisterRoutes(router *gin.Engine, h *handlers.AppHandlers, cfg *config.Config) {
	router.GET("/health", healthCheck)

	v1 := router.Group("/api/v1")

	// Public routes: auth, the Stripe webhook and locally served files.
	h.Auth.RegisterRoutes(v1)
	h.Billing.RegisterWebhookRoutes(v1)
	if cfg.Storage.Type == "local" {
		h.Media.RegisterPublicRoutes(v1)
	}

	// Authenticated routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		h.Auth.RegisterProtectedRoutes(protected)
		h.Sermons.RegisterRoutes(protected)
		h.Content.RegisterRoutes(protected)
		h.Export.RegisterRoutes(protected)
		h.Billing.RegisterRoutes(protected)
		h.Settings.RegisterRoutes(protected)
		h.Analytics.RegisterRoutes(protected)
		h.Media.RegisterRoutes(protected)
	}
}

// healthCheck reports liveness and, when the DB middleware is installed,
// database reachability.
func healthCheck(c *gin.Context) {
	resp := gin.H{"status": "ok"}

	if db, ok := c.Request.Context().Value(contextkeys.DBContextKey).(*gorm.DB); ok {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			resp["status"] = "degraded"
			resp["database"] = "unreachable"
			c.JSON(http.StatusServiceUnavailable, resp)
			return
		}
		resp["database"] = "ok"
	}

	c.JSON(http.StatusOK, resp)
}
