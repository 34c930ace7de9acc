package handler

import (
	"wishlist_webhook/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Handlers groups everything NewRouter mounts.
type Handlers struct {
	Webhook *WebhookHandler
	User    *UserHandler
	Menu    *MenuHandler
	Health  *HealthHandler
}

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware(),
		middleware.LoggerMiddleware(),
		middleware.CORSMiddleware(),
	)

	root := router.Group("")
	h.Webhook.RegisterWebhookRoutes(root)
	h.User.RegisterUserRoutes(root)
	h.Menu.RegisterMenuRoutes(root)
	h.Health.RegisterHealthRoutes(root)
	return router
}
