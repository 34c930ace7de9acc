package handler

import (
	"net/http"

	"wishlist_webhook/internal/repository"
	"wishlist_webhook/internal/utils"

	"github.com/gin-gonic/gin"
)

const serviceName = "WhatsApp Webhook API"

// HealthHandler reports which backend was selected at startup.
type HealthHandler struct {
	selection  *repository.Selection
	managedURL string
	managedKey string
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(sel *repository.Selection, managedURL, managedKey string) *HealthHandler {
	return &HealthHandler{selection: sel, managedURL: managedURL, managedKey: managedKey}
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":             "healthy",
		"service":            serviceName,
		"database":           h.selection.Backend.DisplayName(),
		"managed_configured": h.selection.ManagedConfigured(),
		"managed_url_set":    h.selection.URLSet,
		"managed_key_set":    h.selection.KeySet,
	})
}

// Debug exposes the selection outcome and any data the store degraded on.
func (h *HealthHandler) Debug(c *gin.Context) {
	client := "not initialized"
	if h.selection.ManagedConfigured() {
		client = "initialized"
	}
	var initError any
	if h.selection.InitError != "" {
		initError = h.selection.InitError
	}
	c.JSON(http.StatusOK, gin.H{
		"backend":            h.selection.Backend,
		"managed_url":        utils.MaskSecret(h.managedURL),
		"managed_key":        utils.SetOrNot(h.managedKey),
		"managed_configured": h.selection.ManagedConfigured(),
		"managed_client":     client,
		"init_error":         initError,
		"diagnostics":        h.selection.Store.Diagnostics(),
		"hint":               "If init_error mentions missing tables, apply the schema or set MANAGED_AUTO_MIGRATE=true",
	})
}

// RegisterHealthRoutes registers health and debug routes
func (h *HealthHandler) RegisterHealthRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
	rg.GET("/debug", h.Debug)
}
