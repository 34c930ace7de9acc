package handler

import (
	"net/http"

	"wishlist_webhook/internal/service"

	"github.com/gin-gonic/gin"
)

// MenuHandler serves the read-only menu
type MenuHandler struct {
	service service.MenuService
}

// NewMenuHandler creates a new MenuHandler
func NewMenuHandler(s service.MenuService) *MenuHandler {
	return &MenuHandler{service: s}
}

func (h *MenuHandler) ListMenu(c *gin.Context) {
	menu, err := h.service.ListMenu(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": statusSuccess,
		"count":  len(menu),
		"menu":   menu,
	})
}

// RegisterMenuRoutes registers menu routes
func (h *MenuHandler) RegisterMenuRoutes(rg *gin.RouterGroup) {
	rg.GET("/menu", h.ListMenu)
}
