package handler

import (
	"errors"
	"io"
	"net/http"

	"wishlist_webhook/internal/model"
	"wishlist_webhook/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler handles user registration and lookup
type UserHandler struct {
	service service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

func (h *UserHandler) CheckOrCreateUser(c *gin.Context) {
	var req model.CheckUserRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	user, err := h.service.CheckUser(c.Request.Context(), req.Phone)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusOK, gin.H{"exists": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"exists":      true,
		"parent_name": user.ParentName,
		"child_name":  user.ChildName,
		"wishlist":    user.Wishlist,
	})
}

func (h *UserHandler) SaveUser(c *gin.Context) {
	var req model.SaveUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			respondError(c, http.StatusBadRequest, "No data received")
			return
		}
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	user, err := h.service.SaveUser(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  statusSuccess,
		"message": "User saved successfully",
		"user":    user,
	})
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": statusSuccess,
		"count":  len(users),
		"users":  users,
	})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.service.GetUser(c.Request.Context(), c.Param("phone"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusSuccess, "user": user})
}

// RegisterUserRoutes registers user routes
func (h *UserHandler) RegisterUserRoutes(rg *gin.RouterGroup) {
	rg.POST("/check-or-create-user", h.CheckOrCreateUser)
	rg.POST("/save-user", h.SaveUser)
	rg.GET("/users", h.ListUsers)
	rg.GET("/users/:phone", h.GetUser)
}
