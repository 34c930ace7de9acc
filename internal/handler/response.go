package handler

import (
	"errors"
	"net/http"

	"wishlist_webhook/internal/middleware"
	"wishlist_webhook/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-pkgz/lgr"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

func respondError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"status": statusError, "message": message})
}

// respondServiceError maps service errors onto the JSON error envelope.
// Unknown errors go out as 500 with their full text: there is no
// authentication boundary to hide details behind.
func respondServiceError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		respondError(c, http.StatusBadRequest, verr.Error())
	case errors.Is(err, service.ErrMessageNotFound):
		respondError(c, http.StatusNotFound, "Message not found")
	case errors.Is(err, service.ErrUserNotFound):
		respondError(c, http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrVerificationFailed):
		respondError(c, http.StatusForbidden, "Verification failed")
	default:
		lgr.Printf("[ERROR] %s %s failed: %v rid=%s", c.Request.Method, c.Request.URL.Path, err, middleware.RequestID(c))
		respondError(c, http.StatusInternalServerError, err.Error())
	}
}
