package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"wishlist_webhook/internal/model"
	"wishlist_webhook/internal/service"
	"wishlist_webhook/internal/utils"

	"github.com/gin-gonic/gin"
)

// WebhookHandler handles inbound webhooks and the stored message listing
type WebhookHandler struct {
	service service.WebhookService
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(s service.WebhookService) *WebhookHandler {
	return &WebhookHandler{service: s}
}

func (h *WebhookHandler) Receive(c *gin.Context) {
	var payload model.WebhookPayload
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if _, err := h.service.Receive(c.Request.Context(), payload); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":      statusSuccess,
		"message":     "Message received and stored",
		"received_at": utils.Timestamp(time.Now()),
	})
}

// Verify answers the subscription handshake with the raw challenge.
func (h *WebhookHandler) Verify(c *gin.Context) {
	challenge, err := h.service.Verify(c.Query("hub.mode"), c.Query("hub.verify_token"), c.Query("hub.challenge"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.String(http.StatusOK, challenge)
}

func (h *WebhookHandler) ListMessages(c *gin.Context) {
	messages, err := h.service.ListMessages(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   statusSuccess,
		"count":    len(messages),
		"messages": messages,
	})
}

func (h *WebhookHandler) GetMessage(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		// a non-numeric id can never have been stored
		respondServiceError(c, service.ErrMessageNotFound)
		return
	}

	msg, err := h.service.GetMessage(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusSuccess, "message": msg})
}

// RegisterWebhookRoutes registers webhook and message routes
func (h *WebhookHandler) RegisterWebhookRoutes(rg *gin.RouterGroup) {
	rg.POST("/webhook", h.Receive)
	rg.GET("/webhook", h.Verify)
	rg.GET("/messages", h.ListMessages)
	rg.GET("/messages/:id", h.GetMessage)
}
