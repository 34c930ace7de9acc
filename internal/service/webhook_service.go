package service

import (
	"context"
	"crypto/subtle"
	"fmt"

	"wishlist_webhook/internal/model"
	"wishlist_webhook/internal/repository"
)

// ModeSubscribe is the only hub.mode the verification handshake accepts.
const ModeSubscribe = "subscribe"

// ErrEmptyPayload is returned for webhook calls without a JSON object body.
var ErrEmptyPayload = &ValidationError{Message: "No data received"}

// WebhookService stores inbound webhook payloads and serves them back.
type WebhookService interface {
	Receive(ctx context.Context, payload model.WebhookPayload) (*model.Message, error)
	Verify(mode, token, challenge string) (string, error)
	ListMessages(ctx context.Context) ([]model.Message, error)
	GetMessage(ctx context.Context, id int64) (*model.Message, error)
}

type webhookService struct {
	store       repository.Store
	verifyToken string
}

// NewWebhookService creates a new WebhookService
func NewWebhookService(store repository.Store, verifyToken string) WebhookService {
	return &webhookService{store: store, verifyToken: verifyToken}
}

func (s *webhookService) Receive(ctx context.Context, payload model.WebhookPayload) (*model.Message, error) {
	if len(payload) == 0 {
		return nil, ErrEmptyPayload
	}
	msg, err := s.store.SaveMessage(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to store webhook payload: %w", err)
	}
	return msg, nil
}

// Verify answers the subscription handshake: the challenge is echoed back
// only for mode "subscribe" with the configured token.
func (s *webhookService) Verify(mode, token, challenge string) (string, error) {
	if mode != ModeSubscribe || subtle.ConstantTimeCompare([]byte(token), []byte(s.verifyToken)) != 1 {
		return "", ErrVerificationFailed
	}
	return challenge, nil
}

func (s *webhookService) ListMessages(ctx context.Context) ([]model.Message, error) {
	messages, err := s.store.ListMessages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

func (s *webhookService) GetMessage(ctx context.Context, id int64) (*model.Message, error) {
	msg, err := s.store.GetMessage(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find message by ID: %w", err)
	}
	if msg == nil {
		return nil, ErrMessageNotFound
	}
	return msg, nil
}
