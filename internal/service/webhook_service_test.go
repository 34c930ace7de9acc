package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"wishlist_webhook/internal/model"
	"wishlist_webhook/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestWebhookService_Receive(t *testing.T) {
	store := new(mockStore)
	svc := NewWebhookService(store, "tok")
	payload := model.WebhookPayload{"from": "123"}

	store.On("SaveMessage", mock.Anything, payload).
		Return(&model.Message{ID: 1, Timestamp: "2024-05-01T10:00:00.000000Z", Payload: payload}, nil)

	msg, err := svc.Receive(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, int64(1), msg.ID)
	store.AssertExpectations(t)
}

func TestWebhookService_Receive_EmptyPayload(t *testing.T) {
	store := new(mockStore)
	svc := NewWebhookService(store, "tok")

	_, err := svc.Receive(context.Background(), model.WebhookPayload{})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "No data received", verr.Error())
	store.AssertNotCalled(t, "SaveMessage", mock.Anything, mock.Anything)
}

func TestWebhookService_Receive_StoreUnavailable(t *testing.T) {
	store := new(mockStore)
	svc := NewWebhookService(store, "tok")
	storeErr := fmt.Errorf("%w: disk full", repository.ErrStoreUnavailable)

	store.On("SaveMessage", mock.Anything, mock.Anything).Return(nil, storeErr)

	_, err := svc.Receive(context.Background(), model.WebhookPayload{"from": "123"})
	assert.ErrorIs(t, err, repository.ErrStoreUnavailable)
	assert.Contains(t, err.Error(), "disk full")
}

func TestWebhookService_Verify(t *testing.T) {
	svc := NewWebhookService(new(mockStore), "tok")

	challenge, err := svc.Verify("subscribe", "tok", "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", challenge)

	_, err = svc.Verify("subscribe", "wrong", "abc")
	assert.ErrorIs(t, err, ErrVerificationFailed)

	_, err = svc.Verify("unsubscribe", "tok", "abc")
	assert.ErrorIs(t, err, ErrVerificationFailed)

	_, err = svc.Verify("", "", "")
	assert.ErrorIs(t, err, ErrVerificationFailed)
}

func TestWebhookService_GetMessage(t *testing.T) {
	store := new(mockStore)
	svc := NewWebhookService(store, "tok")

	store.On("GetMessage", mock.Anything, int64(1)).Return(&model.Message{ID: 1}, nil)
	store.On("GetMessage", mock.Anything, int64(999999)).Return(nil, nil)
	store.On("GetMessage", mock.Anything, int64(2)).Return(nil, errors.New("boom"))

	msg, err := svc.GetMessage(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), msg.ID)

	_, err = svc.GetMessage(context.Background(), 999999)
	assert.ErrorIs(t, err, ErrMessageNotFound)

	_, err = svc.GetMessage(context.Background(), 2)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMessageNotFound)
}

func TestWebhookService_ListMessages(t *testing.T) {
	store := new(mockStore)
	svc := NewWebhookService(store, "tok")

	store.On("ListMessages", mock.Anything).Return([]model.Message{{ID: 2}, {ID: 1}}, nil)

	messages, err := svc.ListMessages(context.Background())
	require.NoError(t, err)
	assert.Len(t, messages, 2)
}
