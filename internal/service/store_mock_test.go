package service

import (
	"context"

	"wishlist_webhook/internal/model"
	"wishlist_webhook/internal/repository"

	"github.com/stretchr/testify/mock"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) SaveMessage(ctx context.Context, payload model.WebhookPayload) (*model.Message, error) {
	args := m.Called(ctx, payload)
	msg, _ := args.Get(0).(*model.Message)
	return msg, args.Error(1)
}

func (m *mockStore) ListMessages(ctx context.Context) ([]model.Message, error) {
	args := m.Called(ctx)
	messages, _ := args.Get(0).([]model.Message)
	return messages, args.Error(1)
}

func (m *mockStore) GetMessage(ctx context.Context, id int64) (*model.Message, error) {
	args := m.Called(ctx, id)
	msg, _ := args.Get(0).(*model.Message)
	return msg, args.Error(1)
}

func (m *mockStore) GetUser(ctx context.Context, phone string) (*model.User, error) {
	args := m.Called(ctx, phone)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *mockStore) SaveUser(ctx context.Context, in model.UserInput) (*model.User, error) {
	args := m.Called(ctx, in)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *mockStore) ListUsers(ctx context.Context) (map[string]model.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).(map[string]model.User)
	return users, args.Error(1)
}

func (m *mockStore) ListMenu(ctx context.Context) ([]model.MenuItem, error) {
	args := m.Called(ctx)
	menu, _ := args.Get(0).([]model.MenuItem)
	return menu, args.Error(1)
}

func (m *mockStore) Name() string { return "mock" }

func (m *mockStore) Diagnostics() repository.Diagnostics {
	return repository.Diagnostics{Backend: "mock"}
}
