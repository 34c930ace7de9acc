package service

import (
	"context"
	"fmt"

	"wishlist_webhook/internal/model"
	"wishlist_webhook/internal/repository"
)

// UserService manages the parents registered through the flow.
type UserService interface {
	// CheckUser returns the user for phone, or nil when none is registered.
	CheckUser(ctx context.Context, phone *string) (*model.User, error)
	SaveUser(ctx context.Context, req model.SaveUserRequest) (*model.User, error)
	GetUser(ctx context.Context, phone string) (*model.User, error)
	ListUsers(ctx context.Context) (map[string]model.User, error)
}

type userService struct {
	store repository.Store
}

// NewUserService creates a new UserService
func NewUserService(store repository.Store) UserService {
	return &userService{store: store}
}

func (s *userService) CheckUser(ctx context.Context, phone *string) (*model.User, error) {
	// an explicit null phone counts as missing: there is no null-keyed user
	if phone == nil {
		return nil, &ValidationError{Field: "phone", Message: "Phone number is required"}
	}
	user, err := s.store.GetUser(ctx, *phone)
	if err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	return user, nil
}

// SaveUser validates presence of user, parent_name and child_name, in that
// order, and upserts the record.
func (s *userService) SaveUser(ctx context.Context, req model.SaveUserRequest) (*model.User, error) {
	switch {
	case req.User == nil:
		return nil, missing("user")
	case req.ParentName == nil:
		return nil, missing("parent_name")
	case req.ChildName == nil:
		return nil, missing("child_name")
	}

	user, err := s.store.SaveUser(ctx, model.UserInput{
		Phone:      *req.User,
		ParentName: *req.ParentName,
		ChildName:  *req.ChildName,
		Wishlist:   req.Wishlist,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, phone string) (*model.User, error) {
	user, err := s.store.GetUser(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by phone: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) (map[string]model.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
