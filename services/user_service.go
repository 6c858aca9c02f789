package services

import (
	"context"
	"errors"
	"fmt"

	"pillflow-backend/events"
	"pillflow-backend/models"
	"pillflow-backend/store"
)

type UserService struct {
	*deps
}

type UpdateUserInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Current returns the caller's profile, or nil when there is no caller or
// the identity provider has not provisioned a row yet.
func (s *UserService) Current(ctx context.Context) (*models.User, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, nil
	}
	user, err := s.store.GetUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, input UpdateUserInput) error {
	userID, err := caller(ctx)
	if err != nil {
		return err
	}
	user, err := s.store.GetUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("user: %w", ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	user.Name = input.Name
	user.Email = input.Email
	user.UpdatedAt = s.now()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	s.publish(ctx, events.Users, events.OpUpdate, user.ID, user.ID)
	return nil
}
