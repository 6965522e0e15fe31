package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/huntboard/huntboard/internal/auth"
	"github.com/huntboard/huntboard/internal/platform/httpx"
)

// Service handles account management logic.
type Service struct {
	repo       Repository
	bcryptCost int
}

// NewService builds a Service instance.
func NewService(repo Repository, bcryptCost int) *Service {
	return &Service{repo: repo, bcryptCost: bcryptCost}
}

// List returns the directory of regular accounts.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// Get returns a single account.
func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil, fmt.Errorf("%w: no user with id %d", httpx.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// Update changes the username or email of an account.
func (s *Service) Update(ctx context.Context, id int64, req UpdateUserRequest) (*User, error) {
	updates := make(map[string]any)
	if req.Username != nil {
		updates["username"] = *req.Username
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if len(updates) == 0 {
		return s.Get(ctx, id)
	}

	user, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil, fmt.Errorf("%w: no user with id %d", httpx.ErrNotFound, id)
		}
		return nil, err
	}
	return user, nil
}

// UpdatePassword verifies the current password before replacing it.
func (s *Service) UpdatePassword(ctx context.Context, id int64, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return fmt.Errorf("%w: please provide both old and new passwords", httpx.ErrValidation)
	}

	hash, err := s.repo.GetPasswordHash(ctx, id)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return fmt.Errorf("%w: no user with id %d", httpx.ErrNotFound, id)
		}
		return fmt.Errorf("update password: %w", err)
	}
	if !auth.CheckPassword(hash, oldPassword) {
		return fmt.Errorf("%w: old password is incorrect", httpx.ErrUnauthorized)
	}
	if newPassword == oldPassword {
		return fmt.Errorf("%w: new password must be different from the old password", httpx.ErrValidation)
	}

	newHash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repo.UpdatePassword(ctx, id, newHash)
}

// Delete removes an account.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return fmt.Errorf("%w: no user with id %d", httpx.ErrNotFound, id)
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
