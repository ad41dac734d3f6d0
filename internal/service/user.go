package service

import (
	"context"
	"fmt"

	"github.com/flicky/toolstore/internal/model"
	"github.com/flicky/toolstore/internal/repository"
)

// UserService mirrors the identity provider's profile into the users table.
type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Sync upserts the profile carried by a verified token and returns the stored row.
func (s *UserService) Sync(ctx context.Context, profile model.User) (*model.User, error) {
	if profile.ID == "" {
		return nil, ErrUnauthorized
	}
	user := profile
	if err := s.userRepo.Upsert(ctx, &user); err != nil {
		return nil, fmt.Errorf("sync user: %w", err)
	}
	return &user, nil
}
