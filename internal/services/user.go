package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventattendance/internal/domain"
)

type userService struct {
	userRepo       domain.UserRepository
	roleRepo       domain.RoleRepository
	contextTimeout time.Duration
}

func NewUserService(userRepo domain.UserRepository, roleRepo domain.RoleRepository, timeout time.Duration) domain.UserService {
	return &userService{userRepo: userRepo, roleRepo: roleRepo, contextTimeout: timeout}
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// GetIdentity loads the principal for an authenticated user ID.
func (s *userService) GetIdentity(ctx context.Context, id string) (*domain.Identity, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.Identity{UserID: user.ID, Name: user.Name, Email: user.Email}, nil
}

func (s *userService) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	roles, err := s.roleRepo.ListByUserID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	perms, err := s.roleRepo.ListPermissions(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}

	profile := &domain.Profile{User: user, Roles: make([]string, 0, len(roles)), Permissions: perms}
	for _, r := range roles {
		profile.Roles = append(profile.Roles, r.Code)
	}
	if profile.Permissions == nil {
		profile.Permissions = []domain.Permission{}
	}
	return profile, nil
}
