package services

import (
	"context"
	"fmt"
	"time"

	"eventattendance/internal/domain"
)

type authorizer struct {
	roleRepo       domain.RoleRepository
	contextTimeout time.Duration
}

// NewAuthorizer returns an Authorizer backed by role permissions.
func NewAuthorizer(roleRepo domain.RoleRepository, timeout time.Duration) domain.Authorizer {
	return &authorizer{roleRepo: roleRepo, contextTimeout: timeout}
}

func (a *authorizer) Authorize(ctx context.Context, userID string, perm domain.Permission) error {
	if userID == "" {
		return domain.ErrForbidden
	}
	ctx, cancel := context.WithTimeout(ctx, a.contextTimeout)
	defer cancel()

	ok, err := a.roleRepo.HasPermission(ctx, userID, perm)
	if err != nil {
		return fmt.Errorf("check permission: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: missing permission %q", domain.ErrForbidden, perm)
	}
	return nil
}
