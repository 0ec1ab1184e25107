package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventattendance/internal/domain"
)

type roleRepository struct {
	DB *sql.DB
}

func NewRoleRepository(db *sql.DB) domain.RoleRepository {
	return &roleRepository{DB: db}
}

func (r *roleRepository) GetByCode(ctx context.Context, code string) (*domain.Role, error) {
	var role domain.Role
	err := r.DB.QueryRowContext(ctx, `SELECT id, code FROM roles WHERE code = $1`, code).Scan(&role.ID, &role.Code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: role %q", domain.ErrNotFound, code)
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Role, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT r.id, r.code
		FROM user_roles ur
		INNER JOIN roles r ON r.id = ur.role_id
		WHERE ur.user_id = $1
		ORDER BY r.code
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := make([]*domain.Role, 0)
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Code); err != nil {
			return nil, err
		}
		roles = append(roles, &role)
	}
	return roles, rows.Err()
}

// grantedPermissions joins a user's roles to the permission names they grant.
const grantedPermissions = `
	FROM user_roles ur
	INNER JOIN role_permissions rp ON rp.role_id = ur.role_id
	INNER JOIN permissions p ON p.id = rp.permission_id
	WHERE ur.user_id = $1`

func (r *roleRepository) HasPermission(ctx context.Context, userID string, permission domain.Permission) (bool, error) {
	var granted bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1`+grantedPermissions+` AND p.name = $2)`,
		userID, string(permission),
	).Scan(&granted)
	return granted, err
}

func (r *roleRepository) ListPermissions(ctx context.Context, userID string) ([]domain.Permission, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT DISTINCT p.name`+grantedPermissions+` ORDER BY p.name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	perms := make([]domain.Permission, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		perms = append(perms, domain.Permission(name))
	}
	return perms, rows.Err()
}
