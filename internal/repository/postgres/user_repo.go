package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventattendance/internal/domain"
)

const userColumns = `id, email, password_hash, salt, name, institution_id, created_at, updated_at`

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

// Create inserts the user; the email unique constraint surfaces as ErrDuplicateEmail.
func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash, salt, name, institution_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, u.Email, u.PasswordHash, u.Salt, u.Name, nullString(u.InstitutionID), u.CreatedAt, u.UpdatedAt).Scan(&u.ID)
	if _, ok := uniqueConstraint(err); ok {
		return domain.ErrDuplicateEmail
	}
	return err
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var (
		u           domain.User
		institution sql.NullString
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Salt, &u.Name, &institution, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	u.InstitutionID = stringPtr(institution)
	return &u, nil
}

// AssignRole is idempotent.
func (r *userRepository) AssignRole(ctx context.Context, userID, roleID string) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO user_roles (user_id, role_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, role_id) DO NOTHING
	`, userID, roleID)
	return err
}
