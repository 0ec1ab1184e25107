package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventattendance/internal/domain"
)

type institutionRepository struct {
	DB *sql.DB
}

func NewInstitutionRepository(db *sql.DB) domain.InstitutionRepository {
	return &institutionRepository{DB: db}
}

func (r *institutionRepository) List(ctx context.Context) ([]*domain.Institution, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, name FROM institutions ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*domain.Institution, 0)
	for rows.Next() {
		in := &domain.Institution{}
		if err := rows.Scan(&in.ID, &in.Name); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

func (r *institutionRepository) GetByID(ctx context.Context, id string) (*domain.Institution, error) {
	in := &domain.Institution{}
	err := r.DB.QueryRowContext(ctx, `SELECT id, name FROM institutions WHERE id = $1`, id).Scan(&in.ID, &in.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return in, nil
}
