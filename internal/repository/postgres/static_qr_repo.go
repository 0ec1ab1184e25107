package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventattendance/internal/domain"
)

type staticQRRepository struct {
	DB *sql.DB
}

func NewStaticQRRepository(db *sql.DB) domain.StaticQRRepository {
	return &staticQRRepository{DB: db}
}

func (r *staticQRRepository) Create(ctx context.Context, qr *domain.StaticQR) error {
	query := `
		INSERT INTO event_static_qrs (event_id, label, code, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, qr.EventID, qr.Label, qr.Code, qr.CreatedAt).Scan(&qr.ID)
	if _, ok := uniqueConstraint(err); ok {
		return domain.ErrConflict
	}
	return err
}

func (r *staticQRRepository) GetByCode(ctx context.Context, code string) (*domain.StaticQR, error) {
	query := `
		SELECT id, event_id, label, code, created_at
		FROM event_static_qrs
		WHERE code = $1
	`
	qr := &domain.StaticQR{}
	err := r.DB.QueryRowContext(ctx, query, code).Scan(&qr.ID, &qr.EventID, &qr.Label, &qr.Code, &qr.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return qr, nil
}

func (r *staticQRRepository) ListByEvent(ctx context.Context, eventID string) ([]*domain.StaticQR, error) {
	query := `
		SELECT id, event_id, label, code, created_at
		FROM event_static_qrs
		WHERE event_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	qrs := make([]*domain.StaticQR, 0)
	for rows.Next() {
		qr := &domain.StaticQR{}
		if err := rows.Scan(&qr.ID, &qr.EventID, &qr.Label, &qr.Code, &qr.CreatedAt); err != nil {
			return nil, err
		}
		qrs = append(qrs, qr)
	}
	return qrs, rows.Err()
}

func (r *staticQRRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM event_static_qrs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
