package postgres

import (
	"context"
	"database/sql"

	"eventattendance/internal/domain"
)

type categoryRepository struct {
	DB *sql.DB
}

func NewCategoryRepository(db *sql.DB) domain.CategoryRepository {
	return &categoryRepository{DB: db}
}

func (r *categoryRepository) List(ctx context.Context) ([]*domain.EventCategory, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, name, slug FROM event_categories ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]*domain.EventCategory, 0)
	for rows.Next() {
		c := &domain.EventCategory{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
