package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/obras-hq/obras-backend/internal/domain"
)

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// GetAll retrieves all categories.
func (r *CategoryRepository) GetAll(ctx context.Context) ([]*domain.Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, name, color
		FROM categories
		ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Color); err != nil {
			return nil, err
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

// Insert creates a new category and returns the created row.
func (r *CategoryRepository) Insert(ctx context.Context, name, color string) (*domain.Category, error) {
	var c domain.Category
	err := r.pool.QueryRow(ctx, `
		INSERT INTO categories (name, color)
		VALUES ($1, $2)
		RETURNING id::text, name, color`,
		name, color,
	).Scan(&c.ID, &c.Name, &c.Color)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Delete removes a category row. Expenses referencing it are left alone;
// their lookups fall back to the placeholder.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id::text = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}
