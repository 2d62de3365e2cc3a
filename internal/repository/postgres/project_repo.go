package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/obras-hq/obras-backend/internal/domain"
)

// ProjectRepository implements domain.ProjectRepository using PostgreSQL
type ProjectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

// GetAll retrieves all projects.
func (r *ProjectRepository) GetAll(ctx context.Context) ([]*domain.Project, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, name, status
		FROM projects
		ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		var (
			p      domain.Project
			status string
		)
		if err := rows.Scan(&p.ID, &p.Name, &status); err != nil {
			return nil, err
		}
		p.Status = domain.ProjectStatus(status)
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}

// Insert creates a new project and returns the created row.
func (r *ProjectRepository) Insert(ctx context.Context, name string, status domain.ProjectStatus) (*domain.Project, error) {
	var (
		p   domain.Project
		raw string
	)
	err := r.pool.QueryRow(ctx, `
		INSERT INTO projects (name, status)
		VALUES ($1, $2)
		RETURNING id::text, name, status`,
		name, string(status),
	).Scan(&p.ID, &p.Name, &raw)
	if err != nil {
		return nil, err
	}
	p.Status = domain.ProjectStatus(raw)
	return &p, nil
}

// UpdateStatus changes a project's status and returns the updated row.
func (r *ProjectRepository) UpdateStatus(ctx context.Context, id string, status domain.ProjectStatus) (*domain.Project, error) {
	var (
		p   domain.Project
		raw string
	)
	err := r.pool.QueryRow(ctx, `
		UPDATE projects SET status = $2
		WHERE id::text = $1
		RETURNING id::text, name, status`,
		id, string(status),
	).Scan(&p.ID, &p.Name, &raw)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}
	p.Status = domain.ProjectStatus(raw)
	return &p, nil
}

// Delete removes a project row.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id::text = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}
