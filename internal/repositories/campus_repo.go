package repositories

import (
	"context"

	"github.com/campusflow/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CampusRepo struct {
	pool *pgxpool.Pool
}

func NewCampusRepo(pool *pgxpool.Pool) *CampusRepo {
	return &CampusRepo{pool: pool}
}

func (r *CampusRepo) Create(ctx context.Context, c *models.Campus) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO campuses (name, slug, city, address, active, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, c.Name, c.Slug, c.City, c.Address, c.Active, c.CreatedBy,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CampusRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Campus, error) {
	var c models.Campus
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, slug, city, address, active, created_by, created_at, updated_at
		FROM campuses WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Slug, &c.City, &c.Address, &c.Active, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CampusRepo) GetBySlug(ctx context.Context, slug string) (*models.Campus, error) {
	var c models.Campus
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, slug, city, address, active, created_by, created_at, updated_at
		FROM campuses WHERE slug = $1
	`, slug).Scan(&c.ID, &c.Name, &c.Slug, &c.City, &c.Address, &c.Active, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CampusRepo) List(ctx context.Context, activeOnly bool, limit, offset int) ([]models.Campus, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := `
		SELECT id, name, slug, city, address, active, created_by, created_at, updated_at
		FROM campuses
	`
	args := []any{}
	if activeOnly {
		query += ` WHERE active = true`
	}
	query += ` ORDER BY name ASC LIMIT $1 OFFSET $2`
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campuses []models.Campus
	for rows.Next() {
		var c models.Campus
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.City, &c.Address, &c.Active, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		campuses = append(campuses, c)
	}
	return campuses, nil
}

func (r *CampusRepo) Update(ctx context.Context, c *models.Campus) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE campuses SET name = $1, slug = $2, city = $3, address = $4, active = $5, updated_at = now()
		WHERE id = $6
	`, c.Name, c.Slug, c.City, c.Address, c.Active, c.ID)
	return err
}

func (r *CampusRepo) CountRuns(ctx context.Context, campusID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM course_runs WHERE campus_id = $1`, campusID).Scan(&n)
	return n, err
}

func (r *CampusRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM campuses WHERE id = $1`, id)
	return err
}
