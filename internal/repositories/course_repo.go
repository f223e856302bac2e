package repositories

import (
	"context"
	"fmt"

	"github.com/campusflow/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CourseRepo struct {
	pool *pgxpool.Pool
}

func NewCourseRepo(pool *pgxpool.Pool) *CourseRepo {
	return &CourseRepo{pool: pool}
}

func (r *CourseRepo) Create(ctx context.Context, c *models.Course) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO courses (title, code, description, price, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, c.Title, c.Code, c.Description, c.Price, c.Status, c.CreatedBy,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CourseRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	var c models.Course
	err := r.pool.QueryRow(ctx, `
		SELECT id, title, code, description, price, status, created_by, created_at, updated_at
		FROM courses WHERE id = $1
	`, id).Scan(&c.ID, &c.Title, &c.Code, &c.Description, &c.Price, &c.Status, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CourseRepo) GetByCode(ctx context.Context, code string) (*models.Course, error) {
	var c models.Course
	err := r.pool.QueryRow(ctx, `
		SELECT id, title, code, description, price, status, created_by, created_at, updated_at
		FROM courses WHERE code = $1
	`, code).Scan(&c.ID, &c.Title, &c.Code, &c.Description, &c.Price, &c.Status, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

type CourseFilter struct {
	Status    *string
	CreatedBy *uuid.UUID
	Limit     int
	Offset    int
}

func (r *CourseRepo) List(ctx context.Context, f CourseFilter) ([]models.Course, error) {
	query := `
		SELECT id, title, code, description, price, status, created_by, created_at, updated_at
		FROM courses
	`
	args := []any{}
	argIdx := 1
	where := []string{}

	if f.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *f.Status)
		argIdx++
	}
	if f.CreatedBy != nil {
		where = append(where, fmt.Sprintf("created_by = $%d", argIdx))
		args = append(args, *f.CreatedBy)
		argIdx++
	}

	if len(where) > 0 {
		query += " WHERE "
		for i, w := range where {
			if i > 0 {
				query += " AND "
			}
			query += w
		}
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Code, &c.Description, &c.Price, &c.Status, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, nil
}

func (r *CourseRepo) Update(ctx context.Context, c *models.Course) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE courses SET title = $1, code = $2, description = $3, price = $4, updated_at = now()
		WHERE id = $5
	`, c.Title, c.Code, c.Description, c.Price, c.ID)
	return err
}

func (r *CourseRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.pool.Exec(ctx, `UPDATE courses SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	return err
}

// CountActiveRuns counts runs that block course archival or deletion.
func (r *CourseRepo) CountActiveRuns(ctx context.Context, courseID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM course_runs
		WHERE course_id = $1 AND status NOT IN ('completed', 'cancelled')
	`, courseID).Scan(&n)
	return n, err
}

func (r *CourseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	return err
}
