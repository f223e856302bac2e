package repositories

import (
	"context"
	"fmt"

	"github.com/campusflow/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CourseRunRepo struct {
	pool *pgxpool.Pool
}

func NewCourseRunRepo(pool *pgxpool.Pool) *CourseRunRepo {
	return &CourseRunRepo{pool: pool}
}

const courseRunColumns = `
	id, course_id, campus_id, start_date, end_date, enrollment_deadline,
	schedule_days, schedule_time_start, schedule_time_end,
	max_students, min_students, current_enrollments, status,
	price_override, instructor_name, notes, created_by, created_at, updated_at
`

func scanCourseRun(row interface{ Scan(...any) error }, cr *models.CourseRun) error {
	return row.Scan(&cr.ID, &cr.CourseID, &cr.CampusID, &cr.StartDate, &cr.EndDate, &cr.EnrollmentDeadline,
		&cr.ScheduleDays, &cr.ScheduleTimeStart, &cr.ScheduleTimeEnd,
		&cr.MaxStudents, &cr.MinStudents, &cr.CurrentEnrollments, &cr.Status,
		&cr.PriceOverride, &cr.InstructorName, &cr.Notes, &cr.CreatedBy, &cr.CreatedAt, &cr.UpdatedAt)
}

func (r *CourseRunRepo) Create(ctx context.Context, cr *models.CourseRun) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO course_runs (course_id, campus_id, start_date, end_date, enrollment_deadline,
		                         schedule_days, schedule_time_start, schedule_time_end,
		                         max_students, min_students, status,
		                         price_override, instructor_name, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, current_enrollments, created_at, updated_at
	`, cr.CourseID, cr.CampusID, cr.StartDate, cr.EndDate, cr.EnrollmentDeadline,
		cr.ScheduleDays, cr.ScheduleTimeStart, cr.ScheduleTimeEnd,
		cr.MaxStudents, cr.MinStudents, cr.Status,
		cr.PriceOverride, cr.InstructorName, cr.Notes, cr.CreatedBy,
	).Scan(&cr.ID, &cr.CurrentEnrollments, &cr.CreatedAt, &cr.UpdatedAt)
}

func (r *CourseRunRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.CourseRun, error) {
	var cr models.CourseRun
	row := r.pool.QueryRow(ctx, `SELECT `+courseRunColumns+` FROM course_runs WHERE id = $1`, id)
	if err := scanCourseRun(row, &cr); err != nil {
		return nil, err
	}
	return &cr, nil
}

func (r *CourseRunRepo) GetByIDWithCourse(ctx context.Context, id uuid.UUID) (*models.CourseRunWithCourse, error) {
	var cr models.CourseRunWithCourse
	err := r.pool.QueryRow(ctx, `
		SELECT r.id, r.course_id, r.campus_id, r.start_date, r.end_date, r.enrollment_deadline,
		       r.schedule_days, r.schedule_time_start, r.schedule_time_end,
		       r.max_students, r.min_students, r.current_enrollments, r.status,
		       r.price_override, r.instructor_name, r.notes, r.created_by, r.created_at, r.updated_at,
		       c.title, c.code
		FROM course_runs r
		JOIN courses c ON c.id = r.course_id
		WHERE r.id = $1
	`, id).Scan(&cr.ID, &cr.CourseID, &cr.CampusID, &cr.StartDate, &cr.EndDate, &cr.EnrollmentDeadline,
		&cr.ScheduleDays, &cr.ScheduleTimeStart, &cr.ScheduleTimeEnd,
		&cr.MaxStudents, &cr.MinStudents, &cr.CurrentEnrollments, &cr.Status,
		&cr.PriceOverride, &cr.InstructorName, &cr.Notes, &cr.CreatedBy, &cr.CreatedAt, &cr.UpdatedAt,
		&cr.CourseTitle, &cr.CourseCode)
	if err != nil {
		return nil, err
	}
	return &cr, nil
}

type CourseRunFilter struct {
	CourseID *uuid.UUID
	CampusID *uuid.UUID
	Status   *string
	Limit    int
	Offset   int
}

func (r *CourseRunRepo) List(ctx context.Context, f CourseRunFilter) ([]models.CourseRun, error) {
	query := `SELECT ` + courseRunColumns + ` FROM course_runs`
	args := []any{}
	argIdx := 1
	where := []string{}

	if f.CourseID != nil {
		where = append(where, fmt.Sprintf("course_id = $%d", argIdx))
		args = append(args, *f.CourseID)
		argIdx++
	}
	if f.CampusID != nil {
		where = append(where, fmt.Sprintf("campus_id = $%d", argIdx))
		args = append(args, *f.CampusID)
		argIdx++
	}
	if f.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *f.Status)
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
	query += fmt.Sprintf(" ORDER BY start_date DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.CourseRun
	for rows.Next() {
		var cr models.CourseRun
		if err := scanCourseRun(rows, &cr); err != nil {
			return nil, err
		}
		runs = append(runs, cr)
	}
	return runs, nil
}

func (r *CourseRunRepo) Update(ctx context.Context, cr *models.CourseRun) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE course_runs SET campus_id = $1, start_date = $2, end_date = $3, enrollment_deadline = $4,
		       schedule_days = $5, schedule_time_start = $6, schedule_time_end = $7,
		       max_students = $8, min_students = $9,
		       price_override = $10, instructor_name = $11, notes = $12, updated_at = now()
		WHERE id = $13
	`, cr.CampusID, cr.StartDate, cr.EndDate, cr.EnrollmentDeadline,
		cr.ScheduleDays, cr.ScheduleTimeStart, cr.ScheduleTimeEnd,
		cr.MaxStudents, cr.MinStudents,
		cr.PriceOverride, cr.InstructorName, cr.Notes, cr.ID)
	return err
}

func (r *CourseRunRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.pool.Exec(ctx, `UPDATE course_runs SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	return err
}

func (r *CourseRunRepo) CountEnrollments(ctx context.Context, id uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM enrollments WHERE course_run_id = $1`, id).Scan(&n)
	return n, err
}

// ListOpenPastDeadline returns runs still accepting enrollments whose
// deadline has passed; the worker moves them to enrollment_closed.
func (r *CourseRunRepo) ListOpenPastDeadline(ctx context.Context) ([]models.CourseRun, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+courseRunColumns+` FROM course_runs
		WHERE status = 'enrollment_open' AND enrollment_deadline IS NOT NULL AND enrollment_deadline < now()
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.CourseRun
	for rows.Next() {
		var cr models.CourseRun
		if err := scanCourseRun(rows, &cr); err != nil {
			return nil, err
		}
		runs = append(runs, cr)
	}
	return runs, nil
}

// CounterDrift is a run whose stored seat counter disagrees with the number
// of seat-holding enrollments.
type CounterDrift struct {
	CourseRunID uuid.UUID
	Stored      int
	Actual      int
}

// FindCounterDrift compares current_enrollments against the count of
// seat-holding enrollments per run. A seat is taken at confirmation and kept
// through completion; it frees only on cancellation or withdrawal.
func (r *CourseRunRepo) FindCounterDrift(ctx context.Context) ([]CounterDrift, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.id, r.current_enrollments, COUNT(e.id) FILTER (WHERE e.status IN ('confirmed', 'completed'))
		FROM course_runs r
		LEFT JOIN enrollments e ON e.course_run_id = r.id
		WHERE r.status NOT IN ('completed', 'cancelled')
		GROUP BY r.id, r.current_enrollments
		HAVING r.current_enrollments <> COUNT(e.id) FILTER (WHERE e.status IN ('confirmed', 'completed'))
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drifts []CounterDrift
	for rows.Next() {
		var d CounterDrift
		if err := rows.Scan(&d.CourseRunID, &d.Stored, &d.Actual); err != nil {
			return nil, err
		}
		drifts = append(drifts, d)
	}
	return drifts, nil
}

func (r *CourseRunRepo) SetEnrollmentCount(ctx context.Context, id uuid.UUID, count int) error {
	_, err := r.pool.Exec(ctx, `UPDATE course_runs SET current_enrollments = $1, updated_at = now() WHERE id = $2`, count, id)
	return err
}

func (r *CourseRunRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM course_runs WHERE id = $1`, id)
	return err
}
