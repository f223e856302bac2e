package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/campusflow/backend/internal/errs"
	"github.com/campusflow/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EnrollmentRepo struct {
	pool *pgxpool.Pool
}

func NewEnrollmentRepo(pool *pgxpool.Pool) *EnrollmentRepo {
	return &EnrollmentRepo{pool: pool}
}

const enrollmentColumns = `
	id, student_id, course_run_id, status, payment_status,
	total_amount, amount_paid, financial_aid_applied, financial_aid_amount, financial_aid_status,
	attendance_percentage, final_grade, notes, cancellation_reason,
	enrolled_at, confirmed_at, completed_at, cancelled_at,
	created_by, created_at, updated_at
`

func scanEnrollment(row interface{ Scan(...any) error }, e *models.Enrollment) error {
	return row.Scan(&e.ID, &e.StudentID, &e.CourseRunID, &e.Status, &e.PaymentStatus,
		&e.TotalAmount, &e.AmountPaid, &e.FinancialAidApplied, &e.FinancialAidAmount, &e.FinancialAidStatus,
		&e.AttendancePercent, &e.FinalGrade, &e.Notes, &e.CancellationReason,
		&e.EnrolledAt, &e.ConfirmedAt, &e.CompletedAt, &e.CancelledAt,
		&e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
}

func (r *EnrollmentRepo) Create(ctx context.Context, e *models.Enrollment) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO enrollments (student_id, course_run_id, status, payment_status,
		                         total_amount, amount_paid, financial_aid_applied, financial_aid_amount, financial_aid_status,
		                         notes, enrolled_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`, e.StudentID, e.CourseRunID, e.Status, e.PaymentStatus,
		e.TotalAmount, e.AmountPaid, e.FinancialAidApplied, e.FinancialAidAmount, e.FinancialAidStatus,
		e.Notes, e.EnrolledAt, e.CreatedBy,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *EnrollmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Enrollment, error) {
	var e models.Enrollment
	row := r.pool.QueryRow(ctx, `SELECT `+enrollmentColumns+` FROM enrollments WHERE id = $1`, id)
	if err := scanEnrollment(row, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Exists reports whether the student already has an enrollment in the run,
// regardless of its status.
func (r *EnrollmentRepo) Exists(ctx context.Context, studentID, courseRunID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM enrollments WHERE student_id = $1 AND course_run_id = $2)
	`, studentID, courseRunID).Scan(&exists)
	return exists, err
}

type EnrollmentFilter struct {
	StudentID   *uuid.UUID
	CourseRunID *uuid.UUID
	Status      *string
	Limit       int
	Offset      int
}

func (r *EnrollmentRepo) List(ctx context.Context, f EnrollmentFilter) ([]models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments`
	args := []any{}
	argIdx := 1
	where := []string{}

	if f.StudentID != nil {
		where = append(where, fmt.Sprintf("student_id = $%d", argIdx))
		args = append(args, *f.StudentID)
		argIdx++
	}
	if f.CourseRunID != nil {
		where = append(where, fmt.Sprintf("course_run_id = $%d", argIdx))
		args = append(args, *f.CourseRunID)
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
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, f.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []models.Enrollment
	for rows.Next() {
		var e models.Enrollment
		if err := scanEnrollment(rows, &e); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, nil
}

func (r *EnrollmentRepo) Update(ctx context.Context, e *models.Enrollment) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE enrollments SET payment_status = $1, total_amount = $2, amount_paid = $3,
		       financial_aid_applied = $4, financial_aid_amount = $5, financial_aid_status = $6,
		       attendance_percentage = $7, final_grade = $8, notes = $9, updated_at = now()
		WHERE id = $10
	`, e.PaymentStatus, e.TotalAmount, e.AmountPaid,
		e.FinancialAidApplied, e.FinancialAidAmount, e.FinancialAidStatus,
		e.AttendancePercent, e.FinalGrade, e.Notes, e.ID)
	return err
}

func (r *EnrollmentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.pool.Exec(ctx, `UPDATE enrollments SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	return err
}

// ConfirmSeat moves the enrollment to confirmed while taking a seat on the
// run atomically. The conditional increment is the capacity gate: when two
// confirmations race for the last seat, the second one matches zero rows and
// loses with a conflict error without ever oversubscribing the run.
func (r *EnrollmentRepo) ConfirmSeat(ctx context.Context, enrollmentID, courseRunID uuid.UUID, confirmedAt *time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE course_runs SET current_enrollments = current_enrollments + 1, updated_at = now()
		WHERE id = $1 AND current_enrollments < max_students
	`, courseRunID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ConcurrencyConflict("course run is at capacity")
	}

	if _, err := tx.Exec(ctx, `
		UPDATE enrollments SET status = 'confirmed', confirmed_at = COALESCE(confirmed_at, $1), updated_at = now()
		WHERE id = $2
	`, confirmedAt, enrollmentID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ReleaseSeat moves a seat-holding enrollment out of confirmed and gives the
// seat back, flooring the counter at zero.
func (r *EnrollmentRepo) ReleaseSeat(ctx context.Context, enrollmentID, courseRunID uuid.UUID, status string, cancelledAt *time.Time, reason *string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		UPDATE course_runs SET current_enrollments = GREATEST(current_enrollments - 1, 0), updated_at = now()
		WHERE id = $1
	`, courseRunID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE enrollments SET status = $1, cancelled_at = COALESCE(cancelled_at, $2),
		       cancellation_reason = COALESCE($3, cancellation_reason), updated_at = now()
		WHERE id = $4
	`, status, cancelledAt, reason, enrollmentID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// SetCancelled records a cancellation or withdrawal for an enrollment that
// holds no seat, so no counter change is needed.
func (r *EnrollmentRepo) SetCancelled(ctx context.Context, id uuid.UUID, status string, cancelledAt *time.Time, reason *string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE enrollments SET status = $1, cancelled_at = COALESCE(cancelled_at, $2),
		       cancellation_reason = COALESCE($3, cancellation_reason), updated_at = now()
		WHERE id = $4
	`, status, cancelledAt, reason, id)
	return err
}

func (r *EnrollmentRepo) SetCompleted(ctx context.Context, id uuid.UUID, completedAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE enrollments SET status = 'completed', completed_at = COALESCE(completed_at, $1), updated_at = now()
		WHERE id = $2
	`, completedAt, id)
	return err
}

func (r *EnrollmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM enrollments WHERE id = $1`, id)
	return err
}
