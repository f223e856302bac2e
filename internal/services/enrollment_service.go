package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campusflow/backend/internal/errs"
	"github.com/campusflow/backend/internal/events"
	"github.com/campusflow/backend/internal/models"
	"github.com/campusflow/backend/internal/rbac"
	"github.com/campusflow/backend/internal/repositories"
	"github.com/campusflow/backend/internal/rules"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// EnrollmentStore is the persistence surface the enrollment workflow needs.
// The seat-taking methods are transactional in the real implementation.
type EnrollmentStore interface {
	Create(ctx context.Context, e *models.Enrollment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Enrollment, error)
	Exists(ctx context.Context, studentID, courseRunID uuid.UUID) (bool, error)
	List(ctx context.Context, f repositories.EnrollmentFilter) ([]models.Enrollment, error)
	Update(ctx context.Context, e *models.Enrollment) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	ConfirmSeat(ctx context.Context, enrollmentID, courseRunID uuid.UUID, confirmedAt *time.Time) error
	ReleaseSeat(ctx context.Context, enrollmentID, courseRunID uuid.UUID, status string, cancelledAt *time.Time, reason *string) error
	SetCancelled(ctx context.Context, id uuid.UUID, status string, cancelledAt *time.Time, reason *string) error
	SetCompleted(ctx context.Context, id uuid.UUID, completedAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CourseRunStore is the read surface for the run an enrollment attaches to.
type CourseRunStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.CourseRun, error)
}

// AuditLogger records one audit entry per mutation.
type AuditLogger interface {
	Log(ctx context.Context, entry models.AuditLog) error
}

type EnrollmentService struct {
	enrollments EnrollmentStore
	runs        CourseRunStore
	audit       AuditLogger
	publisher   events.Publisher
	log         *zap.Logger
	now         func() time.Time
}

func NewEnrollmentService(enrollments EnrollmentStore, runs CourseRunStore, audit AuditLogger, publisher events.Publisher, log *zap.Logger) *EnrollmentService {
	return &EnrollmentService{
		enrollments: enrollments,
		runs:        runs,
		audit:       audit,
		publisher:   publisher,
		log:         log,
		now:         time.Now,
	}
}

// Create places a student into a run. The run must be accepting enrollments;
// when it is full the enrollment lands on the waitlist instead of failing.
func (s *EnrollmentService) Create(ctx context.Context, actor models.Actor, e *models.Enrollment) error {
	if !rbac.CanCreate(actor.Role, models.EntityEnrollment) {
		return errs.Authorization("role cannot create enrollments")
	}
	if err := rules.ValidateEnrollment(e); err != nil {
		return err
	}

	run, err := s.runs.GetByID(ctx, e.CourseRunID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errs.ReferenceNotFound("course_run_id", e.CourseRunID.String())
		}
		return err
	}
	if run.Status != models.CourseRunStatusEnrollmentOpen {
		return errs.Invariant("enrollment_not_open", "course run is not accepting enrollments")
	}
	now := s.now()
	if run.EnrollmentDeadline != nil && now.After(*run.EnrollmentDeadline) {
		return errs.Invariant("enrollment_deadline_passed", "enrollment deadline has passed")
	}

	exists, err := s.enrollments.Exists(ctx, e.StudentID, e.CourseRunID)
	if err != nil {
		return err
	}
	if exists {
		return errs.Invariant("duplicate_enrollment", "student already has an enrollment in this run")
	}

	e.Status = models.EnrollmentStatusPending
	if run.IsFull() {
		e.Status = models.EnrollmentStatusWaitlisted
	}
	e.PaymentStatus = models.DerivePaymentStatus("", e.AmountPaid, e.TotalAmount)
	e.EnrolledAt = &now
	e.CreatedBy = &actor.ID

	if err := s.enrollments.Create(ctx, e); err != nil {
		return err
	}

	_ = s.audit.Log(ctx, models.AuditLog{
		ActorUserID: &actor.ID,
		ActorType:   "user",
		Action:      "enrollment_created",
		EntityType:  models.EntityEnrollment,
		EntityID:    &e.ID,
		Meta:        map[string]any{"course_run_id": e.CourseRunID.String(), "status": e.Status},
	})

	eventType := events.EventEnrollmentCreated
	if e.Status == models.EnrollmentStatusWaitlisted {
		eventType = events.EventEnrollmentWaitlisted
	}
	_ = s.publisher.Publish(ctx, events.StreamPlatform, events.Event{
		Type: eventType,
		Payload: map[string]any{
			"enrollment_id": e.ID.String(),
			"course_run_id": e.CourseRunID.String(),
			"status":        e.Status,
		},
	})

	return nil
}

func (s *EnrollmentService) Get(ctx context.Context, id uuid.UUID) (*models.Enrollment, error) {
	return s.enrollments.GetByID(ctx, id)
}

func (s *EnrollmentService) List(ctx context.Context, f repositories.EnrollmentFilter) ([]models.Enrollment, error) {
	return s.enrollments.List(ctx, f)
}

// ChangeStatus drives the enrollment state machine. Confirmation takes a seat
// atomically and loses cleanly when the run fills first; leaving confirmed
// gives the seat back.
func (s *EnrollmentService) ChangeStatus(ctx context.Context, actor models.Actor, id uuid.UUID, newStatus string, reason *string) (*models.Enrollment, error) {
	e, err := s.enrollments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	owned := rbac.IsOwner(actor, e.CreatedBy)
	if !rbac.CanUpdateField(actor.Role, models.EntityEnrollment, rbac.FieldGroupStatus, owned) {
		return nil, errs.Authorization("role cannot change enrollment status")
	}
	if !models.IsValidEnrollmentTransition(e.Status, newStatus) {
		return nil, errs.Invariant("enrollment_status", fmt.Sprintf("cannot move from %s to %s", e.Status, newStatus))
	}

	oldStatus := e.Status
	now := s.now()

	switch newStatus {
	case models.EnrollmentStatusConfirmed:
		run, err := s.runs.GetByID(ctx, e.CourseRunID)
		if err != nil {
			return nil, err
		}
		if run.Status == models.CourseRunStatusCompleted || run.Status == models.CourseRunStatusCancelled {
			return nil, errs.Invariant("run_closed", "course run is no longer running")
		}
		if err := s.enrollments.ConfirmSeat(ctx, e.ID, e.CourseRunID, &now); err != nil {
			return nil, err
		}
		e.Status = newStatus
		if e.ConfirmedAt == nil {
			e.ConfirmedAt = &now
		}

	case models.EnrollmentStatusCancelled, models.EnrollmentStatusWithdrawn:
		if oldStatus == models.EnrollmentStatusConfirmed {
			if err := s.enrollments.ReleaseSeat(ctx, e.ID, e.CourseRunID, newStatus, &now, reason); err != nil {
				return nil, err
			}
			_ = s.publisher.Publish(ctx, events.StreamPlatform, events.Event{
				Type: events.EventSeatReleased,
				Payload: map[string]any{
					"enrollment_id": e.ID.String(),
					"course_run_id": e.CourseRunID.String(),
				},
			})
		} else {
			if err := s.enrollments.SetCancelled(ctx, e.ID, newStatus, &now, reason); err != nil {
				return nil, err
			}
		}
		e.Status = newStatus
		if e.CancelledAt == nil {
			e.CancelledAt = &now
		}
		if reason != nil {
			e.CancellationReason = reason
		}

	case models.EnrollmentStatusCompleted:
		if err := s.enrollments.SetCompleted(ctx, e.ID, now); err != nil {
			return nil, err
		}
		e.Status = newStatus
		if e.CompletedAt == nil {
			e.CompletedAt = &now
		}

	default: // pending, waitlisted
		if err := s.enrollments.UpdateStatus(ctx, e.ID, newStatus); err != nil {
			return nil, err
		}
		e.Status = newStatus
	}

	_ = s.audit.Log(ctx, models.AuditLog{
		ActorUserID: &actor.ID,
		ActorType:   "user",
		Action:      fmt.Sprintf("enrollment_status_%s_to_%s", oldStatus, newStatus),
		EntityType:  models.EntityEnrollment,
		EntityID:    &e.ID,
		Meta:        map[string]any{"old_status": oldStatus, "new_status": newStatus},
	})

	if newStatus == models.EnrollmentStatusConfirmed {
		_ = s.publisher.Publish(ctx, events.StreamPlatform, events.Event{
			Type: events.EventEnrollmentConfirmed,
			Payload: map[string]any{
				"enrollment_id": e.ID.String(),
				"course_run_id": e.CourseRunID.String(),
			},
		})
	} else {
		_ = s.publisher.Publish(ctx, events.StreamPlatform, events.Event{
			Type: events.EventStatusChanged,
			Payload: map[string]any{
				"entity_type": models.EntityEnrollment,
				"entity_id":   e.ID.String(),
				"old_status":  oldStatus,
				"new_status":  newStatus,
			},
		})
	}

	return e, nil
}

type EnrollmentUpdateInput struct {
	TotalAmount         *float64
	AmountPaid          *float64
	FinancialAidApplied *bool
	FinancialAidAmount  *float64
	FinancialAidStatus  *string
	AttendancePercent   *float64
	FinalGrade          *float64
	Notes               *string
}

// Update applies financial, progress and notes edits. The payment status is
// re-derived from the amounts on every write; refunded and waived stick.
func (s *EnrollmentService) Update(ctx context.Context, actor models.Actor, id uuid.UUID, in EnrollmentUpdateInput) (*models.Enrollment, error) {
	e, err := s.enrollments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	owned := rbac.IsOwner(actor, e.CreatedBy)

	touchesFinancial := in.TotalAmount != nil || in.AmountPaid != nil ||
		in.FinancialAidApplied != nil || in.FinancialAidAmount != nil || in.FinancialAidStatus != nil
	touchesGeneral := in.AttendancePercent != nil || in.FinalGrade != nil
	touchesNotes := in.Notes != nil

	if touchesFinancial && !rbac.CanUpdateField(actor.Role, models.EntityEnrollment, rbac.FieldGroupFinancial, owned) {
		return nil, errs.Authorization("role cannot edit enrollment financial fields")
	}
	if touchesGeneral && !rbac.CanUpdateField(actor.Role, models.EntityEnrollment, rbac.FieldGroupGeneral, owned) {
		return nil, errs.Authorization("role cannot edit enrollment progress fields")
	}
	if touchesNotes && !rbac.CanUpdateField(actor.Role, models.EntityEnrollment, rbac.FieldGroupNotes, owned) {
		return nil, errs.Authorization("role cannot edit enrollment notes")
	}

	if in.TotalAmount != nil {
		e.TotalAmount = *in.TotalAmount
	}
	if in.AmountPaid != nil {
		e.AmountPaid = *in.AmountPaid
	}
	if in.FinancialAidApplied != nil {
		e.FinancialAidApplied = *in.FinancialAidApplied
	}
	if in.FinancialAidAmount != nil {
		e.FinancialAidAmount = *in.FinancialAidAmount
	}
	if in.FinancialAidStatus != nil {
		e.FinancialAidStatus = in.FinancialAidStatus
	}
	if in.AttendancePercent != nil {
		e.AttendancePercent = in.AttendancePercent
	}
	if in.FinalGrade != nil {
		e.FinalGrade = in.FinalGrade
	}
	if in.Notes != nil {
		e.Notes = in.Notes
	}

	if err := rules.ValidateEnrollment(e); err != nil {
		return nil, err
	}
	e.PaymentStatus = models.DerivePaymentStatus(e.PaymentStatus, e.AmountPaid, e.TotalAmount)

	if err := s.enrollments.Update(ctx, e); err != nil {
		return nil, err
	}

	_ = s.audit.Log(ctx, models.AuditLog{
		ActorUserID: &actor.ID,
		ActorType:   "user",
		Action:      "enrollment_updated",
		EntityType:  models.EntityEnrollment,
		EntityID:    &e.ID,
	})
	return e, nil
}

// SetPaymentStatus handles the manual refunded and waived markers that the
// derivation never produces on its own.
func (s *EnrollmentService) SetPaymentStatus(ctx context.Context, actor models.Actor, id uuid.UUID, status string) (*models.Enrollment, error) {
	if status != models.PaymentStatusRefunded && status != models.PaymentStatusWaived {
		return nil, errs.Validation("payment_status", "only refunded and waived can be set manually")
	}

	e, err := s.enrollments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	owned := rbac.IsOwner(actor, e.CreatedBy)
	if !rbac.CanUpdateField(actor.Role, models.EntityEnrollment, rbac.FieldGroupFinancial, owned) {
		return nil, errs.Authorization("role cannot edit enrollment financial fields")
	}

	oldStatus := e.PaymentStatus
	e.PaymentStatus = status
	if err := s.enrollments.Update(ctx, e); err != nil {
		return nil, err
	}

	_ = s.audit.Log(ctx, models.AuditLog{
		ActorUserID: &actor.ID,
		ActorType:   "user",
		Action:      fmt.Sprintf("enrollment_payment_%s_to_%s", oldStatus, status),
		EntityType:  models.EntityEnrollment,
		EntityID:    &e.ID,
	})
	return e, nil
}

func (s *EnrollmentService) Delete(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	if !rbac.CanDelete(actor.Role, models.EntityEnrollment) {
		return errs.Authorization("role cannot delete enrollments")
	}

	e, err := s.enrollments.GetByID(ctx, id)
	if err != nil {
		return err
	}

	// A confirmed enrollment holds a seat; give it back on the way out.
	if e.Status == models.EnrollmentStatusConfirmed {
		now := s.now()
		if err := s.enrollments.ReleaseSeat(ctx, e.ID, e.CourseRunID, models.EnrollmentStatusCancelled, &now, nil); err != nil {
			return err
		}
	}

	if err := s.enrollments.Delete(ctx, id); err != nil {
		return err
	}

	_ = s.audit.Log(ctx, models.AuditLog{
		ActorUserID: &actor.ID,
		ActorType:   "user",
		Action:      "enrollment_deleted",
		EntityType:  models.EntityEnrollment,
		EntityID:    &id,
	})
	return nil
}
