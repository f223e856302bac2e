package services

import (
	"context"
	"errors"
	"fmt"

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

type CourseRunService struct {
	runRepo    *repositories.CourseRunRepo
	courseRepo *repositories.CourseRepo
	campusRepo *repositories.CampusRepo
	auditRepo  *repositories.AuditRepo
	publisher  events.Publisher
	log        *zap.Logger
}

func NewCourseRunService(
	runRepo *repositories.CourseRunRepo,
	courseRepo *repositories.CourseRepo,
	campusRepo *repositories.CampusRepo,
	auditRepo *repositories.AuditRepo,
	publisher events.Publisher,
	log *zap.Logger,
) *CourseRunService {
	return &CourseRunService{
		runRepo:    runRepo,
		courseRepo: courseRepo,
		campusRepo: campusRepo,
		auditRepo:  auditRepo,
		publisher:  publisher,
		log:        log,
	}
}

func (s *CourseRunService) transition(ctx context.Context, cr *models.CourseRun, newStatus string, actor models.Actor, actorType string) error {
	if !models.IsValidCourseRunTransition(cr.Status, newStatus) {
		return errs.Invariant("course_run_status", fmt.Sprintf("cannot move from %s to %s", cr.Status, newStatus))
	}

	oldStatus := cr.Status
	if err := s.runRepo.UpdateStatus(ctx, cr.ID, newStatus); err != nil {
		return err
	}
	cr.Status = newStatus

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actor.ID,
		ActorType:   actorType,
		Action:      fmt.Sprintf("course_run_status_%s_to_%s", oldStatus, newStatus),
		EntityType:  models.EntityCourseRun,
		EntityID:    &cr.ID,
		Meta:        map[string]any{"old_status": oldStatus, "new_status": newStatus},
	})

	_ = s.publisher.Publish(ctx, events.StreamPlatform, events.Event{
		Type: events.EventStatusChanged,
		Payload: map[string]any{
			"entity_type": models.EntityCourseRun,
			"entity_id":   cr.ID.String(),
			"old_status":  oldStatus,
			"new_status":  newStatus,
		},
	})

	return nil
}

// checkReferences verifies the course exists and, when set, the campus too.
func (s *CourseRunService) checkReferences(ctx context.Context, cr *models.CourseRun) error {
	if _, err := s.courseRepo.GetByID(ctx, cr.CourseID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errs.ReferenceNotFound("course_id", cr.CourseID.String())
		}
		return err
	}
	if cr.CampusID != nil {
		if _, err := s.campusRepo.GetByID(ctx, *cr.CampusID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return errs.ReferenceNotFound("campus_id", cr.CampusID.String())
			}
			return err
		}
	}
	return nil
}

func (s *CourseRunService) Create(ctx context.Context, actor models.Actor, cr *models.CourseRun) error {
	if !rbac.CanCreate(actor.Role, models.EntityCourseRun) {
		return errs.Authorization("role cannot create course runs")
	}
	if err := rules.ValidateCourseRun(cr); err != nil {
		return err
	}
	if err := s.checkReferences(ctx, cr); err != nil {
		return err
	}

	cr.Status = models.CourseRunStatusDraft
	cr.CurrentEnrollments = 0
	cr.CreatedBy = &actor.ID

	if err := s.runRepo.Create(ctx, cr); err != nil {
		return err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actor.ID,
		ActorType:   "user",
		Action:      "course_run_created",
		EntityType:  models.EntityCourseRun,
		EntityID:    &cr.ID,
		Meta:        map[string]any{"course_id": cr.CourseID.String()},
	})
	return nil
}

func (s *CourseRunService) Get(ctx context.Context, id uuid.UUID) (*models.CourseRunWithCourse, error) {
	return s.runRepo.GetByIDWithCourse(ctx, id)
}

func (s *CourseRunService) List(ctx context.Context, f repositories.CourseRunFilter) ([]models.CourseRun, error) {
	return s.runRepo.List(ctx, f)
}

// Update applies general-group edits through the apply callback. The seat
// counter and creator are never writable here; stored values always win.
func (s *CourseRunService) Update(ctx context.Context, actor models.Actor, id uuid.UUID, apply func(*models.CourseRun)) (*models.CourseRun, error) {
	cr, err := s.runRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	owned := rbac.IsOwner(actor, cr.CreatedBy)
	if !rbac.CanUpdateField(actor.Role, models.EntityCourseRun, rbac.FieldGroupGeneral, owned) {
		return nil, errs.Authorization("role cannot update course runs")
	}

	storedCount := cr.CurrentEnrollments
	storedCreator := cr.CreatedBy
	apply(cr)
	cr.CurrentEnrollments = storedCount
	cr.CreatedBy = storedCreator

	if err := rules.ValidateCourseRun(cr); err != nil {
		return nil, err
	}
	// Capacity cannot shrink below seats already taken.
	if cr.MaxStudents < storedCount {
		return nil, errs.Invariant("capacity_below_enrollments", "max_students is below current enrollments")
	}
	if err := s.checkReferences(ctx, cr); err != nil {
		return nil, err
	}

	if err := s.runRepo.Update(ctx, cr); err != nil {
		return nil, err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actor.ID,
		ActorType:   "user",
		Action:      "course_run_updated",
		EntityType:  models.EntityCourseRun,
		EntityID:    &cr.ID,
	})
	return cr, nil
}

func (s *CourseRunService) ChangeStatus(ctx context.Context, actor models.Actor, id uuid.UUID, newStatus string) (*models.CourseRun, error) {
	cr, err := s.runRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	owned := rbac.IsOwner(actor, cr.CreatedBy)
	if !rbac.CanUpdateField(actor.Role, models.EntityCourseRun, rbac.FieldGroupStatus, owned) {
		return nil, errs.Authorization("role cannot change course run status")
	}

	// Opening enrollment requires a published course.
	if newStatus == models.CourseRunStatusEnrollmentOpen {
		course, err := s.courseRepo.GetByID(ctx, cr.CourseID)
		if err != nil {
			return nil, err
		}
		if course.Status != models.CourseStatusPublished {
			return nil, errs.Invariant("course_not_published", "enrollment can only open on a published course")
		}
	}

	if err := s.transition(ctx, cr, newStatus, actor, "user"); err != nil {
		return nil, err
	}
	return cr, nil
}

// CloseExpiredEnrollment moves open runs whose deadline has passed to
// enrollment_closed. Run from the worker.
func (s *CourseRunService) CloseExpiredEnrollment(ctx context.Context) (int, error) {
	runs, err := s.runRepo.ListOpenPastDeadline(ctx)
	if err != nil {
		return 0, err
	}

	closed := 0
	for i := range runs {
		cr := &runs[i]
		oldStatus := cr.Status
		if err := s.runRepo.UpdateStatus(ctx, cr.ID, models.CourseRunStatusEnrollmentClosed); err != nil {
			s.log.Error("failed to close enrollment", zap.String("course_run_id", cr.ID.String()), zap.Error(err))
			continue
		}
		closed++

		_ = s.auditRepo.Log(ctx, models.AuditLog{
			ActorType:  "system",
			Action:     "course_run_enrollment_deadline_closed",
			EntityType: models.EntityCourseRun,
			EntityID:   &cr.ID,
			Meta:       map[string]any{"old_status": oldStatus, "new_status": models.CourseRunStatusEnrollmentClosed},
		})
		_ = s.publisher.Publish(ctx, events.StreamPlatform, events.Event{
			Type: events.EventStatusChanged,
			Payload: map[string]any{
				"entity_type": models.EntityCourseRun,
				"entity_id":   cr.ID.String(),
				"old_status":  oldStatus,
				"new_status":  models.CourseRunStatusEnrollmentClosed,
			},
		})
	}
	return closed, nil
}

// ReconcileSeatCounters repairs stored enrollment counters that drifted from
// the actual number of confirmed enrollments.
func (s *CourseRunService) ReconcileSeatCounters(ctx context.Context) (int, error) {
	drifts, err := s.runRepo.FindCounterDrift(ctx)
	if err != nil {
		return 0, err
	}

	fixed := 0
	for _, d := range drifts {
		if err := s.runRepo.SetEnrollmentCount(ctx, d.CourseRunID, d.Actual); err != nil {
			s.log.Error("failed to reconcile seat counter", zap.String("course_run_id", d.CourseRunID.String()), zap.Error(err))
			continue
		}
		fixed++

		s.log.Warn("seat counter drift repaired",
			zap.String("course_run_id", d.CourseRunID.String()),
			zap.Int("stored", d.Stored),
			zap.Int("actual", d.Actual),
		)
		_ = s.auditRepo.Log(ctx, models.AuditLog{
			ActorType:  "system",
			Action:     "course_run_counter_reconciled",
			EntityType: models.EntityCourseRun,
			EntityID:   &d.CourseRunID,
			Meta:       map[string]any{"stored": d.Stored, "actual": d.Actual},
		})
	}
	return fixed, nil
}

func (s *CourseRunService) Delete(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	if !rbac.CanDelete(actor.Role, models.EntityCourseRun) {
		return errs.Authorization("role cannot delete course runs")
	}

	n, err := s.runRepo.CountEnrollments(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return errs.Invariant("run_has_enrollments", "course run has enrollments attached")
	}

	if err := s.runRepo.Delete(ctx, id); err != nil {
		return err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actor.ID,
		ActorType:   "user",
		Action:      "course_run_deleted",
		EntityType:  models.EntityCourseRun,
		EntityID:    &id,
	})
	return nil
}
