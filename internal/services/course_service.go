package services

import (
	"context"
	"fmt"

	"github.com/campusflow/backend/internal/errs"
	"github.com/campusflow/backend/internal/events"
	"github.com/campusflow/backend/internal/models"
	"github.com/campusflow/backend/internal/rbac"
	"github.com/campusflow/backend/internal/repositories"
	"github.com/campusflow/backend/internal/rules"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CourseService struct {
	courseRepo *repositories.CourseRepo
	auditRepo  *repositories.AuditRepo
	publisher  events.Publisher
	log        *zap.Logger
}

func NewCourseService(courseRepo *repositories.CourseRepo, auditRepo *repositories.AuditRepo, publisher events.Publisher, log *zap.Logger) *CourseService {
	return &CourseService{courseRepo: courseRepo, auditRepo: auditRepo, publisher: publisher, log: log}
}

// transition validates and performs a status transition with audit logging.
func (s *CourseService) transition(ctx context.Context, c *models.Course, newStatus string, actor models.Actor) error {
	if !models.IsValidCourseTransition(c.Status, newStatus) {
		return errs.Invariant("course_status", fmt.Sprintf("cannot move from %s to %s", c.Status, newStatus))
	}

	oldStatus := c.Status
	if err := s.courseRepo.UpdateStatus(ctx, c.ID, newStatus); err != nil {
		return err
	}
	c.Status = newStatus

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actor.ID,
		ActorType:   "user",
		Action:      fmt.Sprintf("course_status_%s_to_%s", oldStatus, newStatus),
		EntityType:  models.EntityCourse,
		EntityID:    &c.ID,
		Meta:        map[string]any{"old_status": oldStatus, "new_status": newStatus},
	})

	_ = s.publisher.Publish(ctx, events.StreamPlatform, events.Event{
		Type: events.EventStatusChanged,
		Payload: map[string]any{
			"entity_type": models.EntityCourse,
			"entity_id":   c.ID.String(),
			"old_status":  oldStatus,
			"new_status":  newStatus,
		},
	})

	return nil
}

func (s *CourseService) Create(ctx context.Context, actor models.Actor, c *models.Course) error {
	if !rbac.CanCreate(actor.Role, models.EntityCourse) {
		return errs.Authorization("role cannot create courses")
	}
	if err := validateCourseFields(c); err != nil {
		return err
	}

	c.Status = models.CourseStatusDraft
	c.CreatedBy = &actor.ID

	if err := s.courseRepo.Create(ctx, c); err != nil {
		return err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actor.ID,
		ActorType:   "user",
		Action:      "course_created",
		EntityType:  models.EntityCourse,
		EntityID:    &c.ID,
		Meta:        map[string]any{"code": c.Code},
	})
	return nil
}

func validateCourseFields(c *models.Course) error {
	if err := rules.ValidateBoundedString("title", c.Title, 1, 200); err != nil {
		return err
	}
	if err := rules.ValidateBoundedString("code", c.Code, 1, 50); err != nil {
		return err
	}
	return rules.ValidateMoney("price", c.Price)
}

func (s *CourseService) Get(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	return s.courseRepo.GetByID(ctx, id)
}

func (s *CourseService) List(ctx context.Context, f repositories.CourseFilter) ([]models.Course, error) {
	return s.courseRepo.List(ctx, f)
}

type CourseUpdateInput struct {
	Title       *string
	Code        *string
	Description *string
	Price       *float64
}

func (s *CourseService) Update(ctx context.Context, actor models.Actor, id uuid.UUID, in CourseUpdateInput) (*models.Course, error) {
	c, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	owned := rbac.IsOwner(actor, c.CreatedBy)
	if !rbac.CanUpdateField(actor.Role, models.EntityCourse, rbac.FieldGroupGeneral, owned) {
		return nil, errs.Authorization("role cannot update courses")
	}

	if in.Title != nil {
		c.Title = *in.Title
	}
	if in.Code != nil {
		c.Code = *in.Code
	}
	if in.Description != nil {
		c.Description = in.Description
	}
	if in.Price != nil {
		c.Price = *in.Price
	}
	if err := validateCourseFields(c); err != nil {
		return nil, err
	}

	if err := s.courseRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actor.ID,
		ActorType:   "user",
		Action:      "course_updated",
		EntityType:  models.EntityCourse,
		EntityID:    &c.ID,
	})
	return c, nil
}

func (s *CourseService) ChangeStatus(ctx context.Context, actor models.Actor, id uuid.UUID, newStatus string) (*models.Course, error) {
	c, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	owned := rbac.IsOwner(actor, c.CreatedBy)
	if !rbac.CanUpdateField(actor.Role, models.EntityCourse, rbac.FieldGroupStatus, owned) {
		return nil, errs.Authorization("role cannot change course status")
	}

	// Archiving is blocked while runs are still live.
	if newStatus == models.CourseStatusArchived {
		n, err := s.courseRepo.CountActiveRuns(ctx, id)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, errs.Invariant("course_has_active_runs", "course has runs that are not completed or cancelled")
		}
	}

	if err := s.transition(ctx, c, newStatus, actor); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CourseService) Delete(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	if !rbac.CanDelete(actor.Role, models.EntityCourse) {
		return errs.Authorization("role cannot delete courses")
	}

	n, err := s.courseRepo.CountActiveRuns(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return errs.Invariant("course_has_active_runs", "course has runs that are not completed or cancelled")
	}

	if err := s.courseRepo.Delete(ctx, id); err != nil {
		return err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actor.ID,
		ActorType:   "user",
		Action:      "course_deleted",
		EntityType:  models.EntityCourse,
		EntityID:    &id,
	})
	return nil
}
