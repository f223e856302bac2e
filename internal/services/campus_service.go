package services

import (
	"context"

	"github.com/campusflow/backend/internal/errs"
	"github.com/campusflow/backend/internal/models"
	"github.com/campusflow/backend/internal/rbac"
	"github.com/campusflow/backend/internal/repositories"
	"github.com/campusflow/backend/internal/rules"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CampusService struct {
	campusRepo *repositories.CampusRepo
	auditRepo  *repositories.AuditRepo
	log        *zap.Logger
}

func NewCampusService(campusRepo *repositories.CampusRepo, auditRepo *repositories.AuditRepo, log *zap.Logger) *CampusService {
	return &CampusService{campusRepo: campusRepo, auditRepo: auditRepo, log: log}
}

func (s *CampusService) Create(ctx context.Context, actor models.Actor, c *models.Campus) error {
	if !rbac.CanCreate(actor.Role, models.EntityCampus) {
		return errs.Authorization("role cannot create campuses")
	}
	if c.Name == "" {
		return errs.Validation("name", "must not be empty")
	}
	if err := rules.ValidateSlug("slug", c.Slug); err != nil {
		return err
	}
	c.CreatedBy = &actor.ID

	if err := s.campusRepo.Create(ctx, c); err != nil {
		return err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actor.ID,
		ActorType:   "user",
		Action:      "campus_created",
		EntityType:  models.EntityCampus,
		EntityID:    &c.ID,
		Meta:        map[string]any{"slug": c.Slug},
	})
	return nil
}

func (s *CampusService) Get(ctx context.Context, id uuid.UUID) (*models.Campus, error) {
	return s.campusRepo.GetByID(ctx, id)
}

func (s *CampusService) List(ctx context.Context, activeOnly bool, limit, offset int) ([]models.Campus, error) {
	return s.campusRepo.List(ctx, activeOnly, limit, offset)
}

type CampusUpdateInput struct {
	Name    *string
	Slug    *string
	City    *string
	Address *string
	Active  *bool
}

func (s *CampusService) Update(ctx context.Context, actor models.Actor, id uuid.UUID, in CampusUpdateInput) (*models.Campus, error) {
	c, err := s.campusRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	owned := rbac.IsOwner(actor, c.CreatedBy)
	if !rbac.CanUpdateField(actor.Role, models.EntityCampus, rbac.FieldGroupGeneral, owned) {
		return nil, errs.Authorization("role cannot update campuses")
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, errs.Validation("name", "must not be empty")
		}
		c.Name = *in.Name
	}
	if in.Slug != nil {
		if err := rules.ValidateSlug("slug", *in.Slug); err != nil {
			return nil, err
		}
		c.Slug = *in.Slug
	}
	if in.City != nil {
		c.City = in.City
	}
	if in.Address != nil {
		c.Address = in.Address
	}
	if in.Active != nil {
		c.Active = *in.Active
	}

	if err := s.campusRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actor.ID,
		ActorType:   "user",
		Action:      "campus_updated",
		EntityType:  models.EntityCampus,
		EntityID:    &c.ID,
	})
	return c, nil
}

func (s *CampusService) Delete(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	if !rbac.CanDelete(actor.Role, models.EntityCampus) {
		return errs.Authorization("role cannot delete campuses")
	}

	n, err := s.campusRepo.CountRuns(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return errs.Invariant("campus_in_use", "campus has course runs attached")
	}

	if err := s.campusRepo.Delete(ctx, id); err != nil {
		return err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actor.ID,
		ActorType:   "user",
		Action:      "campus_deleted",
		EntityType:  models.EntityCampus,
		EntityID:    &id,
	})
	return nil
}
