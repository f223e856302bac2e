package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/campusflow/backend/internal/errs"
	"github.com/campusflow/backend/internal/events"
	"github.com/campusflow/backend/internal/models"
	"github.com/campusflow/backend/internal/rbac"
	"github.com/campusflow/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type LeadService struct {
	leadRepo     *repositories.LeadRepo
	campaignRepo *repositories.CampaignRepo
	auditRepo    *repositories.AuditRepo
	publisher    events.Publisher
	log          *zap.Logger
}

func NewLeadService(
	leadRepo *repositories.LeadRepo,
	campaignRepo *repositories.CampaignRepo,
	auditRepo *repositories.AuditRepo,
	publisher events.Publisher,
	log *zap.Logger,
) *LeadService {
	return &LeadService{
		leadRepo:     leadRepo,
		campaignRepo: campaignRepo,
		auditRepo:    auditRepo,
		publisher:    publisher,
		log:          log,
	}
}

func (s *LeadService) validate(ctx context.Context, l *models.Lead) error {
	if l.FullName == "" {
		return errs.Validation("full_name", "must not be empty")
	}
	if _, err := mail.ParseAddress(l.Email); err != nil {
		return errs.Validation("email", "must be a valid email address")
	}
	if l.CampaignID != nil {
		if _, err := s.campaignRepo.GetByID(ctx, *l.CampaignID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return errs.ReferenceNotFound("campaign_id", l.CampaignID.String())
			}
			return err
		}
	}
	return nil
}

// Create registers a lead from an authenticated actor.
func (s *LeadService) Create(ctx context.Context, actor models.Actor, l *models.Lead) error {
	if !rbac.CanCreate(actor.Role, models.EntityLead) {
		return errs.Authorization("role cannot create leads")
	}
	if err := s.validate(ctx, l); err != nil {
		return err
	}

	l.Status = models.LeadStatusNew
	l.CreatedBy = &actor.ID

	if err := s.leadRepo.Create(ctx, l); err != nil {
		return err
	}
	s.logCreated(ctx, l, &actor.ID, "user")
	return nil
}

// CreatePublic registers a lead from the unauthenticated capture form. No
// actor, no ownership; the campaign reference is still enforced.
func (s *LeadService) CreatePublic(ctx context.Context, l *models.Lead) error {
	if err := s.validate(ctx, l); err != nil {
		return err
	}

	l.Status = models.LeadStatusNew
	l.CreatedBy = nil

	if err := s.leadRepo.Create(ctx, l); err != nil {
		return err
	}
	s.logCreated(ctx, l, nil, "system")
	return nil
}

func (s *LeadService) logCreated(ctx context.Context, l *models.Lead, actorID *uuid.UUID, actorType string) {
	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: actorID,
		ActorType:   actorType,
		Action:      "lead_created",
		EntityType:  models.EntityLead,
		EntityID:    &l.ID,
	})

	_ = s.publisher.Publish(ctx, events.StreamPlatform, events.Event{
		Type: events.EventLeadCaptured,
		Payload: map[string]any{
			"lead_id": l.ID.String(),
		},
	})
}

func (s *LeadService) Get(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	return s.leadRepo.GetByID(ctx, id)
}

func (s *LeadService) List(ctx context.Context, f repositories.LeadFilter) ([]models.Lead, error) {
	return s.leadRepo.List(ctx, f)
}

type LeadUpdateInput struct {
	FullName   *string
	Email      *string
	Phone      *string
	CampaignID *uuid.UUID
	Source     *string
	Notes      *string
}

func (s *LeadService) Update(ctx context.Context, actor models.Actor, id uuid.UUID, in LeadUpdateInput) (*models.Lead, error) {
	l, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	owned := rbac.IsOwner(actor, l.CreatedBy)
	group := rbac.FieldGroupGeneral
	if in.Notes != nil && in.FullName == nil && in.Email == nil && in.Phone == nil && in.CampaignID == nil && in.Source == nil {
		group = rbac.FieldGroupNotes
	}
	if !rbac.CanUpdateField(actor.Role, models.EntityLead, group, owned) {
		return nil, errs.Authorization("role cannot update this lead")
	}

	if in.FullName != nil {
		l.FullName = *in.FullName
	}
	if in.Email != nil {
		l.Email = *in.Email
	}
	if in.Phone != nil {
		l.Phone = in.Phone
	}
	if in.CampaignID != nil {
		l.CampaignID = in.CampaignID
	}
	if in.Source != nil {
		l.Source = in.Source
	}
	if in.Notes != nil {
		l.Notes = in.Notes
	}

	if err := s.validate(ctx, l); err != nil {
		return nil, err
	}

	if err := s.leadRepo.Update(ctx, l); err != nil {
		return nil, err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actor.ID,
		ActorType:   "user",
		Action:      "lead_updated",
		EntityType:  models.EntityLead,
		EntityID:    &l.ID,
	})
	return l, nil
}

func (s *LeadService) ChangeStatus(ctx context.Context, actor models.Actor, id uuid.UUID, newStatus string) (*models.Lead, error) {
	l, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	owned := rbac.IsOwner(actor, l.CreatedBy)
	if !rbac.CanUpdateField(actor.Role, models.EntityLead, rbac.FieldGroupStatus, owned) {
		return nil, errs.Authorization("role cannot change lead status")
	}
	if !models.IsValidLeadTransition(l.Status, newStatus) {
		return nil, errs.Invariant("lead_status", fmt.Sprintf("cannot move from %s to %s", l.Status, newStatus))
	}

	oldStatus := l.Status
	if err := s.leadRepo.UpdateStatus(ctx, l.ID, newStatus); err != nil {
		return nil, err
	}
	l.Status = newStatus

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actor.ID,
		ActorType:   "user",
		Action:      fmt.Sprintf("lead_status_%s_to_%s", oldStatus, newStatus),
		EntityType:  models.EntityLead,
		EntityID:    &l.ID,
		Meta:        map[string]any{"old_status": oldStatus, "new_status": newStatus},
	})

	_ = s.publisher.Publish(ctx, events.StreamPlatform, events.Event{
		Type: events.EventStatusChanged,
		Payload: map[string]any{
			"entity_type": models.EntityLead,
			"entity_id":   l.ID.String(),
			"old_status":  oldStatus,
			"new_status":  newStatus,
		},
	})
	return l, nil
}
