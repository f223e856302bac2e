package services

import (
	"context"
	"fmt"
	"time"

	"github.com/campusflow/backend/internal/errs"
	"github.com/campusflow/backend/internal/events"
	"github.com/campusflow/backend/internal/models"
	"github.com/campusflow/backend/internal/rbac"
	"github.com/campusflow/backend/internal/repositories"
	"github.com/campusflow/backend/internal/rules"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CampaignService struct {
	campaignRepo *repositories.CampaignRepo
	leadRepo     *repositories.LeadRepo
	auditRepo    *repositories.AuditRepo
	publisher    events.Publisher
	log          *zap.Logger
	now          func() time.Time
}

func NewCampaignService(
	campaignRepo *repositories.CampaignRepo,
	leadRepo *repositories.LeadRepo,
	auditRepo *repositories.AuditRepo,
	publisher events.Publisher,
	log *zap.Logger,
) *CampaignService {
	return &CampaignService{
		campaignRepo: campaignRepo,
		leadRepo:     leadRepo,
		auditRepo:    auditRepo,
		publisher:    publisher,
		log:          log,
		now:          time.Now,
	}
}

func (s *CampaignService) transition(ctx context.Context, c *models.Campaign, newStatus string, actorID *uuid.UUID, actorType string) error {
	if !models.IsValidCampaignTransition(c.Status, newStatus) {
		return errs.Invariant("campaign_status", fmt.Sprintf("cannot move from %s to %s", c.Status, newStatus))
	}

	oldStatus := c.Status
	if err := s.campaignRepo.UpdateStatus(ctx, c.ID, newStatus); err != nil {
		return err
	}
	c.Status = newStatus

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: actorID,
		ActorType:   actorType,
		Action:      fmt.Sprintf("campaign_status_%s_to_%s", oldStatus, newStatus),
		EntityType:  models.EntityCampaign,
		EntityID:    &c.ID,
		Meta:        map[string]any{"old_status": oldStatus, "new_status": newStatus},
	})

	eventType := events.EventStatusChanged
	if newStatus == models.CampaignStatusCompleted {
		eventType = events.EventCampaignCompleted
	}
	_ = s.publisher.Publish(ctx, events.StreamPlatform, events.Event{
		Type: eventType,
		Payload: map[string]any{
			"entity_type": models.EntityCampaign,
			"entity_id":   c.ID.String(),
			"old_status":  oldStatus,
			"new_status":  newStatus,
		},
	})

	return nil
}

func (s *CampaignService) Create(ctx context.Context, actor models.Actor, c *models.Campaign) error {
	if !rbac.CanCreate(actor.Role, models.EntityCampaign) {
		return errs.Authorization("role cannot create campaigns")
	}
	if err := rules.ValidateBoundedString("name", c.Name, 1, 200); err != nil {
		return err
	}

	c.Status = models.CampaignStatusDraft
	if err := rules.ValidateCampaign(c, s.now()); err != nil {
		return err
	}
	c.CreatedBy = &actor.ID

	if err := s.campaignRepo.Create(ctx, c); err != nil {
		return err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actor.ID,
		ActorType:   "user",
		Action:      "campaign_created",
		EntityType:  models.EntityCampaign,
		EntityID:    &c.ID,
		Meta:        map[string]any{"campaign_type": c.CampaignType},
	})
	return nil
}

// Get returns the campaign with its derived metric block.
func (s *CampaignService) Get(ctx context.Context, id uuid.UUID) (*models.CampaignWithMetrics, error) {
	c, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	total, converted, err := s.leadRepo.CountByCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.CampaignWithMetrics{
		Campaign: *c,
		Metrics:  models.ComputeCampaignMetrics(total, converted, c.Budget),
	}, nil
}

func (s *CampaignService) List(ctx context.Context, f repositories.CampaignFilter) ([]models.Campaign, error) {
	return s.campaignRepo.List(ctx, f)
}

type CampaignUpdateInput struct {
	Name              *string
	CampaignType      *string
	StartDate         *time.Time
	EndDate           *time.Time
	Budget            *float64
	TargetLeads       *int
	TargetEnrollments *int
	UTMSource         *string
	UTMMedium         *string
	UTMCampaign       *string
	UTMTerm           *string
	UTMContent        *string
}

func (s *CampaignService) Update(ctx context.Context, actor models.Actor, id uuid.UUID, in CampaignUpdateInput) (*models.Campaign, error) {
	c, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	owned := rbac.IsOwner(actor, c.CreatedBy)
	if !rbac.CanUpdateField(actor.Role, models.EntityCampaign, rbac.FieldGroupGeneral, owned) {
		return nil, errs.Authorization("role cannot update this campaign")
	}

	if in.Name != nil {
		if err := rules.ValidateBoundedString("name", *in.Name, 1, 200); err != nil {
			return nil, err
		}
		c.Name = *in.Name
	}
	if in.CampaignType != nil {
		c.CampaignType = *in.CampaignType
	}
	if in.StartDate != nil {
		c.StartDate = in.StartDate
	}
	if in.EndDate != nil {
		c.EndDate = in.EndDate
	}
	if in.Budget != nil {
		c.Budget = in.Budget
	}
	if in.TargetLeads != nil {
		c.TargetLeads = in.TargetLeads
	}
	if in.TargetEnrollments != nil {
		c.TargetEnrollments = in.TargetEnrollments
	}
	if in.UTMSource != nil {
		c.UTMSource = in.UTMSource
	}
	if in.UTMMedium != nil {
		c.UTMMedium = in.UTMMedium
	}
	if in.UTMCampaign != nil {
		c.UTMCampaign = in.UTMCampaign
	}
	if in.UTMTerm != nil {
		c.UTMTerm = in.UTMTerm
	}
	if in.UTMContent != nil {
		c.UTMContent = in.UTMContent
	}

	if err := rules.ValidateCampaign(c, s.now()); err != nil {
		return nil, err
	}

	if err := s.campaignRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actor.ID,
		ActorType:   "user",
		Action:      "campaign_updated",
		EntityType:  models.EntityCampaign,
		EntityID:    &c.ID,
	})
	return c, nil
}

func (s *CampaignService) ChangeStatus(ctx context.Context, actor models.Actor, id uuid.UUID, newStatus string) (*models.Campaign, error) {
	c, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	owned := rbac.IsOwner(actor, c.CreatedBy)
	if !rbac.CanUpdateField(actor.Role, models.EntityCampaign, rbac.FieldGroupStatus, owned) {
		return nil, errs.Authorization("role cannot change campaign status")
	}

	if err := s.transition(ctx, c, newStatus, &actor.ID, "user"); err != nil {
		return nil, err
	}
	return c, nil
}

// CompleteExpired is the worker entrypoint: active campaigns past their end
// date move to completed with a system actor.
func (s *CampaignService) CompleteExpired(ctx context.Context) (int, error) {
	expired, err := s.campaignRepo.ListActivePastEnd(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for i := range expired {
		c := &expired[i]
		if err := s.transition(ctx, c, models.CampaignStatusCompleted, nil, "system"); err != nil {
			s.log.Error("failed to complete expired campaign",
				zap.String("campaign_id", c.ID.String()), zap.Error(err))
			continue
		}
		n++
	}
	return n, nil
}

func (s *CampaignService) Delete(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	if !rbac.CanDelete(actor.Role, models.EntityCampaign) {
		return errs.Authorization("role cannot delete campaigns")
	}

	total, _, err := s.leadRepo.CountByCampaign(ctx, id)
	if err != nil {
		return err
	}
	if total > 0 {
		return errs.Invariant("campaign_has_leads", "campaign has leads attached")
	}

	if err := s.campaignRepo.Delete(ctx, id); err != nil {
		return err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actor.ID,
		ActorType:   "user",
		Action:      "campaign_deleted",
		EntityType:  models.EntityCampaign,
		EntityID:    &id,
	})
	return nil
}
