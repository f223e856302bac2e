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

type AdsTemplateService struct {
	templateRepo *repositories.AdsTemplateRepo
	campaignRepo *repositories.CampaignRepo
	auditRepo    *repositories.AuditRepo
	publisher    events.Publisher
	log          *zap.Logger
}

func NewAdsTemplateService(
	templateRepo *repositories.AdsTemplateRepo,
	campaignRepo *repositories.CampaignRepo,
	auditRepo *repositories.AuditRepo,
	publisher events.Publisher,
	log *zap.Logger,
) *AdsTemplateService {
	return &AdsTemplateService{
		templateRepo: templateRepo,
		campaignRepo: campaignRepo,
		auditRepo:    auditRepo,
		publisher:    publisher,
		log:          log,
	}
}

func (s *AdsTemplateService) checkCampaignRef(ctx context.Context, campaignID *uuid.UUID) error {
	if campaignID == nil {
		return nil
	}
	if _, err := s.campaignRepo.GetByID(ctx, *campaignID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errs.ReferenceNotFound("campaign_id", campaignID.String())
		}
		return err
	}
	return nil
}

func (s *AdsTemplateService) Create(ctx context.Context, actor models.Actor, t *models.AdsTemplate) error {
	if !rbac.CanCreate(actor.Role, models.EntityAdsTemplate) {
		return errs.Authorization("role cannot create templates")
	}
	if err := rules.ValidateAdsTemplate(t); err != nil {
		return err
	}
	if err := s.checkCampaignRef(ctx, t.CampaignID); err != nil {
		return err
	}

	t.Status = models.TemplateStatusDraft
	t.CreatedBy = &actor.ID

	if err := s.templateRepo.Create(ctx, t); err != nil {
		return err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actor.ID,
		ActorType:   "user",
		Action:      "template_created",
		EntityType:  models.EntityAdsTemplate,
		EntityID:    &t.ID,
		Meta:        map[string]any{"template_type": t.TemplateType, "language": t.Language},
	})
	return nil
}

func (s *AdsTemplateService) Get(ctx context.Context, id uuid.UUID) (*models.AdsTemplate, error) {
	return s.templateRepo.GetByID(ctx, id)
}

func (s *AdsTemplateService) List(ctx context.Context, f repositories.AdsTemplateFilter) ([]models.AdsTemplate, error) {
	return s.templateRepo.List(ctx, f)
}

type AdsTemplateUpdateInput struct {
	Name          *string
	TemplateType  *string
	CampaignID    *uuid.UUID
	ClearCampaign bool
	Headline      *string
	BodyCopy      *string
	CallToAction  *string
	CTAURL        *string
	ImageURL      *string
	Tags          []string
	TagsSet       bool
	Language      *string
}

func (s *AdsTemplateService) Update(ctx context.Context, actor models.Actor, id uuid.UUID, in AdsTemplateUpdateInput) (*models.AdsTemplate, error) {
	t, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	owned := rbac.IsOwner(actor, t.CreatedBy)
	if !rbac.CanUpdateField(actor.Role, models.EntityAdsTemplate, rbac.FieldGroupGeneral, owned) {
		return nil, errs.Authorization("role cannot update this template")
	}

	if in.Name != nil {
		t.Name = *in.Name
	}
	if in.TemplateType != nil {
		t.TemplateType = *in.TemplateType
	}
	if in.ClearCampaign {
		t.CampaignID = nil
	} else if in.CampaignID != nil {
		t.CampaignID = in.CampaignID
	}
	if in.Headline != nil {
		t.Headline = *in.Headline
	}
	if in.BodyCopy != nil {
		t.BodyCopy = in.BodyCopy
	}
	if in.CallToAction != nil {
		t.CallToAction = in.CallToAction
	}
	if in.CTAURL != nil {
		t.CTAURL = in.CTAURL
	}
	if in.ImageURL != nil {
		t.ImageURL = in.ImageURL
	}
	if in.TagsSet {
		t.Tags = in.Tags
	}
	if in.Language != nil {
		t.Language = *in.Language
	}

	if err := rules.ValidateAdsTemplate(t); err != nil {
		return nil, err
	}
	if err := s.checkCampaignRef(ctx, t.CampaignID); err != nil {
		return nil, err
	}

	if err := s.templateRepo.Update(ctx, t); err != nil {
		return nil, err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actor.ID,
		ActorType:   "user",
		Action:      "template_updated",
		EntityType:  models.EntityAdsTemplate,
		EntityID:    &t.ID,
	})
	return t, nil
}

func (s *AdsTemplateService) ChangeStatus(ctx context.Context, actor models.Actor, id uuid.UUID, newStatus string) (*models.AdsTemplate, error) {
	t, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	owned := rbac.IsOwner(actor, t.CreatedBy)
	if !rbac.CanUpdateField(actor.Role, models.EntityAdsTemplate, rbac.FieldGroupStatus, owned) {
		return nil, errs.Authorization("role cannot change template status")
	}
	if !models.IsValidTemplateTransition(t.Status, newStatus) {
		return nil, errs.Invariant("template_status", fmt.Sprintf("cannot move from %s to %s", t.Status, newStatus))
	}

	oldStatus := t.Status
	if err := s.templateRepo.UpdateStatus(ctx, t.ID, newStatus); err != nil {
		return nil, err
	}
	t.Status = newStatus

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actor.ID,
		ActorType:   "user",
		Action:      fmt.Sprintf("template_status_%s_to_%s", oldStatus, newStatus),
		EntityType:  models.EntityAdsTemplate,
		EntityID:    &t.ID,
		Meta:        map[string]any{"old_status": oldStatus, "new_status": newStatus},
	})
	return t, nil
}

// TrackUsage bumps the usage counter on an active template.
func (s *AdsTemplateService) TrackUsage(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.AdsTemplate, error) {
	t, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Status != models.TemplateStatusActive {
		return nil, errs.Invariant("template_not_active", "only active templates can be used")
	}

	if err := s.templateRepo.TrackUsage(ctx, id); err != nil {
		return nil, err
	}

	_ = s.publisher.Publish(ctx, events.StreamPlatform, events.Event{
		Type: events.EventTemplateUsed,
		Payload: map[string]any{
			"template_id": t.ID.String(),
		},
	})

	return s.templateRepo.GetByID(ctx, id)
}

func (s *AdsTemplateService) Delete(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	if !rbac.CanDelete(actor.Role, models.EntityAdsTemplate) {
		return errs.Authorization("role cannot delete templates")
	}

	if err := s.templateRepo.Delete(ctx, id); err != nil {
		return err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actor.ID,
		ActorType:   "user",
		Action:      "template_deleted",
		EntityType:  models.EntityAdsTemplate,
		EntityID:    &id,
	})
	return nil
}
