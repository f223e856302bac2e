package handlers

import (
	"strconv"

	"github.com/campusflow/backend/internal/http/dto"
	"github.com/campusflow/backend/internal/middleware"
	"github.com/campusflow/backend/internal/models"
	"github.com/campusflow/backend/internal/repositories"
	"github.com/campusflow/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AdsTemplateHandler struct {
	templateService *services.AdsTemplateService
	log             *zap.Logger
}

func NewAdsTemplateHandler(templateService *services.AdsTemplateService, log *zap.Logger) *AdsTemplateHandler {
	return &AdsTemplateHandler{templateService: templateService, log: log}
}

func (h *AdsTemplateHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateAdsTemplateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	t := &models.AdsTemplate{
		Name:         req.Name,
		TemplateType: req.TemplateType,
		Headline:     req.Headline,
		BodyCopy:     req.BodyCopy,
		CallToAction: req.CallToAction,
		CTAURL:       req.CTAURL,
		ImageURL:     req.ImageURL,
		Tags:         req.Tags,
		Language:     req.Language,
	}
	if req.CampaignID != nil {
		campaignID, err := uuid.Parse(*req.CampaignID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign_id"})
		}
		t.CampaignID = &campaignID
	}

	if err := h.templateService.Create(c.Context(), middleware.GetActor(c), t); err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: t})
}

func (h *AdsTemplateHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid template id"})
	}
	t, err := h.templateService.Get(c.Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: t})
}

func (h *AdsTemplateHandler) List(c *fiber.Ctx) error {
	filter := repositories.AdsTemplateFilter{}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}
	if v := c.Query("status"); v != "" {
		filter.Status = &v
	}
	if v := c.Query("template_type"); v != "" {
		filter.TemplateType = &v
	}
	if v := c.Query("language"); v != "" {
		filter.Language = &v
	}
	if v := c.Query("campaign_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign_id"})
		}
		filter.CampaignID = &id
	}

	items, err := h.templateService.List(c.Context(), filter)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: items})
}

func (h *AdsTemplateHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid template id"})
	}

	var req dto.UpdateAdsTemplateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	in := services.AdsTemplateUpdateInput{
		Name:          req.Name,
		TemplateType:  req.TemplateType,
		ClearCampaign: req.ClearCampaign,
		Headline:      req.Headline,
		BodyCopy:      req.BodyCopy,
		CallToAction:  req.CallToAction,
		CTAURL:        req.CTAURL,
		ImageURL:      req.ImageURL,
		Language:      req.Language,
	}
	if req.Tags != nil {
		in.Tags = req.Tags
		in.TagsSet = true
	}
	if req.CampaignID != nil {
		campaignID, err := uuid.Parse(*req.CampaignID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign_id"})
		}
		in.CampaignID = &campaignID
	}

	t, err := h.templateService.Update(c.Context(), middleware.GetActor(c), id, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: t})
}

func (h *AdsTemplateHandler) ChangeStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid template id"})
	}

	var req dto.ChangeStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	t, err := h.templateService.ChangeStatus(c.Context(), middleware.GetActor(c), id, req.Status)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: t})
}

// TrackUsage records one use of an active template.
func (h *AdsTemplateHandler) TrackUsage(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid template id"})
	}
	t, err := h.templateService.TrackUsage(c.Context(), middleware.GetActor(c), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: t})
}

func (h *AdsTemplateHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid template id"})
	}
	if err := h.templateService.Delete(c.Context(), middleware.GetActor(c), id); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}
