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

type CampaignHandler struct {
	campaignService *services.CampaignService
	auditRepo       *repositories.AuditRepo
	log             *zap.Logger
}

func NewCampaignHandler(campaignService *services.CampaignService, auditRepo *repositories.AuditRepo, log *zap.Logger) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService, auditRepo: auditRepo, log: log}
}

func (h *CampaignHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCampaignRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	camp := &models.Campaign{
		Name:              req.Name,
		CampaignType:      req.CampaignType,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		Budget:            req.Budget,
		TargetLeads:       req.TargetLeads,
		TargetEnrollments: req.TargetEnrollments,
		UTMSource:         req.UTMSource,
		UTMMedium:         req.UTMMedium,
		UTMCampaign:       req.UTMCampaign,
		UTMTerm:           req.UTMTerm,
		UTMContent:        req.UTMContent,
	}
	if err := h.campaignService.Create(c.Context(), middleware.GetActor(c), camp); err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: camp})
}

func (h *CampaignHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign id"})
	}
	camp, err := h.campaignService.Get(c.Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: camp})
}

func (h *CampaignHandler) List(c *fiber.Ctx) error {
	filter := repositories.CampaignFilter{}
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
	if v := c.Query("campaign_type"); v != "" {
		filter.CampaignType = &v
	}

	items, err := h.campaignService.List(c.Context(), filter)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: items})
}

func (h *CampaignHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign id"})
	}

	var req dto.UpdateCampaignRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	camp, err := h.campaignService.Update(c.Context(), middleware.GetActor(c), id, services.CampaignUpdateInput{
		Name:              req.Name,
		CampaignType:      req.CampaignType,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		Budget:            req.Budget,
		TargetLeads:       req.TargetLeads,
		TargetEnrollments: req.TargetEnrollments,
		UTMSource:         req.UTMSource,
		UTMMedium:         req.UTMMedium,
		UTMCampaign:       req.UTMCampaign,
		UTMTerm:           req.UTMTerm,
		UTMContent:        req.UTMContent,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: camp})
}

func (h *CampaignHandler) ChangeStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign id"})
	}

	var req dto.ChangeStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	camp, err := h.campaignService.ChangeStatus(c.Context(), middleware.GetActor(c), id, req.Status)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: camp})
}

// GetMetrics returns just the derived metric block.
func (h *CampaignHandler) GetMetrics(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign id"})
	}
	camp, err := h.campaignService.Get(c.Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: camp.Metrics})
}

func (h *CampaignHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign id"})
	}
	if err := h.campaignService.Delete(c.Context(), middleware.GetActor(c), id); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *CampaignHandler) GetEvents(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign id"})
	}
	entries, err := h.auditRepo.GetByEntity(c.Context(), models.EntityCampaign, id, 100, 0)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: entries})
}
