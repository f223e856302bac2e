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

type LeadHandler struct {
	leadService *services.LeadService
	log         *zap.Logger
}

func NewLeadHandler(leadService *services.LeadService, log *zap.Logger) *LeadHandler {
	return &LeadHandler{leadService: leadService, log: log}
}

func leadFromCreateRequest(req dto.CreateLeadRequest) (*models.Lead, error) {
	l := &models.Lead{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Source:   req.Source,
		Notes:    req.Notes,
	}
	if req.CampaignID != nil {
		campaignID, err := uuid.Parse(*req.CampaignID)
		if err != nil {
			return nil, err
		}
		l.CampaignID = &campaignID
	}
	return l, nil
}

func (h *LeadHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateLeadRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	l, err := leadFromCreateRequest(req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign_id"})
	}
	if err := h.leadService.Create(c.Context(), middleware.GetActor(c), l); err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: l})
}

// CreatePublic captures a lead from an unauthenticated source, e.g. a landing
// page form. The route is rate-limited in the router.
func (h *LeadHandler) CreatePublic(c *fiber.Ctx) error {
	var req dto.CreateLeadRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	l, err := leadFromCreateRequest(req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign_id"})
	}
	if err := h.leadService.CreatePublic(c.Context(), l); err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: l})
}

func (h *LeadHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid lead id"})
	}
	l, err := h.leadService.Get(c.Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: l})
}

func (h *LeadHandler) List(c *fiber.Ctx) error {
	filter := repositories.LeadFilter{}
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
	if v := c.Query("campaign_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign_id"})
		}
		filter.CampaignID = &id
	}

	items, err := h.leadService.List(c.Context(), filter)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: items})
}

func (h *LeadHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid lead id"})
	}

	var req dto.UpdateLeadRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	in := services.LeadUpdateInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Source:   req.Source,
		Notes:    req.Notes,
	}
	if req.CampaignID != nil {
		campaignID, err := uuid.Parse(*req.CampaignID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campaign_id"})
		}
		in.CampaignID = &campaignID
	}

	l, err := h.leadService.Update(c.Context(), middleware.GetActor(c), id, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: l})
}

func (h *LeadHandler) ChangeStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid lead id"})
	}

	var req dto.ChangeStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	l, err := h.leadService.ChangeStatus(c.Context(), middleware.GetActor(c), id, req.Status)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: l})
}
