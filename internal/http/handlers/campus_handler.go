package handlers

import (
	"strconv"

	"github.com/campusflow/backend/internal/http/dto"
	"github.com/campusflow/backend/internal/middleware"
	"github.com/campusflow/backend/internal/models"
	"github.com/campusflow/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CampusHandler struct {
	campusService *services.CampusService
	log           *zap.Logger
}

func NewCampusHandler(campusService *services.CampusService, log *zap.Logger) *CampusHandler {
	return &CampusHandler{campusService: campusService, log: log}
}

func (h *CampusHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCampusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	campus := &models.Campus{
		Name:    req.Name,
		Slug:    req.Slug,
		City:    req.City,
		Address: req.Address,
		Active:  true,
	}
	if err := h.campusService.Create(c.Context(), middleware.GetActor(c), campus); err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: campus})
}

func (h *CampusHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campus id"})
	}
	campus, err := h.campusService.Get(c.Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: campus})
}

func (h *CampusHandler) List(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	activeOnly := c.Query("active") == "true"

	campuses, err := h.campusService.List(c.Context(), activeOnly, limit, offset)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: campuses})
}

func (h *CampusHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campus id"})
	}

	var req dto.UpdateCampusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	campus, err := h.campusService.Update(c.Context(), middleware.GetActor(c), id, services.CampusUpdateInput{
		Name:    req.Name,
		Slug:    req.Slug,
		City:    req.City,
		Address: req.Address,
		Active:  req.Active,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: campus})
}

func (h *CampusHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campus id"})
	}
	if err := h.campusService.Delete(c.Context(), middleware.GetActor(c), id); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}
