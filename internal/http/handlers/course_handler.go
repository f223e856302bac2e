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

type CourseHandler struct {
	courseService *services.CourseService
	auditRepo     *repositories.AuditRepo
	log           *zap.Logger
}

func NewCourseHandler(courseService *services.CourseService, auditRepo *repositories.AuditRepo, log *zap.Logger) *CourseHandler {
	return &CourseHandler{courseService: courseService, auditRepo: auditRepo, log: log}
}

func (h *CourseHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCourseRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	course := &models.Course{
		Title:       req.Title,
		Code:        req.Code,
		Description: req.Description,
		Price:       req.Price,
	}
	if err := h.courseService.Create(c.Context(), middleware.GetActor(c), course); err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: course})
}

func (h *CourseHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid course id"})
	}
	course, err := h.courseService.Get(c.Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: course})
}

func (h *CourseHandler) List(c *fiber.Ctx) error {
	filter := repositories.CourseFilter{}
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

	courses, err := h.courseService.List(c.Context(), filter)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: courses})
}

func (h *CourseHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid course id"})
	}

	var req dto.UpdateCourseRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	course, err := h.courseService.Update(c.Context(), middleware.GetActor(c), id, services.CourseUpdateInput{
		Title:       req.Title,
		Code:        req.Code,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: course})
}

func (h *CourseHandler) ChangeStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid course id"})
	}

	var req dto.ChangeStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	course, err := h.courseService.ChangeStatus(c.Context(), middleware.GetActor(c), id, req.Status)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: course})
}

func (h *CourseHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid course id"})
	}
	if err := h.courseService.Delete(c.Context(), middleware.GetActor(c), id); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *CourseHandler) GetEvents(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid course id"})
	}
	logs, err := h.auditRepo.GetByEntity(c.Context(), models.EntityCourse, id, 100, 0)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: logs})
}
