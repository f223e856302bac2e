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

type EnrollmentHandler struct {
	enrollmentService *services.EnrollmentService
	auditRepo         *repositories.AuditRepo
	log               *zap.Logger
}

func NewEnrollmentHandler(enrollmentService *services.EnrollmentService, auditRepo *repositories.AuditRepo, log *zap.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentService: enrollmentService, auditRepo: auditRepo, log: log}
}

func (h *EnrollmentHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateEnrollmentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	studentID, err := uuid.Parse(req.StudentID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid student_id"})
	}
	courseRunID, err := uuid.Parse(req.CourseRunID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid course_run_id"})
	}

	e := &models.Enrollment{
		StudentID:           studentID,
		CourseRunID:         courseRunID,
		TotalAmount:         req.TotalAmount,
		AmountPaid:          req.AmountPaid,
		FinancialAidApplied: req.FinancialAidApplied,
		FinancialAidAmount:  req.FinancialAidAmount,
		FinancialAidStatus:  req.FinancialAidStatus,
		Notes:               req.Notes,
	}
	if err := h.enrollmentService.Create(c.Context(), middleware.GetActor(c), e); err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: e})
}

func (h *EnrollmentHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid enrollment id"})
	}
	e, err := h.enrollmentService.Get(c.Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: e})
}

func (h *EnrollmentHandler) List(c *fiber.Ctx) error {
	filter := repositories.EnrollmentFilter{}
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
	if v := c.Query("student_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid student_id"})
		}
		filter.StudentID = &id
	}
	if v := c.Query("course_run_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid course_run_id"})
		}
		filter.CourseRunID = &id
	}

	items, err := h.enrollmentService.List(c.Context(), filter)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: items})
}

func (h *EnrollmentHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid enrollment id"})
	}

	var req dto.UpdateEnrollmentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	e, err := h.enrollmentService.Update(c.Context(), middleware.GetActor(c), id, services.EnrollmentUpdateInput{
		TotalAmount:         req.TotalAmount,
		AmountPaid:          req.AmountPaid,
		FinancialAidApplied: req.FinancialAidApplied,
		FinancialAidAmount:  req.FinancialAidAmount,
		FinancialAidStatus:  req.FinancialAidStatus,
		AttendancePercent:   req.AttendancePercent,
		FinalGrade:          req.FinalGrade,
		Notes:               req.Notes,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: e})
}

func (h *EnrollmentHandler) ChangeStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid enrollment id"})
	}

	var req dto.ChangeStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	e, err := h.enrollmentService.ChangeStatus(c.Context(), middleware.GetActor(c), id, req.Status, req.Reason)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: e})
}

func (h *EnrollmentHandler) SetPaymentStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid enrollment id"})
	}

	var req dto.SetPaymentStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	e, err := h.enrollmentService.SetPaymentStatus(c.Context(), middleware.GetActor(c), id, req.PaymentStatus)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: e})
}

func (h *EnrollmentHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid enrollment id"})
	}
	if err := h.enrollmentService.Delete(c.Context(), middleware.GetActor(c), id); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *EnrollmentHandler) GetEvents(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid enrollment id"})
	}
	entries, err := h.auditRepo.GetByEntity(c.Context(), models.EntityEnrollment, id, 100, 0)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: entries})
}
