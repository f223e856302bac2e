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

type CourseRunHandler struct {
	runService *services.CourseRunService
	log        *zap.Logger
}

func NewCourseRunHandler(runService *services.CourseRunService, log *zap.Logger) *CourseRunHandler {
	return &CourseRunHandler{runService: runService, log: log}
}

func (h *CourseRunHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCourseRunRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid course_id"})
	}

	run := &models.CourseRun{
		CourseID:           courseID,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		EnrollmentDeadline: req.EnrollmentDeadline,
		ScheduleDays:       req.ScheduleDays,
		ScheduleTimeStart:  req.ScheduleTimeStart,
		ScheduleTimeEnd:    req.ScheduleTimeEnd,
		MaxStudents:        req.MaxStudents,
		MinStudents:        req.MinStudents,
		PriceOverride:      req.PriceOverride,
		InstructorName:     req.InstructorName,
		Notes:              req.Notes,
	}
	if req.CampusID != nil {
		campusID, err := uuid.Parse(*req.CampusID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campus_id"})
		}
		run.CampusID = &campusID
	}

	if err := h.runService.Create(c.Context(), middleware.GetActor(c), run); err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: run})
}

func (h *CourseRunHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid course run id"})
	}
	run, err := h.runService.Get(c.Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: run})
}

func (h *CourseRunHandler) List(c *fiber.Ctx) error {
	filter := repositories.CourseRunFilter{}
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
	if v := c.Query("course_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid course_id"})
		}
		filter.CourseID = &id
	}
	if v := c.Query("campus_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campus_id"})
		}
		filter.CampusID = &id
	}

	runs, err := h.runService.List(c.Context(), filter)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: runs})
}

func (h *CourseRunHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid course run id"})
	}

	var req dto.UpdateCourseRunRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	var campusID *uuid.UUID
	if req.CampusID != nil {
		parsed, err := uuid.Parse(*req.CampusID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid campus_id"})
		}
		campusID = &parsed
	}

	run, err := h.runService.Update(c.Context(), middleware.GetActor(c), id, func(run *models.CourseRun) {
		if campusID != nil {
			run.CampusID = campusID
		}
		if req.StartDate != nil {
			run.StartDate = *req.StartDate
		}
		if req.EndDate != nil {
			run.EndDate = *req.EndDate
		}
		if req.EnrollmentDeadline != nil {
			run.EnrollmentDeadline = req.EnrollmentDeadline
		}
		if req.ScheduleDays != nil {
			run.ScheduleDays = req.ScheduleDays
		}
		if req.ScheduleTimeStart != nil {
			run.ScheduleTimeStart = req.ScheduleTimeStart
		}
		if req.ScheduleTimeEnd != nil {
			run.ScheduleTimeEnd = req.ScheduleTimeEnd
		}
		if req.MaxStudents != nil {
			run.MaxStudents = *req.MaxStudents
		}
		if req.MinStudents != nil {
			run.MinStudents = *req.MinStudents
		}
		if req.PriceOverride != nil {
			run.PriceOverride = req.PriceOverride
		}
		if req.InstructorName != nil {
			run.InstructorName = req.InstructorName
		}
		if req.Notes != nil {
			run.Notes = req.Notes
		}
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: run})
}

func (h *CourseRunHandler) ChangeStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid course run id"})
	}

	var req dto.ChangeStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	run, err := h.runService.ChangeStatus(c.Context(), middleware.GetActor(c), id, req.Status)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: run})
}

func (h *CourseRunHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid course run id"})
	}
	if err := h.runService.Delete(c.Context(), middleware.GetActor(c), id); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true})
}
