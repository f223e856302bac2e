package handlers

import (
	"errors"

	"github.com/campusflow/backend/internal/errs"
	"github.com/campusflow/backend/internal/http/dto"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var validate = validator.New()

// parseBody decodes and validates a request body against its struct tags.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if err := validate.Struct(out); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
				Error: "validation failed",
				Field: ve[0].Field(),
			})
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Error: "validation failed"})
	}
	return nil
}

// writeError maps domain errors onto HTTP statuses. Messages are always the
// templated domain reasons, never raw input.
func writeError(c *fiber.Ctx, log *zap.Logger, err error) error {
	var (
		valErr  *errs.ValidationError
		invErr  *errs.InvariantViolationError
		refErr  *errs.ReferenceNotFoundError
		authErr *errs.AuthorizationError
		conErr  *errs.ConcurrencyConflictError
	)

	switch {
	case errors.As(err, &valErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Error: valErr.Reason, Field: valErr.Field})
	case errors.As(err, &invErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Error: invErr.Reason, Rule: invErr.Rule})
	case errors.As(err, &refErr):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: refErr.Error()})
	case errors.As(err, &authErr):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: authErr.Error()})
	case errors.As(err, &conErr):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: conErr.Error()})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "not found"})
	default:
		log.Error("request failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
}
