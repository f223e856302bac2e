package handlers

import (
	"github.com/campusflow/backend/internal/auth"
	"github.com/campusflow/backend/internal/config"
	"github.com/campusflow/backend/internal/http/dto"
	"github.com/campusflow/backend/internal/middleware"
	"github.com/campusflow/backend/internal/models"
	"github.com/campusflow/backend/internal/rbac"
	"github.com/campusflow/backend/internal/repositories"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	userRepo *repositories.UserRepo
	cfg      *config.Config
	log      *zap.Logger
}

func NewAuthHandler(userRepo *repositories.UserRepo, cfg *config.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{userRepo: userRepo, cfg: cfg, log: log}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.userRepo.GetByEmail(c.Context(), req.Email)
	if err != nil || !user.Active || !auth.CheckPassword(user.PasswordHash, req.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "invalid credentials"})
	}

	token, err := auth.GenerateJWT(h.cfg.JWTSecret, user.ID, user.Role, h.cfg.JWTExpiration)
	if err != nil {
		h.log.Error("failed to generate jwt", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}

	_ = h.userRepo.UpdateLastActive(c.Context(), user.ID)

	return c.JSON(dto.AuthResponse{Token: token, User: user})
}

// RegisterUser creates an account. Admin-only; there is no self-signup.
func (h *AuthHandler) RegisterUser(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor.Role != rbac.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: "admin access required"})
	}

	var req dto.RegisterUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if !rbac.IsValidRole(req.Role) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Error: "unknown role", Field: "role"})
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.log.Error("failed to hash password", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         req.Role,
		Active:       true,
	}
	if err := h.userRepo.Create(c.Context(), user); err != nil {
		h.log.Error("failed to create user", zap.Error(err))
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: "email already registered"})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: user})
}

func (h *AuthHandler) GetMe(c *fiber.Ctx) error {
	user, err := h.userRepo.GetByID(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "user not found"})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: user})
}
