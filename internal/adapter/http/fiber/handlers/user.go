package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/payvault/internal/domain"
	"github.com/seu-repo/payvault/internal/ports"
)

type UserHandler struct {
	service ports.UserService
	log     *zap.Logger
}

func NewUserHandler(service ports.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log,
	}
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid body"})
	}

	user, err := h.service.Register(c.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": verr.Msg})
		}
		var perr *domain.PreconditionError
		if errors.As(err, &perr) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": perr.Msg})
		}
		h.log.Error("Registration failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "registration failed"})
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UserHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid body"})
	}

	token, err := h.service.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "invalid credentials"})
	}

	return c.JSON(fiber.Map{"token": token})
}

// Me returns the account behind the bearer token. AuthRequired puts the
// validated user on the request locals.
func (h *UserHandler) Me(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(*domain.User)
	if !ok || user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "authentication required"})
	}
	return c.JSON(user)
}
