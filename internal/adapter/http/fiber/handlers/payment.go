package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/payvault/internal/domain"
	"github.com/seu-repo/payvault/internal/ports"
)

type PaymentHandler struct {
	service ports.PaymentService
	log     *zap.Logger
}

func NewPaymentHandler(service ports.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log,
	}
}

// Config returns the publishable key the client-side SDK needs.
func (h *PaymentHandler) Config(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"publishableKey": h.service.PublishableKey(),
	})
}

type CreateCustomerRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (h *PaymentHandler) CreateCustomer(c *fiber.Ctx) error {
	var req CreateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid body"})
	}

	customer, err := h.service.CreateCustomer(c.Context(), req.Email, req.Name)
	if err != nil {
		return h.errorResponse(c, err)
	}

	return c.JSON(customer)
}

func (h *PaymentHandler) CreateSetupIntent(c *fiber.Ctx) error {
	customerID := c.Params("id")

	clientSecret, err := h.service.CreateSetupIntent(c.Context(), customerID)
	if err != nil {
		return h.errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"clientSecret": clientSecret})
}

func (h *PaymentHandler) ListPaymentMethods(c *fiber.Ctx) error {
	customerID := c.Params("id")

	cards, err := h.service.ListPaymentMethods(c.Context(), customerID)
	if err != nil {
		return h.errorResponse(c, err)
	}
	if cards == nil {
		cards = []domain.SavedCard{}
	}

	return c.JSON(cards)
}

func (h *PaymentHandler) DeletePaymentMethod(c *fiber.Ctx) error {
	paymentMethodID := c.Params("id")

	if err := h.service.DetachPaymentMethod(c.Context(), paymentMethodID); err != nil {
		return h.errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"message": "payment method removed"})
}

func (h *PaymentHandler) ChargeCustomer(c *fiber.Ctx) error {
	var req domain.ChargeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid body"})
	}

	outcome, err := h.service.ChargeCustomer(c.Context(), req)
	if err != nil {
		return h.errorResponse(c, err)
	}

	return c.JSON(outcome)
}

type CreatePaymentIntentRequest struct {
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
}

func (h *PaymentHandler) CreatePaymentIntent(c *fiber.Ctx) error {
	var req CreatePaymentIntentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid body"})
	}

	intent, err := h.service.CreatePaymentIntent(c.Context(), req.Amount, req.Currency, req.Description)
	if err != nil {
		return h.errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"clientSecret": intent.ClientSecret,
	})
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"paymentIntentId"`
}

func (h *PaymentHandler) ConfirmPayment(c *fiber.Ctx) error {
	var req ConfirmPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid body"})
	}

	if err := h.service.ConfirmPayment(c.Context(), req.PaymentIntentID); err != nil {
		return h.errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"message": "payment confirmed"})
}

// Webhook receives provider events. The raw body is passed through for
// signature verification.
func (h *PaymentHandler) Webhook(c *fiber.Ctx) error {
	signature := c.Get("Stripe-Signature")

	if err := h.service.HandleWebhook(c.Context(), c.Body(), signature); err != nil {
		return h.errorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *PaymentHandler) errorResponse(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": verr.Msg})
	}

	var perr *domain.PreconditionError
	if errors.As(err, &perr) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": perr.Msg})
	}

	h.log.Error("Payment request failed",
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
}
