package link

import (
	"errors"

	"envitefy.link/configs/configslog"
	"envitefy.link/pkg/signup"
	"envitefy.link/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PublicSignupHandler accepts guest claims against an event's signup sheet.
type PublicSignupHandler struct {
	signupService services.ISignupService
	validate      *validator.Validate
}

func NewPublicSignupHandler() *PublicSignupHandler {
	return &PublicSignupHandler{
		signupService: services.NewSignupService(),
		validate:      validator.New(),
	}
}

type claimPayload struct {
	SectionID string            `json:"sectionId" form:"section_id" validate:"required"`
	SlotID    string            `json:"slotId" form:"slot_id" validate:"required"`
	Quantity  int               `json:"quantity" form:"quantity" validate:"omitempty,min=1"`
	Name      string            `json:"name" form:"name" validate:"required,max=150"`
	Email     string            `json:"email" form:"email" validate:"omitempty,email"`
	Phone     string            `json:"phone" form:"phone" validate:"omitempty,max=30"`
	Answers   map[string]string `json:"answers" form:"-"`
}

// HandleClaim resolves POST /:key/signup.
func (h *PublicSignupHandler) HandleClaim(c *fiber.Ctx) error {
	key := c.Params("key")

	var payload claimPayload
	if err := c.BodyParser(&payload); err != nil {
		configslog.SLog.Warnw("signup claim body unparseable", "key", key, "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validate.Struct(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	response, err := h.signupService.SubmitClaim(c.UserContext(), key, services.ClaimRequest{
		SectionID: payload.SectionID,
		SlotID:    payload.SlotID,
		Quantity:  payload.Quantity,
		Name:      payload.Name,
		Email:     payload.Email,
		Phone:     payload.Phone,
		Answers:   payload.Answers,
	})
	if err != nil {
		return h.claimError(c, key, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":   response.Status,
		"quantity": response.Quantity,
		"slotId":   response.SlotID,
	})
}

// claimError maps service and policy errors onto guest-meaningful statuses.
// Policy rejections are the one place an explicit error reaches the guest.
func (h *PublicSignupHandler) claimError(c *fiber.Ctx, key string, err error) error {
	switch {
	case errors.Is(err, services.ErrEventNotFound),
		errors.Is(err, signup.ErrSectionNotFound),
		errors.Is(err, signup.ErrSlotNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, signup.ErrSlotClosed),
		errors.Is(err, signup.ErrAlreadyClaimed):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrSignupNotOpen),
		errors.Is(err, services.ErrSignupGuestInvalid):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		configslog.Log.Error("signup claim failed", zap.String("key", key), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not record your signup"})
	}
}
