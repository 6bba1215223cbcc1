package api

import (
	"errors"
	"strconv"

	"envitefy.link/models"
	"envitefy.link/pkg/calendarlink"
	"envitefy.link/pkg/queryparams"
	"envitefy.link/pkg/recurrence"
	"envitefy.link/pkg/signup"
	"envitefy.link/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// EventAPIHandler is the creator-facing JSON API. Session auth is out of
// scope; the acting user arrives as the X-Actor-ID header and everything
// below the handler takes it as a plain parameter.
type EventAPIHandler struct {
	eventService  services.IEventService
	signupService services.ISignupService
	validate      *validator.Validate
}

func NewEventAPIHandler() *EventAPIHandler {
	return &EventAPIHandler{
		eventService:  services.NewEventService(),
		signupService: services.NewSignupService(),
		validate:      validator.New(),
	}
}

type eventPayload struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description"`
	Start       string `json:"start" validate:"required"`
	End         string `json:"end"`
	AllDay      bool   `json:"allDay"`
	Timezone    string `json:"timezone"`
	Venue       string `json:"venue"`
	Location    string `json:"location"`
	LocationURL string `json:"locationUrl" validate:"omitempty,url"`
	Theme       string `json:"theme"`
	Password    string `json:"password"`
	ExpiresAt   string `json:"expiresAt"`
	IsEnabled   *bool  `json:"isEnabled"`

	// Either a raw RRULE or the editor's repeat controls; the raw rule wins.
	Recurrence string   `json:"recurrence"`
	Repeat     bool     `json:"repeat"`
	Frequency  string   `json:"frequency" validate:"omitempty,oneof=weekly monthly yearly"`
	Days       []string `json:"days"`

	Reminders  []int        `json:"reminders" validate:"omitempty,dive,min=1"`
	SignupForm *signup.Form `json:"signupForm"`
}

// toDetail builds the EventDetail, deriving the recurrence rule from the
// repeat controls when no raw rule was given.
func (p *eventPayload) toDetail() (models.EventDetail, error) {
	start, ok := calendarlink.ParseInstant(p.Start)
	if !ok {
		return models.EventDetail{}, errors.New("start is not a valid ISO-8601 datetime")
	}
	detail := models.EventDetail{
		Title:        p.Title,
		Description:  p.Description,
		StartsAt:     start.UTC(),
		AllDay:       p.AllDay,
		Timezone:     p.Timezone,
		Venue:        p.Venue,
		LocationText: p.Location,
		LocationURL:  p.LocationURL,
		Theme:        p.Theme,
		PasswordHash: p.Password, // hashed by the service
		SignupForm:   p.SignupForm,
	}
	if end, ok := calendarlink.ParseInstant(p.End); ok {
		endUTC := end.UTC()
		detail.EndsAt = &endUTC
	}
	if expires, ok := calendarlink.ParseInstant(p.ExpiresAt); ok {
		expiresUTC := expires.UTC()
		detail.ExpiresAt = &expiresUTC
	}
	if p.Recurrence != "" {
		detail.Recurrence = p.Recurrence
	} else {
		ref := detail.StartsAt
		detail.Recurrence = recurrence.Build(recurrence.Choice{
			Repeat:    p.Repeat,
			Frequency: recurrence.Frequency(p.Frequency),
			Days:      p.Days,
			Reference: &ref,
		})
	}
	for _, minutes := range p.Reminders {
		detail.Reminders = append(detail.Reminders, models.Reminder{Minutes: minutes})
	}
	return detail, nil
}

func (h *EventAPIHandler) CreateEvent(c *fiber.Ctx) error {
	actorID, ok := actorFromHeader(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing or invalid X-Actor-ID header"})
	}
	var payload eventPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validate.Struct(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	detail, err := payload.toDetail()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	event, err := h.eventService.CreateEvent(c.UserContext(), actorID, detail)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":  event.ID,
		"key": event.Link.Key,
	})
}

func (h *EventAPIHandler) ListEvents(c *fiber.Ctx) error {
	actorID, ok := actorFromHeader(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing or invalid X-Actor-ID header"})
	}
	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid query parameters"})
	}
	result, err := h.eventService.GetEventsForUser(c.UserContext(), actorID, params)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(result)
}

func (h *EventAPIHandler) GetEvent(c *fiber.Ctx) error {
	actorID, ok := actorFromHeader(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing or invalid X-Actor-ID header"})
	}
	id, ok := idFromParams(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid event id"})
	}
	event, err := h.eventService.GetEventByID(c.UserContext(), id, actorID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(event)
}

func (h *EventAPIHandler) UpdateEvent(c *fiber.Ctx) error {
	actorID, ok := actorFromHeader(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing or invalid X-Actor-ID header"})
	}
	id, ok := idFromParams(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid event id"})
	}
	var payload eventPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validate.Struct(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	detail, err := payload.toDetail()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	isEnabled := true
	if payload.IsEnabled != nil {
		isEnabled = *payload.IsEnabled
	}

	if err := h.eventService.UpdateEvent(c.UserContext(), id, actorID, detail, isEnabled); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"updated": true})
}

func (h *EventAPIHandler) DeleteEvent(c *fiber.Ctx) error {
	actorID, ok := actorFromHeader(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing or invalid X-Actor-ID header"})
	}
	id, ok := idFromParams(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid event id"})
	}
	if err := h.eventService.DeleteEvent(c.UserContext(), id, actorID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"deleted": true})
}

func (h *EventAPIHandler) ListResponses(c *fiber.Ctx) error {
	actorID, ok := actorFromHeader(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing or invalid X-Actor-ID header"})
	}
	id, ok := idFromParams(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid event id"})
	}
	responses, err := h.signupService.ListResponses(c.UserContext(), id, actorID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"data": responses})
}

func actorFromHeader(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Get("X-Actor-ID"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func idFromParams(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrEventNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrEventForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrEventInvalidInput),
		errors.Is(err, services.ErrEventTitleRequired),
		errors.Is(err, services.ErrEventStartRequired),
		errors.Is(err, services.ErrEventBadRecurrence):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}
