package link

import (
	"errors"

	"envitefy.link/models"
	"envitefy.link/pkg/calendarlink"
	"envitefy.link/services"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// PublicEventHandler serves the guest-facing event page behind a link key.
type PublicEventHandler struct {
	eventService  services.IEventService
	signupService services.ISignupService
}

func NewPublicEventHandler() *PublicEventHandler {
	return &PublicEventHandler{
		eventService:  services.NewEventService(),
		signupService: services.NewSignupService(),
	}
}

// HandleEvent resolves GET /:key. Password-protected events require the
// password as a query or form value before any detail is revealed.
func (h *PublicEventHandler) HandleEvent(c *fiber.Ctx) error {
	key := c.Params("key")

	event, err := h.eventService.GetEventByKey(c.UserContext(), key)
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			return renderNotFound(c, "Event not found")
		}
		return fiber.ErrInternalServerError
	}

	if event.Detail.PasswordHash != "" {
		password := c.Query("password", c.FormValue("password"))
		if bcrypt.CompareHashAndPassword([]byte(event.Detail.PasswordHash), []byte(password)) != nil {
			if wantsJSON(c) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "password required"})
			}
			return c.Status(fiber.StatusUnauthorized).Render("public/password", fiber.Map{
				"Title": "This event is protected",
				"Key":   key,
			})
		}
	}

	links := buildEventLinks(event)

	availability, err := h.signupService.SlotAvailabilities(c.UserContext(), event)
	if err != nil {
		return fiber.ErrInternalServerError
	}

	if wantsJSON(c) {
		return c.JSON(fiber.Map{
			"event":        publicEventView(event),
			"calendar":     links,
			"availability": availability,
		})
	}
	return c.Render("public/event", fiber.Map{
		"Title":        event.Detail.Title,
		"Event":        event,
		"Detail":       event.Detail,
		"Calendar":     links,
		"Availability": availability,
	})
}

// buildEventLinks adapts the stored detail to the calendar-link encoder's
// normalized input.
func buildEventLinks(event *models.Event) calendarlink.Links {
	detail := event.Detail
	end := ""
	if detail.EndsAt != nil {
		end = detail.EndsAt.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	location := detail.Venue
	if location == "" {
		location = detail.LocationText
	}
	return calendarlink.Build(calendarlink.Event{
		Title:       detail.Title,
		Description: detail.Description,
		Location:    location,
		Start:       detail.StartsAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		End:         end,
		Timezone:    detail.Timezone,
		AllDay:      detail.AllDay,
		Recurrence:  detail.Recurrence,
		Reminders:   detail.Reminders.Minutes(),
	})
}

// publicEventView strips creator-only fields from the JSON shape.
func publicEventView(event *models.Event) fiber.Map {
	detail := event.Detail
	return fiber.Map{
		"key":         event.Link.Key,
		"title":       detail.Title,
		"description": detail.Description,
		"startsAt":    detail.StartsAt,
		"endsAt":      detail.EndsAt,
		"allDay":      detail.AllDay,
		"timezone":    detail.Timezone,
		"venue":       detail.Venue,
		"location":    detail.LocationText,
		"locationUrl": detail.LocationURL,
		"theme":       detail.Theme,
		"recurrence":  detail.Recurrence,
		"signupForm":  detail.SignupForm,
	}
}

func wantsJSON(c *fiber.Ctx) bool {
	return c.Accepts("text/html", "application/json") == "application/json"
}

func renderNotFound(c *fiber.Ctx, title string) error {
	if wantsJSON(c) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": title})
	}
	return c.Status(fiber.StatusNotFound).Render("errors/404", fiber.Map{"Title": title})
}
