package routes

import (
	apihandlers "envitefy.link/handlers/api"

	"github.com/gofiber/fiber/v2"
)

// registerAPIRoutes mounts the creator-facing JSON API.
func registerAPIRoutes(app *fiber.App) {
	handler := apihandlers.NewEventAPIHandler()

	api := app.Group("/api")
	api.Post("/events", handler.CreateEvent)
	api.Get("/events", handler.ListEvents)
	api.Get("/events/:id", handler.GetEvent)
	api.Put("/events/:id", handler.UpdateEvent)
	api.Delete("/events/:id", handler.DeleteEvent)
	api.Get("/events/:id/responses", handler.ListResponses)
}
