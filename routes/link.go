package routes

import (
	linkhandlers "envitefy.link/handlers/link"

	"github.com/gofiber/fiber/v2"
)

// registerPublicLinkRoutes mounts the guest-facing surface: the event page
// behind its short key, the signup claim endpoint, and the ICS download.
func registerPublicLinkRoutes(app *fiber.App) {
	eventHandler := linkhandlers.NewPublicEventHandler()
	signupHandler := linkhandlers.NewPublicSignupHandler()
	icsHandler := linkhandlers.NewICSHandler()

	app.Get("/api/ics", icsHandler.HandleICS)

	// Catch-all key route goes last within this group.
	app.Get("/:key", eventHandler.HandleEvent)
	app.Post("/:key/signup", signupHandler.HandleClaim)
}
