package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	recoverMiddleware "github.com/gofiber/fiber/v2/middleware/recover"
)

// SetupRoutes wires the global middleware and every route group. The public
// link route matches /:key, so it must be registered after every other
// group and right before the 404 handler.
func SetupRoutes(app *fiber.App) {
	app.Use(recoverMiddleware.New())
	app.Use(logger.New())

	registerAPIRoutes(app)
	registerPublicLinkRoutes(app)

	app.Use(notFoundHandler)
}

func notFoundHandler(c *fiber.Ctx) error {
	if c.Accepts("text/html", "application/json") == "application/json" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "resource not found"})
	}
	return c.Status(fiber.StatusNotFound).Render("errors/404", fiber.Map{"Title": "Page not found"})
}
