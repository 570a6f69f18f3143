package server

import (
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/monitor"

	"pdf-gateway/internal/config"
	"pdf-gateway/internal/http/handlers"
	"pdf-gateway/internal/http/middleware"
	"pdf-gateway/internal/infra/chrome"
	"pdf-gateway/internal/infra/logging"
)

// Deps are the collaborators the HTTP surface needs.
type Deps struct {
	Config   config.Config
	Renderer handlers.Renderer
	Sessions *chrome.Tracker
}

// New creates and configures the Fiber app.
func New(d Deps) *fiber.App {
	if d.Sessions == nil {
		d.Sessions = chrome.NewTracker()
	}

	app := fiber.New(fiber.Config{
		Prefork:               d.Config.Server.Prefork,
		DisableStartupMessage: true,
		BodyLimit:             d.Config.Limits.MaxBodyBytes,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		ErrorHandler:          errorHandler,
	})

	middleware.Register(app, d.Config)
	registerRoutes(app, d)

	// Ensure all responses, including 404s, return JSON
	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Not Found")
	})

	return app
}

func registerRoutes(app *fiber.App, d Deps) {
	app.Post("/generate", handlers.NewGenerateHandler(d.Renderer).Handle)

	ops := app.Group("/ops")
	ops.Get("/sessions", handlers.SessionStats(d.Sessions))
	ops.Get("/monitor", monitor.New(monitor.Config{Title: "pdf-gateway"}))
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		msg = e.Message
	}

	logging.Warn("Request failed", "path", c.Path(), "status", code, "message", msg)

	return c.Status(code).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": msg,
		},
	})
}
