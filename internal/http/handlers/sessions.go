package handlers

import (
	"github.com/gofiber/fiber/v2"

	"pdf-gateway/internal/infra/chrome"
)

// SessionStats exposes browser session counters. Active returning to zero
// after traffic stops shows that every session was released.
func SessionStats(t *chrome.Tracker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(t.Stats())
	}
}
