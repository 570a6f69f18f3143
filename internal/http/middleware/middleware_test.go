package middleware

import (
	"net/http"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"

	"pdf-gateway/internal/config"
)

func TestRegister_AddsHealthAndRequestID(t *testing.T) {
	app := fiber.New()
	Register(app, config.Config{})
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	healthReq, _ := http.NewRequest(http.MethodGet, LivenessPath, nil)
	healthResp, err := app.Test(healthReq)
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	if healthResp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected health endpoint 200, got %d", healthResp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("ping request failed: %v", err)
	}
	if resp.Header.Get("X-Request-Id") == "" {
		t.Fatalf("expected X-Request-Id to be present")
	}
}

func TestRegister_ReadinessFollowsChromeBinary(t *testing.T) {
	var cfg config.Config
	cfg.PDF.ChromePath = filepath.Join(t.TempDir(), "missing-chrome")

	app := fiber.New()
	Register(app, cfg)

	req, _ := http.NewRequest(http.MethodGet, ReadinessPath, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("readiness request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusServiceUnavailable {
		t.Fatalf("expected readiness 503 with missing binary, got %d", resp.StatusCode)
	}
}

func TestRegister_RecoversFromPanics(t *testing.T) {
	app := fiber.New()
	Register(app, config.Config{})
	app.Get("/boom", func(*fiber.Ctx) error { panic("boom") })

	req, _ := http.NewRequest(http.MethodGet, "/boom", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("panic request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("expected 500 after panic, got %d", resp.StatusCode)
	}
}
