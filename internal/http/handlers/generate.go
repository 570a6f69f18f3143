package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"pdf-gateway/internal/domain"
	"pdf-gateway/internal/infra/chrome"
	"pdf-gateway/internal/infra/logging"
)

// Renderer produces a PDF for one request.
type Renderer interface {
	Generate(ctx context.Context, req domain.RenderRequest) ([]byte, error)
}

// GenerateHandler serves POST /generate.
type GenerateHandler struct {
	Renderer Renderer
}

// NewGenerateHandler wires a renderer into a handler.
func NewGenerateHandler(r Renderer) *GenerateHandler {
	return &GenerateHandler{Renderer: r}
}

// Handle decodes the JSON body, renders it and streams back the PDF.
func (h *GenerateHandler) Handle(c *fiber.Ctx) error {
	req, err := decodeRenderRequest(c)
	if err != nil {
		return err
	}

	pdf, err := h.Renderer.Generate(c.UserContext(), req)
	if err != nil {
		return renderError(c, err)
	}

	logging.Info("PDF generated", "bytes", len(pdf), "format", req.Format, "request_id", requestID(c))

	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Status(fiber.StatusOK).Send(pdf)
}

// decodeRenderRequest parses the body as JSON whatever the Content-Type says.
func decodeRenderRequest(c *fiber.Ctx) (domain.RenderRequest, error) {
	var req domain.RenderRequest
	body := c.Body()
	if len(body) == 0 {
		return req, fiber.NewError(fiber.StatusBadRequest, "Invalid request: empty body")
	}
	if err := c.App().Config().JSONDecoder(body, &req); err != nil {
		return req, fiber.NewError(fiber.StatusBadRequest, "Invalid request: malformed JSON")
	}
	return req, nil
}

func renderError(c *fiber.Ctx, err error) error {
	rid := requestID(c)
	switch {
	case domain.IsInputError(err):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		logging.Error("PDF generation timeout", "error", err, "request_id", rid)
		return fiber.NewError(fiber.StatusInternalServerError, "PDF rendering took too long")
	case errors.Is(err, domain.ErrSessionLaunch):
		logging.Error("Browser session launch failed", "error", err, "request_id", rid)
		return fiber.NewError(fiber.StatusInternalServerError, "PDF generation failed: browser unavailable")
	case chrome.IsSessionInterrupted(err):
		logging.Error("Chrome session interrupted", "error", err, "request_id", rid)
		return fiber.NewError(fiber.StatusInternalServerError, "PDF generation failed: session interrupted")
	default:
		logging.Error("PDF generation failed", "error", err, "request_id", rid)
		return fiber.NewError(fiber.StatusInternalServerError, "PDF generation failed")
	}
}

func requestID(c *fiber.Ctx) string {
	if id := c.GetRespHeader(fiber.HeaderXRequestID); id != "" {
		return id
	}
	return c.Get(fiber.HeaderXRequestID)
}
