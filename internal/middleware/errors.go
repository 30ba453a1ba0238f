package middleware

import (
	"errors"
	"net/http"

	"github.com/bilgisen/peacenet/internal/models"
	"github.com/gofiber/fiber/v2"
)

// StatusFor maps an error to its HTTP status
func StatusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, models.ErrValidation):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, models.ErrAuth):
		return fiber.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrConfirmationRequired):
		return fiber.StatusPreconditionRequired
	case errors.Is(err, models.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, models.ErrNetwork):
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

// ErrorHandler renders every error returned by a handler as {"error": ...}.
// Server-side failures are reported by status text only.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := StatusFor(err)

	body := fiber.Map{"error": err.Error()}
	if code >= fiber.StatusInternalServerError {
		body["error"] = http.StatusText(code)
	}

	var verr *models.ValidationError
	if errors.As(err, &verr) {
		body["error"] = models.ErrValidation.Error()
		body["fields"] = verr.Fields
	}

	return c.Status(code).JSON(body)
}
