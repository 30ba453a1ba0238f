package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// BindBody parses the JSON request body into out. Field rules are checked by
// the service that receives the value.
func BindBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	return nil
}
