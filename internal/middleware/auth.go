package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bilgisen/peacenet/internal/logger"
	"github.com/bilgisen/peacenet/internal/models"
	"github.com/gofiber/fiber/v2"
)

const (
	principalKey    = "principal"
	adminSessionKey = "admin_session"
)

// AuthConfig defines the config for the user auth middleware
type AuthConfig struct {
	// Skip defines a function to skip middleware.
	// Optional. Default: nil
	Next func(c *fiber.Ctx) bool

	// Authenticate turns a bearer token into a principal.
	// Required.
	Authenticate func(token string) (models.Principal, error)

	// ErrorHandler defines a function which is executed for a rejected token.
	// Optional. Default: 401 with the auth error message
	ErrorHandler fiber.ErrorHandler
}

// ConfigDefault is the default config
var ConfigDefault = AuthConfig{
	Next: nil,
	ErrorHandler: func(c *fiber.Ctx, err error) error {
		logger.Get().Warn().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("ip", c.IP()).
			Err(err).
			Msg("Authentication failed")

		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	},
}

// NewAuth requires a valid user token and stores the principal in the context
func NewAuth(config AuthConfig) fiber.Handler {
	cfg := config
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = ConfigDefault.ErrorHandler
	}

	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		token, err := bearerToken(c)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		principal, err := cfg.Authenticate(token)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// AdminVerifier checks admin tokens
type AdminVerifier interface {
	Verify(ctx context.Context, token string) (models.AdminSession, error)
}

// AdminOnly requires an unlocked admin session and stores it in the context
func AdminOnly(gate AdminVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c)
		if err == nil {
			var session models.AdminSession
			session, err = gate.Verify(c.UserContext(), token)
			if err == nil {
				c.Locals(adminSessionKey, session)
				return c.Next()
			}
		}

		logger.Get().Warn().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("ip", c.IP()).
			Err(err).
			Msg("Unauthorized admin access attempt")

		if !errors.Is(err, models.ErrAuth) {
			return err
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "admin session required",
		})
	}
}

// Principal returns the authenticated user of the request
func Principal(c *fiber.Ctx) models.Principal {
	p, _ := c.Locals(principalKey).(models.Principal)
	return p
}

// AdminSession returns the admin session of the request; the zero value is locked
func AdminSession(c *fiber.Ctx) models.AdminSession {
	s, _ := c.Locals(adminSessionKey).(models.AdminSession)
	return s
}

// BearerToken extracts the token from the Authorization header
func BearerToken(c *fiber.Ctx) string {
	token, _ := bearerToken(c)
	return token
}

func bearerToken(c *fiber.Ctx) (string, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", fmt.Errorf("%w: missing authorization header", models.ErrAuth)
	}

	token := strings.TrimPrefix(header, "Bearer ")
	if token == header || token == "" {
		return "", fmt.Errorf("%w: bearer token required", models.ErrAuth)
	}
	return token, nil
}
