package api

import (
	"errors"

	"github.com/bilgisen/peacenet/internal/auth"
	"github.com/bilgisen/peacenet/internal/logger"
	"github.com/bilgisen/peacenet/internal/middleware"
	"github.com/bilgisen/peacenet/internal/models"
	"github.com/gofiber/fiber/v2"
)

// authResult is the body of every /auth response
type authResult struct {
	Success bool              `json:"success"`
	Error   string            `json:"error,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	Token   string            `json:"token,omitempty"`
	User    *models.User      `json:"user,omitempty"`
}

func authSuccess(c *fiber.Ctx, status int, session *auth.Session) error {
	return c.Status(status).JSON(authResult{
		Success: true,
		Token:   session.Token,
		User:    session.User,
	})
}

func authFailure(c *fiber.Ctx, err error) error {
	code := middleware.StatusFor(err)
	res := authResult{Success: false, Error: err.Error()}

	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		res.Error = models.ErrValidation.Error()
		res.Fields = verr.Fields
	case code >= fiber.StatusInternalServerError:
		logger.Get().Error().Err(err).Str("path", c.Path()).Msg("Auth request failed")
		res.Error = "authentication is temporarily unavailable"
	}
	return c.Status(code).JSON(res)
}

// Register handles POST /api/v1/auth/register
func (h *Handlers) Register(c *fiber.Ctx) error {
	var in auth.RegisterInput
	if err := middleware.BindBody(c, &in); err != nil {
		return authFailure(c, err)
	}

	session, err := h.Auth.Register(c.UserContext(), in)
	if err != nil {
		return authFailure(c, err)
	}
	return authSuccess(c, fiber.StatusCreated, session)
}

// Login handles POST /api/v1/auth/login
func (h *Handlers) Login(c *fiber.Ctx) error {
	var in auth.LoginInput
	if err := middleware.BindBody(c, &in); err != nil {
		return authFailure(c, err)
	}

	session, err := h.Auth.Login(c.UserContext(), in)
	if err != nil {
		return authFailure(c, err)
	}
	return authSuccess(c, fiber.StatusOK, session)
}

// LoginWithGoogle handles POST /api/v1/auth/google
func (h *Handlers) LoginWithGoogle(c *fiber.Ctx) error {
	var in auth.GoogleInput
	if err := middleware.BindBody(c, &in); err != nil {
		return authFailure(c, err)
	}

	session, err := h.Auth.LoginWithGoogle(c.UserContext(), in)
	if err != nil {
		return authFailure(c, err)
	}
	return authSuccess(c, fiber.StatusOK, session)
}

// Me handles GET /api/v1/auth/me
func (h *Handlers) Me(c *fiber.Ctx) error {
	user, err := h.Auth.Me(c.UserContext(), middleware.Principal(c))
	if err != nil {
		return authFailure(c, err)
	}
	return c.JSON(authResult{Success: true, User: user})
}
