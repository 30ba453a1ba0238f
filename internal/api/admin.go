package api

import (
	"github.com/bilgisen/peacenet/internal/middleware"
	"github.com/bilgisen/peacenet/internal/moderation"
	"github.com/gofiber/fiber/v2"
)

// workflow binds moderation to the admin session of this request
func (h *Handlers) workflow(c *fiber.Ctx) *moderation.Workflow {
	return moderation.New(h.Stories, h.Browse, middleware.AdminSession(c))
}

// UnlockAdmin handles POST /api/v1/admin/session. Failures are rendered
// here so the rate limiter sees their status.
func (h *Handlers) UnlockAdmin(c *fiber.Ctx) error {
	var req struct {
		Password string `json:"password"`
	}
	if err := middleware.BindBody(c, &req); err != nil {
		return middleware.ErrorHandler(c, err)
	}

	token, session, err := h.Gate.Unlock(c.UserContext(), req.Password)
	if err != nil {
		return middleware.ErrorHandler(c, err)
	}

	return c.JSON(fiber.Map{
		"token":      token,
		"expires_at": session.ExpiresAt,
	})
}

// LockAdmin handles DELETE /api/v1/admin/session
func (h *Handlers) LockAdmin(c *fiber.Ctx) error {
	if err := h.Gate.Lock(c.UserContext(), middleware.BearerToken(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "locked"})
}

// AdminListStories handles GET /api/v1/admin/stories?status=
func (h *Handlers) AdminListStories(c *fiber.Ctx) error {
	stories, err := h.workflow(c).List(c.UserContext(), c.Query("status"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"total": len(stories),
		"items": stories,
	})
}

// AdminCounts handles GET /api/v1/admin/stories/counts
func (h *Handlers) AdminCounts(c *fiber.Ctx) error {
	counts, err := h.workflow(c).Counts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(counts)
}

// ApproveStory handles POST /api/v1/admin/stories/:id/approve
func (h *Handlers) ApproveStory(c *fiber.Ctx) error {
	story, err := h.workflow(c).Approve(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(story)
}

// RejectStory handles POST /api/v1/admin/stories/:id/reject
func (h *Handlers) RejectStory(c *fiber.Ctx) error {
	story, err := h.workflow(c).Reject(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(story)
}

// DeleteStory handles DELETE /api/v1/admin/stories/:id?confirm=true
func (h *Handlers) DeleteStory(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.workflow(c).Delete(c.UserContext(), id, c.QueryBool("confirm")); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"status":  "deleted",
		"message": "Story deleted permanently",
	})
}
