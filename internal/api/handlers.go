package api

import (
	"time"

	"github.com/bilgisen/peacenet/internal/auth"
	"github.com/bilgisen/peacenet/internal/browse"
	"github.com/bilgisen/peacenet/internal/config"
	"github.com/bilgisen/peacenet/internal/middleware"
	"github.com/bilgisen/peacenet/internal/models"
	"github.com/bilgisen/peacenet/internal/store"
	"github.com/bilgisen/peacenet/internal/submission"
	"github.com/bilgisen/peacenet/internal/upload"
	"github.com/gofiber/fiber/v2"
)

// Version is reported by the health check
const Version = "1.0.0"

// Services are the workflows the HTTP layer dispatches to
type Services struct {
	Stories    store.StoryStore
	Browse     *browse.Service
	Submission *submission.Service
	Auth       *auth.Service
	Gate       *auth.Gate
	// Uploads is nil when no object storage is configured
	Uploads *upload.Service
}

type Handlers struct {
	config *config.Config
	Services
}

func NewHandlers(cfg *config.Config, svc Services) *Handlers {
	return &Handlers{config: cfg, Services: svc}
}

// HealthCheck handles GET /api/v1/health
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": Version,
		"time":    time.Now().Format(time.RFC3339),
	})
}

// ListStories handles GET /api/v1/stories?q=&category=
func (h *Handlers) ListStories(c *fiber.Ctx) error {
	query := c.Query("q")
	category := c.Query("category", browse.CategoryAll)
	if category != browse.CategoryAll && !models.Category(category).Valid() {
		return models.NewValidationError("category", "oneof")
	}

	stories, err := h.Browse.Search(c.UserContext(), query, category)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"total": len(stories),
		"items": stories,
	})
}

// GetStory handles GET /api/v1/stories/:id
func (h *Handlers) GetStory(c *fiber.Ctx) error {
	story, err := h.Browse.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(story)
}

// GetStats handles GET /api/v1/stats
func (h *Handlers) GetStats(c *fiber.Ctx) error {
	stats, err := h.Browse.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// ListCategories handles GET /api/v1/categories
func (h *Handlers) ListCategories(c *fiber.Ctx) error {
	items := make([]fiber.Map, 0, len(models.Categories))
	for _, cat := range models.Categories {
		items = append(items, fiber.Map{
			"value": cat,
			"label": cat.DisplayName(),
		})
	}
	return c.JSON(items)
}

// SubmitStory handles POST /api/v1/stories
func (h *Handlers) SubmitStory(c *fiber.Ctx) error {
	var in models.StoryInput
	if err := middleware.BindBody(c, &in); err != nil {
		return err
	}

	story, err := h.Submission.Submit(c.UserContext(), middleware.Principal(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(story)
}

// MyStories handles GET /api/v1/me/stories
func (h *Handlers) MyStories(c *fiber.Ctx) error {
	stories, err := h.Submission.Mine(c.UserContext(), middleware.Principal(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"total": len(stories),
		"items": stories,
	})
}

// UploadFile handles POST /api/v1/uploads (multipart field "file")
func (h *Handlers) UploadFile(c *fiber.Ctx) error {
	if h.Uploads == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "uploads are not configured")
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return models.NewValidationError("file", "required")
	}
	if fh.Size > h.config.MaxFileSize {
		return models.NewValidationError("file", "max")
	}

	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	res, err := h.Uploads.Upload(c.UserContext(), f)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}
