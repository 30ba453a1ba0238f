package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/bilgisen/peacenet/internal/models"
	"github.com/go-resty/resty/v2"
)

const storyEntity = "Story"

// Remote talks to a hosted entity API:
//
//	GET    {base}/entities/Story?sort=-created_date[&q={"status":"approved"}]
//	GET    {base}/entities/Story/{id}
//	POST   {base}/entities/Story
//	PUT    {base}/entities/Story/{id}
//	DELETE {base}/entities/Story/{id}
//
// Queries get one retry on failure; writes are never retried.
type Remote struct {
	query *resty.Client
	write *resty.Client
}

func NewRemote(baseURL, apiKey string, timeout time.Duration) *Remote {
	newClient := func() *resty.Client {
		return resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json").
			SetHeader("api_key", apiKey)
	}

	return &Remote{
		query: newClient().
			SetRetryCount(1).
			SetRetryWaitTime(250 * time.Millisecond).
			SetRetryMaxWaitTime(time.Second).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				return err != nil || r.StatusCode() >= http.StatusInternalServerError
			}),
		write: newClient(),
	}
}

func entityPath(id string) string {
	if id == "" {
		return "/entities/" + storyEntity
	}
	return "/entities/" + storyEntity + "/" + url.PathEscape(id)
}

func (r *Remote) List(ctx context.Context, sort string) ([]models.Story, error) {
	return r.Filter(ctx, models.StoryFilter{}, sort)
}

func (r *Remote) Filter(ctx context.Context, filter models.StoryFilter, sort string) ([]models.Story, error) {
	req := r.query.R().SetContext(ctx)
	if sort != "" {
		req.SetQueryParam("sort", sort)
	}
	if filter != (models.StoryFilter{}) {
		q, err := json.Marshal(filter)
		if err != nil {
			return nil, fmt.Errorf("failed to encode filter: %w", err)
		}
		req.SetQueryParam("q", string(q))
	}

	var stories []models.Story
	resp, err := req.SetResult(&stories).Get(entityPath(""))
	if err := checkResponse(resp, err, "list stories"); err != nil {
		return nil, err
	}
	if stories == nil {
		stories = []models.Story{}
	}
	return stories, nil
}

func (r *Remote) Get(ctx context.Context, id string) (*models.Story, error) {
	var story models.Story
	resp, err := r.query.R().
		SetContext(ctx).
		SetResult(&story).
		Get(entityPath(id))
	if err := checkResponse(resp, err, "get story "+id); err != nil {
		return nil, err
	}
	return &story, nil
}

func (r *Remote) Create(ctx context.Context, input models.StoryInput) (*models.Story, error) {
	input.Status = models.StatusPending
	if input.Category == "" {
		input.Category = models.DefaultCategory
	}

	var story models.Story
	resp, err := r.write.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(input).
		SetResult(&story).
		Post(entityPath(""))
	if err := checkResponse(resp, err, "create story"); err != nil {
		return nil, err
	}
	return &story, nil
}

func (r *Remote) Update(ctx context.Context, id string, patch models.StoryPatch) (*models.Story, error) {
	var story models.Story
	resp, err := r.write.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(patch).
		SetResult(&story).
		Put(entityPath(id))
	if err := checkResponse(resp, err, "update story "+id); err != nil {
		return nil, err
	}
	return &story, nil
}

func (r *Remote) Delete(ctx context.Context, id string) error {
	resp, err := r.write.R().
		SetContext(ctx).
		Delete(entityPath(id))
	return checkResponse(resp, err, "delete story "+id)
}

// checkResponse maps transport failures and 5xx to ErrNetwork and 404 to ErrNotFound
func checkResponse(resp *resty.Response, err error, op string) error {
	if err != nil {
		return fmt.Errorf("%s: %w: %v", op, models.ErrNetwork, err)
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	case code >= http.StatusInternalServerError:
		return fmt.Errorf("%s: %w: status %d", op, models.ErrNetwork, code)
	case code >= http.StatusBadRequest:
		return fmt.Errorf("%s: unexpected status code %d: %s", op, code, resp.String())
	}
	return nil
}
