package collector

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/profilescan/profilescan/internal/config"
	"github.com/profilescan/profilescan/internal/model"
)

// defaultRedditBaseURL serves the public unauthenticated JSON endpoints.
const defaultRedditBaseURL = "https://www.reddit.com"

// RedditCollector collects a user's public profile from Reddit's
// about.json endpoint.
type RedditCollector struct {
	client  client
	baseURL string
	now     func() time.Time
}

// RedditOption configures a RedditCollector.
type RedditOption func(*RedditCollector)

// WithRedditClock overrides the time source.
func WithRedditClock(now func() time.Time) RedditOption {
	return func(c *RedditCollector) {
		c.now = now
	}
}

// NewReddit creates a Reddit collector.
func NewReddit(cfg *config.Config, pc config.PlatformConfig, opts ...RedditOption) *RedditCollector {
	c := &RedditCollector{
		client:  newClient(cfg, pc),
		baseURL: defaultRedditBaseURL,
		now:     time.Now,
	}
	if pc.BaseURL != "" {
		c.baseURL = pc.BaseURL
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Platform returns the platform this collector serves.
func (c *RedditCollector) Platform() model.Platform {
	return model.PlatformReddit
}

// redditAbout mirrors the about.json response envelope.
type redditAbout struct {
	Data struct {
		Name         string  `json:"name"`
		CreatedUTC   float64 `json:"created_utc"`
		LinkKarma    int     `json:"link_karma"`
		CommentKarma int     `json:"comment_karma"`
		Verified     bool    `json:"verified"`
	} `json:"data"`
}

// Collect fetches the user's about.json profile.
func (c *RedditCollector) Collect(ctx context.Context, handle string) (*model.PlatformPayload, error) {
	aboutURL := fmt.Sprintf("%s/user/%s/about.json", c.baseURL, url.PathEscape(handle))

	var about redditAbout
	if err := c.client.getJSON(ctx, aboutURL, nil, &about); err != nil {
		return nil, fmt.Errorf("reddit profile for %q: %w", handle, err)
	}
	if about.Data.Name == "" {
		return nil, fmt.Errorf("reddit profile for %q: %w", handle, ErrNotFound)
	}

	return &model.PlatformPayload{
		Platform: model.PlatformReddit,
		Profile: map[string]any{
			"name":          about.Data.Name,
			"created_utc":   about.Data.CreatedUTC,
			"link_karma":    about.Data.LinkKarma,
			"comment_karma": about.Data.CommentKarma,
			"verified":      about.Data.Verified,
		},
		CollectedAt: c.now(),
	}, nil
}
