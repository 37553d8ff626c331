package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/profilescan/profilescan/internal/config"
	"github.com/profilescan/profilescan/internal/model"
	"github.com/profilescan/profilescan/internal/secrets"
)

// defaultGitHubBaseURL is the public GitHub REST API endpoint.
const defaultGitHubBaseURL = "https://api.github.com"

// maxGitHubRepos caps repository listing to one API page. The most
// recently updated repositories carry the freshest exposure signal.
const maxGitHubRepos = 100

// GitHubCollector collects a user's public profile and repositories from
// the GitHub REST API, and scans repository metadata for leaked secrets.
type GitHubCollector struct {
	client   client
	baseURL  string
	apiToken string
	now      func() time.Time
}

// GitHubOption configures a GitHubCollector.
type GitHubOption func(*GitHubCollector)

// WithGitHubClock overrides the time source.
func WithGitHubClock(now func() time.Time) GitHubOption {
	return func(c *GitHubCollector) {
		c.now = now
	}
}

// NewGitHub creates a GitHub collector. An API token from the platform
// config raises the unauthenticated rate limit of 60 requests per hour.
func NewGitHub(cfg *config.Config, pc config.PlatformConfig, opts ...GitHubOption) *GitHubCollector {
	c := &GitHubCollector{
		client:   newClient(cfg, pc),
		baseURL:  defaultGitHubBaseURL,
		apiToken: pc.APIToken,
		now:      time.Now,
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
func (c *GitHubCollector) Platform() model.Platform {
	return model.PlatformGitHub
}

// githubUser mirrors the fields of the GitHub users API response that
// feed the unified profile.
type githubUser struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Bio         string `json:"bio"`
	Location    string `json:"location"`
	Blog        string `json:"blog"`
	Company     string `json:"company"`
	Followers   int    `json:"followers"`
	PublicRepos int    `json:"public_repos"`
}

// githubRepo mirrors the repository listing response.
type githubRepo struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	HTMLURL     string    `json:"html_url"`
	Language    string    `json:"language"`
	Stars       int       `json:"stargazers_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// Collect fetches the user's profile and repositories. A missing or
// failed repository listing degrades to a profile-only payload rather
// than failing the collection.
func (c *GitHubCollector) Collect(ctx context.Context, handle string) (*model.PlatformPayload, error) {
	var user githubUser
	userURL := fmt.Sprintf("%s/users/%s", c.baseURL, url.PathEscape(handle))
	if err := c.client.getJSON(ctx, userURL, c.header(), &user); err != nil {
		return nil, fmt.Errorf("github profile for %q: %w", handle, err)
	}

	payload := &model.PlatformPayload{
		Platform: model.PlatformGitHub,
		Profile: map[string]any{
			"login":        user.Login,
			"name":         user.Name,
			"email":        user.Email,
			"bio":          user.Bio,
			"location":     user.Location,
			"blog":         user.Blog,
			"company":      user.Company,
			"followers":    user.Followers,
			"public_repos": user.PublicRepos,
		},
		Extras:      map[string]any{},
		CollectedAt: c.now(),
	}

	repos, err := c.collectRepos(ctx, handle)
	if err != nil {
		payload.Extras["repositories_error"] = err.Error()
		return payload, nil
	}

	payload.Extras["repositories"] = repos
	if found := c.scanRepos(repos); len(found) > 0 {
		payload.Extras["secrets"] = found
	}
	return payload, nil
}

func (c *GitHubCollector) collectRepos(ctx context.Context, handle string) ([]model.Repository, error) {
	listURL := fmt.Sprintf("%s/users/%s/repos?per_page=%d&sort=updated",
		c.baseURL, url.PathEscape(handle), maxGitHubRepos)

	var raw []githubRepo
	if err := c.client.getJSON(ctx, listURL, c.header(), &raw); err != nil {
		return nil, fmt.Errorf("github repositories for %q: %w", handle, err)
	}

	repos := make([]model.Repository, 0, len(raw))
	for _, r := range raw {
		repos = append(repos, model.Repository{
			Name:        r.Name,
			Description: r.Description,
			URL:         r.HTMLURL,
			Language:    r.Language,
			Stars:       r.Stars,
			CreatedAt:   r.CreatedAt,
		})
	}
	return repos, nil
}

// scanRepos runs secret detection over the public repository metadata.
func (c *GitHubCollector) scanRepos(repos []model.Repository) []model.Secret {
	var found []model.Secret
	for _, repo := range repos {
		found = append(found, secrets.Scan(repo.Description, repo.Name)...)
	}
	return found
}

func (c *GitHubCollector) header() http.Header {
	h := http.Header{}
	h.Set("Accept", "application/vnd.github.v3+json")
	if c.apiToken != "" {
		h.Set("Authorization", "token "+c.apiToken)
	}
	return h
}
