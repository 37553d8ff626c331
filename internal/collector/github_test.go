package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/profilescan/profilescan/internal/config"
	"github.com/profilescan/profilescan/internal/model"
)

func TestGitHubCollector(t *testing.T) {
	t.Parallel()

	t.Run("collects profile and repositories", func(t *testing.T) {
		t.Parallel()

		var gotAuth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			switch r.URL.Path {
			case "/users/jdoe":
				w.Write([]byte(`{
					"login": "jdoe", "name": "John Doe", "bio": "Builder",
					"location": "Berlin", "company": "Corp",
					"followers": 42, "public_repos": 2
				}`))
			case "/users/jdoe/repos":
				w.Write([]byte(`[
					{"name": "proj", "description": "api_key = abc123def456ghi789",
					 "html_url": "https://github.com/jdoe/proj",
					 "language": "Go", "stargazers_count": 7,
					 "created_at": "2021-05-01T10:00:00Z"},
					{"name": "dots", "description": "dotfiles"}
				]`))
			default:
				http.NotFound(w, r)
			}
		}))
		defer srv.Close()

		cfg := config.NewConfig()
		c := NewGitHub(cfg, config.PlatformConfig{BaseURL: srv.URL, APIToken: "tok123"})

		payload, err := c.Collect(context.Background(), "jdoe")
		if err != nil {
			t.Fatal(err)
		}
		if gotAuth != "token tok123" {
			t.Errorf("Authorization = %q, want token tok123", gotAuth)
		}
		if payload.Platform != model.PlatformGitHub {
			t.Errorf("platform = %v", payload.Platform)
		}
		if v, _, _ := payload.ProfileString("login"); v != "jdoe" {
			t.Errorf("login = %q", v)
		}
		if v, _, _ := payload.ProfileInt("followers"); v != 42 {
			t.Errorf("followers = %d", v)
		}

		repos, ok := payload.Extras["repositories"].([]model.Repository)
		if !ok || len(repos) != 2 {
			t.Fatalf("repositories = %v", payload.Extras["repositories"])
		}
		if repos[0].Stars != 7 || repos[0].Language != "Go" {
			t.Errorf("repo = %+v", repos[0])
		}
		if repos[0].CreatedAt.IsZero() {
			t.Error("repo created_at not parsed")
		}

		found, ok := payload.Extras["secrets"].([]model.Secret)
		if !ok || len(found) == 0 {
			t.Fatalf("secrets = %v", payload.Extras["secrets"])
		}
		if found[0].Source != "proj" {
			t.Errorf("secret source = %q, want proj", found[0].Source)
		}
	})

	t.Run("unknown user maps to ErrNotFound", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()

		c := NewGitHub(config.NewConfig(), config.PlatformConfig{BaseURL: srv.URL})
		if _, err := c.Collect(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("repository listing failure degrades to profile only", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/users/jdoe" {
				w.Write([]byte(`{"login": "jdoe"}`))
				return
			}
			http.Error(w, "rate limited", http.StatusForbidden)
		}))
		defer srv.Close()

		c := NewGitHub(config.NewConfig(), config.PlatformConfig{BaseURL: srv.URL})
		payload, err := c.Collect(context.Background(), "jdoe")
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := payload.Extras["repositories"]; ok {
			t.Error("repositories should be absent after listing failure")
		}
		if _, ok := payload.Extras["repositories_error"]; !ok {
			t.Error("repositories_error should record the failure")
		}
	})
}
