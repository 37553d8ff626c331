package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/profilescan/profilescan/internal/config"
)

func TestRedditCollector(t *testing.T) {
	t.Parallel()

	t.Run("collects about profile", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/user/jdoe/about.json" {
				http.NotFound(w, r)
				return
			}
			w.Write([]byte(`{"data": {
				"name": "jdoe", "created_utc": 1577836800,
				"link_karma": 120, "comment_karma": 3400, "verified": true
			}}`))
		}))
		defer srv.Close()

		c := NewReddit(config.NewConfig(), config.PlatformConfig{BaseURL: srv.URL})
		payload, err := c.Collect(context.Background(), "jdoe")
		if err != nil {
			t.Fatal(err)
		}
		if v, _, _ := payload.ProfileString("name"); v != "jdoe" {
			t.Errorf("name = %q", v)
		}
		if v, _, _ := payload.ProfileInt("link_karma"); v != 120 {
			t.Errorf("link_karma = %d", v)
		}
		if v, _, _ := payload.ProfileInt("comment_karma"); v != 3400 {
			t.Errorf("comment_karma = %d", v)
		}
	})

	t.Run("suspended profile without name maps to ErrNotFound", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"data": {}}`))
		}))
		defer srv.Close()

		c := NewReddit(config.NewConfig(), config.PlatformConfig{BaseURL: srv.URL})
		if _, err := c.Collect(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("missing user maps to ErrNotFound", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()

		c := NewReddit(config.NewConfig(), config.PlatformConfig{BaseURL: srv.URL})
		if _, err := c.Collect(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}
