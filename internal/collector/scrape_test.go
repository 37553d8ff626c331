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

const profilePage = `<!DOCTYPE html>
<html>
<head>
<meta property="og:title" content="John Doe">
<meta property="og:description" content="Builder of things">
<meta name="description" content="fallback description">
</head>
<body><p>content</p></body>
</html>`

func TestScrapeCollector(t *testing.T) {
	t.Parallel()

	t.Run("twitter maps og tags into the profile", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(profilePage))
		}))
		defer srv.Close()

		c, err := NewScrape(model.PlatformTwitter, config.NewConfig(), config.PlatformConfig{BaseURL: srv.URL})
		if err != nil {
			t.Fatal(err)
		}

		payload, err := c.Collect(context.Background(), "jdoe")
		if err != nil {
			t.Fatal(err)
		}
		if v, _, _ := payload.ProfileString("username"); v != "jdoe" {
			t.Errorf("username = %q", v)
		}
		if v, _, _ := payload.ProfileString("name"); v != "John Doe" {
			t.Errorf("name = %q", v)
		}
		if v, _, _ := payload.ProfileString("bio"); v != "Builder of things" {
			t.Errorf("bio = %q", v)
		}
	})

	t.Run("instagram keeps the handle as a top-level extra", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(profilePage))
		}))
		defer srv.Close()

		c, err := NewScrape(model.PlatformInstagram, config.NewConfig(), config.PlatformConfig{BaseURL: srv.URL})
		if err != nil {
			t.Fatal(err)
		}

		payload, err := c.Collect(context.Background(), "jdoe.gram")
		if err != nil {
			t.Fatal(err)
		}
		if v, _, _ := payload.ExtraString("username"); v != "jdoe.gram" {
			t.Errorf("username extra = %q", v)
		}
		if v, _, _ := payload.ProfileString("full_name"); v != "John Doe" {
			t.Errorf("full_name = %q", v)
		}
	})

	t.Run("page without metadata maps to ErrNotFound", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`<html><head><title>Log in</title></head><body></body></html>`))
		}))
		defer srv.Close()

		c, err := NewScrape(model.PlatformFacebook, config.NewConfig(), config.PlatformConfig{BaseURL: srv.URL})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := c.Collect(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("unsupported platform is rejected", func(t *testing.T) {
		t.Parallel()

		if _, err := NewScrape(model.PlatformGitHub, config.NewConfig(), config.PlatformConfig{}); err == nil {
			t.Error("expected error for platform with a dedicated collector")
		}
	})
}

func TestParseMeta(t *testing.T) {
	t.Parallel()

	t.Run("description fallback", func(t *testing.T) {
		t.Parallel()

		meta := parseMeta([]byte(`<html><head><meta name="description" content="only plain"></head></html>`))
		if meta["description"] != "only plain" {
			t.Errorf("description = %q", meta["description"])
		}
	})

	t.Run("stops at end of head", func(t *testing.T) {
		t.Parallel()

		page := `<html><head></head><body><meta property="og:title" content="late"></body></html>`
		if meta := parseMeta([]byte(page)); len(meta) != 0 {
			t.Errorf("meta = %v, want empty", meta)
		}
	})

	t.Run("malformed html does not panic", func(t *testing.T) {
		t.Parallel()

		parseMeta([]byte(`<head><meta property="og:title" content="unclosed`))
	})
}
