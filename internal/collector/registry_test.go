package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/profilescan/profilescan/internal/config"
	"github.com/profilescan/profilescan/internal/model"
)

func TestRegistryCollect(t *testing.T) {
	t.Parallel()

	t.Run("collects enabled platforms concurrently", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/users/jdoe":
				w.Write([]byte(`{"login": "jdoe"}`))
			case "/users/jdoe/repos":
				w.Write([]byte(`[]`))
			default:
				http.NotFound(w, r)
			}
		}))
		defer srv.Close()

		cfg := config.NewConfig()
		cfg.PlatformConfigs = &config.File{
			Platforms: map[string]config.PlatformConfig{
				"github": {BaseURL: srv.URL},
			},
		}

		r := NewRegistry(cfg)
		result, err := r.Collect(context.Background(), model.ScanSubject{
			GitHub: "jdoe",
			Email:  "jdoe@corp.example",
		})
		if err != nil {
			t.Fatal(err)
		}
		if len(result.Payloads) != 2 {
			t.Fatalf("payloads = %d, want 2", len(result.Payloads))
		}
		if len(result.Errors) != 0 {
			t.Errorf("errors = %v, want none", result.Errors)
		}

		platforms := make(map[model.Platform]bool)
		for _, p := range result.Payloads {
			platforms[p.Platform] = true
		}
		if !platforms[model.PlatformGitHub] || !platforms[model.PlatformEmail] {
			t.Errorf("platforms = %v", platforms)
		}
	})

	t.Run("failed collector is recorded and does not abort the scan", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()

		cfg := config.NewConfig()
		cfg.PlatformConfigs = &config.File{
			Platforms: map[string]config.PlatformConfig{
				"github": {BaseURL: srv.URL},
			},
		}

		r := NewRegistry(cfg)
		result, err := r.Collect(context.Background(), model.ScanSubject{
			GitHub: "ghost",
			Email:  "jdoe@corp.example",
		})
		if err != nil {
			t.Fatal(err)
		}
		if len(result.Payloads) != 1 {
			t.Fatalf("payloads = %d, want 1", len(result.Payloads))
		}
		if result.Errors[model.PlatformGitHub] == nil {
			t.Error("github failure not recorded")
		}
	})

	t.Run("disabled platform is skipped", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.PlatformConfigs = &config.File{
			Platforms: map[string]config.PlatformConfig{
				"email": {Disabled: true},
			},
		}

		r := NewRegistry(cfg)
		result, err := r.Collect(context.Background(), model.ScanSubject{Email: "jdoe@corp.example"})
		if err != nil {
			t.Fatal(err)
		}
		if len(result.Payloads) != 0 || len(result.Errors) != 0 {
			t.Errorf("result = %+v, want empty", result)
		}
	})

	t.Run("empty subject yields nothing", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry(config.NewConfig())
		result, err := r.Collect(context.Background(), model.ScanSubject{})
		if err != nil {
			t.Fatal(err)
		}
		if len(result.Payloads) != 0 {
			t.Errorf("payloads = %d, want 0", len(result.Payloads))
		}
	})
}
