package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/profilescan/profilescan/internal/config"
	"github.com/profilescan/profilescan/internal/model"
)

// TestNewScanCmd tests the scan command creation.
func TestNewScanCmd(t *testing.T) {
	t.Parallel()

	cmd := NewScanCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "scan" {
			t.Errorf("expected use 'scan', got %q", cmd.Use)
		}
	})

	t.Run("has subject handle flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{
			"email", "github", "linkedin", "twitter", "reddit",
			"facebook", "instagram", "youtube", "name",
		} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected %s flag", name)
			}
		}
	})

	t.Run("has input file flags", func(t *testing.T) {
		t.Parallel()
		subjects := cmd.Flags().Lookup("subjects")
		if subjects == nil {
			t.Fatal("expected subjects flag")
		}
		if subjects.Shorthand != "s" {
			t.Errorf("expected shorthand 's', got %q", subjects.Shorthand)
		}
		payloads := cmd.Flags().Lookup("payloads")
		if payloads == nil {
			t.Fatal("expected payloads flag")
		}
		if payloads.Shorthand != "p" {
			t.Errorf("expected shorthand 'p', got %q", payloads.Shorthand)
		}
	})

	t.Run("has report flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"json", "markdown", "output"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected %s flag", name)
			}
		}
	})

	t.Run("has behavior flags with defaults", func(t *testing.T) {
		t.Parallel()
		timeout := cmd.Flags().Lookup("timeout")
		if timeout == nil {
			t.Fatal("expected timeout flag")
		}
		if timeout.DefValue != config.DefaultTimeout.String() {
			t.Errorf("expected default %q, got %q", config.DefaultTimeout.String(), timeout.DefValue)
		}
		batch := cmd.Flags().Lookup("batch")
		if batch == nil {
			t.Fatal("expected batch flag")
		}
		if batch.DefValue != "5" {
			t.Errorf("expected default '5', got %q", batch.DefValue)
		}
		if cmd.Flags().Lookup("no-save") == nil {
			t.Error("expected no-save flag")
		}
		if cmd.Flags().Lookup("demo-data") == nil {
			t.Error("expected demo-data flag")
		}
	})
}

// TestBuildConfig tests config assembly from scan command flags.
func TestBuildConfig(t *testing.T) {
	t.Parallel()

	t.Run("builds subject from handle flags", func(t *testing.T) {
		t.Parallel()

		cmd := NewScanCmd()
		if err := cmd.ParseFlags([]string{
			"--github", "octocat",
			"--email", "octocat@example.com",
			"--twitter", "octo_tw",
		}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		cfg, err := buildConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Subject.GitHub != "octocat" {
			t.Errorf("expected github 'octocat', got %q", cfg.Subject.GitHub)
		}
		if cfg.Subject.Email != "octocat@example.com" {
			t.Errorf("expected email 'octocat@example.com', got %q", cfg.Subject.Email)
		}
		if cfg.Subject.Twitter != "octo_tw" {
			t.Errorf("expected twitter 'octo_tw', got %q", cfg.Subject.Twitter)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected valid config, got %v", err)
		}
	})

	t.Run("defaults enable database persistence", func(t *testing.T) {
		t.Parallel()

		cmd := NewScanCmd()
		if err := cmd.ParseFlags([]string{"--github", "octocat"}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		cfg, err := buildConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !cfg.SaveToDB {
			t.Error("expected SaveToDB to be true by default")
		}
		if cfg.DBDir == "" {
			t.Error("expected DBDir to be set")
		}
		if cfg.Timeout != config.DefaultTimeout {
			t.Errorf("expected default timeout, got %v", cfg.Timeout)
		}
	})

	t.Run("no-save disables persistence", func(t *testing.T) {
		t.Parallel()

		cmd := NewScanCmd()
		if err := cmd.ParseFlags([]string{"--github", "octocat", "--no-save"}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		cfg, err := buildConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.SaveToDB {
			t.Error("expected SaveToDB to be false with --no-save")
		}
		if cfg.DBDir != "" {
			t.Errorf("expected empty DBDir, got %q", cfg.DBDir)
		}
	})

	t.Run("missing explicit config file errors", func(t *testing.T) {
		t.Parallel()

		cmd := NewScanCmd()
		if err := cmd.ParseFlags([]string{
			"--github", "octocat",
			"-c", filepath.Join(t.TempDir(), "no-such-file.yaml"),
		}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		_, err := buildConfig(cmd)
		if err == nil {
			t.Fatal("expected error for missing config file")
		}
		if !strings.Contains(err.Error(), "configuration file not found") {
			t.Errorf("expected not found error, got %v", err)
		}
	})

	t.Run("config file weights override defaults", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "config.yaml")
		content := `
weights:
  data_sensitivity: 0.5
  cross_platform: 0.2
  recency: 0.2
  exploitability: 0.1
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		cmd := NewScanCmd()
		if err := cmd.ParseFlags([]string{"--github", "octocat", "-c", configPath}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		cfg, err := buildConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.RiskWeights[model.RiskComponentSensitivity] != 0.5 {
			t.Errorf("expected overridden sensitivity weight 0.5, got %v",
				cfg.RiskWeights[model.RiskComponentSensitivity])
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected valid config, got %v", err)
		}
	})

	t.Run("conflicting report formats fail validation", func(t *testing.T) {
		t.Parallel()

		cmd := NewScanCmd()
		if err := cmd.ParseFlags([]string{"--github", "octocat", "-j", "-m"}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		cfg, err := buildConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if err := cfg.Validate(); err == nil {
			t.Error("expected validation error for conflicting formats")
		}
	})
}

// TestLoadSubjectsFile tests the batch subjects file loader.
func TestLoadSubjectsFile(t *testing.T) {
	t.Parallel()

	t.Run("loads subjects from yaml", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "subjects.yaml")
		content := `
subjects:
  - github: octocat
    email: octocat@example.com
  - twitter: jdoe
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write subjects file: %v", err)
		}

		subjects, err := loadSubjectsFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(subjects) != 2 {
			t.Fatalf("expected 2 subjects, got %d", len(subjects))
		}
		if subjects[0].GitHub != "octocat" {
			t.Errorf("expected github 'octocat', got %q", subjects[0].GitHub)
		}
		if subjects[1].Twitter != "jdoe" {
			t.Errorf("expected twitter 'jdoe', got %q", subjects[1].Twitter)
		}
	})

	t.Run("skips entries with no handles", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "subjects.yaml")
		content := `
subjects:
  - github: octocat
  - {}
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write subjects file: %v", err)
		}

		subjects, err := loadSubjectsFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(subjects) != 1 {
			t.Errorf("expected 1 subject, got %d", len(subjects))
		}
	})

	t.Run("missing file errors", func(t *testing.T) {
		t.Parallel()

		if _, err := loadSubjectsFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("invalid yaml errors", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "subjects.yaml")
		if err := os.WriteFile(path, []byte("subjects: [notamap"), 0600); err != nil {
			t.Fatalf("failed to write subjects file: %v", err)
		}

		if _, err := loadSubjectsFile(path); err == nil {
			t.Error("expected error for invalid yaml")
		}
	})
}

// TestLoadPayloadsFile tests the payload replay file loader.
func TestLoadPayloadsFile(t *testing.T) {
	t.Parallel()

	t.Run("loads payload array", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "payloads.json")
		content := `[
  {
    "platform": "github",
    "profile": {"login": "octocat", "name": "The Octocat"},
    "repositories": [{"name": "hello-world", "description": ""}]
  },
  {
    "platform": "email",
    "profile": {},
    "data": {"email": "octocat@example.com", "valid": true}
  }
]`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write payloads file: %v", err)
		}

		payloads, err := loadPayloadsFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(payloads) != 2 {
			t.Fatalf("expected 2 payloads, got %d", len(payloads))
		}
		if payloads[0].Platform != model.PlatformGitHub {
			t.Errorf("expected github platform, got %q", payloads[0].Platform)
		}
		if _, ok := payloads[0].Extras["repositories"]; !ok {
			t.Error("expected repositories extra to be preserved")
		}
	})

	t.Run("invalid json errors", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "payloads.json")
		if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
			t.Fatalf("failed to write payloads file: %v", err)
		}

		if _, err := loadPayloadsFile(path); err == nil {
			t.Error("expected error for invalid json")
		}
	})
}

// TestSubjectFromPayloads tests subject derivation for payload replays.
func TestSubjectFromPayloads(t *testing.T) {
	t.Parallel()

	payloads := []model.PlatformPayload{
		{
			Platform: model.PlatformGitHub,
			Profile:  map[string]any{"login": "octocat"},
		},
		{
			Platform: model.PlatformInstagram,
			Profile:  map[string]any{"full_name": "The Octocat"},
			Extras:   map[string]any{"username": "octo_insta"},
		},
		{
			Platform: model.PlatformEmail,
			Extras: map[string]any{
				"data": map[string]any{"email": "octocat@example.com"},
			},
		},
	}

	subject := subjectFromPayloads(payloads)

	if subject.GitHub != "octocat" {
		t.Errorf("expected github 'octocat', got %q", subject.GitHub)
	}
	if subject.Instagram != "octo_insta" {
		t.Errorf("expected instagram 'octo_insta', got %q", subject.Instagram)
	}
	if subject.Email != "octocat@example.com" {
		t.Errorf("expected email 'octocat@example.com', got %q", subject.Email)
	}
	if subject.Empty() {
		t.Error("expected non-empty subject")
	}
}

// TestOutputReport tests report output destinations and formats.
func TestOutputReport(t *testing.T) {
	t.Parallel()

	newResult := func() *model.ScanResult {
		result := model.NewScanResult(model.ScanSubject{GitHub: "octocat"})
		result.DateScanned = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		result.Risk = &model.RiskScore{
			TotalScore: 25,
			Severity:   model.SeverityLow,
			Breakdown:  map[string]float64{model.RiskComponentSensitivity: 25},
		}
		return result
	}

	t.Run("writes simple report to file", func(t *testing.T) {
		t.Parallel()

		reportPath := filepath.Join(t.TempDir(), "nested", "report.txt")
		cfg := config.NewConfig()
		cfg.ReportFile = reportPath

		if err := outputReport(cfg, newResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(reportPath)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		if !strings.Contains(string(content), "PROFILESCAN REPORT") {
			t.Error("expected simple report content")
		}
	})

	t.Run("writes versioned json report", func(t *testing.T) {
		t.Parallel()

		reportPath := filepath.Join(t.TempDir(), "report.json")
		cfg := config.NewConfig()
		cfg.ReportFile = reportPath
		cfg.JSONReport = true

		if err := outputReport(cfg, newResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(reportPath)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}

		var decoded struct {
			Version string            `json:"version"`
			Result  *model.ScanResult `json:"result"`
		}
		if err := json.Unmarshal(content, &decoded); err != nil {
			t.Fatalf("report is not valid JSON: %v", err)
		}
		if decoded.Version == "" {
			t.Error("expected version in JSON report")
		}
		if decoded.Result == nil || decoded.Result.Subject.GitHub != "octocat" {
			t.Error("expected wrapped result with subject")
		}
	})

	t.Run("writes markdown report", func(t *testing.T) {
		t.Parallel()

		reportPath := filepath.Join(t.TempDir(), "report.md")
		cfg := config.NewConfig()
		cfg.ReportFile = reportPath
		cfg.MarkdownReport = true

		if err := outputReport(cfg, newResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(reportPath)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		if !strings.Contains(string(content), "# ProfileScan Report") {
			t.Error("expected markdown report content")
		}
	})
}
