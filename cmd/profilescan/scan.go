package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/profilescan/profilescan/internal/config"
	"github.com/profilescan/profilescan/internal/database"
	"github.com/profilescan/profilescan/internal/log"
	"github.com/profilescan/profilescan/internal/model"
	"github.com/profilescan/profilescan/internal/pipeline"
	"github.com/profilescan/profilescan/internal/report"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan a subject's public footprint across platforms",
		Long: `Scan collects public profile data for a subject and analyzes their exposure.

It fans out to platform collectors, fuses the payloads into a unified
profile, and analyzes it for:
- Cross-platform identity correlation (intelligence graph)
- Weighted exposure risk scoring
- Tracking entities likely holding data on the subject
- Exposed secrets, emails, and other sensitive data
- Exposure timeline and attack scenario likelihoods

Examples:
  # Scan a subject by GitHub handle and email
  profilescan scan --github octocat --email octocat@example.com

  # Scan multiple subjects from a YAML file
  profilescan scan --subjects subjects.yaml

  # Analyze pre-collected payloads without touching the network
  profilescan scan --payloads payloads.json

  # Output JSON report to a file
  profilescan scan --github octocat --json -o report.json

  # Use a custom configuration file
  profilescan scan -c myconfig.yaml --github octocat

Subjects file (subjects.yaml) example:
  subjects:
    - github: octocat
      email: octocat@example.com
    - twitter: jdoe
      reddit: jdoe_r`,
		Args: cobra.NoArgs,
		RunE: runScanCmd,
	}

	// Subject handle flags
	cmd.Flags().String("email", "", "Email address of the subject")
	cmd.Flags().String("github", "", "GitHub username of the subject")
	cmd.Flags().String("linkedin", "", "LinkedIn username of the subject")
	cmd.Flags().String("twitter", "", "Twitter/X username of the subject")
	cmd.Flags().String("reddit", "", "Reddit username of the subject")
	cmd.Flags().String("facebook", "", "Facebook username of the subject")
	cmd.Flags().String("instagram", "", "Instagram username of the subject")
	cmd.Flags().String("youtube", "", "YouTube channel handle of the subject")
	cmd.Flags().String("name", "", "Display name of the subject")

	// Input file flags
	cmd.Flags().StringP("subjects", "s", "",
		"YAML file listing multiple subjects for batch scanning")
	cmd.Flags().StringP("payloads", "p", "",
		"JSON file of pre-collected payloads (skips live collection)")

	// Scan behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each platform request")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent subject scans")
	cmd.Flags().Bool("demo-data", false,
		"Inflate sparse graphs with tagged demonstration nodes")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .profilescan in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// Persistence flags
	cmd.Flags().Bool("no-save", false,
		"Do not save scan results to the local database")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, _ []string) error {
	// Build config from flags
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with PII masking
	verbose := getVerboseFlag(cmd)
	logger := log.NewSecureLogger(os.Stderr, verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScan(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	// Get flag values
	var err error

	cfg.Subject, err = subjectFromFlags(cmd)
	if err != nil {
		return nil, err
	}

	cfg.SubjectsFile, err = cmd.Flags().GetString("subjects")
	if err != nil {
		return nil, err
	}

	cfg.PayloadsFile, err = cmd.Flags().GetString("payloads")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.DemoData, err = cmd.Flags().GetBool("demo-data")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load platform-specific configurations from config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.PlatformConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		// User explicitly specified a config file that doesn't exist
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		// Use empty config if no file found and user didn't explicitly specify one
		cfg.PlatformConfigs = &config.File{
			Platforms: make(map[string]config.PlatformConfig),
		}
	}

	// Weight overrides from the config file replace the defaults wholesale;
	// Validate checks the four components are present and sum to 1.0.
	if len(cfg.PlatformConfigs.Weights) > 0 {
		cfg.RiskWeights = cfg.PlatformConfigs.Weights
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	if !noSave {
		cfg.SaveToDB = true
		cfg.DBDir = config.XDGDataDir()
	}

	return cfg, nil
}

// subjectFromFlags assembles a ScanSubject from the per-platform flags.
func subjectFromFlags(cmd *cobra.Command) (model.ScanSubject, error) {
	var subject model.ScanSubject

	fields := []struct {
		flag string
		dest *string
	}{
		{"email", &subject.Email},
		{"github", &subject.GitHub},
		{"linkedin", &subject.LinkedIn},
		{"twitter", &subject.Twitter},
		{"reddit", &subject.Reddit},
		{"facebook", &subject.Facebook},
		{"instagram", &subject.Instagram},
		{"youtube", &subject.YouTube},
		{"name", &subject.Name},
	}

	for _, f := range fields {
		value, err := cmd.Flags().GetString(f.flag)
		if err != nil {
			return model.ScanSubject{}, err
		}
		*f.dest = value
	}

	return subject, nil
}

// runScan executes the scan.
func runScan(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting scan",
		"subject", cfg.Subject.Handle(),
		"subjectsFile", cfg.SubjectsFile,
		"payloadsFile", cfg.PayloadsFile,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	// Open database connection if saving is enabled
	var db *database.ScanDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	// Batch scanning from a subjects file
	if cfg.SubjectsFile != "" {
		return runBatchScan(ctx, cfg, db, logger)
	}

	// Single subject, live collection or payload replay
	return runSingleScan(ctx, cfg, db, logger)
}

// runSingleScan scans one subject and outputs the report.
func runSingleScan(ctx context.Context, cfg *config.Config, db *database.ScanDB, logger *slog.Logger) error {
	pipelineOpts := []pipeline.Option{
		pipeline.WithLogger(logger),
	}

	var configOpts []pipeline.DefaultPipelineOption
	var payloads []model.PlatformPayload

	if cfg.PayloadsFile != "" {
		var err error
		payloads, err = loadPayloadsFile(cfg.PayloadsFile)
		if err != nil {
			return fmt.Errorf("failed to load payloads file: %w", err)
		}
		configOpts = append(configOpts, pipeline.WithoutCollection())

		// A payload replay may omit the subject flags; derive the handles
		// from the payloads so reports and persistence have a subject.
		if cfg.Subject.Empty() {
			cfg.Subject = subjectFromPayloads(payloads)
		}
	}

	p := pipeline.DefaultPipeline(cfg, pipelineOpts, configOpts...)

	result := model.NewScanResult(cfg.Subject)
	result.Payloads = payloads

	fmt.Printf("Scanning %s...\n", cfg.Subject.Handle())
	startTime := time.Now()

	// Execute the pipeline
	if err := p.Execute(ctx, result); err != nil {
		logger.Error("scan failed", "subject", cfg.Subject.Handle(), "error", err)
		return fmt.Errorf("scan failed for %s: %w", cfg.Subject.Handle(), err)
	}

	elapsed := time.Since(startTime)
	fmt.Printf("Scan completed in %s\n\n", elapsed.Round(time.Millisecond))

	// Generate and output report
	if err := outputReport(cfg, result); err != nil {
		logger.Error("report failed", "subject", cfg.Subject.Handle(), "error", err)
		return err
	}

	// Save to database if enabled
	if err := saveScanResult(ctx, db, result, logger); err != nil {
		logger.Error("failed to save scan result", "subject", cfg.Subject.Handle(), "error", err)
	}

	return nil
}

// runBatchScan scans multiple subjects concurrently using BatchProcessor.
func runBatchScan(ctx context.Context, cfg *config.Config, db *database.ScanDB, logger *slog.Logger) error {
	subjects, err := loadSubjectsFile(cfg.SubjectsFile)
	if err != nil {
		return fmt.Errorf("failed to load subjects file: %w", err)
	}
	if len(subjects) == 0 {
		return fmt.Errorf("subjects file %s lists no subjects", cfg.SubjectsFile)
	}

	fmt.Printf("Starting batch scan of %d subjects (concurrency: %d)...\n\n",
		len(subjects), cfg.BatchSize)

	startTime := time.Now()

	// Create batch processor with pipeline factory
	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return pipeline.DefaultPipeline(cfg, []pipeline.Option{
				pipeline.WithLogger(logger),
			})
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	// Process with callback for streaming output
	var mu sync.Mutex
	err = bp.ProcessBatchWithCallback(ctx, subjects, func(result *model.ScanResult, index int) {
		mu.Lock()
		defer mu.Unlock()

		fmt.Printf("[%d/%d] Scan completed: %s\n", index+1, len(subjects), result.Subject.Handle())

		// Generate and output report
		if err := outputReport(cfg, result); err != nil {
			logger.Error("report failed", "subject", result.Subject.Handle(), "error", err)
		}

		// Save to database if enabled
		if err := saveScanResult(ctx, db, result, logger); err != nil {
			logger.Error("failed to save scan result", "subject", result.Subject.Handle(), "error", err)
		}
	})

	elapsed := time.Since(startTime)
	fmt.Printf("\nBatch scan completed in %s\n", elapsed.Round(time.Millisecond))

	return err
}

// subjectsFile is the wire form of the --subjects YAML file.
type subjectsFile struct {
	Subjects []model.ScanSubject `yaml:"subjects"`
}

// loadSubjectsFile reads a YAML file listing subjects for batch scanning.
func loadSubjectsFile(path string) ([]model.ScanSubject, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided file path is intentional
	if err != nil {
		return nil, err
	}

	var sf subjectsFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, err
	}

	// Drop entries with no handles; scanning them would fail immediately.
	subjects := make([]model.ScanSubject, 0, len(sf.Subjects))
	for _, s := range sf.Subjects {
		if !s.Empty() {
			subjects = append(subjects, s)
		}
	}

	return subjects, nil
}

// loadPayloadsFile reads a JSON array of pre-collected platform payloads.
func loadPayloadsFile(path string) ([]model.PlatformPayload, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided file path is intentional
	if err != nil {
		return nil, err
	}

	var payloads []model.PlatformPayload
	if err := json.Unmarshal(data, &payloads); err != nil {
		return nil, err
	}

	return payloads, nil
}

// subjectFromPayloads derives subject handles from replayed payloads.
func subjectFromPayloads(payloads []model.PlatformPayload) model.ScanSubject {
	var subject model.ScanSubject

	for _, p := range payloads {
		handle, ok, _ := p.ProfileString("login")
		if !ok || handle == "" {
			handle, _, _ = p.ProfileString("username")
		}
		if handle == "" {
			handle, _, _ = p.ProfileString("name")
		}

		switch p.Platform {
		case model.PlatformGitHub:
			subject.GitHub = handle
		case model.PlatformLinkedIn:
			subject.LinkedIn = handle
		case model.PlatformTwitter:
			subject.Twitter = handle
		case model.PlatformReddit:
			subject.Reddit = handle
		case model.PlatformFacebook:
			subject.Facebook = handle
		case model.PlatformInstagram:
			// Instagram payloads carry the handle as a top-level extra.
			if username, ok, _ := p.ExtraString("username"); ok && username != "" {
				handle = username
			}
			subject.Instagram = handle
		case model.PlatformYouTube:
			subject.YouTube = handle
		case model.PlatformEmail:
			if data, ok := p.Extras["data"].(map[string]any); ok {
				if email, ok := data["email"].(string); ok {
					subject.Email = email
				}
			}
		}
	}

	return subject
}

// outputReport outputs the scan result in the requested format.
func outputReport(cfg *config.Config, result *model.ScanResult) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Create/overwrite the output file with secure permissions (0600)
		// Reports may contain sensitive information that should only be readable by the owner
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	// JSON output (full result with version metadata)
	if cfg.JSONReport {
		writer := report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
		_, err := writer.Write(result)
		return err
	}

	// Markdown output
	if cfg.MarkdownReport {
		writer := report.NewMarkdownWriter(output)
		_, err := writer.Write(result)
		return err
	}

	// Human-readable report (default)
	writer := report.NewSimpleWriter(output)
	_, err := writer.Write(result)
	return err
}

// saveScanResult saves the scan result to the database if enabled.
// If db is nil, this function is a no-op.
func saveScanResult(ctx context.Context, db *database.ScanDB, result *model.ScanResult, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	if err := db.SaveScanResult(ctx, result); err != nil {
		return fmt.Errorf("failed to save scan result: %w", err)
	}

	logger.Info("scan result saved to database", "subject", result.Subject.Handle())
	return nil
}
