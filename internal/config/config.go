package config

import (
	"math"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/profilescan/profilescan/internal/model"
)

// Default configuration values.
// These values mirror the collection contract's defaults where applicable.
const (
	// DefaultTimeout is the per-request timeout for platform collectors.
	// Public profile endpoints are usually fast; 30 seconds covers slow
	// mirrors and rate-limit retries without hanging a batch scan.
	DefaultTimeout = 30 * time.Second

	// DefaultBatchSize of 5 concurrent subject scans balances throughput
	// with platform rate limits. Each subject fans out to several platform
	// collectors, so the effective request concurrency is higher.
	DefaultBatchSize = 5

	// AppName is the application name used for XDG directory paths.
	AppName = "profilescan"

	// DefaultUserAgent identifies profilescan in HTTP requests.
	// Using a descriptive User-Agent is good practice and allows operators
	// to identify scanner traffic in their logs.
	DefaultUserAgent = "profilescan/1.0 (+https://github.com/profilescan/profilescan)"

	// DefaultMaxBodySize limits the maximum response body size to read.
	// 5MB is sufficient for profile pages and API responses while
	// preventing memory exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB
)

// Default risk component weights. The four weights must sum to exactly 1.0
// so the total score stays in [0, 100]; Validate enforces this.
const (
	DefaultWeightSensitivity    = 0.4
	DefaultWeightCrossPlatform  = 0.25
	DefaultWeightRecency        = 0.2
	DefaultWeightExploitability = 0.15
)

// weightSumTolerance absorbs float accumulation error when checking that
// the weights sum to 1.0.
const weightSumTolerance = 1e-9

// DefaultRiskWeights returns the default component weights keyed by the
// model.RiskComponent constants.
func DefaultRiskWeights() map[string]float64 {
	return map[string]float64{
		model.RiskComponentSensitivity:    DefaultWeightSensitivity,
		model.RiskComponentCrossPlatform:  DefaultWeightCrossPlatform,
		model.RiskComponentRecency:        DefaultWeightRecency,
		model.RiskComponentExploitability: DefaultWeightExploitability,
	}
}

// Config holds all configuration options for profilescan.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CollectConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
// If the configuration grows significantly, consider refactoring into sub-structs.
type Config struct {
	// Subject holds the handles of the single subject to scan.
	// Ignored when SubjectsFile is set.
	Subject model.ScanSubject

	// SubjectsFile is the path to a YAML file listing multiple subjects
	// for batch scanning.
	SubjectsFile string

	// PayloadsFile is the path to a JSON file of pre-collected platform
	// payloads. When set, live collection is skipped and the payloads are
	// fed directly into fusion. Used for offline analysis and replays.
	PayloadsFile string

	// Timeout is the per-request timeout for platform collectors.
	Timeout time.Duration

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// BatchSize is the number of concurrent subject scans when processing
	// a subjects file. Platform rate limits cap useful values.
	BatchSize int

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .profilescan in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// PlatformConfigs holds per-platform collector settings loaded from the
	// config file. This is populated by LoadConfigFile and used during
	// collection.
	PlatformConfigs *File

	// RiskWeights are the component weights for the risk score.
	// The four weights must sum to 1.0.
	RiskWeights map[string]float64

	// JSONReport enables JSON report output instead of human-readable format.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of human-readable
	// format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// DemoData enables synthetic demonstration findings in the graph.
	// Demo nodes are tagged and never affect risk scoring or tracker
	// detection.
	DemoData bool

	// DBDir is the directory path for storing the SQLite database.
	// When set, scan results are saved to the database for historical review.
	// When empty, scan results are not persisted.
	// Defaults to XDG data directory (~/.local/share/profilescan on Linux).
	DBDir string

	// SaveToDB indicates whether to save scan results to the database.
	// This is automatically set to true when DBDir is configured.
	SaveToDB bool

	// UserAgent is the User-Agent header sent with HTTP requests.
	// A descriptive User-Agent helps platform operators identify scanner
	// traffic.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated to prevent memory exhaustion.
	// Set to 0 to use the default (5MB).
	MaxBodySize int64
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout, weights).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Timeout:     DefaultTimeout,
		BatchSize:   DefaultBatchSize,
		RiskWeights: DefaultRiskWeights(),
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
	}
}

// XDGDataDir returns the XDG data directory for profilescan.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/profilescan
// On macOS: ~/Library/Application Support/profilescan
// On Windows: %LOCALAPPDATA%\profilescan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for profilescan.
// On Linux: ~/.config/profilescan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for profilescan.
// On Linux: ~/.cache/profilescan
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any scanning begins.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// We need something to scan: a subject, a subjects file, or payloads.
	if c.Subject.Empty() && c.SubjectsFile == "" && c.PayloadsFile == "" {
		return ErrNoSubject
	}

	// Timeout must be positive; zero timeout would cause immediate failures
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	// BatchSize must be positive; zero would mean no scanning
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	// MaxBodySize must be non-negative; zero means the default
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if err := validateWeights(c.RiskWeights); err != nil {
		return err
	}

	return nil
}

// validateWeights checks that all four risk components are present, each
// weight lies in [0, 1], and the weights sum to 1.0.
func validateWeights(weights map[string]float64) error {
	required := []string{
		model.RiskComponentSensitivity,
		model.RiskComponentCrossPlatform,
		model.RiskComponentRecency,
		model.RiskComponentExploitability,
	}

	if len(weights) != len(required) {
		return ErrInvalidRiskWeights
	}

	sum := 0.0
	for _, name := range required {
		w, ok := weights[name]
		if !ok || w < 0 || w > 1 {
			return ErrInvalidRiskWeights
		}
		sum += w
	}

	if math.Abs(sum-1.0) > weightSumTolerance {
		return ErrInvalidRiskWeights
	}
	return nil
}
