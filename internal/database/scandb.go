package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/profilescan/profilescan/internal/model"
)

// ScanDB provides SQLite-based storage for scan results and graph
// relationships. It manages connection pooling and provides methods for
// CRUD operations.
//
// Design decision: We use a single database file for all subjects rather
// than a file per subject. This simplifies relationship queries across
// subjects and backup/restore operations.
type ScanDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures ScanDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a ScanDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*ScanDB, error) {
	dbPath := filepath.Join(dbDir, "profilescan.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite DSN: mode=rw prevents creating new files,
	// mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports only one writer; a single connection avoids
	// SQLITE_BUSY under concurrent scans.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &ScanDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := sdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return sdb, nil
}

// Close closes the database connection.
func (sdb *ScanDB) Close() error {
	return sdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (sdb *ScanDB) createTables() error {
	schema := `
	-- Scan results store complete results as JSON with indexed metadata
	CREATE TABLE IF NOT EXISTS scan_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		subject TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		result_json TEXT NOT NULL,
		risk_score REAL DEFAULT 0,
		severity TEXT,
		risk_summary TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_results_subject ON scan_results(subject);
	CREATE INDEX IF NOT EXISTS idx_results_timestamp ON scan_results(timestamp);

	-- Relationships store graph edges relationally for correlation queries
	CREATE TABLE IF NOT EXISTS relationships (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		subject TEXT NOT NULL,
		from_node TEXT NOT NULL,
		to_node TEXT NOT NULL,
		label TEXT NOT NULL,
		strength REAL DEFAULT 0,
		confidence REAL DEFAULT 0,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(subject, from_node, to_node, label)
	);

	CREATE INDEX IF NOT EXISTS idx_rel_subject ON relationships(subject);
	CREATE INDEX IF NOT EXISTS idx_rel_label ON relationships(label);
	CREATE INDEX IF NOT EXISTS idx_rel_to ON relationships(to_node);
	`

	_, err := sdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveScanResult saves a complete scan result as JSON, plus its graph
// edges as relationship rows.
func (sdb *ScanDB) SaveScanResult(ctx context.Context, result *model.ScanResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to serialize result: %w", err)
	}

	riskSummary := map[string]int{
		"critical": result.CriticalCount,
		"high":     result.HighCount,
		"medium":   result.MediumCount,
		"low":      result.LowCount,
		"minimal":  result.MinimalCount,
	}
	riskJSON, _ := json.Marshal(riskSummary) //nolint:errcheck,errchkjson // simple map; Marshal won't fail

	var score float64
	var severity string
	if result.Risk != nil {
		score = result.Risk.TotalScore
		severity = result.Risk.Severity.String()
	}

	query := `
	INSERT INTO scan_results (subject, result_json, risk_score, severity, risk_summary)
	VALUES (?, ?, ?, ?, ?)
	`

	_, err = sdb.db.ExecContext(ctx, query,
		result.Subject.Handle(),
		string(resultJSON),
		score,
		severity,
		string(riskJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save scan result: %w", err)
	}

	return sdb.saveRelationships(ctx, result)
}

// saveRelationships stores the result's graph edges. Uses UPSERT so
// rescanning a subject refreshes edge weights instead of duplicating rows.
func (sdb *ScanDB) saveRelationships(ctx context.Context, result *model.ScanResult) error {
	if result.Graph == nil {
		return nil
	}

	query := `
	INSERT INTO relationships (subject, from_node, to_node, label, strength, confidence)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(subject, from_node, to_node, label) DO UPDATE SET
		strength = excluded.strength,
		confidence = excluded.confidence,
		timestamp = CURRENT_TIMESTAMP
	`

	subject := result.Subject.Handle()
	for _, edge := range result.Graph.Edges() {
		_, err := sdb.db.ExecContext(ctx, query,
			subject,
			edge.From,
			edge.To,
			edge.Label,
			edge.Strength,
			edge.Confidence,
		)
		if err != nil {
			return fmt.Errorf("failed to save relationship: %w", err)
		}
	}
	return nil
}

// Relationship is a stored graph edge.
type Relationship struct {
	ID         int64
	Subject    string
	FromNode   string
	ToNode     string
	Label      string
	Strength   float64
	Confidence float64
	Timestamp  time.Time
}

// QueryRelationships queries stored graph edges with optional filters.
func (sdb *ScanDB) QueryRelationships(ctx context.Context, subject, label string) ([]Relationship, error) {
	query := `
	SELECT id, subject, from_node, to_node, label, strength, confidence, timestamp
	FROM relationships
	WHERE 1=1
	`
	args := make([]any, 0)

	if subject != "" {
		query += " AND subject = ?"
		args = append(args, subject)
	}
	if label != "" {
		query += " AND label = ?"
		args = append(args, label)
	}

	query += " ORDER BY timestamp DESC"

	rows, err := sdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query relationships: %w", err)
	}
	defer rows.Close()

	var results []Relationship
	for rows.Next() {
		var rel Relationship
		var timestamp string

		err := rows.Scan(
			&rel.ID,
			&rel.Subject,
			&rel.FromNode,
			&rel.ToNode,
			&rel.Label,
			&rel.Strength,
			&rel.Confidence,
			&timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan relationship: %w", err)
		}

		rel.Timestamp = parseTimestamp(timestamp)
		results = append(results, rel)
	}

	return results, rows.Err()
}

// GetLatestScanResult retrieves the most recent scan result for a subject.
// Returns nil without error when the subject has never been scanned.
func (sdb *ScanDB) GetLatestScanResult(ctx context.Context, subject string) (*model.ScanResult, error) {
	query := `
	SELECT result_json FROM scan_results
	WHERE subject = ?
	ORDER BY timestamp DESC
	LIMIT 1
	`

	var resultJSON string
	err := sdb.db.QueryRowContext(ctx, query, subject).Scan(&resultJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scan result: %w", err)
	}

	var result model.ScanResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to parse result: %w", err)
	}

	return &result, nil
}

// ListScannedSubjects returns all subjects that have stored scan results.
func (sdb *ScanDB) ListScannedSubjects(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT subject FROM scan_results
	ORDER BY subject
	`

	rows, err := sdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	defer rows.Close()

	var subjects []string
	for rows.Next() {
		var subject string
		if err := rows.Scan(&subject); err != nil {
			return nil, fmt.Errorf("failed to scan subject: %w", err)
		}
		subjects = append(subjects, subject)
	}

	return subjects, rows.Err()
}

// ScanMetadata contains summary information about a stored scan.
// This is used for displaying scan history without loading full results.
type ScanMetadata struct {
	// ID is the unique identifier of the scan in the database.
	ID int64

	// Subject is the scanned subject handle.
	Subject string

	// Timestamp is when the scan was performed.
	Timestamp time.Time

	// RiskScore is the total weighted risk score.
	RiskScore float64

	// Severity is the risk severity band.
	Severity string

	// RiskSummary contains counts of findings by severity level.
	RiskSummary map[string]int
}

// GetScanHistory retrieves scan metadata for a subject, newest first.
// This is the backing query for the history command's risk trend.
func (sdb *ScanDB) GetScanHistory(ctx context.Context, subject string) ([]ScanMetadata, error) {
	query := `
	SELECT id, subject, timestamp, risk_score, severity, risk_summary
	FROM scan_results
	WHERE subject = ?
	ORDER BY timestamp DESC
	`

	rows, err := sdb.db.QueryContext(ctx, query, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to get scan history: %w", err)
	}
	defer rows.Close()

	var results []ScanMetadata
	for rows.Next() {
		var meta ScanMetadata
		var timestamp string
		var severity sql.NullString
		var riskJSON sql.NullString

		if err := rows.Scan(&meta.ID, &meta.Subject, &timestamp, &meta.RiskScore, &severity, &riskJSON); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.Timestamp = parseTimestamp(timestamp)
		meta.Severity = severity.String

		if riskJSON.Valid && riskJSON.String != "" {
			if err := json.Unmarshal([]byte(riskJSON.String), &meta.RiskSummary); err != nil {
				meta.RiskSummary = make(map[string]int)
			}
		} else {
			meta.RiskSummary = make(map[string]int)
		}

		results = append(results, meta)
	}

	return results, rows.Err()
}

// GetScanResultByID retrieves a scan result by its database ID.
func (sdb *ScanDB) GetScanResultByID(ctx context.Context, id int64) (*model.ScanResult, error) {
	query := `
	SELECT result_json FROM scan_results
	WHERE id = ?
	`

	var resultJSON string
	err := sdb.db.QueryRowContext(ctx, query, id).Scan(&resultJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scan result: %w", err)
	}

	var result model.ScanResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to parse result: %w", err)
	}

	return &result, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
