package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/profilescan/profilescan/internal/config"
	"github.com/profilescan/profilescan/internal/database"
	"github.com/profilescan/profilescan/internal/report"
)

// Constants for risk trend directions.
const (
	trendWorsened  = "worsened"
	trendImproved  = "improved"
	trendUnchanged = "unchanged"
)

// NewHistoryCmd creates the history command.
// This command reviews scan results stored in the local database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [subject]",
		Short: "Review stored scan results and risk trends",
		Long: `History displays stored scan results for a subject over time.

This command retrieves historical scan data from the database and shows:
- All scans recorded for the subject, newest first
- Risk score and severity for each scan
- The risk trend between consecutive scans

Scan results are saved automatically by 'profilescan scan' unless
--no-save is specified.

Examples:
  # Show scan history and risk trend for a subject
  profilescan history octocat

  # List all scanned subjects in the database
  profilescan history --list-subjects

  # Print a stored scan result as a full report
  profilescan history --id 5

  # Print a stored scan result as JSON
  profilescan history --id 5 --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("list-subjects", "L", false,
		"List all scanned subjects in the database")
	cmd.Flags().Int64P("id", "i", 0,
		"Print the stored scan with this ID as a report (use the history listing to see IDs)")
	cmd.Flags().IntP("limit", "n", 0,
		"Limit the history listing to the N most recent scans (0 shows all)")

	// Output format flags for --id
	cmd.Flags().BoolP("json", "j", false,
		"Output the stored result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output the stored result in Markdown format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	listSubjects, err := cmd.Flags().GetBool("list-subjects")
	if err != nil {
		return err
	}

	scanID, err := cmd.Flags().GetInt64("id")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database so a bad invocation
	// never takes the database lock.
	var subject string
	if !listSubjects && scanID == 0 {
		if len(args) == 0 {
			return errors.New("subject is required (use --list-subjects to see available subjects)")
		}
		subject = args[0]
	}

	// Use XDG data directory for database
	dbDir := config.XDGDataDir()

	// Open database
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	if listSubjects {
		return listScannedSubjects(ctx, db)
	}

	if scanID > 0 {
		jsonOutput, err := cmd.Flags().GetBool("json")
		if err != nil {
			return err
		}
		markdownOutput, err := cmd.Flags().GetBool("markdown")
		if err != nil {
			return err
		}
		return showStoredResult(ctx, db, scanID, jsonOutput, markdownOutput)
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	return showScanHistory(ctx, db, subject, limit)
}

// listScannedSubjects lists all subjects that have scan records in the database.
func listScannedSubjects(ctx context.Context, db *database.ScanDB) error {
	subjects, err := db.ListScannedSubjects(ctx)
	if err != nil {
		return fmt.Errorf("failed to list subjects: %w", err)
	}

	if len(subjects) == 0 {
		fmt.Println("No scanned subjects found in the database.")
		fmt.Println("\nUse 'profilescan scan' to scan a subject.")
		return nil
	}

	fmt.Printf("Scanned subjects (%d):\n\n", len(subjects))
	for _, subject := range subjects {
		fmt.Printf("  • %s\n", subject)
	}
	fmt.Println("\nUse 'profilescan history <subject>' to see scan history for a subject.")

	return nil
}

// showScanHistory lists scan records for a subject with the risk trend.
// A positive limit caps the listing to the most recent scans.
func showScanHistory(ctx context.Context, db *database.ScanDB, subject string, limit int) error {
	history, err := db.GetScanHistory(ctx, subject)
	if err != nil {
		return fmt.Errorf("failed to get scan history: %w", err)
	}

	if len(history) == 0 {
		fmt.Printf("No scan history found for %s\n", subject)
		fmt.Println("\nUse 'profilescan scan' to scan this subject.")
		return nil
	}

	shown := history
	if limit > 0 && limit < len(history) {
		shown = history[:limit]
	}

	fmt.Printf("Scan history for %s (%d of %d scans):\n\n", subject, len(shown), len(history))
	fmt.Printf("  %-6s  %-20s  %-7s  %-9s  %-10s  %s\n",
		"ID", "Date", "Score", "Severity", "Trend", "Findings")
	fmt.Println("  " + strings.Repeat("-", 76))

	// History is newest first; the trend for each row compares against
	// the next (older) row, which may be outside the shown window.
	for i, meta := range shown {
		trend := "-"
		if i+1 < len(history) {
			trend = formatTrend(meta.RiskScore, history[i+1].RiskScore)
		}

		fmt.Printf("  %-6d  %-20s  %-7.2f  %-9s  %-10s  %s\n",
			meta.ID,
			meta.Timestamp.Format("2006-01-02 15:04:05"),
			meta.RiskScore,
			meta.Severity,
			trend,
			formatRiskSummary(meta.RiskSummary),
		)
	}

	fmt.Println("\nUse 'profilescan history --id <id>' to print a stored scan as a report.")

	return nil
}

// formatTrend describes the risk score change against the previous scan.
func formatTrend(current, previous float64) string {
	switch {
	case current > previous:
		return fmt.Sprintf("%s ↑", trendWorsened)
	case current < previous:
		return fmt.Sprintf("%s ↓", trendImproved)
	default:
		return trendUnchanged
	}
}

// formatRiskSummary formats the risk summary map into a human-readable string.
func formatRiskSummary(summary map[string]int) string {
	if summary == nil {
		return "N/A"
	}

	var parts []string
	if v := summary["critical"]; v > 0 {
		parts = append(parts, fmt.Sprintf("C:%d", v))
	}
	if v := summary["high"]; v > 0 {
		parts = append(parts, fmt.Sprintf("H:%d", v))
	}
	if v := summary["medium"]; v > 0 {
		parts = append(parts, fmt.Sprintf("M:%d", v))
	}
	if v := summary["low"]; v > 0 {
		parts = append(parts, fmt.Sprintf("L:%d", v))
	}
	if v := summary["minimal"]; v > 0 {
		parts = append(parts, fmt.Sprintf("m:%d", v))
	}

	if len(parts) == 0 {
		return "No findings"
	}
	return strings.Join(parts, " ")
}

// showStoredResult prints a stored scan result in the requested format.
func showStoredResult(ctx context.Context, db *database.ScanDB, scanID int64, jsonOutput, markdownOutput bool) error {
	result, err := db.GetScanResultByID(ctx, scanID)
	if err != nil {
		return fmt.Errorf("failed to get scan with ID %d: %w", scanID, err)
	}
	if result == nil {
		return fmt.Errorf("scan with ID %d not found", scanID)
	}

	if jsonOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	if markdownOutput {
		writer := report.NewMarkdownWriter(os.Stdout)
		_, err := writer.Write(result)
		return err
	}

	writer := report.NewSimpleWriter(os.Stdout)
	_, err = writer.Write(result)
	return err
}
