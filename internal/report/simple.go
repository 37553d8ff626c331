package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/profilescan/profilescan/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting and severity indicators.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no entries are shown.
	showEmpty bool

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the result in human-readable format.
func (w *SimpleWriter) Write(result *model.ScanResult) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, result)
	w.writeRisk(&sb, result)
	w.writeSummary(&sb, result)
	w.writeProfile(&sb, result)
	w.writeTrackers(&sb, result)
	w.writeFindings(&sb, result)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with scan information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, result *model.ScanResult) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        PROFILESCAN REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Subject:        %s\n", result.Subject.Handle()))
	sb.WriteString(fmt.Sprintf("Scan Date:      %s\n", result.DateScanned.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Platforms:      %d collected", len(result.Payloads)))
	if len(result.CollectionErrors) > 0 {
		sb.WriteString(fmt.Sprintf(", %d failed", len(result.CollectionErrors)))
	}
	sb.WriteString("\n")

	if result.ErrorMessage != "" {
		sb.WriteString(fmt.Sprintf("Status:         ERROR - %s\n", result.ErrorMessage))
	} else {
		sb.WriteString("Status:         Complete\n")
	}
	if result.DemoData {
		sb.WriteString("Note:           Graph inflated with demonstration data\n")
	}

	sb.WriteString("\n")
}

// writeRisk writes the risk score section.
func (w *SimpleWriter) writeRisk(sb *strings.Builder, result *model.ScanResult) {
	if result.Risk == nil {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("RISK SCORE\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  TOTAL:    %.2f / 100  [%s]\n\n", result.Risk.TotalScore, strings.ToUpper(result.Risk.Severity.String())))

	components := make([]string, 0, len(result.Risk.Breakdown))
	for name := range result.Risk.Breakdown {
		components = append(components, name)
	}
	sort.Strings(components)
	for _, name := range components {
		sb.WriteString(fmt.Sprintf("  %-20s %.2f\n", name+":", result.Risk.Breakdown[name]))
	}
	sb.WriteString("\n")
}

// writeSummary writes the severity summary section.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, result *model.ScanResult) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SEVERITY SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  CRITICAL: %d\n", result.CriticalCount))
	sb.WriteString(fmt.Sprintf("  HIGH:     %d\n", result.HighCount))
	sb.WriteString(fmt.Sprintf("  MEDIUM:   %d\n", result.MediumCount))
	sb.WriteString(fmt.Sprintf("  LOW:      %d\n", result.LowCount))
	sb.WriteString(fmt.Sprintf("  MINIMAL:  %d\n", result.MinimalCount))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("  TOTAL:    %d findings\n", result.TotalFindings()))
	sb.WriteString("\n")
}

// writeProfile writes the unified profile section.
func (w *SimpleWriter) writeProfile(sb *strings.Builder, result *model.ScanResult) {
	profile := result.Profile
	if profile == nil || (len(profile.Identities) == 0 && !w.showEmpty) {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("UNIFIED PROFILE\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	platforms := make([]string, 0, len(profile.Identities))
	for platform := range profile.Identities {
		platforms = append(platforms, platform)
	}
	sort.Strings(platforms)
	for _, platform := range platforms {
		sb.WriteString(fmt.Sprintf("  [+] %-12s %s\n", platform, profile.Identities[platform]))
	}

	if emails := profile.Emails.Values(); len(emails) > 0 {
		sb.WriteString(fmt.Sprintf("\n  Emails:        %s\n", strings.Join(emails, ", ")))
	}
	if locations := profile.Locations.Values(); len(locations) > 0 {
		sb.WriteString(fmt.Sprintf("  Locations:     %s\n", strings.Join(locations, ", ")))
	}
	if orgs := profile.Organizations.Values(); len(orgs) > 0 {
		sb.WriteString(fmt.Sprintf("  Organizations: %s\n", strings.Join(orgs, ", ")))
	}
	sb.WriteString("\n")
}

// writeTrackers writes the tracker section.
func (w *SimpleWriter) writeTrackers(sb *strings.Builder, result *model.ScanResult) {
	if len(result.Trackers) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("TRACKING ENTITIES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(result.Trackers) == 0 {
		sb.WriteString("  No tracking entities detected\n")
	}
	for _, match := range result.Trackers {
		sb.WriteString(fmt.Sprintf("  [%.0f%%] %s", match.Confidence*100, match.Entity))
		if len(match.Platforms) > 0 {
			sb.WriteString(fmt.Sprintf(" (via %s)", strings.Join(match.Platforms, ", ")))
		}
		sb.WriteString("\n")
		if w.verbose && len(match.Methods) > 0 {
			sb.WriteString(fmt.Sprintf("        Methods: %s\n", strings.Join(match.Methods, ", ")))
		}
	}
	sb.WriteString("\n")
}

// writeFindings writes all findings grouped by severity.
func (w *SimpleWriter) writeFindings(sb *strings.Builder, result *model.ScanResult) {
	if result.TotalFindings() == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("FINDINGS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	// Critical first
	severities := []model.Severity{
		model.SeverityCritical,
		model.SeverityHigh,
		model.SeverityMedium,
		model.SeverityLow,
		model.SeverityMinimal,
	}

	for _, severity := range severities {
		findings := result.FindingsBySeverity(severity)
		if len(findings) == 0 && !w.showEmpty {
			continue
		}

		w.writeFindingsForSeverity(sb, severity, findings)
	}
}

// writeFindingsForSeverity writes findings of a specific severity level.
func (w *SimpleWriter) writeFindingsForSeverity(sb *strings.Builder, severity model.Severity, findings []model.Finding) {
	indicator := w.getSeverityIndicator(severity)
	sb.WriteString(fmt.Sprintf("[%s] %s\n", indicator, severity.String()))

	if len(findings) == 0 {
		sb.WriteString("  No findings\n\n")
		return
	}

	for _, finding := range findings {
		sb.WriteString(fmt.Sprintf("  * %s\n", finding.Title))
		if finding.Value != "" {
			sb.WriteString(fmt.Sprintf("    Value: %s\n", finding.Value))
		}
		if finding.Source != "" {
			sb.WriteString(fmt.Sprintf("    Source: %s\n", finding.Source))
		}
		if w.verbose && finding.Description != "" {
			sb.WriteString(fmt.Sprintf("    Description: %s\n", finding.Description))
		}
	}
	sb.WriteString("\n")
}

// getSeverityIndicator returns a visual indicator for the severity level.
func (w *SimpleWriter) getSeverityIndicator(severity model.Severity) string {
	switch severity {
	case model.SeverityCritical:
		return "!!!"
	case model.SeverityHigh:
		return "!!"
	case model.SeverityMedium:
		return "!"
	case model.SeverityLow:
		return "-"
	case model.SeverityMinimal:
		return "i"
	default:
		return "?"
	}
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by profilescan\n")
	sb.WriteString("https://github.com/profilescan/profilescan\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
