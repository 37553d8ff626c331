package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/profilescan/profilescan/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter

	titler cases.Caser
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		titler:     cases.Title(language.Und),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(result *model.ScanResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, result)
	w.writeRisk(md, result)
	w.writeSummary(md, result)
	w.writeProfile(md, result)
	w.writeTrackers(md, result)
	w.writeThreats(md, result)
	w.writeTimeline(md, result)
	w.writeFindings(md, result)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with scan information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, result *model.ScanResult) {
	md.H1("ProfileScan Report")
	md.PlainText("")

	// Basic info table
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Subject", "`" + result.Subject.Handle() + "`"},
			{"Scan Date", result.DateScanned.Format("2006-01-02 15:04:05 MST")},
			{"Platforms Collected", strconv.Itoa(len(result.Payloads))},
			{"Collection Failures", strconv.Itoa(len(result.CollectionErrors))},
			{"Status", w.getStatusText(result)},
		},
	})
	md.PlainText("")
}

// getStatusText returns the status text based on result state.
func (w *MarkdownWriter) getStatusText(result *model.ScanResult) string {
	if result.ErrorMessage != "" {
		return "❌ Error - " + result.ErrorMessage
	}
	if result.DemoData {
		return "✅ Complete (demonstration data)"
	}
	return "✅ Complete"
}

// writeRisk writes the risk score section with the component breakdown.
func (w *MarkdownWriter) writeRisk(md *markdown.Markdown, result *model.ScanResult) {
	if result.Risk == nil {
		return
	}

	md.H2("Risk Score")
	md.PlainText("")
	md.PlainTextf("**%.2f / 100** (%s)", result.Risk.TotalScore, w.titler.String(result.Risk.Severity.String()))
	md.PlainText("")

	components := make([]string, 0, len(result.Risk.Breakdown))
	for name := range result.Risk.Breakdown {
		components = append(components, name)
	}
	sort.Strings(components)

	rows := make([][]string, 0, len(components))
	for _, name := range components {
		rows = append(rows, []string{
			w.componentLabel(name),
			fmt.Sprintf("%.2f", result.Risk.Breakdown[name]),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Component", "Score"},
		Rows:   rows,
	})
	md.PlainText("")
}

// componentLabel converts a breakdown key like "data_sensitivity" into
// a display label like "Data Sensitivity".
func (w *MarkdownWriter) componentLabel(name string) string {
	return w.titler.String(strings.ReplaceAll(name, "_", " "))
}

// writeSummary writes the severity summary section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, result *model.ScanResult) {
	md.H2("Severity Summary")
	md.PlainText("")

	// Summary table
	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Count"},
		Rows: [][]string{
			{"🔴 Critical", strconv.Itoa(result.CriticalCount)},
			{"🟠 High", strconv.Itoa(result.HighCount)},
			{"🟡 Medium", strconv.Itoa(result.MediumCount)},
			{"🔵 Low", strconv.Itoa(result.LowCount)},
			{"⚪ Minimal", strconv.Itoa(result.MinimalCount)},
			{"**Total**", "**" + strconv.Itoa(result.TotalFindings()) + "**"},
		},
	})
	md.PlainText("")

	// Add pie chart if there are findings
	if result.TotalFindings() > 0 {
		w.writePieChart(md, result)
	}

	// Add alert based on severity
	w.writeAlert(md, result)
}

// writePieChart writes a mermaid pie chart for severity distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, result *model.ScanResult) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Finding Severity Distribution"),
		piechart.WithShowData(true),
	)

	if result.CriticalCount > 0 {
		chart.LabelAndIntValue("Critical", uint64(result.CriticalCount))
	}
	if result.HighCount > 0 {
		chart.LabelAndIntValue("High", uint64(result.HighCount))
	}
	if result.MediumCount > 0 {
		chart.LabelAndIntValue("Medium", uint64(result.MediumCount))
	}
	if result.LowCount > 0 {
		chart.LabelAndIntValue("Low", uint64(result.LowCount))
	}
	if result.MinimalCount > 0 {
		chart.LabelAndIntValue("Minimal", uint64(result.MinimalCount))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on severity counts.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, result *model.ScanResult) {
	switch {
	case result.CriticalCount > 0:
		md.Cautionf(
			"Critical exposure detected! %d critical finding(s) require immediate attention.",
			result.CriticalCount,
		)
	case result.HighCount > 0:
		md.Warningf(
			"High severity exposure detected. %d high severity finding(s) should be addressed.",
			result.HighCount,
		)
	case result.MediumCount > 0:
		md.Importantf(
			"Medium severity exposure found. %d finding(s) may widen the subject's attack surface.",
			result.MediumCount,
		)
	case result.TotalFindings() > 0:
		md.Note("Only low severity and minimal findings detected.")
	default:
		md.Tip("No significant exposure detected.")
	}
	md.PlainText("")
}

// writeProfile writes the unified profile and graph statistics.
func (w *MarkdownWriter) writeProfile(md *markdown.Markdown, result *model.ScanResult) {
	profile := result.Profile
	if profile == nil || len(profile.Identities) == 0 {
		return
	}

	md.H2("Unified Profile")
	md.PlainText("")

	platforms := make([]string, 0, len(profile.Identities))
	for platform := range profile.Identities {
		platforms = append(platforms, platform)
	}
	sort.Strings(platforms)

	rows := make([][]string, 0, len(platforms))
	for _, platform := range platforms {
		rows = append(rows, []string{
			w.titler.String(platform),
			"`" + profile.Identities[platform] + "`",
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Platform", "Handle"},
		Rows:   rows,
	})
	md.PlainText("")

	attrs := [][]string{}
	if emails := profile.Emails.Values(); len(emails) > 0 {
		attrs = append(attrs, []string{"Emails", strings.Join(emails, ", ")})
	}
	if locations := profile.Locations.Values(); len(locations) > 0 {
		attrs = append(attrs, []string{"Locations", strings.Join(locations, ", ")})
	}
	if orgs := profile.Organizations.Values(); len(orgs) > 0 {
		attrs = append(attrs, []string{"Organizations", strings.Join(orgs, ", ")})
	}
	if sites := profile.Websites.Values(); len(sites) > 0 {
		attrs = append(attrs, []string{"Websites", strings.Join(sites, ", ")})
	}
	if len(attrs) > 0 {
		md.Table(markdown.TableSet{
			Header: []string{"Attribute", "Values"},
			Rows:   attrs,
		})
		md.PlainText("")
	}

	if result.Graph != nil {
		md.PlainTextf(
			"Correlation graph: **%d** nodes, **%d** edges.",
			result.Graph.NodeCount(), result.Graph.EdgeCount(),
		)
		md.PlainText("")
	}
}

// writeTrackers writes the tracking entities section.
func (w *MarkdownWriter) writeTrackers(md *markdown.Markdown, result *model.ScanResult) {
	if len(result.Trackers) == 0 {
		return
	}

	md.H2("Tracking Entities")
	md.PlainText("")

	rows := make([][]string, 0, len(result.Trackers))
	for _, match := range result.Trackers {
		platforms := strings.Join(match.Platforms, ", ")
		if platforms == "" {
			platforms = "-"
		}
		rows = append(rows, []string{
			match.Entity,
			platforms,
			fmt.Sprintf("%.0f%%", match.Confidence*100),
			truncateString(strings.Join(match.Methods, ", "), 60),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Entity", "Platforms", "Confidence", "Methods"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeThreats writes the threat matrix section.
func (w *MarkdownWriter) writeThreats(md *markdown.Markdown, result *model.ScanResult) {
	if result.Threats == nil {
		return
	}

	md.H2("Threat Matrix")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Scenario", "Likelihood"},
		Rows: [][]string{
			{"Identity Reconstruction", fmt.Sprintf("%.1f%%", result.Threats.IdentityReconstruction)},
			{"Targeted Phishing", fmt.Sprintf("%.1f%%", result.Threats.Phishing)},
			{"Account Takeover", fmt.Sprintf("%.1f%%", result.Threats.AccountTakeover)},
			{"Data Broker Exposure", fmt.Sprintf("%.1f%%", result.Threats.DataBrokerExposure)},
		},
	})
	md.PlainText("")
}

// writeTimeline writes the exposure timeline section.
func (w *MarkdownWriter) writeTimeline(md *markdown.Markdown, result *model.ScanResult) {
	if len(result.Timeline) == 0 {
		return
	}

	md.H2("Exposure Timeline")
	md.PlainText("")

	rows := make([][]string, 0, len(result.Timeline))
	for _, event := range result.Timeline {
		rows = append(rows, []string{
			event.Date.Format("2006-01-02"),
			event.Platform,
			truncateString(event.Event, 60),
			w.titler.String(event.Severity.String()),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Date", "Platform", "Event", "Severity"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFindings writes all findings grouped by severity.
func (w *MarkdownWriter) writeFindings(md *markdown.Markdown, result *model.ScanResult) {
	md.H2("Findings")
	md.PlainText("")

	if result.TotalFindings() == 0 {
		md.PlainText("No exposure findings detected.")
		md.PlainText("")
		return
	}

	severities := []struct {
		level  model.Severity
		header string
	}{
		{model.SeverityCritical, "### 🔴 Critical"},
		{model.SeverityHigh, "### 🟠 High"},
		{model.SeverityMedium, "### 🟡 Medium"},
		{model.SeverityLow, "### 🔵 Low"},
		{model.SeverityMinimal, "### ⚪ Minimal"},
	}

	for _, sev := range severities {
		findings := result.FindingsBySeverity(sev.level)
		if len(findings) == 0 {
			continue
		}

		md.PlainText(sev.header)
		md.PlainText("")
		w.writeFindingsTable(md, findings)
	}
}

// writeFindingsTable writes a table of findings with details.
func (w *MarkdownWriter) writeFindingsTable(md *markdown.Markdown, findings []model.Finding) {
	headers := []string{"Title", "Value", "Source"}

	rows := make([][]string, len(findings))
	for i, f := range findings {
		value := f.Value
		if value == "" {
			value = "-"
		}
		source := f.Source
		if source == "" {
			source = "-"
		}

		rows[i] = []string{
			f.Title,
			truncateString(value, 50),
			truncateString(source, 40),
		}
	}

	md.Table(markdown.TableSet{
		Header: headers,
		Rows:   rows,
	})
	md.PlainText("")

	// Add detailed descriptions for all findings
	for _, f := range findings {
		if f.Description != "" {
			md.Details(f.Title, f.Description)
		}
	}
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [profilescan](https://github.com/profilescan/profilescan)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
