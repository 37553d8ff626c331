package model

import "time"

// Degradation reasons recorded during profile fusion.
const (
	DegradationMissing   = "missing"
	DegradationMalformed = "malformed"
)

// Degradation records a payload field the fusion layer expected but could
// not use. Fusion never fails on bad input; it degrades and keeps a record
// so the report can show what was skipped.
type Degradation struct {
	// Platform is the payload source the field came from.
	Platform Platform `json:"platform"`

	// Field is the platform-specific field name that was skipped.
	Field string `json:"field"`

	// Reason is DegradationMissing or DegradationMalformed.
	Reason string `json:"reason"`
}

// TimelineEvent is one entry in the subject's exposure timeline, describing
// when a piece of the subject's footprint became publicly visible.
type TimelineEvent struct {
	// Date is when the exposure occurred or was observed.
	Date time.Time `json:"date"`

	// Platform is the source platform of the exposure.
	Platform string `json:"platform"`

	// Event is a short description of what became visible.
	Event string `json:"event"`

	// Severity rates how significant this exposure is on its own.
	Severity Severity `json:"severity"`
}

// ThreatMatrix estimates the likelihood of concrete attack scenarios
// against the subject, each expressed as a percentage in [0, 100].
type ThreatMatrix struct {
	// IdentityReconstruction is the likelihood that an attacker can
	// reassemble the subject's full identity from public data.
	IdentityReconstruction float64 `json:"identity_reconstruction"`

	// Phishing is the likelihood of a credible targeted phishing attempt.
	Phishing float64 `json:"phishing"`

	// AccountTakeover is the likelihood of account compromise via
	// exposed credentials or recovery information.
	AccountTakeover float64 `json:"account_takeover"`

	// DataBrokerExposure is the likelihood that commercial data brokers
	// already hold and resell the subject's aggregated data.
	DataBrokerExposure float64 `json:"data_broker_exposure"`
}

// ScanSubject identifies who is being scanned. At least one field must be
// set; each non-empty field activates the matching collector.
type ScanSubject struct {
	Email     string `json:"email,omitempty"`
	GitHub    string `json:"github,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Reddit    string `json:"reddit,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
	Name      string `json:"name,omitempty"`
}

// Empty reports whether no subject handle was provided.
func (s ScanSubject) Empty() bool {
	return s.Email == "" && s.GitHub == "" && s.LinkedIn == "" &&
		s.Twitter == "" && s.Reddit == "" && s.Facebook == "" &&
		s.Instagram == "" && s.YouTube == "" && s.Name == ""
}

// Handle returns the most identifying handle available, preferring email,
// then the platform handles in canonical fusion order, then the name.
// Used as the key when persisting scan results.
func (s ScanSubject) Handle() string {
	for _, h := range []string{
		s.Email, s.GitHub, s.LinkedIn, s.Twitter, s.Reddit,
		s.Facebook, s.Instagram, s.YouTube, s.Name,
	} {
		if h != "" {
			return h
		}
	}
	return ""
}

// ScanResult is the main scan output structure. It accumulates everything
// the pipeline produced for one subject.
//
// Design decision: We use a single large struct rather than many small ones
// to simplify serialization and database storage. Pipeline steps each fill
// in their own section and read earlier sections; the struct is the shared
// state the pipeline threads through its steps.
type ScanResult struct {
	// Subject is the set of handles the scan started from.
	Subject ScanSubject `json:"subject"`

	// DateScanned is when the scan was performed.
	DateScanned time.Time `json:"date_scanned"`

	// Payloads are the raw per-platform collection results, in the order
	// the collectors returned them.
	Payloads []PlatformPayload `json:"payloads,omitempty"`

	// CollectionErrors records per-platform collection failures. A failed
	// collector degrades the scan, it does not abort it.
	CollectionErrors map[string]string `json:"collection_errors,omitempty"`

	// Profile is the fused unified profile.
	Profile *UnifiedProfile `json:"profile,omitempty"`

	// Degradations lists payload fields fusion had to skip.
	Degradations []Degradation `json:"degradations,omitempty"`

	// Artifacts holds secondary findings such as repositories and secrets.
	Artifacts *SecondaryArtifacts `json:"artifacts,omitempty"`

	// Graph is the correlation graph built from the profile and artifacts.
	Graph *IntelligenceGraph `json:"graph,omitempty"`

	// Risk is the weighted exposure score.
	Risk *RiskScore `json:"risk,omitempty"`

	// Trackers lists tracking entities assessed to hold subject data.
	Trackers []TrackerMatch `json:"trackers,omitempty"`

	// Timeline is the exposure timeline, oldest first.
	Timeline []TimelineEvent `json:"timeline,omitempty"`

	// Threats estimates concrete attack scenario likelihoods.
	Threats *ThreatMatrix `json:"threats,omitempty"`

	// Findings contains curated human-readable findings for the report.
	Findings []Finding `json:"findings,omitempty"`

	// === Severity Summary ===

	CriticalCount int `json:"critical_count"`
	HighCount     int `json:"high_count"`
	MediumCount   int `json:"medium_count"`
	LowCount      int `json:"low_count"`
	MinimalCount  int `json:"minimal_count"`

	// PerformedSteps lists the pipeline steps that ran, in order.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// DemoData is true when the scan was inflated with synthetic
	// demonstration data. Demo findings never affect Risk or Trackers.
	DemoData bool `json:"demo_data,omitempty"`

	// Error contains any error that occurred during scanning.
	// Only set if the scan failed or partially failed.
	Error error `json:"-"`

	// ErrorMessage is the string representation of Error for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// Finding represents a single curated finding in the scan result.
type Finding struct {
	// Type is the finding type identifier (e.g. "exposed_secret").
	Type string `json:"type"`

	// Severity is the exposure level of this finding.
	Severity Severity `json:"severity"`

	// SeverityText is the human-readable severity.
	SeverityText string `json:"severity_text"`

	// Title is a short description of the finding.
	Title string `json:"title"`

	// Description provides more detail about the finding.
	Description string `json:"description,omitempty"`

	// Value is the specific value found (handle, email, domain).
	Value string `json:"value,omitempty"`

	// Source is the platform or artifact the finding came from.
	Source string `json:"source,omitempty"`
}

// NewScanResult creates a new result for the given subject.
func NewScanResult(subject ScanSubject) *ScanResult {
	return &ScanResult{
		Subject:          subject,
		DateScanned:      time.Now(),
		CollectionErrors: make(map[string]string),
	}
}

// AddPayload records a successful platform collection.
func (r *ScanResult) AddPayload(p PlatformPayload) {
	r.Payloads = append(r.Payloads, p)
}

// AddCollectionError records a failed platform collection.
func (r *ScanResult) AddCollectionError(platform Platform, err error) {
	if err == nil {
		return
	}
	if r.CollectionErrors == nil {
		r.CollectionErrors = make(map[string]string)
	}
	r.CollectionErrors[platform.String()] = err.Error()
}

// AddFinding appends a finding, skipping exact duplicates on
// (type, value, source), and updates the severity counts.
func (r *ScanResult) AddFinding(f Finding) {
	for _, existing := range r.Findings {
		if existing.Type == f.Type && existing.Value == f.Value && existing.Source == f.Source {
			return
		}
	}
	f.SeverityText = f.Severity.String()
	r.Findings = append(r.Findings, f)

	switch f.Severity {
	case SeverityCritical:
		r.CriticalCount++
	case SeverityHigh:
		r.HighCount++
	case SeverityMedium:
		r.MediumCount++
	case SeverityLow:
		r.LowCount++
	case SeverityMinimal:
		r.MinimalCount++
	}
}

// TotalFindings returns the number of curated findings.
func (r *ScanResult) TotalFindings() int {
	return len(r.Findings)
}

// FindingsBySeverity returns findings filtered by severity.
func (r *ScanResult) FindingsBySeverity(severity Severity) []Finding {
	var result []Finding
	for _, f := range r.Findings {
		if f.Severity == severity {
			result = append(result, f)
		}
	}
	return result
}
