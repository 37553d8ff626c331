package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/profilescan/profilescan/internal/collector"
	"github.com/profilescan/profilescan/internal/config"
	"github.com/profilescan/profilescan/internal/fusion"
	"github.com/profilescan/profilescan/internal/graph"
	"github.com/profilescan/profilescan/internal/model"
	"github.com/profilescan/profilescan/internal/risk"
	"github.com/profilescan/profilescan/internal/secrets"
	"github.com/profilescan/profilescan/internal/timeline"
	"github.com/profilescan/profilescan/internal/tracker"
)

// CollectStep gathers the raw per-platform payloads for the subject.
// It is skipped when the scan was started from a preloaded payloads file.
type CollectStep struct {
	registry *collector.Registry
}

// NewCollectStep creates a CollectStep.
func NewCollectStep(registry *collector.Registry) *CollectStep {
	return &CollectStep{registry: registry}
}

// Name returns the step name.
func (s *CollectStep) Name() string { return "collect" }

// Do runs every enabled collector for the subject. Collector failures
// degrade the scan and are recorded per platform; only a fully failed
// collection run is a step error.
func (s *CollectStep) Do(ctx context.Context, result *model.ScanResult) error {
	collected, err := s.registry.Collect(ctx, result.Subject)
	if err != nil {
		return fmt.Errorf("collection failed: %w", err)
	}

	for _, payload := range collected.Payloads {
		result.AddPayload(payload)
	}
	for platform, cerr := range collected.Errors {
		result.AddCollectionError(platform, cerr)
	}
	return nil
}

// FuseStep merges the collected payloads into the unified profile.
type FuseStep struct {
	fuser *fusion.Fuser
}

// NewFuseStep creates a FuseStep.
func NewFuseStep(fuser *fusion.Fuser) *FuseStep {
	return &FuseStep{fuser: fuser}
}

// Name returns the step name.
func (s *FuseStep) Name() string { return "fuse" }

// Do fuses the payloads. Fusion never fails: malformed fields become
// degradations, and an empty payload list yields an empty profile.
func (s *FuseStep) Do(_ context.Context, result *model.ScanResult) error {
	result.Profile, result.Degradations = s.fuser.Fuse(result.Payloads)
	return nil
}

// ExtractStep pulls secondary artifacts out of the raw payloads:
// repositories, leaked secrets, organization memberships, secondary email
// addresses, and the platform accounts confirmed during collection.
type ExtractStep struct{}

// NewExtractStep creates an ExtractStep.
func NewExtractStep() *ExtractStep {
	return &ExtractStep{}
}

// Name returns the step name.
func (s *ExtractStep) Name() string { return "extract" }

// Do extracts artifacts from the payload extras. Payloads replayed from a
// file carry repositories as generic JSON maps, so decoding goes through
// a JSON round trip; payloads from live collectors carry typed values and
// take the same path.
func (s *ExtractStep) Do(_ context.Context, result *model.ScanResult) error {
	artifacts := &model.SecondaryArtifacts{}
	seenEmails := make(map[string]bool)

	for i := range result.Payloads {
		payload := &result.Payloads[i]

		repos := decodeRepositories(payload.Extras["repositories"])
		artifacts.Repositories = append(artifacts.Repositories, repos...)

		if found := decodeSecrets(payload.Extras["secrets"]); found != nil {
			artifacts.Secrets = append(artifacts.Secrets, found...)
		} else {
			// Replayed payloads were never scanned during collection.
			for _, repo := range repos {
				artifacts.Secrets = append(artifacts.Secrets, secrets.Scan(repo.Description, repo.Name)...)
			}
		}

		if company, ok, _ := payload.ProfileString("company"); ok && company != "" {
			artifacts.Organizations = append(artifacts.Organizations, model.Organization{
				Name:   company,
				Source: payload.Platform.String(),
			})
		}

		// Secondary emails, such as commit author addresses, that fusion
		// did not already fold into the profile.
		for _, email := range decodeStrings(payload.Extras["emails"]) {
			if seenEmails[email] {
				continue
			}
			seenEmails[email] = true
			if result.Profile != nil && result.Profile.Emails.Has(email) {
				continue
			}
			artifacts.Emails = append(artifacts.Emails, email)
		}
	}

	if result.Profile != nil && len(result.Profile.Identities) > 0 {
		artifacts.Accounts = make(map[string]string, len(result.Profile.Identities))
		for platform, handle := range result.Profile.Identities {
			artifacts.Accounts[platform] = handle
		}
	}

	if !artifacts.Empty() {
		result.Artifacts = artifacts
	}
	return nil
}

// decodeRepositories accepts either typed repositories from a live
// collector or generic JSON values from a replayed payloads file.
func decodeRepositories(v any) []model.Repository {
	switch repos := v.(type) {
	case nil:
		return nil
	case []model.Repository:
		return repos
	default:
		data, err := json.Marshal(repos)
		if err != nil {
			return nil
		}
		var decoded []model.Repository
		if err := json.Unmarshal(data, &decoded); err != nil {
			return nil
		}
		return decoded
	}
}

func decodeSecrets(v any) []model.Secret {
	switch found := v.(type) {
	case nil:
		return nil
	case []model.Secret:
		return found
	default:
		data, err := json.Marshal(found)
		if err != nil {
			return nil
		}
		var decoded []model.Secret
		if err := json.Unmarshal(data, &decoded); err != nil {
			return nil
		}
		return decoded
	}
}

// decodeStrings accepts either a typed string slice or generic JSON values
// from a replayed payloads file. Empty strings are dropped.
func decodeStrings(v any) []string {
	var values []string
	switch list := v.(type) {
	case nil:
		return nil
	case []string:
		values = list
	case []any:
		for _, item := range list {
			if s, ok := item.(string); ok {
				values = append(values, s)
			}
		}
	default:
		return nil
	}

	out := values[:0:0]
	for _, s := range values {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// GraphStep builds the intelligence graph from the profile and artifacts.
type GraphStep struct {
	builder *graph.Builder
}

// NewGraphStep creates a GraphStep.
func NewGraphStep(builder *graph.Builder) *GraphStep {
	return &GraphStep{builder: builder}
}

// Name returns the step name.
func (s *GraphStep) Name() string { return "graph" }

// Do builds the graph. Requires the fuse step to have run. Scans that
// allow demonstration inflation are tagged on the result so reports can
// label the synthetic content.
func (s *GraphStep) Do(_ context.Context, result *model.ScanResult) error {
	if result.Profile == nil {
		return fmt.Errorf("graph step requires a fused profile")
	}
	if s.builder.DemoData() {
		result.DemoData = true
	}
	result.Graph = s.builder.Build(result.Profile, result.Artifacts)
	return nil
}

// RiskStep computes the weighted risk score.
type RiskStep struct {
	scorer *risk.Scorer
}

// NewRiskStep creates a RiskStep.
func NewRiskStep(scorer *risk.Scorer) *RiskStep {
	return &RiskStep{scorer: scorer}
}

// Name returns the step name.
func (s *RiskStep) Name() string { return "risk" }

// Do scores the profile and graph.
func (s *RiskStep) Do(_ context.Context, result *model.ScanResult) error {
	result.Risk = s.scorer.Score(result.Profile, result.Graph)
	return nil
}

// TrackerStep detects tracking entities likely holding subject data.
type TrackerStep struct {
	detector *tracker.Detector
}

// NewTrackerStep creates a TrackerStep.
func NewTrackerStep(detector *tracker.Detector) *TrackerStep {
	return &TrackerStep{detector: detector}
}

// Name returns the step name.
func (s *TrackerStep) Name() string { return "tracker" }

// Do runs tracker detection over the fused profile.
func (s *TrackerStep) Do(_ context.Context, result *model.ScanResult) error {
	result.Trackers = s.detector.Detect(result.Profile)
	return nil
}

// TimelineStep assembles the exposure timeline.
type TimelineStep struct {
	builder *timeline.Builder
}

// NewTimelineStep creates a TimelineStep.
func NewTimelineStep(builder *timeline.Builder) *TimelineStep {
	return &TimelineStep{builder: builder}
}

// Name returns the step name.
func (s *TimelineStep) Name() string { return "timeline" }

// Do builds the timeline from the profile and artifacts.
func (s *TimelineStep) Do(_ context.Context, result *model.ScanResult) error {
	result.Timeline = s.builder.Build(result.Profile, result.Artifacts)
	return nil
}

// ThreatStep estimates attack scenario likelihoods.
type ThreatStep struct{}

// NewThreatStep creates a ThreatStep.
func NewThreatStep() *ThreatStep {
	return &ThreatStep{}
}

// Name returns the step name.
func (s *ThreatStep) Name() string { return "threats" }

// Do computes the threat matrix.
func (s *ThreatStep) Do(_ context.Context, result *model.ScanResult) error {
	result.Threats = risk.ThreatMatrix(result.Profile, result.Artifacts)
	return nil
}

// FindingsStep curates the human-readable findings from everything the
// earlier steps produced, deduplicated and counted by severity.
type FindingsStep struct{}

// NewFindingsStep creates a FindingsStep.
func NewFindingsStep() *FindingsStep {
	return &FindingsStep{}
}

// Name returns the step name.
func (s *FindingsStep) Name() string { return "findings" }

// trackerFindingFloor is the confidence above which a tracker match is
// worth surfacing as its own finding.
const trackerFindingFloor = 0.8

// Do curates findings.
func (s *FindingsStep) Do(_ context.Context, result *model.ScanResult) error {
	if result.Artifacts != nil {
		for _, secret := range result.Artifacts.Secrets {
			result.AddFinding(model.Finding{
				Type:        "exposed_secret",
				Severity:    model.SeverityCritical,
				Title:       "Credential Exposed in Public Repository",
				Description: fmt.Sprintf("A string matching the %s pattern is publicly visible.", secret.Kind),
				Value:       secret.Match,
				Source:      secret.Source,
			})
		}
	}

	if result.Profile != nil {
		for _, email := range result.Profile.Emails.Values() {
			result.AddFinding(model.Finding{
				Type:        "exposed_email",
				Severity:    model.SeverityMedium,
				Title:       "Email Address Publicly Linked",
				Description: "The address is publicly associated with the subject's platform accounts.",
				Value:       email,
			})
		}

		if len(result.Profile.Emails) > 0 && result.Profile.HasProfessionalInfo() {
			result.AddFinding(model.Finding{
				Type:        "spear_phishing_surface",
				Severity:    model.SeverityHigh,
				Title:       "Email and Professional Details Combined",
				Description: "A reachable address plus role and employer details enable credible targeted phishing.",
			})
		}

		if len(result.Profile.Identities) >= 3 {
			result.AddFinding(model.Finding{
				Type:        "cross_platform_presence",
				Severity:    model.SeverityMedium,
				Title:       "Identity Correlatable Across Platforms",
				Description: fmt.Sprintf("The subject is identifiable on %d platforms, enabling cross-platform correlation.", len(result.Profile.Identities)),
			})
		}
	}

	for _, match := range result.Trackers {
		if match.Confidence < trackerFindingFloor {
			continue
		}
		result.AddFinding(model.Finding{
			Type:        "tracker_exposure",
			Severity:    model.SeverityLow,
			Title:       "Tracked by " + match.Entity,
			Description: fmt.Sprintf("Platform usage indicates %s holds behavioral data on the subject.", match.Entity),
			Value:       match.Entity,
			Source:      "tracker analysis",
		})
	}

	return nil
}

// DefaultPipelineConfig holds the settings DefaultPipeline assembles the
// steps from.
type DefaultPipelineConfig struct {
	// SkipCollection leaves out the collect step. Used when the scan was
	// started from a preloaded payloads file.
	SkipCollection bool

	// DemoData inflates sparse graphs with tagged sample nodes.
	DemoData bool
}

// DefaultPipelineOption configures DefaultPipeline.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithoutCollection skips the collect step.
func WithoutCollection() DefaultPipelineOption {
	return func(cfg *DefaultPipelineConfig) {
		cfg.SkipCollection = true
	}
}

// WithDemoData enables demo graph inflation.
func WithDemoData(enabled bool) DefaultPipelineOption {
	return func(cfg *DefaultPipelineConfig) {
		cfg.DemoData = enabled
	}
}

// DefaultPipeline assembles the standard scan pipeline: collect, fuse,
// extract, graph, risk, tracker, timeline, threats, findings.
//
// The analysis steps always run with continue-on-error so a failure in one
// stage still lets the remaining stages produce what they can.
func DefaultPipeline(cfg *config.Config, pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	pc := &DefaultPipelineConfig{DemoData: cfg.DemoData}
	for _, opt := range configOpts {
		opt(pc)
	}

	pipelineOpts = append(pipelineOpts, WithContinueOnError(true))
	p := New(pipelineOpts...)

	if !pc.SkipCollection {
		registry := collector.NewRegistry(cfg, collector.WithRegistryLogger(p.logger))
		p.AddStep(NewCollectStep(registry))
	}

	p.AddSteps(
		NewFuseStep(fusion.New(fusion.WithLogger(p.logger))),
		NewExtractStep(),
		NewGraphStep(graph.NewBuilder(
			graph.WithLogger(p.logger),
			graph.WithDemoData(pc.DemoData),
		)),
		NewRiskStep(risk.New(
			risk.WithLogger(p.logger),
			risk.WithWeights(cfg.RiskWeights),
		)),
		NewTrackerStep(tracker.New(tracker.WithLogger(p.logger))),
		NewTimelineStep(timeline.New(timeline.WithLogger(p.logger))),
		NewThreatStep(),
		NewFindingsStep(),
	)

	return p
}
