package tracker

import (
	"log/slog"
	"math"
	"sort"

	"github.com/profilescan/profilescan/internal/model"
)

// confidenceBoost is added per matched platform. Each additional
// platform the entity can observe raises the likelihood it has built
// a profile, up to certainty.
const confidenceBoost = 0.05

// rule describes one tracking entity in the registry.
type rule struct {
	platforms  []string
	confidence float64
	methods    []string
}

// registry maps entity names to their known platform reach and tracking
// methods. Base confidences reflect how aggressively each entity is known
// to correlate user data across its properties.
var registry = map[string]rule{
	"google": {
		platforms:  []string{"gmail", "youtube", "google+"},
		confidence: 0.9,
		methods:    []string{"Analytics", "Gmail metadata", "YouTube tracking"},
	},
	"microsoft": {
		platforms:  []string{"linkedin", "outlook"},
		confidence: 0.8,
		methods:    []string{"Insight Tag", "profile scraping"},
	},
	"x_corp": {
		platforms:  []string{"twitter", "x"},
		confidence: 0.7,
		methods:    []string{"ad targeting", "behavioral profiling"},
	},
	"facebook": {
		platforms:  []string{"facebook", "instagram", "whatsapp"},
		confidence: 0.85,
		methods:    []string{"cross-platform tracking", "behavioral profiling"},
	},
	"data_brokers": {
		platforms:  nil,
		confidence: 0.6,
		methods:    []string{"aggregation services", "data brokerage"},
	},
}

// brokerExposureConfidence is used for the synthetic data broker match
// emitted whenever the subject has any exposed email address. Broker
// databases are fed by email harvesting, so an exposed address alone is
// enough to assume presence.
const brokerExposureConfidence = 0.6

var brokerExposureMethods = []string{"email harvesting", "data aggregation"}

// Detector matches a unified profile against the tracker registry.
type Detector struct {
	logger *slog.Logger
}

// Option configures a Detector.
type Option func(*Detector)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Detector) {
		d.logger = logger
	}
}

// New creates a Detector.
func New(opts ...Option) *Detector {
	d := &Detector{logger: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect returns the tracking entities assessed to hold data on the
// subject. Matches are ordered by entity name for deterministic output;
// the synthetic data broker match, when present, comes last.
func (d *Detector) Detect(profile *model.UnifiedProfile) []model.TrackerMatch {
	if profile == nil {
		return nil
	}

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	var matches []model.TrackerMatch
	for _, name := range names {
		r := registry[name]
		matched := matchedPlatforms(profile.Identities, r.platforms)
		if len(matched) == 0 {
			continue
		}

		confidence := math.Min(r.confidence+float64(len(matched))*confidenceBoost, 1.0)
		matches = append(matches, model.TrackerMatch{
			Entity:     name,
			Platforms:  matched,
			Confidence: round2(confidence),
			Methods:    r.methods,
		})
	}

	// Exposed email addresses imply data broker presence even without a
	// platform match.
	if len(profile.Emails) > 0 {
		matches = append(matches, model.TrackerMatch{
			Entity:     "data_brokers",
			Confidence: brokerExposureConfidence,
			Methods:    brokerExposureMethods,
		})
	}

	d.logger.Debug("trackers detected", "count", len(matches))
	return matches
}

// matchedPlatforms returns the intersection of the subject's identity
// platforms and a rule's platform list, sorted.
func matchedPlatforms(identities map[string]string, platforms []string) []string {
	var matched []string
	for _, p := range platforms {
		if _, ok := identities[p]; ok {
			matched = append(matched, p)
		}
	}
	sort.Strings(matched)
	return matched
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
