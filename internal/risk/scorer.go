package risk

import (
	"log/slog"
	"math"
	"time"

	"github.com/profilescan/profilescan/internal/config"
	"github.com/profilescan/profilescan/internal/model"
)

// Sub-score point values. These are policy constants tuned against the
// severity bands; changing one shifts every severity downstream.
const (
	pointsPerEmail         = 15
	pointsPerIdentity      = 10
	pointsProfessional     = 20
	pointsPerPlatform      = 5
	crossPlatformCap       = 25
	pointsPhishingCombo    = 40
	pointsLocation         = 20
	pointsManyIdentities   = 20
	pointsPerCorrelation   = 10
	correlationCap         = 20
	manyIdentityThreshold  = 3
	strongConfidenceFloor  = 0.7
	recencyNeutral         = 50
)

// Scorer computes risk scores.
type Scorer struct {
	weights map[string]float64
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithWeights overrides the component weights. The caller is responsible
// for validating them (config.Validate does this at startup).
func WithWeights(weights map[string]float64) Option {
	return func(s *Scorer) {
		s.weights = weights
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scorer) {
		s.logger = logger
	}
}

// WithClock overrides the time source. Used by tests to pin recency.
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) {
		s.now = now
	}
}

// New creates a Scorer with the default weights.
func New(opts ...Option) *Scorer {
	s := &Scorer{
		weights: config.DefaultRiskWeights(),
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score computes the weighted risk score for a profile and its graph.
// The function is pure and deterministic for a fixed clock: identical
// inputs always produce identical scores, and nothing here can fail.
func (s *Scorer) Score(profile *model.UnifiedProfile, graph *model.IntelligenceGraph) *model.RiskScore {
	sensitivity := s.sensitivityScore(profile)
	crossPlatform := s.crossPlatformScore(graph)
	recency := s.recencyScore(profile)
	exploitability := s.exploitabilityScore(profile, graph)

	total := sensitivity*s.weights[model.RiskComponentSensitivity] +
		crossPlatform*s.weights[model.RiskComponentCrossPlatform] +
		recency*s.weights[model.RiskComponentRecency] +
		exploitability*s.weights[model.RiskComponentExploitability]
	total = round2(total)

	score := &model.RiskScore{
		TotalScore: total,
		Severity:   model.SeverityForScore(total),
		Breakdown: map[string]float64{
			model.RiskComponentSensitivity:    round2(sensitivity),
			model.RiskComponentCrossPlatform:  round2(crossPlatform),
			model.RiskComponentRecency:        round2(recency),
			model.RiskComponentExploitability: round2(exploitability),
		},
		CalculatedAt: s.now(),
	}

	s.logger.Debug("risk scored",
		"total", score.TotalScore, "severity", score.Severity.String())
	return score
}

// sensitivityScore rates how much sensitive information is exposed.
// Emails weigh heaviest since each one is a direct contact channel, and
// professional info adds a flat bonus because it enables targeted attacks.
func (s *Scorer) sensitivityScore(profile *model.UnifiedProfile) float64 {
	if profile == nil {
		return 0
	}
	score := float64(len(profile.Emails)*pointsPerEmail + len(profile.Identities)*pointsPerIdentity)
	if profile.HasProfessionalInfo() {
		score += pointsProfessional
	}
	return math.Min(score, 100)
}

// crossPlatformScore rates correlation surface by counting identity nodes.
// The cap of 25 is intentionally far below 100: platform presence alone is
// a weak signal compared to the other components.
func (s *Scorer) crossPlatformScore(graph *model.IntelligenceGraph) float64 {
	if graph == nil {
		return 0
	}
	count := len(graph.NodesByType(model.NodeIdentity))
	return math.Min(float64(count*pointsPerPlatform), crossPlatformCap)
}

// recencyScore rates how fresh the collected data is. Recent data scores
// higher because it is more actionable for an attacker. A zero or
// unparsable timestamp returns the neutral default rather than an error.
func (s *Scorer) recencyScore(profile *model.UnifiedProfile) float64 {
	if profile == nil || profile.CollectedAt.IsZero() {
		return recencyNeutral
	}

	days := int(s.now().Sub(profile.CollectedAt).Hours() / 24)
	switch {
	case days <= 30:
		return 100
	case days <= 90:
		return 75
	case days <= 180:
		return 50
	case days <= 365:
		return 25
	default:
		return 10
	}
}

// exploitabilityScore rates how combinable the exposed data is. The
// email-plus-professional combination dominates because it is the recipe
// for credible spear phishing.
func (s *Scorer) exploitabilityScore(profile *model.UnifiedProfile, graph *model.IntelligenceGraph) float64 {
	if profile == nil {
		return 0
	}

	score := 0.0
	if len(profile.Emails) > 0 && profile.HasProfessionalInfo() {
		score += pointsPhishingCombo
	}
	if len(profile.Locations) > 0 {
		score += pointsLocation
	}
	if len(profile.Identities) >= manyIdentityThreshold {
		score += pointsManyIdentities
	}
	score += math.Min(float64(strongCorrelations(graph)*pointsPerCorrelation), correlationCap)

	return math.Min(score, 100)
}

// strongCorrelations counts edges touching identity nodes whose confidence
// exceeds the strong-correlation floor. The floor is strict, so default
// shared-domain edges at exactly 0.7 do not count.
func strongCorrelations(graph *model.IntelligenceGraph) int {
	if graph == nil {
		return 0
	}
	identities := graph.NodesByType(model.NodeIdentity)
	if len(identities) < 2 {
		return 0
	}

	identityIDs := make(map[string]bool, len(identities))
	for _, n := range identities {
		identityIDs[n.ID] = true
	}

	count := 0
	for _, e := range graph.Edges() {
		if e.Confidence > strongConfidenceFloor && (identityIDs[e.From] || identityIDs[e.To]) {
			count++
		}
	}
	return count
}

// round2 rounds to two decimal places for stable serialized output.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
