package model

import "time"

// Risk score breakdown component keys.
const (
	RiskComponentSensitivity    = "data_sensitivity"
	RiskComponentCrossPlatform  = "cross_platform"
	RiskComponentRecency        = "recency"
	RiskComponentExploitability = "exploitability"
)

// RiskScore is the weighted exposure assessment of a scanned subject.
type RiskScore struct {
	// TotalScore is the weighted sum of the breakdown components,
	// guaranteed to lie in [0, 100].
	TotalScore float64 `json:"total_score"`

	// Severity is the band the total score falls into.
	Severity Severity `json:"severity"`

	// Breakdown holds the unweighted per-component scores, each in
	// [0, 100], keyed by the RiskComponent constants.
	Breakdown map[string]float64 `json:"breakdown"`

	// CalculatedAt is when the score was computed.
	CalculatedAt time.Time `json:"calculated_at"`
}

// Component returns the named breakdown component, or zero if absent.
func (r *RiskScore) Component(name string) float64 {
	return r.Breakdown[name]
}
