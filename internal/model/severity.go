package model

// Severity classifies how exposed a subject is, derived from the total
// risk score.
type Severity int

// Severity levels from least to most exposed.
const (
	SeverityMinimal Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// String returns the human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityMinimal:
		return "Minimal"
	case SeverityLow:
		return "Low"
	case SeverityMedium:
		return "Medium"
	case SeverityHigh:
		return "High"
	case SeverityCritical:
		return "Critical"
	default:
		return "Unknown"
	}
}

// IsValid reports whether s is a defined severity level.
func (s Severity) IsValid() bool {
	return s >= SeverityMinimal && s <= SeverityCritical
}

// SeverityForScore maps a total risk score in [0, 100] to a severity band.
// Band edges are inclusive on the lower bound: a score of exactly 80 is
// Critical, 79.99 is High.
func SeverityForScore(score float64) Severity {
	switch {
	case score >= 80:
		return SeverityCritical
	case score >= 60:
		return SeverityHigh
	case score >= 40:
		return SeverityMedium
	case score >= 20:
		return SeverityLow
	default:
		return SeverityMinimal
	}
}

// MarshalText renders the severity name, used for JSON output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a severity name.
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Minimal":
		*s = SeverityMinimal
	case "Low":
		*s = SeverityLow
	case "Medium":
		*s = SeverityMedium
	case "High":
		*s = SeverityHigh
	case "Critical":
		*s = SeverityCritical
	default:
		return ErrInvalidSeverity
	}
	return nil
}
