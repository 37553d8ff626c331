package model

// TrackerMatch records that a tracking entity is assessed to hold data on
// the subject, based on which platforms the subject has identities on.
type TrackerMatch struct {
	// Entity is the registry key of the tracking organization
	// (e.g. "google", "facebook", "data_brokers").
	Entity string `json:"entity"`

	// Platforms lists the subject's platforms that triggered the match.
	// Empty for synthetic matches such as data brokers.
	Platforms []string `json:"platforms,omitempty"`

	// Confidence is the assessed likelihood in [0, 1] that the entity holds
	// data on the subject. It grows with the number of matched platforms.
	Confidence float64 `json:"confidence"`

	// Methods names the tracking techniques the entity is known to use.
	Methods []string `json:"methods"`
}
