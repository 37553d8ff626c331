package model

import "time"

// Repository is a public code repository discovered during collection.
type Repository struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url,omitempty"`
	Language    string    `json:"language,omitempty"`
	Stars       int       `json:"stars"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
}

// Secret is a credential-shaped string found in public material such as a
// repository description or profile text. Match holds a redacted excerpt,
// never the full matched value.
type Secret struct {
	// Kind names the secret pattern that matched (e.g. "aws_access_key").
	Kind string `json:"kind"`

	// Match is the redacted excerpt of the matched text.
	Match string `json:"match"`

	// Source describes where the secret was found.
	Source string `json:"source"`
}

// Organization is a company or group the subject is affiliated with.
type Organization struct {
	Name   string `json:"name"`
	Source string `json:"source,omitempty"`
}

// SecondaryArtifacts holds structured findings gathered alongside the
// profile fields: repositories, leaked secrets, organization memberships,
// and additional platform accounts discovered during expansion.
type SecondaryArtifacts struct {
	Repositories  []Repository   `json:"repositories,omitempty"`
	Secrets       []Secret       `json:"secrets,omitempty"`
	Organizations []Organization `json:"organizations,omitempty"`

	// Emails lists addresses surfaced during expansion beyond the ones
	// already fused into the profile, such as commit author addresses.
	Emails []string `json:"emails,omitempty"`

	// Accounts lists additional platform accounts discovered beyond the
	// handles the caller supplied, keyed by platform name.
	Accounts map[string]string `json:"accounts,omitempty"`
}

// Empty reports whether no artifacts were collected.
func (a *SecondaryArtifacts) Empty() bool {
	return a == nil ||
		(len(a.Repositories) == 0 && len(a.Secrets) == 0 &&
			len(a.Organizations) == 0 && len(a.Emails) == 0 &&
			len(a.Accounts) == 0)
}
