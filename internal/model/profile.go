package model

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// StringSet is a deduplicated, order-irrelevant collection of strings.
// It serializes to JSON as a sorted array so that serialized profiles are
// byte-stable across runs, which matters for caching and for tests.
type StringSet map[string]struct{}

// NewStringSet creates a StringSet containing the given values.
func NewStringSet(values ...string) StringSet {
	s := make(StringSet, len(values))
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts a value into the set. Empty strings are ignored so that
// "no value" never becomes a member.
func (s StringSet) Add(value string) {
	if value == "" {
		return
	}
	s[value] = struct{}{}
}

// Has reports whether the value is in the set.
func (s StringSet) Has(value string) bool {
	_, ok := s[value]
	return ok
}

// Values returns the members in sorted order.
func (s StringSet) Values() []string {
	values := make([]string, 0, len(s))
	for v := range s {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// MarshalJSON renders the set as a sorted JSON array.
func (s StringSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

// UnmarshalJSON restores the set from a JSON array.
func (s *StringSet) UnmarshalJSON(data []byte) error {
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	*s = NewStringSet(values...)
	return nil
}

// UnifiedProfile is the merged subject record built from all successful
// platform payloads. It is immutable once fusion completes.
//
// Invariant: construction is additive-only. A platform can add identities,
// metrics, and set members, and free-text fields are last-write-wins in the
// canonical fusion order, but nothing is ever removed once a contributing
// platform added it.
type UnifiedProfile struct {
	// Identities maps platform name to the handle found on that platform.
	// One handle per platform; a duplicate payload for the same platform
	// overwrites the previous handle (last-write-wins).
	Identities map[string]string `json:"identities"`

	// PersonalInfo holds free-text personal fields ("name", "bio").
	PersonalInfo map[string]string `json:"personal_info"`

	// ProfessionalInfo holds free-text professional fields ("headline", "role").
	ProfessionalInfo map[string]string `json:"professional_info"`

	// SocialMetrics holds numeric counters under platform-prefixed keys
	// (e.g. "twitter_followers"), so multiple platforms never collide.
	SocialMetrics map[string]int `json:"social_metrics"`

	// Locations, Websites, Organizations, Emails, Phones are deduplicated
	// string sets gathered across all platforms.
	Locations     StringSet `json:"locations"`
	Websites      StringSet `json:"websites"`
	Organizations StringSet `json:"organizations"`
	Emails        StringSet `json:"emails"`
	Phones        StringSet `json:"phones"`

	// CollectedAt is the assembly timestamp. It is the zero time when no
	// payload contributed anything, which downstream scoring treats as
	// "age unknown" rather than "collected just now".
	CollectedAt time.Time `json:"collected_at,omitzero"`
}

// NewUnifiedProfile creates an empty profile with all collections initialized.
func NewUnifiedProfile() *UnifiedProfile {
	return &UnifiedProfile{
		Identities:       make(map[string]string),
		PersonalInfo:     make(map[string]string),
		ProfessionalInfo: make(map[string]string),
		SocialMetrics:    make(map[string]int),
		Locations:        make(StringSet),
		Websites:         make(StringSet),
		Organizations:    make(StringSet),
		Emails:           make(StringSet),
		Phones:           make(StringSet),
	}
}

// HasProfessionalInfo reports whether the profile carries a headline or role.
// Professional information raises exposure in targeted attacks, so both the
// risk scorer and the threat matrix check it.
func (u *UnifiedProfile) HasProfessionalInfo() bool {
	return u.ProfessionalInfo["headline"] != "" || u.ProfessionalInfo["role"] != ""
}

// EmailDomains returns the distinct domains of all collected email
// addresses. Addresses without an "@" are skipped.
func (u *UnifiedProfile) EmailDomains() []string {
	domains := make(StringSet)
	for email := range u.Emails {
		if at := strings.IndexByte(email, '@'); at >= 0 && at < len(email)-1 {
			domains.Add(email[at+1:])
		}
	}
	return domains.Values()
}
