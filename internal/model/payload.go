package model

import (
	"encoding/json"
	"time"
)

// PlatformPayload is the raw data record returned by a single platform
// collector. The Profile mapping is opaque to everything except the fusion
// tables: each platform has its own field names, and the Unified Profile
// Builder knows a fixed extraction rule per platform.
//
// Design decision: We keep Profile and Extras as open maps rather than
// per-platform structs because the collection contract is owned by the
// platforms, not by us. Fields appear and disappear upstream; the fusion
// layer skips what it cannot find instead of failing to decode.
type PlatformPayload struct {
	// Platform identifies which collector produced this payload.
	Platform Platform `json:"platform"`

	// Profile contains the platform-specific profile fields.
	Profile map[string]any `json:"profile,omitempty"`

	// Extras contains platform-specific keys outside the profile proper,
	// such as "repositories" for GitHub or "data" for email analysis.
	Extras map[string]any `json:"extras,omitempty"`

	// CollectedAt is when the collector fetched this payload.
	CollectedAt time.Time `json:"collected_at,omitzero"`
}

// payloadKnownKeys are the top-level JSON keys that map to struct fields.
// Every other top-level key is a platform-specific extra.
var payloadKnownKeys = map[string]bool{
	"platform":     true,
	"profile":      true,
	"collected_at": true,
}

// UnmarshalJSON decodes the collection contract's wire form, where
// platform-specific keys ("data" for email payloads, "username" for
// Instagram, "repositories" for GitHub) sit at the top level next to
// "platform" and "profile". Unknown keys land in Extras.
func (p *PlatformPayload) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = PlatformPayload{}
	if v, ok := raw["platform"]; ok {
		var name string
		if err := json.Unmarshal(v, &name); err != nil {
			return err
		}
		p.Platform = ParsePlatform(name)
	}
	if v, ok := raw["profile"]; ok {
		if err := json.Unmarshal(v, &p.Profile); err != nil {
			return err
		}
	}
	if v, ok := raw["collected_at"]; ok {
		if err := json.Unmarshal(v, &p.CollectedAt); err != nil {
			return err
		}
	}

	for key, v := range raw {
		if payloadKnownKeys[key] {
			continue
		}
		var value any
		if err := json.Unmarshal(v, &value); err != nil {
			return err
		}
		if p.Extras == nil {
			p.Extras = make(map[string]any)
		}
		p.Extras[key] = value
	}
	return nil
}

// MarshalJSON encodes the payload back into the wire form, inlining the
// extras at the top level.
func (p PlatformPayload) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Extras)+3)
	for k, v := range p.Extras {
		out[k] = v
	}
	out["platform"] = p.Platform.String()
	if p.Profile != nil {
		out["profile"] = p.Profile
	}
	if !p.CollectedAt.IsZero() {
		out["collected_at"] = p.CollectedAt
	}
	return json.Marshal(out)
}

// ProfileString returns the named profile field as a string.
// The second return reports whether the field was present, and the third
// whether it was present but not a string (malformed).
func (p *PlatformPayload) ProfileString(key string) (string, bool, bool) {
	return stringField(p.Profile, key)
}

// ProfileInt returns the named profile field as an int.
// JSON decoding produces float64 for all numbers, so both int and float64
// values are accepted.
func (p *PlatformPayload) ProfileInt(key string) (int, bool, bool) {
	return intField(p.Profile, key)
}

// ExtraString returns the named extras field as a string.
func (p *PlatformPayload) ExtraString(key string) (string, bool, bool) {
	return stringField(p.Extras, key)
}

// ExtraBool returns the named extras field as a bool.
func (p *PlatformPayload) ExtraBool(key string) (bool, bool, bool) {
	if p.Extras == nil {
		return false, false, false
	}
	v, ok := p.Extras[key]
	if !ok {
		return false, false, false
	}
	b, ok := v.(bool)
	if !ok {
		return false, true, true
	}
	return b, true, false
}

// stringField extracts a string value from an open mapping.
func stringField(m map[string]any, key string) (value string, present bool, malformed bool) {
	if m == nil {
		return "", false, false
	}
	v, ok := m[key]
	if !ok || v == nil {
		return "", false, false
	}
	s, ok := v.(string)
	if !ok {
		return "", true, true
	}
	return s, true, false
}

// intField extracts an integer value from an open mapping.
func intField(m map[string]any, key string) (value int, present bool, malformed bool) {
	if m == nil {
		return 0, false, false
	}
	v, ok := m[key]
	if !ok || v == nil {
		return 0, false, false
	}
	switch n := v.(type) {
	case int:
		return n, true, false
	case int64:
		return int(n), true, false
	case float64:
		return int(n), true, false
	default:
		return 0, true, true
	}
}
