package graph

import (
	"log/slog"
	"strings"
	"unicode"

	"github.com/profilescan/profilescan/internal/model"
)

// bioSharedTokens is the shared-token threshold for bio similarity.
// One common word is enough for names, but bios need real overlap before
// two profiles look like the same author.
const bioSharedTokens = 3

// SimilarityPolicy evaluates name and bio similarity across the profile's
// text fields. It computes the signals and logs them but adds no edges:
// token overlap on free text is too weak a correlator to assert a link in
// the exported graph. Deployments that want similarity edges can replace
// this policy with one that emits them.
type SimilarityPolicy struct {
	Logger *slog.Logger
}

// Name returns the policy name.
func (p *SimilarityPolicy) Name() string { return "text-similarity" }

// Apply computes the similarity signals for the profile. The default
// behavior is observe-only.
func (p *SimilarityPolicy) Apply(g *model.IntelligenceGraph, profile *model.UnifiedProfile) {
	name := profile.PersonalInfo["name"]
	bio := profile.PersonalInfo["bio"]
	if name == "" && bio == "" {
		return
	}

	// The fused profile keeps one name and one bio, so cross-field overlap
	// is the only signal available here. It is logged for operators
	// reviewing a scan but never asserted as an edge.
	if p.Logger != nil && name != "" && bio != "" && NamesSimilar(name, bio) {
		p.Logger.Debug("subject name appears in bio", "name", name)
	}
}

// NamesSimilar reports whether two names share at least one token after
// normalization. Punctuation is stripped and comparison is case-insensitive.
func NamesSimilar(a, b string) bool {
	return len(sharedTokens(a, b)) >= 1
}

// BiosSimilar reports whether two bios share at least bioSharedTokens
// tokens after normalization.
func BiosSimilar(a, b string) bool {
	return len(sharedTokens(a, b)) >= bioSharedTokens
}

// sharedTokens returns the tokens common to both texts.
func sharedTokens(a, b string) []string {
	tokensA := tokenize(a)
	tokensB := tokenize(b)

	var shared []string
	for token := range tokensA {
		if _, ok := tokensB[token]; ok {
			shared = append(shared, token)
		}
	}
	return shared
}

// tokenize lowercases the text, strips everything except letters, digits,
// and spaces, and splits into a token set.
func tokenize(text string) map[string]struct{} {
	var sb strings.Builder
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
		case unicode.IsSpace(r):
			sb.WriteRune(' ')
		}
	}

	tokens := make(map[string]struct{})
	for _, token := range strings.Fields(sb.String()) {
		tokens[token] = struct{}{}
	}
	return tokens
}
