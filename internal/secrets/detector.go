package secrets

import (
	"regexp"
	"sort"

	"github.com/profilescan/profilescan/internal/model"
)

// patterns maps a secret kind to its detection regex. The set mirrors the
// credential formats most often committed to public repositories: generic
// assignments plus vendor-specific key shapes.
var patterns = map[string]*regexp.Regexp{
	"api_key":          regexp.MustCompile(`(?i)api[_\s]?key["\s]*[=:]["\s]*[a-z0-9]{32,}`),
	"password":         regexp.MustCompile(`(?i)password["\s]*[=:]["\s]*[^\s]+`),
	"secret":           regexp.MustCompile(`(?i)secret["\s]*[=:]["\s]*[a-z0-9]{32,}`),
	"token":            regexp.MustCompile(`(?i)token["\s]*[=:]["\s]*[a-z0-9]{20,}`),
	"aws_access_key":   regexp.MustCompile(`(?i)aws[_\s]?access[_\s]?key["\s]*[=:]["\s]*[A-Z0-9]{20}`),
	"aws_secret_key":   regexp.MustCompile(`(?i)aws[_\s]?secret[_\s]?key["\s]*[=:]["\s]*[A-Za-z0-9/+=]{40}`),
	"github_token":     regexp.MustCompile(`(?i)github[_\s]?token["\s]*[=:]["\s]*[a-zA-Z0-9_]{35,40}`),
	"slack_token":      regexp.MustCompile(`(?i)slack[_\s]?token["\s]*[=:]["\s]*[a-z0-9-]{32,}`),
	"firebase":         regexp.MustCompile(`(?i)firebase["\s]*[=:]["\s]*[a-z0-9-]{30,}`),
	"heroku":           regexp.MustCompile(`(?i)heroku["\s]*[=:]["\s]*[a-z0-9]{8}-[a-z0-9]{4}-[a-z0-9]{4}-[a-z0-9]{4}-[a-z0-9]{12}`),
	"stripe_live_key":  regexp.MustCompile(`(?i)stripe[_\s]?sk[_\s]?live["\s]*[=:]["\s]*[a-zA-Z0-9]{24,}`),
	"twilio_token":     regexp.MustCompile(`(?i)twilio[_\s]?auth[_\s]?token["\s]*[=:]["\s]*[a-z0-9]{32}`),
	"sendgrid_api_key": regexp.MustCompile(`(?i)sendgrid[_\s]?api[_\s]?key["\s]*[=:]["\s]*[A-Za-z0-9_-]{30,}`),
	"mailgun_api_key":  regexp.MustCompile(`(?i)mailgun[_\s]?api[_\s]?key["\s]*[=:]["\s]*[a-z0-9]{32}`),
	"paypal_client_id": regexp.MustCompile(`(?i)paypal[_\s]?client[_\s]?id["\s]*[=:]["\s]*[a-zA-Z0-9]{16,}`),
}

// redactLen is how many characters of a match survive redaction.
const redactLen = 12

// Kinds returns the sorted list of secret kinds the detector knows.
func Kinds() []string {
	kinds := make([]string, 0, len(patterns))
	for k := range patterns {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Scan checks text for credential-shaped strings and returns one Secret per
// matching kind. Matches are redacted; source describes where the text came
// from (e.g. "github repo my-project description").
//
// Design decision: We report at most one finding per kind per text rather
// than every occurrence. The report needs to say "a Stripe live key is
// exposed here", and a count of duplicates within the same text adds noise
// without changing the remediation.
func Scan(text, source string) []model.Secret {
	if text == "" {
		return nil
	}

	var found []model.Secret
	for _, kind := range Kinds() {
		match := patterns[kind].FindString(text)
		if match == "" {
			continue
		}
		found = append(found, model.Secret{
			Kind:   kind,
			Match:  Redact(match),
			Source: source,
		})
	}
	return found
}

// Redact shortens a matched secret to its first characters so the kind of
// leak stays recognizable without reproducing the credential.
func Redact(match string) string {
	if len(match) <= redactLen {
		return match + "..."
	}
	return match[:redactLen] + "..."
}
