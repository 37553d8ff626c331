// Package secrets detects credential-shaped strings in public text such as
// repository descriptions, profile bios, and file excerpts.
//
// The detector never stores the full matched value. Matches are redacted to
// a short prefix so a report can show that a secret exists without the
// report itself becoming a leak.
package secrets
