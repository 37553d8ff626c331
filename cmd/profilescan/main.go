// Package main provides the entry point for the profilescan CLI.
//
// profilescan is an OSINT exposure assessment tool. It collects public
// profile data for a subject across platforms, fuses it into a unified
// profile, and reports on correlation risks, tracking exposure, and
// leaked sensitive data.
//
// Usage:
//
//	profilescan scan --github octocat --email octocat@example.com
//	profilescan scan --subjects subjects.yaml
//
// See --help for all available options.
package main

// main is the entry point for profilescan.
func main() {
	Execute()
}
