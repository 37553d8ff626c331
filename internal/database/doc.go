// Package database provides SQLite-based persistence for scan results.
//
// Results are stored as JSON documents with indexed metadata columns
// (subject, risk score, severity) so the history command can list past
// scans and show a subject's risk trend without loading full results.
// Graph edges are additionally stored relationally for cross-scan
// correlation queries.
package database
