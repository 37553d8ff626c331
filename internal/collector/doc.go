// Package collector gathers raw per-platform payloads for a scan subject.
//
// Each platform has a Collector that fetches or derives a single
// PlatformPayload. Collectors only touch public endpoints: the GitHub and
// Reddit collectors call documented JSON APIs, the scrape collector reads
// Open Graph metadata from public profile pages, and the email collector
// works entirely offline. A Registry assembles the collectors enabled for
// a subject and fans them out concurrently; a failing collector is recorded
// and skipped, never aborting the scan.
package collector
