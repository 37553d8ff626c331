// Package model defines the core data structures used throughout profilescan.
//
// This package contains the following main types:
//   - PlatformPayload: Raw data collected from a single platform
//   - UnifiedProfile: The merged, de-duplicated subject record across platforms
//   - IntelligenceGraph: Typed node/edge structure linking the subject to correlated entities
//   - RiskScore: Weighted composite exposure score with severity label
//   - TrackerMatch: A surveillance entity inferred from platform usage
//   - ScanResult: The top-level scan report aggregating all of the above
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (fusion, graph, risk, tracker, report) need
// to use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
