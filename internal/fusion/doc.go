// Package fusion merges per-platform payloads into a single unified profile.
//
// Each platform has its own field names and payload shape, so fusion is a
// set of fixed per-platform extraction rules rather than a generic mapper.
// Payloads are always processed in the canonical platform order, which makes
// the merged profile deterministic regardless of collector completion order.
//
// Fusion never fails on bad input. A field that is missing or has the wrong
// type is skipped and recorded as a Degradation, and the rest of the payload
// still contributes.
package fusion
