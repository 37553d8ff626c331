// Package pipeline executes the scan stages in sequence.
//
// A scan runs as a pipeline of steps over a shared ScanResult: collection,
// fusion, artifact extraction, graph construction, risk scoring, tracker
// detection, timeline assembly, threat assessment, and finding curation.
// Each step reads the sections earlier steps filled in and writes its own.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. It allows easy addition/removal of steps without modifying core logic
// 2. It provides consistent error handling and logging across steps
// 3. It supports cancellation via context for long-running scans
//
// The pipeline supports both individual scans and batch processing with
// concurrency control using errgroup.
package pipeline
