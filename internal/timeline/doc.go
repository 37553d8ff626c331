// Package timeline derives a chronological exposure timeline from a scan's
// collected artifacts. Each event marks when a piece of the subject's
// footprint became publicly visible, so a reader can see how the exposure
// accumulated over time.
package timeline
