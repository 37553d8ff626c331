// Package config provides configuration structures and utilities for profilescan.
// It defines the main configuration options for subject scanning, per-platform
// collector settings, risk weighting, and report generation preferences.
package config
