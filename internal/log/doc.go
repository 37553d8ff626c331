// Package log provides secure logging functionality with automatic sanitization
// of sensitive information, built on top of the standard slog package.
//
// This package extends slog to provide:
//   - Automatic sanitization of credential-shaped values (tokens, secrets, keys)
//   - Partial masking of subject PII (email addresses, phone numbers)
//   - Configurable log levels with verbose mode support
//   - Consistent log formatting across the application
//
// # Security Features
//
// The SecureHandler automatically sanitizes sensitive information in log output:
//   - HTTP headers (Authorization, Cookie, X-Api-Key)
//   - Secret values detected by pattern matching (passwords, tokens, keys)
//   - Session identifiers and authentication tokens
//
// Subject email addresses are partially masked (the local part is shortened
// to its first character) so operators can still match a log line to a scan
// without the full address leaking into shared or stored logs. Phone-shaped
// values are fully masked.
//
// Even in verbose mode, sensitive values are masked to prevent accidental
// exposure of secrets in logs that may be shared or stored.
//
// # Usage
//
//	// Create a secure logger
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//
//	// Use as a standard slog.Logger
//	logger.Info("collection finished",
//	    "email", "john.doe@example.com", // Logged as "j***@example.com"
//	    "platform", "github",
//	)
//
//	// Set as default logger
//	slog.SetDefault(logger)
package log
