// Package log provides structured protocol logging for bind operations.
//
// This package defines the Logger interface and Event types for capturing
// wire, messenger, and crypto-layer events during an advertisement/recovery
// exchange. It is separate from operational logging (slog) - protocol
// capture provides a complete machine-readable event trace for debugging
// and analysis.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	logger := log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	logger, _ := log.NewFileLogger("/var/log/tang-client/bind.tlog")
//
//	// Both: use MultiLogger
//	fileLogger, _ := log.NewFileLogger("/var/log/tang-client/bind.tlog")
//	logger := log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
// Events are captured at multiple layers:
//   - Wire: encoded/decoded messages (MessageEvent)
//   - Messenger: per-address send/receive attempts (AttemptEvent)
//   - Crypto: verification and recovery failures (ErrorEventData)
//
// # File Format
//
// Log files use CBOR encoding with integer keys for compactness.
package log
