// Package logging provides structured logging utilities for scanwatch.
//
// # Overview
//
// This package wraps the standard library slog package with consistent
// defaults: JSON output on stderr, module and version attributes on every
// record, LOG_LEVEL based level selection and source locations for debug
// logs.
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: detailed diagnostic information with source location
//   - INFO: general informational messages (default)
//   - WARN/WARNING: potentially problematic situations
//   - ERROR: failures requiring attention
//
// # Usage
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("scanwatch", version)
//	    slog.Info("scheduler_start", "interval_seconds", 300)
//	}
//
// Explicit level:
//
//	logging.SetDefaultStructuredLoggerWithLevel("scanwatch", version, "debug")
//
// # Payload Logging
//
// Cycle payloads can be large. TruncatedJSON renders them as indented JSON and
// cuts the text at a character limit:
//
//	slog.Info("scheduler_payload",
//	    "snapshot_type", "scope",
//	    "payload", logging.TruncatedJSON(doc, 120000),
//	)
//
// # Output Format
//
//	{
//	    "time": "2026-02-11T10:00:00.123Z",
//	    "level": "INFO",
//	    "msg": "scheduler_cycle_complete",
//	    "module": "scanwatch",
//	    "version": "v1.0.0",
//	    "cycle": 3
//	}
package logging
