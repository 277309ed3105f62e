// Package log provides structured event logging for humidity sessions.
//
// This package defines the Logger interface and Event types for capturing
// session-level events at multiple layers (sensor, session, delivery).
// It is separate from operational logging (slog) - event capture provides
// a complete machine-readable trace for debugging and analysis.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.EventLogger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.EventLogger, _ = log.NewFileLogger("/var/log/hygro/device.hlog")
//
//	// Long-running deployments: size-rotated file
//	cfg.EventLogger = log.NewRotatingLogger(log.RotatingConfig{
//	    Path: "/var/log/hygro/device.hlog",
//	})
//
//	// Both: use MultiLogger
//	cfg.EventLogger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
// Events are captured at multiple layers:
//   - Sensor: Raw hardware samples and accuracy changes (SampleEvent)
//   - Session: State machine transitions (StateChangeEvent)
//   - Delivery: Subscriber notifications (DeliveryEvent)
//
// Errors have a dedicated event type usable at any layer.
//
// # File Format
//
// Log files use CBOR encoding with .hlog extension. The hygro-log CLI tool
// provides viewing, filtering, and export capabilities.
package log
