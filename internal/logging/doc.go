// Package logging provides structured logging for the UnitCam network tools.
//
// This package wraps zap logger with convenience functions for the logging
// patterns used during network bring-up. Logging is observational only: no
// caller changes its behaviour based on whether a log line was written.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Poll ticks, radio status reads
//   - Info: Normal progress (credential source chosen, joined, AP started)
//   - Warn: Expected fallback (join timeout, missing mDNS hostname)
//   - Error: Terminal failure (access point could not start)
//
// # Structured Logging
//
// Every negotiation attempt carries an attempt ID so its lines can be
// correlated:
//
//	logging.LogTransition(zapcore.InfoLevel, id, "joining", "Attempting WiFi connection",
//	    zap.String("ssid", "HomeNet"),
//	)
//
// # Configuration
//
// Initialize logging at startup:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// When no level is given and UNITCAM_LOG_LEVEL is unset the logger is a
// no-op, so CLI output stays clean by default. Output goes to stderr so it
// never interleaves with rendered command output on stdout.
package logging
