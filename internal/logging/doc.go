// Package logging provides structured logging for the vanlog client and server.
//
// This package wraps a zap logger with convenience functions for the logging
// patterns used across the repository: HTTP traffic on the ledger server,
// submission lifecycle transitions in the client, and feed connections.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Request/response bodies, status transitions
//   - Info: Normal operations (server start, trips logged, feed subscribers)
//   - Warn: Non-fatal issues (publisher failures, stale resolutions)
//   - Error: Startup failures, store errors
//
// # Silent By Default
//
// The interactive form owns the terminal, so nothing is written unless a level
// is requested explicitly:
//
//	if err := logging.Initialize(logLevel); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// When level is empty, VANLOG_LOG_LEVEL is consulted. When both are empty a
// no-op logger is installed.
//
// # Structured Logging
//
//	logging.Info("Trip logged",
//	    zap.String("user_name", entry.UserName),
//	    zap.Float64("delta_km", entry.DeltaKM),
//	)
//
// # Thread Safety
//
// All logging functions are safe for concurrent use.
package logging
