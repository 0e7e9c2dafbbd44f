// Package logging provides structured logging using uber/zap.
//
// Two modes are offered:
//   - Production: JSON output on stderr for the session journal
//   - Development: colored console output for human readability
//
// The host process logs policy rejections at Warn, IPC diagnostics at
// Debug, and startup failures at Error before exiting.
package logging
