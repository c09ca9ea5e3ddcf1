// Package logging provides a simple leveled logging interface for the
// gallery indexer.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information
//   - INFO: General operational messages
//   - WARN: Warning conditions
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the process
//
// The log level is configured via the LOG_LEVEL environment variable,
// with DEBUG=1 as a shortcut for debug level.
package logging
