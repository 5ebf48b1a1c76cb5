// Package log builds the application's slog loggers.
//
// Every logger created here wraps its output handler in a RedactHandler,
// which:
//   - masks credential attributes such as the tagger API key or an
//     Authorization header, matched by key name or by value shape
//   - truncates long string values so a question's full text does not flood
//     a log line
//
// Usage:
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//	logger.Debug("tagging batch", "model", model, "api_key", key) // api_key=***REDACTED***
package log
