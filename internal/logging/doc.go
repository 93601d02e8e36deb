// Package logging provides structured logging for the ionx CLI using slog.
//
// The package supports text and JSON output formats, a Trace level below
// Debug for external command output, and helpers for carrying the logger in
// a context and for tests.
//
// # Basic Usage
//
//	logger := logging.New(logging.Config{
//		Level:  logging.LevelFromVerbosity(verbosity),
//		Format: logging.FormatText,
//		Output: os.Stderr,
//	})
//	ctx = logging.NewContext(ctx, logger)
//
// # Testing
//
// Use [ForTest] to capture log output via the testing framework:
//
//	logger := logging.ForTest(t)
package logging
