// Package errors provides error handling conventions for the ionx CLI.
//
// This package defines sentinel errors, the closed set of failure kinds
// reported to the user, an ExitError type for CLI exit code handling, and
// exit code constants following standard Unix conventions. Wrapping helpers
// from github.com/cockroachdb/errors are re-exported so call sites import a
// single errors package.
//
// # Failure Kinds
//
// Every failure that reaches the user is an [*Error] carrying a [Kind], the
// user-facing message, and the command tag it originated from:
//
//	return errors.E(errors.KindExternalCommand, "service",
//	    `Failed to find the plugin "camera".`, err)
//
// [KindOf] and [ContextOf] read those fields back through any wrapping.
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (invalid input, configuration, etc.)
//   - ExitSystem (2): System-related error (I/O, external tools, etc.)
//
// [ExitCode] derives the code from an [ExitError] or from the error's Kind.
package errors
