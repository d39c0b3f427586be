// Package errors provides error handling conventions for the ptask CLI.
//
// This package defines sentinel errors for common failure conditions,
// an ExitError type for CLI exit code handling, a FileError type for
// configuration files that cannot be read, and exit code constants
// following standard Unix conventions. Wrapping helpers are re-exported
// from github.com/cockroachdb/errors.
//
// # Sentinel Errors
//
// Sentinel errors allow callers to check for specific error conditions
// using [errors.Is]:
//
//	if errors.Is(err, ptaskerrors.ErrInvalidConfig) {
//	    // handle invalid configuration
//	}
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (invalid input, configuration, etc.)
//   - ExitSystem (2): System-related error (I/O, permissions, etc.)
//
// # FileError
//
// [FileError] carries the offending path and a hint which is shown to the
// user verbatim:
//
//	var fileErr *ptaskerrors.FileError
//	if errors.As(err, &fileErr) {
//	    fmt.Println(fileErr.Hint)
//	}
package errors
