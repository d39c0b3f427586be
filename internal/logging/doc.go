// Package logging provides structured logging for the ptask CLI using slog.
//
// The package supports both text and JSON output formats, configurable log
// levels including a trace level below debug, and helpers for testing. All
// loggers are based on the standard library's [log/slog] package.
//
// # Basic Usage
//
//	logger := logging.New(logging.Config{
//		Level:  slog.LevelInfo,
//		Format: logging.FormatText,
//		Output: os.Stderr,
//	})
//	logger.Info("resolved configuration", "root", root)
//
// # Verbosity
//
// [LevelFromVerbosity] maps repeated -v flags to levels: none logs
// warnings, -v info, -vv debug and -vvv [LevelTrace].
//
// # Context
//
// Commands store the configured logger with [NewContext] and libraries
// retrieve it with [FromContext].
//
// # Testing
//
// For tests, use [ForTest] to capture log output via the testing framework:
//
//	func TestSomething(t *testing.T) {
//		logger := logging.ForTest(t)
//		// logs appear in test output on failure
//	}
package logging
