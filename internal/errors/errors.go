package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/tally/internal/habits"
	"github.com/julianstephens/tally/internal/logger"
)

const (
	// ExitFailure is returned for storage and other unexpected failures.
	ExitFailure = 1
	// ExitUsage is returned for caller mistakes such as a bad id or an unknown habit.
	ExitUsage = 2
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// IsCallerError reports whether err was caused by the caller's input rather than the system.
func IsCallerError(err error) bool {
	return errors.Is(err, habits.ErrInvalidIdentifier) ||
		errors.Is(err, habits.ErrNotFound) ||
		errors.Is(err, habits.ErrInvalidInput) ||
		errors.Is(err, habits.ErrNoCompletion)
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if IsCallerError(err) {
		return ExitUsage
	}
	return ExitFailure
}

// Fatal logs an error and exits the program with the code chosen by ExitCode
func Fatal(err error) {
	if err != nil {
		if IsCallerError(err) {
			logger.Warn("Command rejected", "error", err)
		} else {
			logger.Error("Command execution failed", "error", err)
		}
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(ExitCode(err))
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(ExitFailure)
}
