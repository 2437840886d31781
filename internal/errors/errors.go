package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/punchcard/internal/logger"
)

var (
	// ErrInvalidArgument marks a rejected call: nothing was mutated.
	ErrInvalidArgument = stderrors.New("invalid argument")
	// ErrInconsistentState marks stored data that contradicts itself (for example a grant on a free day).
	// Calculations log it and continue with a best-effort value.
	ErrInconsistentState = stderrors.New("inconsistent state")
	// ErrOverflow marks a minute accumulation that exceeded the representable range and was clamped.
	ErrOverflow = stderrors.New("minute overflow")
)

// Invalid wraps ErrInvalidArgument with a message and logs it at warn level.
func Invalid(format string, args ...interface{}) error {
	err := fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
	logger.Warn("Rejected call", "error", err)
	return err
}

// Inconsistent logs an ErrInconsistentState at error level and returns it.
func Inconsistent(format string, args ...interface{}) error {
	err := fmt.Errorf("%w: %s", ErrInconsistentState, fmt.Sprintf(format, args...))
	logger.Error("Inconsistent data", "error", err)
	return err
}

// Overflow logs an ErrOverflow at error level and returns it.
func Overflow(format string, args ...interface{}) error {
	err := fmt.Errorf("%w: %s", ErrOverflow, fmt.Sprintf(format, args...))
	logger.Error("Minute accumulator clamped", "error", err)
	return err
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

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

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
