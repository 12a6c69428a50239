// Package util provides shared helpers for the journal CLI, mainly exit
// codes and error handling.
package util

import (
	"errors"
	"fmt"
	"os"

	"github.com/somnium-cli/somnium/internal/settings"
	"github.com/somnium-cli/somnium/internal/store"
)

// Exit codes.
const (
	ExitOK           = 0
	ExitError        = 1
	ExitInvalidInput = 2
	ExitLocked       = 3
	ExitIntegrityErr = 4
)

// ExitWithCode exits the program with the specified code and message.
func ExitWithCode(code int, format string, args ...interface{}) {
	if format != "" {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
	os.Exit(code)
}

// HandleError handles errors and exits with the appropriate code.
func HandleError(err error, context string) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, settings.ErrLocked):
		ExitWithCode(ExitLocked, "Error: %v", err)
	case errors.Is(err, store.ErrJournalCorrupted):
		ExitWithCode(ExitIntegrityErr, "Error: %v", err)
	case errors.Is(err, store.ErrRecordNotFound), errors.Is(err, store.ErrCategoryNotFound):
		ExitWithCode(ExitInvalidInput, "Error: %v", err)
	default:
		if context != "" {
			ExitWithCode(ExitError, "Error: %s - %v", context, err)
		} else {
			ExitWithCode(ExitError, "Error: %v", err)
		}
	}
}

// WrapError wraps an error with additional context.
func WrapError(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}
