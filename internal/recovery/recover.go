// Package recovery converts panics in collaborator callbacks into errors.
// Storage engines and scan functions are provided by embedders; a panic in
// one of them must not take the query server down.
package recovery

import (
	"fmt"
	"log/slog"
	"runtime/debug"
)

// ToError invokes fn and converts a panic into an error, logging the stack
// trace.
func ToError(logger *slog.Logger, operation string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic recovered",
				"operation", operation,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			err = fmt.Errorf("%s panicked: %v", operation, r)
		}
	}()

	return fn()
}

// ToValue invokes fn and converts a panic into a zero value and an error,
// logging the stack trace.
func ToValue[T any](logger *slog.Logger, operation string, fn func() (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic recovered",
				"operation", operation,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			var zero T
			v = zero
			err = fmt.Errorf("%s panicked: %v", operation, r)
		}
	}()

	return fn()
}
