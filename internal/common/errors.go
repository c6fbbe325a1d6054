package common

import (
	"errors"
	"fmt"
)

// Common error types
var (
	// ErrSinkNotConfigured indicates a dispatch sink is missing credentials
	ErrSinkNotConfigured = errors.New("sink not configured")

	// ErrWatchStream indicates a watch connection ended abnormally
	ErrWatchStream = errors.New("watch stream failure")
)

// IsSinkNotConfigured checks if err is or wraps ErrSinkNotConfigured
func IsSinkNotConfigured(err error) bool {
	return errors.Is(err, ErrSinkNotConfigured)
}

// IsWatchStream checks if err is or wraps ErrWatchStream
func IsWatchStream(err error) bool {
	return errors.Is(err, ErrWatchStream)
}

// SinkNotConfiguredError returns a wrapped sink configuration error with context
func SinkNotConfiguredError(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrSinkNotConfigured)
}

// WatchStreamError returns a wrapped watch stream error with context
func WatchStreamError(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrWatchStream)
}

// NonSuccessStatusError represents a dispatch response outside the 2xx range
type NonSuccessStatusError struct {
	StatusCode int
	Body       string
}

func (e NonSuccessStatusError) Error() string {
	return fmt.Sprintf("status=%d response=%s", e.StatusCode, e.Body)
}

// NewNonSuccessStatusError creates a new non-success status error.
// The body is truncated to keep log records bounded.
func NewNonSuccessStatusError(statusCode int, body string) error {
	if len(body) > 500 {
		body = body[:500]
	}
	return NonSuccessStatusError{StatusCode: statusCode, Body: body}
}

// IsNonSuccessStatus checks if err is or wraps a NonSuccessStatusError
func IsNonSuccessStatus(err error) bool {
	var nonSuccess NonSuccessStatusError
	return errors.As(err, &nonSuccess)
}
