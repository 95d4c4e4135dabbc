package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrOutOfBounds marks range times that fall outside the owning video.
	ErrOutOfBounds = errors.New("out of bounds")
	// ErrInvalidCrop marks crop rectangles that violate the fractional bounds.
	ErrInvalidCrop = errors.New("invalid crop")
	// ErrNotFound marks operations on unknown range or video identifiers.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyRunning marks export submission while a batch is in flight.
	ErrAlreadyRunning = errors.New("export already running")
	// ErrNotConfigured marks missing input/output folder configuration.
	ErrNotConfigured = errors.New("not configured")
	// ErrUnreadable marks source files whose metadata cannot be probed.
	ErrUnreadable = errors.New("unreadable source")
	// ErrTranscodeFailed marks external transcoder failures on a single job.
	ErrTranscodeFailed = errors.New("transcode failed")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTranscodeFailed
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind returns a short classification string for an error, used in CLI
// output and job outcome records.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrOutOfBounds):
		return "out_of_bounds"
	case errors.Is(err, ErrInvalidCrop):
		return "invalid_crop"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAlreadyRunning):
		return "already_running"
	case errors.Is(err, ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, ErrUnreadable):
		return "unreadable"
	case errors.Is(err, ErrTranscodeFailed):
		return "transcode_failed"
	default:
		return "internal"
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
