package services

import (
	"errors"
	"fmt"
)

var (
	// ErrServiceUnconfigured means no completion credentials were configured.
	ErrServiceUnconfigured = errors.New("analysis service not configured")
	ErrNotFound            = errors.New("not found")
	// ErrSourceUnavailable means the profile source is not connected for the caller.
	ErrSourceUnavailable   = fmt.Errorf("profile source unavailable: %w", ErrNotFound)
	ErrUpstreamUnavailable = errors.New("completion service unavailable")
	ErrUpstreamRejected    = errors.New("completion service rejected the request")
	ErrAnalysisFailed      = errors.New("analysis failed")
	ErrPersistenceFailed   = errors.New("persistence failed")
	ErrInvalidInput        = errors.New("invalid input")
)

// analysisFailed wraps an upstream error so that both ErrAnalysisFailed and
// the upstream sentinel match with errors.Is.
func analysisFailed(err error) error {
	return fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
}
