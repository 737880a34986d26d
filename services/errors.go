package services

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the services. Handlers map them to HTTP status
// codes with errors.Is.
var (
	ErrInvalidPlaylistURL = errors.New("invalid YouTube playlist URL")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("permission denied")
	ErrExternalProvider   = errors.New("external provider error")

	// ErrPlaylistNotFound matches ErrNotFound.
	ErrPlaylistNotFound = fmt.Errorf("playlist %w", ErrNotFound)
)

// ProviderError is returned when the metadata provider answers with a
// non-success status or a payload that does not match the expected shape.
// It matches ErrExternalProvider with errors.Is.
type ProviderError struct {
	// Op is the provider call that failed, e.g. "playlistItems.list".
	Op string
	// StatusCode is the upstream HTTP status, 0 if none was received.
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: provider returned status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func (e *ProviderError) Is(target error) bool {
	return target == ErrExternalProvider
}
