package relay

import (
	"github.com/pkg/errors"
)

var (
	// ErrInvalidInput rejects a turn before any session state changes.
	ErrInvalidInput = errors.New("message is required")
	// ErrUpstream matches every *UpstreamError via errors.Is.
	ErrUpstream = errors.New("upstream provider error")
)

// UpstreamError reports a failed provider call. Message is the provider's own
// text, stripped of local wrapping; the full cause stays server-side.
type UpstreamError struct {
	Provider string
	Message  string
	cause    error
}

func newUpstreamError(provider string, cause error) *UpstreamError {
	return &UpstreamError{Provider: provider, Message: errors.Cause(cause).Error(), cause: cause}
}

func (e *UpstreamError) Error() string {
	return e.Message
}

func (e *UpstreamError) Unwrap() error {
	return e.cause
}

// Is lets errors.Is(err, ErrUpstream) match.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}
