package youtube

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrExtraction means the upstream payload lacked data we require: the
	// schema probably changed.
	ErrExtraction = errors.New("youtube: extraction failed")
	// ErrTransport means the request failed on the network or with a
	// non-success status.
	ErrTransport = errors.New("youtube: request failed")
	// ErrDone is returned by StreamPager.Next once the listing is exhausted.
	ErrDone = errors.New("youtube: no more streams")

	ErrInvalidChannelID = errors.New("invalid channel ID")
	ErrInvalidVideoID   = errors.New("invalid video ID")
)

// ExtractionError names the field that could not be extracted.
type ExtractionError struct {
	Field string
	Msg   string
}

func (e *ExtractionError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("failed to extract the %s", e.Field)
}

func (e *ExtractionError) Unwrap() error { return ErrExtraction }

func missing(field string) error {
	return &ExtractionError{Field: field}
}

// TransportError carries the status of a failed request. StatusCode is zero
// for network errors, in which case Err holds the cause.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("YouTube request to %s failed: %v", e.URL, e.Err)
	}
	switch e.StatusCode {
	case http.StatusTooManyRequests:
		return "YouTube rate limit exceeded - please try again later"
	case http.StatusForbidden:
		return "YouTube denied access (status 403) - the request may have been flagged"
	case http.StatusNotFound:
		return fmt.Sprintf("YouTube returned not found for %s - check the channel ID", e.URL)
	case http.StatusServiceUnavailable:
		return "YouTube temporarily unavailable - please try again in a few minutes"
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusGatewayTimeout:
		return fmt.Sprintf("YouTube server error (status %d) - please try again later", e.StatusCode)
	default:
		return fmt.Sprintf("YouTube request failed (status %d)", e.StatusCode)
	}
}

// Is reports ErrTransport so callers can tell network problems from schema changes.
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

func (e *TransportError) Unwrap() error { return e.Err }
