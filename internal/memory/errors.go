package memory

import (
	"errors"
	"fmt"
)

var (
	// ErrClipboardUnavailable is returned when the host clipboard cannot be read.
	ErrClipboardUnavailable = errors.New("clipboard unavailable")
	// ErrMalformedResponse is returned when a response body lacks the expected shape.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrEmptyText is returned when there is nothing to capture or search for.
	ErrEmptyText = errors.New("text is empty")
)

// UpstreamError reports a non-success HTTP status from the Memory Store API.
type UpstreamError struct {
	Op         string
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: HTTP error! status: %d", e.Op, e.StatusCode)
}

// NetworkError reports a transport failure before any response arrived.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// StatusCode returns the upstream HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.StatusCode
	}
	return 0
}
