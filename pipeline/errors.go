package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrNotCached indicates a cache-only lookup found nothing.
	ErrNotCached = errors.New("image not cached")

	// ErrDecode indicates a payload that is not a decodable image. Such
	// payloads are never written to the cache tiers.
	ErrDecode = errors.New("undecodable image data")
)

// StatusError reports a non-2xx response from the image host.
type StatusError struct {
	URI        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d fetching %s", e.StatusCode, e.URI)
}

// ResponseTooLargeError reports that the image payload exceeded the limit.
type ResponseTooLargeError struct {
	Limit int64
}

func (e ResponseTooLargeError) Error() string {
	return fmt.Sprintf("response body exceeded limit of %d bytes", e.Limit)
}

// IsResponseTooLarge reports whether the error indicates a payload limit
// violation.
func IsResponseTooLarge(err error) bool {
	var limitErr ResponseTooLargeError
	return errors.As(err, &limitErr)
}
