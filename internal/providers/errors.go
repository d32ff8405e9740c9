package providers

import (
	"errors"
	"fmt"
)

var (
	// ErrProviderUnavailable is returned when no upstream provider is wired.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrMalformedResponse is returned when a response body cannot be decoded.
	ErrMalformedResponse = errors.New("malformed provider response")
)

// NetworkError reports a transport failure (connection refused, timeout, ...).
type NetworkError struct {
	Provider string
	Err      error
}

func (e *NetworkError) Error() string {
	if e.Err == nil {
		return "network error"
	}
	return "network error: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError reports a non-success HTTP status from the provider.
type HTTPError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("http error: status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("http error: status %d", e.StatusCode)
}

// APIError reports a transport success whose envelope status is not the success code.
type APIError struct {
	Provider string
	Status   int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d", e.Status)
}

// AsNetworkError attempts to unwrap an error into a NetworkError.
func AsNetworkError(err error) (*NetworkError, bool) {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr, true
	}
	return nil, false
}

// AsHTTPError attempts to unwrap an error into an HTTPError.
func AsHTTPError(err error) (*HTTPError, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}

// AsAPIError attempts to unwrap an error into an APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
