package openaicompat

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrNoResponse is returned when a successful response carries no choices.
var ErrNoResponse = errors.New("No response from API")

// ErrNoMessage is returned by GenerateImage when the first choice has no message.
var ErrNoMessage = errors.New("No message in response")

// TransportError wraps DNS, connect, TLS and read failures.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError is a non-2xx upstream response. Body is the raw response text.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if reason := http.StatusText(e.StatusCode); reason != "" {
		return fmt.Sprintf("API error %d %s: %s", e.StatusCode, reason, e.Body)
	}
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Body)
}

func (e *StatusError) HTTPStatusCode() int {
	return e.StatusCode
}

// DecodeError is a response body that does not have the expected JSON shape.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return e.Err.Error() }

func (e *DecodeError) Unwrap() error { return e.Err }

// NoImageError means the image model answered but no image could be found.
type NoImageError struct {
	Raw json.RawMessage
}

func (e *NoImageError) Error() string { return "No image in response" }
