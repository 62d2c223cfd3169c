package backend

import (
	"context"
	"errors"
	"fmt"
)

// TransportError is returned when the request never produced a response.
type TransportError struct {
	Method   string
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError is returned for non-2xx responses. Message carries the body's
// "error" field when the backend sent one.
type APIError struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Endpoint, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: status %d", e.Endpoint, e.Status)
}

// DecodeError is returned when a 2xx body is not the JSON the caller expected.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: invalid response body: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ValidationError is raised before a request is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Message renders err as the inline text a panel shows.
// fallback is used when the backend gave no reason.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var (
		ve *ValidationError
		ae *APIError
		te *TransportError
		de *DecodeError
	)
	switch {
	case errors.As(err, &ve):
		return ve.Message
	case errors.As(err, &ae):
		if ae.Message != "" {
			return ae.Message
		}
		return fallback
	case errors.Is(err, context.Canceled):
		return "Request cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		return "Network error: the prediction service did not respond in time"
	case errors.As(err, &te):
		return "Network error: unable to reach the prediction service"
	case errors.As(err, &de):
		return "Unexpected response from the prediction service"
	default:
		return fallback
	}
}
