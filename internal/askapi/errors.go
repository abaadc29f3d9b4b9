package askapi

import (
	"fmt"
)

// GenericErrorMessage is shown when a failure carries no message of its own.
const GenericErrorMessage = "Unexpected error while calling API."

// ValidationError is raised before any network call is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ErrEmptyQuery is returned for queries that are empty after trimming.
var ErrEmptyQuery = &ValidationError{Message: "Please enter a query."}

// TransportError wraps a network-level failure: the request never produced
// an HTTP response, or its body could not be read.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is a non-2xx response. Detail is the server's "detail" string,
// used verbatim when present.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("Request failed (%d)", e.StatusCode)
}

// DecodeError is a 2xx response whose body is not a JSON object.
type DecodeError struct {
	StatusCode int
	Reason     string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid response from server (%d): %s", e.StatusCode, e.Reason)
}
