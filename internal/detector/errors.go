package detector

import (
	"errors"
	"fmt"
)

// NetworkError means the request could not be sent or its response could not
// be read. Non-success HTTP statuses are wrapped here as a StatusError.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *NetworkError) Unwrap() error { return e.Err }

// StatusError carries a non-success HTTP reply.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api %s returned status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("api %s returned status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// ParseError means the response body did not match the expected shape.
type ParseError struct {
	Op  string
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *ParseError) Unwrap() error { return e.Err }

// Describe turns an error from this package into a short message for the
// operator.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var (
		status  *StatusError
		network *NetworkError
		parse   *ParseError
	)
	switch {
	case errors.As(err, &status):
		return fmt.Sprintf("The analysis service answered with HTTP %d. Try again or reset.", status.StatusCode)
	case errors.As(err, &network):
		return "Could not reach the analysis service. Check that it is running and try again."
	case errors.As(err, &parse):
		return "The analysis service returned a response that could not be read."
	default:
		return err.Error()
	}
}
