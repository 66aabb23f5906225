package estimator

import (
	"errors"
	"fmt"
)

// Kind classifies why an estimate failed.
type Kind int

const (
	// TransportFailure means the request did not produce a usable reply
	// envelope: network error, non-success status, or undecodable body.
	TransportFailure Kind = iota + 1
	// MalformedResponse means the reply arrived but its content was not the
	// expected JSON object.
	MalformedResponse
)

func (k Kind) String() string {
	switch k {
	case TransportFailure:
		return "transport_failure"
	case MalformedResponse:
		return "malformed_response"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

var (
	// ErrEmptyDescription is returned when Estimate is called with blank input.
	ErrEmptyDescription = errors.New("food description is empty")

	ErrTransportFailure  = errors.New("inference request failed")
	ErrMalformedResponse = errors.New("inference reply is not a nutrition object")
)

// EstimationError is the error returned by Estimate for every failure after
// input validation. Use errors.Is with ErrTransportFailure or
// ErrMalformedResponse, or errors.As to inspect Kind.
type EstimationError struct {
	Kind Kind
	Err  error
}

func (e *EstimationError) Error() string {
	return fmt.Sprintf("%s: %v", e.sentinel(), e.Err)
}

func (e *EstimationError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match the kind sentinel as well as the wrapped cause.
func (e *EstimationError) Is(target error) bool {
	return target == e.sentinel()
}

func (e *EstimationError) sentinel() error {
	if e.Kind == TransportFailure {
		return ErrTransportFailure
	}
	return ErrMalformedResponse
}

func transportError(err error) error {
	return &EstimationError{Kind: TransportFailure, Err: err}
}

func malformedError(format string, args ...any) error {
	return &EstimationError{Kind: MalformedResponse, Err: fmt.Errorf(format, args...)}
}
