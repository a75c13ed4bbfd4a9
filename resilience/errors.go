package resilience

import (
	"errors"
	"strconv"
)

// Sentinel errors for resilience operations.
var (
	// ErrCircuitOpen is returned when the circuit breaker refuses a call.
	// It is distinct from any error produced by the wrapped operation.
	ErrCircuitOpen = errors.New("resilience: circuit breaker is open")

	// ErrTimeout is returned when an operation exceeds its deadline.
	ErrTimeout = errors.New("resilience: operation timed out")

	// ErrTooManyInFlight is returned when the in-flight cap is reached.
	ErrTooManyInFlight = errors.New("resilience: too many in-flight calls")

	// ErrRateLimited is returned when a provider budget is exhausted.
	ErrRateLimited = errors.New("resilience: provider rate limit exceeded")
)

// UpstreamError carries a provider failure together with the short machine
// code the retry classifier matches on. Gateway code wraps transport and
// provider errors in UpstreamError so classification does not have to parse
// message text when a code is available.
type UpstreamError struct {
	// Code is a short machine code such as "ECONNRESET" or "529".
	Code string

	// Status is the HTTP status when the failure came from a response.
	// It is used as the code when Code is empty.
	Status int

	// Message is the human-readable failure description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.ErrorCode()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// ErrorCode returns Code, falling back to the HTTP status as a string.
func (e *UpstreamError) ErrorCode() string {
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return strconv.Itoa(e.Status)
	}
	return ""
}
