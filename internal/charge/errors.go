package charge

import (
	"errors"
	"fmt"
)

var (
	// ErrChargeIDMissing means a mutating operation was invoked before a
	// charge identifier exists locally. Workflow error, no gateway call made.
	ErrChargeIDMissing = errors.New("charge id has not been set")

	// ErrChargeIDNotReturned means the gateway answered a create call
	// without an id field.
	ErrChargeIDNotReturned = errors.New("charge id not returned from gateway")

	ErrVoidNotAvailable = errors.New("void action is not available")
)

// MalformedResponseError means transport succeeded but the body is not valid
// JSON. Raw carries the undecodable body for operator diagnosis.
type MalformedResponseError struct {
	Raw string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("invalid gateway response: %s", e.Raw)
}

// GatewayRejectedError is the gateway's own business failure: the decoded
// body carried a status_code, regardless of the HTTP transport status.
type GatewayRejectedError struct {
	StatusCode int
	Message    string
}

func (e *GatewayRejectedError) Error() string {
	return fmt.Sprintf("gateway error code %d: %s", e.StatusCode, e.Message)
}

// TransportError is a network-level failure. The request may or may not have
// reached the gateway, which is why nothing here retries automatically.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("gateway transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
