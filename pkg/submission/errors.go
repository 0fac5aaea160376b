package submission

import (
	"errors"
	"fmt"
)

var (
	// ErrEndpointRequired is returned when a pipeline is built without an
	// endpoint.
	ErrEndpointRequired = errors.New("submission: endpoint is required")
	// ErrEndpointURL is returned when the endpoint URL cannot be resolved.
	ErrEndpointURL = errors.New("submission: invalid endpoint url")
	// ErrNullResponse is the cause of the network failure reported for a
	// reply body of JSON null.
	ErrNullResponse = errors.New("submission: response is null")
)

// NetworkError wraps a transport level failure of the remote call.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	if e == nil || e.Err == nil {
		return "submission: network failure"
	}
	return fmt.Sprintf("submission: network failure: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
