package tmdb

import (
	"errors"
	"fmt"
)

// DefaultSoftMessage is shown when the provider flags a failure without
// saying why.
const DefaultSoftMessage = "Failed to fetch movies."

var (
	// ErrTransport matches every *TransportError.
	ErrTransport = errors.New("tmdb: transport failure")
	// ErrProviderSoft matches every *ProviderSoftError.
	ErrProviderSoft = errors.New("tmdb: provider reported failure")
)

// TransportError means the request never produced a usable response: the
// network failed, the status was not 2xx, or the body could not be decoded.
type TransportError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("tmdb: GET %s returned %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("tmdb: GET %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// ProviderSoftError means the response parsed but its payload signals failure.
// Message is safe to show to users.
type ProviderSoftError struct {
	Endpoint string
	Message  string
}

func (e *ProviderSoftError) Error() string {
	return fmt.Sprintf("tmdb: GET %s: provider failure: %s", e.Endpoint, e.Message)
}

func (e *ProviderSoftError) Is(target error) bool { return target == ErrProviderSoft }
