package fitnessapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/2beens/fittracker/internal/workouts"
)

var (
	// ErrInvalidEndpoint is returned when the request URL cannot be built,
	// e.g. a broken base URL or an empty workout id.
	ErrInvalidEndpoint = errors.New("invalid endpoint")
	// ErrMalformedRecord is returned when a mutation response body cannot be decoded.
	ErrMalformedRecord = workouts.ErrMalformedRecord
)

// TransportError means no response was received at all (connectivity, timeout, canceled ctx).
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure: %s", e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// RequestRejectedError is a response with a status the operation does not accept.
type RequestRejectedError struct {
	Status int
}

func (e *RequestRejectedError) Error() string {
	return fmt.Sprintf("request rejected: %d %s", e.Status, http.StatusText(e.Status))
}

// IsStatus reports whether err is a rejection with the given status.
func IsStatus(err error, status int) bool {
	var rejected *RequestRejectedError
	return errors.As(err, &rejected) && rejected.Status == status
}

// IsNoUsableData reports errors that mean "nothing there" rather than "something broke":
// an undecodable body or a 404.
func IsNoUsableData(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrMalformedRecord) || IsStatus(err, http.StatusNotFound)
}
