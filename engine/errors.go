package engine

import (
	"errors"
	"fmt"
)

// ErrDataUnavailable marks a missing or unreadable source, or a source
// lacking a required column. Callers treat it as "no data" and stop.
var ErrDataUnavailable = errors.New("data unavailable")

// ErrUnknownDimension is returned for a filter dimension the active
// variant does not expose.
var ErrUnknownDimension = errors.New("unknown filter dimension")

// DataUnavailableError carries the source and reason behind ErrDataUnavailable.
type DataUnavailableError struct {
	Source string
	Reason string
	Err    error
}

func (e *DataUnavailableError) Error() string {
	msg := fmt.Sprintf("%v: %s", ErrDataUnavailable, e.Reason)
	if e.Source != "" {
		msg = fmt.Sprintf("%v (%s): %s", ErrDataUnavailable, e.Source, e.Reason)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is makes errors.Is(err, ErrDataUnavailable) hold.
func (e *DataUnavailableError) Is(target error) bool {
	return target == ErrDataUnavailable
}

func (e *DataUnavailableError) Unwrap() error { return e.Err }

// Unavailable builds a DataUnavailableError.
func Unavailable(source, reason string, err error) error {
	return &DataUnavailableError{Source: source, Reason: reason, Err: err}
}
