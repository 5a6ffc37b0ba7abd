package models

import (
	"errors"
	"fmt"
)

var (
	// ErrDataUnavailable is returned when the market-data provider has no bars for a request.
	ErrDataUnavailable = errors.New("market data unavailable")
	// ErrMalformedBar marks bar input that cannot be used for computation.
	ErrMalformedBar = errors.New("malformed bar")
	// ErrInvalidSymbol rejects blank or oversized symbols before any fetch.
	ErrInvalidSymbol = errors.New("invalid symbol")
)

// ComputationError aborts an indicator computation over structurally invalid bars.
type ComputationError struct {
	Index  int
	Reason string
	Err    error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("indicator computation: bar %d: %s", e.Index, e.Reason)
}

func (e *ComputationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrMalformedBar
}
