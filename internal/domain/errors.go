package domain

import (
	"errors"
	"fmt"
)

// UpstreamError is the typed form of a tool adapter's error envelope: the
// upstream service answered, but with an error message instead of data. The
// message is authoritative and is relayed to the user verbatim; the workflow
// halts rather than proceeding with partial data.
//
// Transport faults and undecodable responses are ordinary wrapped errors,
// not UpstreamErrors — their text is never shown to the user.
type UpstreamError struct {
	Service string // "geocoding" or "forecast"
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s service: %s", e.Service, e.Message)
}

// AsUpstream unwraps err as an *UpstreamError if it is one.
func AsUpstream(err error) (*UpstreamError, bool) {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}
