// ABOUTME: Error kinds returned by the admin registry, guard and dispatch
// ABOUTME: Sentinels for errors.Is plus AddressError for conversion failures

package admin

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned when the sender is not in the admin set.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound is returned when the admin set has never been written.
	ErrNotFound = errors.New("admin set not found")

	// ErrUnknownMessage is returned for a message with no recognised variant.
	ErrUnknownMessage = errors.New("unknown message variant")
)

// Conversion directions reported by AddressError.
const (
	OpCanonicalize = "canonicalize"
	OpHumanize     = "humanize"
)

// AddressError reports an address that the host Api could not convert.
type AddressError struct {
	Op      string // OpCanonicalize or OpHumanize
	Address string // human address, or hex of the canonical bytes
	Err     error
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("%s address %q: %v", e.Op, e.Address, e.Err)
}

func (e *AddressError) Unwrap() error {
	return e.Err
}
