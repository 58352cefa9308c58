package sim

import (
	"errors"
	"fmt"
)

// Ways a reference sequence can be rejected.
var (
	ErrNoReferences      = errors.New("reference list is empty")
	ErrNegativeAddress   = errors.New("address must not be negative")
	ErrAddressOutOfRange = errors.New("address must be below memory size")
)

// ReferenceError reports a memory reference that cannot be simulated. The
// whole run is rejected; no reference is skipped.
type ReferenceError struct {
	// Position is the 0-based index of the reference, or -1 when the error
	// concerns the list as a whole.
	Position int
	Address  int64
	Err      error
}

func (e *ReferenceError) Error() string {
	if e.Position < 0 {
		return e.Err.Error()
	}

	return fmt.Sprintf("reference %d (address %d): %v", e.Position, e.Address, e.Err)
}

func (e *ReferenceError) Unwrap() error {
	return e.Err
}
