package badminton

import (
	"errors"
	"fmt"
)

// ErrInvariant is wrapped by every internal-consistency fault.
var ErrInvariant = errors.New("badminton: invariant violated")

// InvariantError describes an internal-consistency fault and the tick it
// was detected on.
type InvariantError struct {
	Tick   uint64
	Reason string
}

func newInvariantError(tick uint64, format string, args ...any) *InvariantError {
	return &InvariantError{Tick: tick, Reason: fmt.Sprintf(format, args...)}
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("badminton: invariant violated at tick %d: %s", e.Tick, e.Reason)
}

func (e *InvariantError) Unwrap() error {
	return ErrInvariant
}
