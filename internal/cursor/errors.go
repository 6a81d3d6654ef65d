package cursor

import (
	"errors"
	"fmt"
)

// Sentinel errors for cursor reads. Use errors.Is to match them through
// the typed errors below.
var (
	ErrOutOfBounds     = errors.New("cursor: read out of bounds")
	ErrInvalidArgument = errors.New("cursor: invalid argument")
)

// BoundsError reports a read that asked for more bytes than remain.
type BoundsError struct {
	Offset    int
	Want      int
	Remaining int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("cursor: read of %d bytes at offset %d out of bounds (%d remaining)",
		e.Want, e.Offset, e.Remaining)
}

func (e *BoundsError) Unwrap() error {
	return ErrOutOfBounds
}

// ArgumentError reports misuse of the Cursor API rather than bad data.
type ArgumentError struct {
	Op string
	N  int
}

func (e *ArgumentError) Error() string {
	if e.Op == "ReadView" {
		return fmt.Sprintf("cursor: %s: negative length %d", e.Op, e.N)
	}
	return fmt.Sprintf("cursor: %s: width %d not in [1, %d]", e.Op, e.N, maxUintBytes)
}

func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}
