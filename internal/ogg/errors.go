package ogg

import (
	"errors"
	"fmt"

	"github.com/zsiec/oggscope/internal/cursor"
)

// Sentinel errors for page decoding and index lookups. These enable
// callers to distinguish failure modes using errors.Is.
var (
	ErrMalformedHeader    = errors.New("ogg: malformed page header")
	ErrUnsupportedVersion = errors.New("ogg: unsupported stream structure version")
	ErrNotFound           = errors.New("ogg: page not found")
	ErrChecksumMismatch   = errors.New("ogg: checksum mismatch")

	// ErrOutOfBounds is returned unchanged from the cursor when a page is
	// truncated.
	ErrOutOfBounds = cursor.ErrOutOfBounds
)

// HeaderError reports a header field holding a value other than the one
// required. It unwraps to ErrMalformedHeader or ErrUnsupportedVersion.
type HeaderError struct {
	Field    string
	Expected uint32
	Actual   uint32
	Offset   int
	kind     error
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("ogg: %s at offset %d: expected 0x%X, got 0x%X",
		e.Field, e.Offset, e.Expected, e.Actual)
}

func (e *HeaderError) Unwrap() error {
	return e.kind
}

// ChecksumError reports a page whose stored checksum does not match the
// checksum computed over its bytes.
type ChecksumError struct {
	Index    int
	Stored   uint32
	Computed uint32
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("ogg: page %d: stored checksum 0x%08X, computed 0x%08X",
		e.Index, e.Stored, e.Computed)
}

func (e *ChecksumError) Unwrap() error {
	return ErrChecksumMismatch
}
