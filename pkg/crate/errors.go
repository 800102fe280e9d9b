package crate

import (
	"fmt"

	"github.com/jesseward/Serato-lib/pkg/codec"
)

// Errors
var (
	ErrIO                 = &CrateError{"crate i/o failure"}
	ErrMalformedCrate     = &CrateError{"unexpected binary file format"}
	ErrIncompleteDocument = &CrateError{"crate document is incomplete"}
	ErrDuplicateColumn    = &CrateError{"column already exists"}
	ErrColumnNotFound     = &CrateError{"column does not exist"}
	ErrDuplicateTrack     = &CrateError{"track already exists in crate"}
	ErrTrackNotFound      = &CrateError{"track does not exist in crate"}

	// ErrTruncatedInput is reported when a field runs past the end of the file.
	ErrTruncatedInput = codec.ErrTruncatedInput
)

// CrateError represents a crate codec error
type CrateError struct {
	Message string
}

func (e *CrateError) Error() string {
	return e.Message
}

// MalformedError reports the offset at which no record could start.
// Misplaced is set when Found is a known tag that is only valid inside a
// record, such as a tvcn or ptrk with no owner.
type MalformedError struct {
	Offset    int
	Found     []byte
	Misplaced bool
}

func (e *MalformedError) Error() string {
	if e.Misplaced {
		return fmt.Sprintf("%s: tag %q out of place at offset %d", ErrMalformedCrate.Message, e.Found, e.Offset)
	}
	return fmt.Sprintf("%s: unknown tag %q at offset %d", ErrMalformedCrate.Message, e.Found, e.Offset)
}

func (e *MalformedError) Unwrap() error {
	return ErrMalformedCrate
}

// IOError wraps a failure to read or write a crate file
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap exposes both ErrIO and the underlying error to errors.Is.
func (e *IOError) Unwrap() []error {
	return []error{ErrIO, e.Err}
}
