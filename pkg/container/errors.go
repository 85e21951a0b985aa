package container

import (
	"errors"
	"fmt"

	"github.com/EchoTools/resbundle/pkg/offsets"
)

var (
	// ErrMalformedHeader is returned when the offset table is truncated.
	ErrMalformedHeader = offsets.ErrMalformedHeader

	// ErrTrailingData is matched by every *TrailingDataError.
	ErrTrailingData = errors.New("trailing data after last resource")

	// ErrInconsistentState is returned by Write when the offset table and the
	// encoded resources disagree.
	ErrInconsistentState = errors.New("inconsistent container state")
)

// TrailingDataError reports that decoding finished before the end of the stream.
type TrailingDataError struct {
	Position int64 // cursor position after the last resource
	Length   int64 // total stream length
}

func (e *TrailingDataError) Error() string {
	return fmt.Sprintf("%v: stopped at %d of %d bytes", ErrTrailingData, e.Position, e.Length)
}

// Is makes errors.Is(err, ErrTrailingData) match.
func (e *TrailingDataError) Is(target error) bool {
	return target == ErrTrailingData
}
