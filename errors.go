package pixparse

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by Extract matches exactly one of these
// with errors.Is.
var (
	// ErrInvalidImage is returned for a nil image or one with empty bounds.
	ErrInvalidImage = errors.New("pixparse: invalid image")

	// ErrAllocation is returned when width*height*4 overflows or exceeds the
	// extractor's byte limit.
	ErrAllocation = errors.New("pixparse: cannot allocate pixel buffer")

	// ErrDecode is returned when the source pixels cannot be rasterized,
	// for example because the backing store is truncated.
	ErrDecode = errors.New("pixparse: cannot rasterize image")
)

// ErrUnknownRasterizer is returned by New when a named backend is not registered.
var ErrUnknownRasterizer = errors.New("pixparse: unknown rasterizer")

// Error describes a failed extraction or decode.
type Error struct {
	// Op is the operation that failed, e.g. "extract" or "decode".
	Op string

	// Kind is ErrInvalidImage, ErrAllocation or ErrDecode.
	Kind error

	// Width and Height are the requested output dimensions, when known.
	Width, Height int

	// Err is the underlying cause. May be nil.
	Err error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Op != "" {
		msg = fmt.Sprintf("%s (%s", msg, e.Op)
		if e.Width != 0 || e.Height != 0 {
			msg += fmt.Sprintf(" %dx%d", e.Width, e.Height)
		}
		msg += ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
