package clf

import (
	"errors"
	"fmt"

	"github.com/robert-malhotra/go-clf/internal/binary"
)

// Common errors
var (
	// ErrCorruptFormat is returned for tags or values outside the set the
	// format defines, and for sections whose contents do not match their
	// declared lengths.
	ErrCorruptFormat = binary.ErrCorrupt

	// ErrTruncated is returned when the data ends inside a record, including
	// seek table offsets pointing past the end of the file.
	ErrTruncated = binary.ErrTruncated

	ErrUnsupported  = errors.New("unsupported feature")
	ErrUnknownModel = errors.New("unknown model")
	ErrClosed       = errors.New("file is closed")
	ErrInvalidStep  = errors.New("invalid layer step")
	ErrNoFiles      = errors.New("no layer files")
	ErrEmptyBox     = errors.New("box has no extent")
)

// TagError reports an unexpected tag inside a known section. It matches
// ErrCorruptFormat.
type TagError = binary.TagError

// UnknownModelError reports a cluster or shape naming a model that is not
// in the model table.
type UnknownModelError struct {
	ID uint64
}

func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("unknown model id %d", e.ID)
}

func (e *UnknownModelError) Unwrap() error { return ErrUnknownModel }

// UnsupportedError reports a structurally valid construct this package does
// not decode.
type UnsupportedError struct {
	Feature string
}

func (e *UnsupportedError) Error() string {
	return "unsupported feature: " + e.Feature
}

func (e *UnsupportedError) Unwrap() error { return ErrUnsupported }
