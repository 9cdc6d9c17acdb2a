package envelope

import (
	"errors"
	"fmt"

	"github.com/danmuck/edgeapi/internal/protocol/schema"
)

var (
	ErrUnknownMethod = errors.New("envelope: unknown method")
	ErrUnknownStatus = errors.New("envelope: unknown status")
	ErrInvalidUTF8   = errors.New("envelope: invalid utf-8 in text string")
)

// TagMismatchError reports a type tag that differs from the one expected for
// the envelope being decoded.
type TagMismatchError struct {
	Expected uint64
	Got      uint64
}

func (e *TagMismatchError) Error() string {
	return fmt.Sprintf(
		"envelope: %s type tag mismatch (expected %d, got %d)",
		schema.Name(e.Expected),
		e.Expected,
		e.Got,
	)
}

// DecodeError wraps malformed input, fields of the wrong shape and missing
// required fields.
type DecodeError struct {
	Envelope string
	Err      error
}

func (e *DecodeError) Error() string {
	if e.Envelope == "" {
		return fmt.Sprintf("envelope: decode: %v", e.Err)
	}
	return fmt.Sprintf("envelope: decode %s: %v", e.Envelope, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func decodeFailure(envelope string, err error) error {
	var tm *TagMismatchError
	if errors.As(err, &tm) {
		return tm
	}
	var de *DecodeError
	if errors.As(err, &de) {
		return de
	}
	return &DecodeError{Envelope: envelope, Err: err}
}
