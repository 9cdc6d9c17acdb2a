package envelope

import (
	"strings"

	"github.com/danmuck/edgeapi/internal/protocol/schema"
)

// Error is carried as the body of failure responses. It gives the path and
// method of the failed request and a human readable message.
type Error struct {
	path       CowStr
	method     Method
	hasMethod  bool
	message    CowStr
	hasMessage bool
}

type errorWire struct {
	Tag     *ErrorTag `cbor:"0,keyasint,omitempty"`
	Path    *CowStr   `cbor:"1,keyasint,omitempty"`
	Method  *uint64   `cbor:"2,keyasint,omitempty"`
	Message *CowStr   `cbor:"3,keyasint,omitempty"`
}

func (w *errorWire) has(key uint64) bool {
	switch key {
	case schema.KeyErrorPath:
		return w.Path != nil
	case schema.KeyErrorMethod:
		return w.Method != nil
	case schema.KeyErrorMessage:
		return w.Message != nil
	}
	return false
}

func NewError(path string) Error {
	return Error{path: OwnedStr(path)}
}

func (e Error) WithMethod(m Method) Error {
	e.method, e.hasMethod = m, true
	return e
}

func (e Error) WithMessage(msg string) Error {
	e.message, e.hasMessage = OwnedStr(msg), true
	return e
}

func (e Error) Path() string {
	return e.path.String()
}

func (e Error) Method() (m Method, ok bool) {
	return e.method, e.hasMethod
}

func (e Error) Message() (msg string, ok bool) {
	return e.message.String(), e.hasMessage
}

// Error formats the envelope as "METHOD path: message", leaving out the
// parts that are absent.
func (e Error) Error() string {
	var b strings.Builder
	if m, ok := e.Method(); ok {
		b.WriteString(m.String())
		b.WriteByte(' ')
	}
	b.WriteString(e.Path())
	if msg, ok := e.Message(); ok {
		b.WriteString(": ")
		b.WriteString(msg)
	}
	return b.String()
}

func (e Error) MarshalCBOR() ([]byte, error) {
	w := errorWire{
		Tag:  tagFor[errorKind](),
		Path: &e.path,
	}
	if e.hasMethod {
		if !e.method.Known() {
			return nil, ErrUnknownMethod
		}
		code := uint64(e.method)
		w.Method = &code
	}
	if e.hasMessage {
		w.Message = &e.message
	}
	return encMode.Marshal(w)
}

func (e *Error) UnmarshalCBOR(data []byte) error {
	var w errorWire
	if err := decMode.Unmarshal(data, &w); err != nil {
		return decodeFailure("error", err)
	}
	if err := schema.Validate(schema.TagError, w.has); err != nil {
		return &DecodeError{Envelope: "error", Err: err}
	}
	*e = Error{path: *w.Path}
	if w.Method != nil {
		e.method, e.hasMethod = methodFromCode(*w.Method)
	}
	if w.Message != nil {
		e.message, e.hasMessage = *w.Message, true
	}
	return nil
}
