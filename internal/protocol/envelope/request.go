package envelope

import "github.com/danmuck/edgeapi/internal/protocol/schema"

// Request is a request header.
type Request struct {
	id ID
	// path borrows from decode input when the header was decoded.
	path CowStr
	// method is optional so that methods added by newer peers decode as
	// absent instead of failing the whole header.
	method    Method
	hasMethod bool
	// hasBody reports whether a body item follows this header.
	hasBody bool
}

type requestWire struct {
	Tag     *RequestTag `cbor:"0,keyasint,omitempty"`
	ID      *ID         `cbor:"1,keyasint,omitempty"`
	Path    *CowStr     `cbor:"2,keyasint,omitempty"`
	Method  *uint64     `cbor:"3,keyasint,omitempty"`
	HasBody *bool       `cbor:"4,keyasint,omitempty"`
}

func (w *requestWire) has(key uint64) bool {
	switch key {
	case schema.KeyRequestID:
		return w.ID != nil
	case schema.KeyRequestPath:
		return w.Path != nil
	case schema.KeyRequestMethod:
		return w.Method != nil
	case schema.KeyRequestHasBody:
		return w.HasBody != nil
	}
	return false
}

// NewRequest returns a request header with a fresh id.
func NewRequest(method Method, path string, hasBody bool) Request {
	return Request{
		id:        FreshID(),
		path:      OwnedStr(path),
		method:    method,
		hasMethod: true,
		hasBody:   hasBody,
	}
}

func (r Request) ID() ID {
	return r.id
}

func (r Request) Path() string {
	return r.path.String()
}

// PathCow returns the path together with its storage mode.
func (r Request) PathCow() CowStr {
	return r.path
}

// PathSegments splits the path into at most n segments.
func (r Request) PathSegments(n int) Segments {
	return ParseSegments(r.Path(), n)
}

// Method returns the request method. ok is false when the method was absent
// or unknown to this package.
func (r Request) Method() (m Method, ok bool) {
	return r.method, r.hasMethod
}

func (r Request) HasBody() bool {
	return r.hasBody
}

func (r Request) MarshalCBOR() ([]byte, error) {
	w := requestWire{
		Tag:     tagFor[requestKind](),
		ID:      &r.id,
		Path:    &r.path,
		HasBody: &r.hasBody,
	}
	if r.hasMethod {
		if !r.method.Known() {
			return nil, ErrUnknownMethod
		}
		code := uint64(r.method)
		w.Method = &code
	}
	return encMode.Marshal(w)
}

func (r *Request) UnmarshalCBOR(data []byte) error {
	var w requestWire
	if err := decMode.Unmarshal(data, &w); err != nil {
		return decodeFailure("request", err)
	}
	if err := schema.Validate(schema.TagRequest, w.has); err != nil {
		return &DecodeError{Envelope: "request", Err: err}
	}
	*r = Request{id: *w.ID, path: *w.Path, hasBody: *w.HasBody}
	if w.Method != nil {
		r.method, r.hasMethod = methodFromCode(*w.Method)
	}
	return nil
}
