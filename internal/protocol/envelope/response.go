package envelope

import "github.com/danmuck/edgeapi/internal/protocol/schema"

// Response is a response header. Re is the id of the request it answers.
type Response struct {
	id ID
	re ID
	// status is optional for the same reason as Request.method.
	status    Status
	hasStatus bool
	hasBody   bool
}

type responseWire struct {
	Tag     *ResponseTag `cbor:"0,keyasint,omitempty"`
	ID      *ID          `cbor:"1,keyasint,omitempty"`
	Re      *ID          `cbor:"2,keyasint,omitempty"`
	Status  *uint64      `cbor:"3,keyasint,omitempty"`
	HasBody *bool        `cbor:"4,keyasint,omitempty"`
}

func (w *responseWire) has(key uint64) bool {
	switch key {
	case schema.KeyResponseID:
		return w.ID != nil
	case schema.KeyResponseRe:
		return w.Re != nil
	case schema.KeyResponseStatus:
		return w.Status != nil
	case schema.KeyResponseHasBody:
		return w.HasBody != nil
	}
	return false
}

// NewResponse returns a response header with a fresh id answering re.
func NewResponse(re ID, status Status, hasBody bool) Response {
	return Response{
		id:        FreshID(),
		re:        re,
		status:    status,
		hasStatus: true,
		hasBody:   hasBody,
	}
}

func (r Response) ID() ID {
	return r.id
}

func (r Response) Re() ID {
	return r.re
}

// Status returns the status code. ok is false when it was absent or unknown.
func (r Response) Status() (s Status, ok bool) {
	return r.status, r.hasStatus
}

func (r Response) HasBody() bool {
	return r.hasBody
}

func (r Response) MarshalCBOR() ([]byte, error) {
	w := responseWire{
		Tag:     tagFor[responseKind](),
		ID:      &r.id,
		Re:      &r.re,
		HasBody: &r.hasBody,
	}
	if r.hasStatus {
		if !r.status.Known() {
			return nil, ErrUnknownStatus
		}
		code := uint64(r.status)
		w.Status = &code
	}
	return encMode.Marshal(w)
}

func (r *Response) UnmarshalCBOR(data []byte) error {
	var w responseWire
	if err := decMode.Unmarshal(data, &w); err != nil {
		return decodeFailure("response", err)
	}
	if err := schema.Validate(schema.TagResponse, w.has); err != nil {
		return &DecodeError{Envelope: "response", Err: err}
	}
	*r = Response{id: *w.ID, re: *w.Re, hasBody: *w.HasBody}
	if w.Status != nil {
		r.status, r.hasStatus = statusFromCode(*w.Status)
	}
	return nil
}
