package envelope

import "io"

// None is the body type of a builder that has no body attached.
type None struct{}

// RequestBuilder assembles a request header and an optional body of type T.
// A builder is created without a body; RequestBody attaches one, which
// fixes T and sets the header's has_body flag.
type RequestBuilder[T any] struct {
	header   Request
	body     T
	withBody bool
}

func NewRequestBuilder(method Method, path string) *RequestBuilder[None] {
	return &RequestBuilder[None]{header: NewRequest(method, path, false)}
}

func Get(path string) *RequestBuilder[None] {
	return NewRequestBuilder(MethodGet, path)
}

func Post(path string) *RequestBuilder[None] {
	return NewRequestBuilder(MethodPost, path)
}

func Put(path string) *RequestBuilder[None] {
	return NewRequestBuilder(MethodPut, path)
}

func Delete(path string) *RequestBuilder[None] {
	return NewRequestBuilder(MethodDelete, path)
}

func Patch(path string) *RequestBuilder[None] {
	return NewRequestBuilder(MethodPatch, path)
}

// RequestBody attaches body to a bodyless builder.
func RequestBody[T any](b *RequestBuilder[None], body T) *RequestBuilder[T] {
	header := b.header
	header.hasBody = true
	return &RequestBuilder[T]{header: header, body: body, withBody: true}
}

func (b *RequestBuilder[T]) ID(id ID) *RequestBuilder[T] {
	b.header.id = id
	return b
}

func (b *RequestBuilder[T]) Path(path string) *RequestBuilder[T] {
	b.header.path = OwnedStr(path)
	return b
}

func (b *RequestBuilder[T]) Method(m Method) *RequestBuilder[T] {
	b.header.method, b.header.hasMethod = m, true
	return b
}

func (b *RequestBuilder[T]) Header() Request {
	return b.header
}

// IntoParts returns the header and, when ok, the body.
func (b *RequestBuilder[T]) IntoParts() (header Request, body T, ok bool) {
	return b.header, b.body, b.withBody
}

// Encode writes the header followed by the body, if any, to w.
func (b *RequestBuilder[T]) Encode(w io.Writer) error {
	return encodeParts(w, b.header, b.body, b.withBody)
}

// ResponseBuilder assembles a response header and an optional body of type T.
type ResponseBuilder[T any] struct {
	header   Response
	body     T
	withBody bool
}

func NewResponseBuilder(re ID, status Status) *ResponseBuilder[None] {
	return &ResponseBuilder[None]{header: NewResponse(re, status, false)}
}

func OK(re ID) *ResponseBuilder[None] {
	return NewResponseBuilder(re, StatusOK)
}

func BadRequest(re ID) *ResponseBuilder[None] {
	return NewResponseBuilder(re, StatusBadRequest)
}

func NotFound(re ID) *ResponseBuilder[None] {
	return NewResponseBuilder(re, StatusNotFound)
}

func NotImplemented(re ID) *ResponseBuilder[None] {
	return NewResponseBuilder(re, StatusNotImplemented)
}

// ResponseBody attaches body to a bodyless builder.
func ResponseBody[T any](b *ResponseBuilder[None], body T) *ResponseBuilder[T] {
	header := b.header
	header.hasBody = true
	return &ResponseBuilder[T]{header: header, body: body, withBody: true}
}

func (b *ResponseBuilder[T]) ID(id ID) *ResponseBuilder[T] {
	b.header.id = id
	return b
}

func (b *ResponseBuilder[T]) Re(re ID) *ResponseBuilder[T] {
	b.header.re = re
	return b
}

func (b *ResponseBuilder[T]) Status(s Status) *ResponseBuilder[T] {
	b.header.status, b.header.hasStatus = s, true
	return b
}

func (b *ResponseBuilder[T]) Header() Response {
	return b.header
}

func (b *ResponseBuilder[T]) IntoParts() (header Response, body T, ok bool) {
	return b.header, b.body, b.withBody
}

func (b *ResponseBuilder[T]) Encode(w io.Writer) error {
	return encodeParts(w, b.header, b.body, b.withBody)
}

func encodeParts(w io.Writer, header, body any, withBody bool) error {
	if err := Encode(w, header); err != nil {
		return err
	}
	if !withBody {
		return nil
	}
	return Encode(w, body)
}
