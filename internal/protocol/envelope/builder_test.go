package envelope

import (
	"bytes"
	"errors"
	"testing"

	"github.com/danmuck/edgeapi/internal/testutil/testlog"
)

var errBody = errors.New("body: refused")

type failingBody struct{}

func (failingBody) MarshalCBOR() ([]byte, error) {
	return nil, errBody
}

var errSink = errors.New("sink: closed")

type failingWriter struct {
	writes int
	failAt int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	w.writes++
	if w.writes >= w.failAt {
		return 0, errSink
	}
	return len(p), nil
}

type nodeInfo struct {
	Name  string `cbor:"1,keyasint"`
	Ready bool   `cbor:"2,keyasint"`
}

func TestRequestBuilderBodySetsHasBody(t *testing.T) {
	testlog.Start(t)
	builders := map[string]*RequestBuilder[None]{
		"get":    Get("/a"),
		"post":   Post("/a"),
		"put":    Put("/a"),
		"delete": Delete("/a"),
		"patch":  Patch("/a"),
	}
	for name, b := range builders {
		if b.Header().HasBody() {
			t.Fatalf("%s: bodyless builder has has_body=true", name)
		}
		withBody := RequestBody(b, nodeInfo{Name: "n1"})
		if !withBody.Header().HasBody() {
			t.Fatalf("%s: has_body not set after attaching body", name)
		}
	}
}

func TestConvenienceConstructorsFixMethodAndStatus(t *testing.T) {
	testlog.Start(t)
	if m, _ := Delete("/x").Header().Method(); m != MethodDelete {
		t.Fatalf("unexpected method: %v", m)
	}
	re := FreshID()
	statuses := map[Status]*ResponseBuilder[None]{
		StatusOK:             OK(re),
		StatusBadRequest:     BadRequest(re),
		StatusNotFound:       NotFound(re),
		StatusNotImplemented: NotImplemented(re),
	}
	for want, b := range statuses {
		if s, ok := b.Header().Status(); !ok || s != want {
			t.Fatalf("unexpected status: got=%v want=%v", s, want)
		}
		if b.Header().Re() != re {
			t.Fatalf("unexpected re for %v", want)
		}
	}
}

func TestBodylessBuilderWritesHeaderOnly(t *testing.T) {
	testlog.Start(t)
	var buf bytes.Buffer
	if err := Post("/nodes").Encode(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	var req Request
	rest, err := Decode(buf.Bytes(), &req)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if req.HasBody() || len(rest) != 0 {
		t.Fatalf("has_body=%v trailing=%d", req.HasBody(), len(rest))
	}

	buf.Reset()
	if err := NotFound(req.ID()).Encode(&buf); err != nil {
		t.Fatalf("encode response: %v", err)
	}
	var resp Response
	rest, err = Decode(buf.Bytes(), &resp)
	if err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.HasBody() || len(rest) != 0 || resp.Re() != req.ID() {
		t.Fatalf("unexpected response: %+v trailing=%d", resp, len(rest))
	}
}

func TestBuilderSettersReplaceFields(t *testing.T) {
	testlog.Start(t)
	req := Get("/a").ID(42).Path("/b").Method(MethodPatch).Header()
	if req.ID() != 42 || req.Path() != "/b" {
		t.Fatalf("unexpected header: %+v", req)
	}
	if m, ok := req.Method(); !ok || m != MethodPatch {
		t.Fatalf("unexpected method: %v", m)
	}

	resp := ResponseBody(OK(1), "x").ID(7).Re(9).Status(StatusUnauthorized).Header()
	if resp.ID() != 7 || resp.Re() != 9 || !resp.HasBody() {
		t.Fatalf("unexpected header: %+v", resp)
	}
	if s, _ := resp.Status(); s != StatusUnauthorized {
		t.Fatalf("unexpected status: %v", s)
	}
}

func TestIntoParts(t *testing.T) {
	testlog.Start(t)
	header, _, ok := Get("/a").IntoParts()
	if ok || header.Path() != "/a" {
		t.Fatalf("bodyless builder returned a body")
	}
	rheader, body, ok := ResponseBody(OK(header.ID()), nodeInfo{Name: "n1", Ready: true}).IntoParts()
	if !ok || body.Name != "n1" || !body.Ready || rheader.Re() != header.ID() {
		t.Fatalf("unexpected parts: %+v %+v %v", rheader, body, ok)
	}
}

func TestBuilderEncodesHeaderThenBody(t *testing.T) {
	testlog.Start(t)
	req := NewRequest(MethodGet, "/nodes/n1", false)
	b := ResponseBody(OK(req.ID()), nodeInfo{Name: "n1", Ready: true})

	var buf bytes.Buffer
	if err := b.Encode(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}

	header, body, _ := b.IntoParts()
	var want bytes.Buffer
	if err := Encode(&want, header); err != nil {
		t.Fatalf("encode header: %v", err)
	}
	if err := Encode(&want, body); err != nil {
		t.Fatalf("encode body: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), want.Bytes()) {
		t.Fatalf("builder output differs from header+body")
	}

	var resp Response
	rest, err := Decode(buf.Bytes(), &resp)
	if err != nil {
		t.Fatalf("decode header: %v", err)
	}
	var got nodeInfo
	if _, err := Decode(rest, &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got != (nodeInfo{Name: "n1", Ready: true}) {
		t.Fatalf("unexpected body: %+v", got)
	}
}

func TestErrorBodyInFailureResponse(t *testing.T) {
	testlog.Start(t)
	req := NewRequest(MethodDelete, "/nodes/n9", false)
	m, _ := req.Method()
	var buf bytes.Buffer
	err := ResponseBody(
		NotFound(req.ID()),
		NewError(req.Path()).WithMethod(m).WithMessage("node not found"),
	).Encode(&buf)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var resp Response
	rest, err := Decode(buf.Bytes(), &resp)
	if err != nil {
		t.Fatalf("decode header: %v", err)
	}
	if s, _ := resp.Status(); s != StatusNotFound || !resp.HasBody() {
		t.Fatalf("unexpected header: %+v", resp)
	}
	var e Error
	if _, err := Decode(rest, &e); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if e.Error() != "DELETE /nodes/n9: node not found" {
		t.Fatalf("unexpected error body: %q", e.Error())
	}
}

func TestBodyEncodeErrorPropagates(t *testing.T) {
	testlog.Start(t)
	var buf bytes.Buffer
	err := RequestBody(Post("/a"), failingBody{}).Encode(&buf)
	if !errors.Is(err, errBody) {
		t.Fatalf("expected body error, got %v", err)
	}
}

func TestWriterErrorPropagates(t *testing.T) {
	testlog.Start(t)
	for _, failAt := range []int{1, 2} {
		w := &failingWriter{failAt: failAt}
		err := RequestBody(Post("/a"), "body").Encode(w)
		if !errors.Is(err, errSink) {
			t.Fatalf("failAt=%d: expected sink error, got %v", failAt, err)
		}
	}
}

func TestHeaderEncodeErrorStopsBeforeBody(t *testing.T) {
	testlog.Start(t)
	var buf bytes.Buffer
	err := RequestBody(Get("/a").Method(Method(42)), "body").Encode(&buf)
	if !errors.Is(err, ErrUnknownMethod) {
		t.Fatalf("expected ErrUnknownMethod, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("wrote %d bytes after header failure", buf.Len())
	}
}
