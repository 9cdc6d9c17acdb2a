package envelope

import (
	"fmt"
	"sync/atomic"

	"github.com/danmuck/edgeapi/internal/protocol/schema"
)

type tagKind interface {
	tagValue() uint64
}

type requestKind struct{}

func (requestKind) tagValue() uint64 { return schema.TagRequest }

type responseKind struct{}

func (responseKind) tagValue() uint64 { return schema.TagResponse }

type errorKind struct{}

func (errorKind) tagValue() uint64 { return schema.TagError }

// TypeTag is a zero-size marker that encodes as the constant of its kind.
//
// It helps catch nominal type errors where encoded maps structurally match
// several envelope types, e.g. decoding a response as a request. Decoding a
// different number fails with *TagMismatchError. A missing tag is valid.
type TypeTag[K tagKind] struct{}

type (
	RequestTag  = TypeTag[requestKind]
	ResponseTag = TypeTag[responseKind]
	ErrorTag    = TypeTag[errorKind]
)

// Value returns the tag number.
func (TypeTag[K]) Value() uint64 {
	var k K
	return k.tagValue()
}

func (t TypeTag[K]) String() string {
	return fmt.Sprintf("TypeTag(%d)", t.Value())
}

func (t TypeTag[K]) MarshalCBOR() ([]byte, error) {
	return encMode.Marshal(t.Value())
}

func (t *TypeTag[K]) UnmarshalCBOR(data []byte) error {
	var got uint64
	if err := decMode.Unmarshal(data, &got); err != nil {
		return err
	}
	if want := t.Value(); got != want {
		return &TagMismatchError{Expected: want, Got: got}
	}
	return nil
}

var typeTags atomic.Bool

// SetTypeTags switches emission of type tags for all envelopes encoded by
// this process. Decoding validates tags that are present either way.
func SetTypeTags(enabled bool) {
	typeTags.Store(enabled)
}

func TypeTagsEnabled() bool {
	return typeTags.Load()
}

func tagFor[K tagKind]() *TypeTag[K] {
	if !typeTags.Load() {
		return nil
	}
	return &TypeTag[K]{}
}
