package envelope

import (
	"io"

	"github.com/fxamacker/cbor/v2"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	// Core deterministic encoding sorts map keys, so equal envelopes always
	// produce equal bytes.
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	decMode, err = cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

// Marshal returns the deterministic encoding of v.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Encode writes the encoding of v to w. Errors from v's own MarshalCBOR and
// from w are returned unchanged.
func Encode(w io.Writer, v any) error {
	b, err := encMode.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// Decode reads exactly one item from data into v and returns the bytes that
// follow it, typically the body of the message whose header was just read.
func Decode(data []byte, v any) ([]byte, error) {
	rest, err := decMode.UnmarshalFirst(data, v)
	if err != nil {
		return nil, decodeFailure("", err)
	}
	return rest, nil
}
