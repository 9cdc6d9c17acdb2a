package envelope

import (
	"bytes"
	"encoding/binary"
	"strings"
	"unicode/utf8"
	"unsafe"
)

// CBOR major types of the string items CowStr and CowBytes borrow.
const (
	majorBytes byte = 2
	majorText  byte = 3
)

// CowStr is a string that borrows from decode input when it can.
//
// Decoding a definite-length text string always yields a view into the input
// buffer, also when the CowStr sits in a slice, map or pointer. Only chunked
// (indefinite-length) strings, which are not contiguous in the input, decode
// into an owned copy. A borrowed CowStr is valid while the input is unchanged.
type CowStr struct {
	s        string
	borrowed bool
}

// OwnedStr wraps a Go string. Go strings are immutable, so no copy is made.
func OwnedStr(s string) CowStr {
	return CowStr{s: s}
}

// BorrowStr views b as a string without copying. b must not be modified
// while the result is in use.
func BorrowStr(b []byte) CowStr {
	if len(b) == 0 {
		return CowStr{borrowed: true}
	}
	return CowStr{s: unsafe.String(&b[0], len(b)), borrowed: true}
}

func (c CowStr) String() string {
	return c.s
}

func (c CowStr) Len() int {
	return len(c.s)
}

func (c CowStr) IsBorrowed() bool {
	return c.borrowed
}

// ToOwned returns a copy backed by its own memory.
func (c CowStr) ToOwned() CowStr {
	return CowStr{s: strings.Clone(c.s)}
}

// IntoOwned returns a string that no longer references the decode input.
func (c CowStr) IntoOwned() string {
	if c.borrowed {
		return strings.Clone(c.s)
	}
	return c.s
}

func (c CowStr) MarshalCBOR() ([]byte, error) {
	return encMode.Marshal(c.s)
}

func (c *CowStr) UnmarshalCBOR(data []byte) error {
	if payload, ok := definiteString(data, majorText); ok {
		if !utf8.Valid(payload) {
			return ErrInvalidUTF8
		}
		*c = BorrowStr(payload)
		return nil
	}
	var s string
	if err := decMode.Unmarshal(data, &s); err != nil {
		return err
	}
	*c = CowStr{s: s}
	return nil
}

// CowBytes is a byte string that borrows from decode input when it can.
// It follows the same rules as CowStr.
type CowBytes struct {
	b        []byte
	borrowed bool
}

// OwnedBytes takes ownership of b.
func OwnedBytes(b []byte) CowBytes {
	return CowBytes{b: b}
}

// BorrowBytes views b without copying.
func BorrowBytes(b []byte) CowBytes {
	return CowBytes{b: b, borrowed: true}
}

// Bytes returns the underlying bytes. For a borrowed value these alias the
// decode input.
func (c CowBytes) Bytes() []byte {
	return c.b
}

func (c CowBytes) Len() int {
	return len(c.b)
}

func (c CowBytes) IsBorrowed() bool {
	return c.borrowed
}

func (c CowBytes) ToOwned() CowBytes {
	return CowBytes{b: bytes.Clone(c.b)}
}

func (c CowBytes) IntoOwned() []byte {
	if c.borrowed {
		return bytes.Clone(c.b)
	}
	return c.b
}

func (c CowBytes) MarshalCBOR() ([]byte, error) {
	if c.b == nil {
		return encMode.Marshal([]byte{})
	}
	return encMode.Marshal(c.b)
}

func (c *CowBytes) UnmarshalCBOR(data []byte) error {
	if payload, ok := definiteString(data, majorBytes); ok {
		*c = BorrowBytes(payload)
		return nil
	}
	var b []byte
	if err := decMode.Unmarshal(data, &b); err != nil {
		return err
	}
	*c = CowBytes{b: b}
	return nil
}

// definiteString returns the payload of a definite-length string item of the
// given major type when data holds exactly that item. Anything else is left
// to the full decoder, which either copies or reports the error.
func definiteString(data []byte, major byte) ([]byte, bool) {
	if len(data) == 0 || data[0]>>5 != major {
		return nil, false
	}
	info := data[0] & 0x1f
	var n uint64
	off := 1
	switch {
	case info < 24:
		n = uint64(info)
	case info == 24 && len(data) >= 2:
		n, off = uint64(data[1]), 2
	case info == 25 && len(data) >= 3:
		n, off = uint64(binary.BigEndian.Uint16(data[1:3])), 3
	case info == 26 && len(data) >= 5:
		n, off = uint64(binary.BigEndian.Uint32(data[1:5])), 5
	case info == 27 && len(data) >= 9:
		n, off = binary.BigEndian.Uint64(data[1:9]), 9
	default:
		return nil, false
	}
	if n != uint64(len(data)-off) {
		return nil, false
	}
	return data[off:len(data):len(data)], true
}
