package envelope

import (
	"fmt"
	"math/rand"
)

// ID identifies a request or response. Ids are random, so they are unique
// only with high probability within a session.
type ID uint32

// FreshID draws a new id uniformly over the full 32-bit range.
func FreshID() ID {
	return ID(rand.Uint32())
}

func (id ID) Uint32() uint32 {
	return uint32(id)
}

// String renders the id as 8 lowercase, zero-padded hex digits.
func (id ID) String() string {
	return fmt.Sprintf("%08x", uint32(id))
}
