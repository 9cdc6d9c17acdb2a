package schema

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// CDDL describes the request and response headers as well as errors.
const CDDL = `
request  = { ?0: 7586022, 1: id, 2: path, 3: method, 4: has_body }
response = { ?0: 9750358, 1: id, 2: re, 3: status, 4: has_body }
error    = { ?0: 5359172, 1: path, ?2: method, ?3: message }
id       = uint
re       = uint
path     = text
method   = 0   ;; GET
         / 1   ;; POST
         / 2   ;; PUT
         / 3   ;; DELETE
         / 4   ;; PATCH
status   = 200 ;; OK
         / 400 ;; Bad request
         / 401 ;; Unauthorized
         / 404 ;; Not found
         / 405 ;; Method not allowed
         / 500 ;; Internal server error
         / 501 ;; Not implemented
message  = text
has_body = bool
`

// Envelope type tags. Peers that check tags must use exactly these values.
const (
	TagRequest  uint64 = 7586022
	TagResponse uint64 = 9750358
	TagError    uint64 = 5359172
)

// KeyTag is the map key of the optional type tag in every envelope.
const KeyTag uint64 = 0

// Request map keys.
const (
	KeyRequestID      uint64 = 1
	KeyRequestPath    uint64 = 2
	KeyRequestMethod  uint64 = 3
	KeyRequestHasBody uint64 = 4
)

// Response map keys.
const (
	KeyResponseID      uint64 = 1
	KeyResponseRe      uint64 = 2
	KeyResponseStatus  uint64 = 3
	KeyResponseHasBody uint64 = 4
)

// Error map keys.
const (
	KeyErrorPath    uint64 = 1
	KeyErrorMethod  uint64 = 2
	KeyErrorMessage uint64 = 3
)

// Name returns the schema name of an envelope tag.
func Name(tag uint64) string {
	switch tag {
	case TagRequest:
		return "request"
	case TagResponse:
		return "response"
	case TagError:
		return "error"
	default:
		return fmt.Sprintf("unknown(%d)", tag)
	}
}

type ValidationError struct {
	Envelope uint64
	Key      uint64
	Reason   string
}

func (e ValidationError) Error() string {
	if e.Reason == "unknown envelope" {
		return fmt.Sprintf("schema: envelope=%s: %s", Name(e.Envelope), e.Reason)
	}
	return fmt.Sprintf("schema: envelope=%s key=%d: %s", Name(e.Envelope), e.Key, e.Reason)
}

var required = map[uint64][]uint64{
	TagRequest:  {KeyRequestID, KeyRequestPath, KeyRequestHasBody},
	TagResponse: {KeyResponseID, KeyResponseRe, KeyResponseHasBody},
	TagError:    {KeyErrorPath},
}

// Required returns the keys an envelope must carry, in ascending order.
func Required(tag uint64) []uint64 {
	keys := required[tag]
	out := make([]uint64, len(keys))
	copy(out, keys)
	return out
}

// Validate checks that every required key of the envelope is present.
// Keys outside the schema are ignored so newer peers can add fields.
func Validate(envelope uint64, present func(key uint64) bool) error {
	keys, ok := required[envelope]
	if !ok {
		log.Error().Uint64("envelope", envelope).Msg("schema.Validate unknown envelope")
		return ValidationError{Envelope: envelope, Reason: "unknown envelope"}
	}
	for _, key := range keys {
		if !present(key) {
			log.Debug().
				Str("envelope", Name(envelope)).
				Uint64("key", key).
				Msg("schema.Validate missing field")
			return ValidationError{Envelope: envelope, Key: key, Reason: "missing required field"}
		}
	}
	log.Trace().Str("envelope", Name(envelope)).Msg("schema.Validate ok")
	return nil
}
