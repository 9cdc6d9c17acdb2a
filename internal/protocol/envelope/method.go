package envelope

import (
	"fmt"
	"strings"
)

// Method is a request method. On the wire it is a small unsigned integer;
// codes this package does not know decode as an absent method.
type Method uint8

const (
	MethodGet Method = iota
	MethodPost
	MethodPut
	MethodDelete
	MethodPatch
)

var methodNames = [...]string{
	MethodGet:    "GET",
	MethodPost:   "POST",
	MethodPut:    "PUT",
	MethodDelete: "DELETE",
	MethodPatch:  "PATCH",
}

func (m Method) Known() bool {
	return int(m) < len(methodNames)
}

func (m Method) String() string {
	if m.Known() {
		return methodNames[m]
	}
	return fmt.Sprintf("Method(%d)", uint8(m))
}

// ParseMethod maps a method name such as "get" or "POST" to its Method.
func ParseMethod(s string) (Method, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range methodNames {
		if n == name {
			return Method(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

func methodFromCode(code uint64) (Method, bool) {
	if code >= uint64(len(methodNames)) {
		return 0, false
	}
	return Method(code), true
}

// Status is a response status code.
type Status uint16

const (
	StatusOK                  Status = 200
	StatusBadRequest          Status = 400
	StatusUnauthorized        Status = 401
	StatusNotFound            Status = 404
	StatusMethodNotAllowed    Status = 405
	StatusInternalServerError Status = 500
	StatusNotImplemented      Status = 501
)

var statusText = map[Status]string{
	StatusOK:                  "OK",
	StatusBadRequest:          "Bad Request",
	StatusUnauthorized:        "Unauthorized",
	StatusNotFound:            "Not Found",
	StatusMethodNotAllowed:    "Method Not Allowed",
	StatusInternalServerError: "Internal Server Error",
	StatusNotImplemented:      "Not Implemented",
}

func (s Status) Known() bool {
	_, ok := statusText[s]
	return ok
}

func (s Status) String() string {
	if text, ok := statusText[s]; ok {
		return fmt.Sprintf("%d %s", uint16(s), text)
	}
	return fmt.Sprintf("Status(%d)", uint16(s))
}

func statusFromCode(code uint64) (Status, bool) {
	if code > uint64(^uint16(0)) {
		return 0, false
	}
	s := Status(code)
	return s, s.Known()
}
