package envelope

import "strings"

// Segments are the '/'-separated parts of a path. They share memory with
// the path they were parsed from.
type Segments struct {
	parts []string
}

// ParseSegments strips one leading '/' and splits the rest of s into at most
// n parts. Separators past the (n-1)th stay inside the last part. An empty
// path yields a single empty segment; n <= 0 yields none.
func ParseSegments(s string, n int) Segments {
	if n <= 0 {
		return Segments{}
	}
	s = strings.TrimPrefix(s, "/")
	return Segments{parts: strings.SplitN(s, "/", n)}
}

func (s Segments) Len() int {
	return len(s.parts)
}

// At returns the i-th segment, or "" when i is out of range.
func (s Segments) At(i int) string {
	if i < 0 || i >= len(s.parts) {
		return ""
	}
	return s.parts[i]
}

// Slice returns the segments in order. Callers must not modify it.
func (s Segments) Slice() []string {
	return s.parts
}
