package envelope

import (
	"reflect"
	"testing"
)

func TestParseSegments(t *testing.T) {
	tests := []struct {
		name string
		path string
		n    int
		want []string
	}{
		{name: "split at most n", path: "/a/b/c", n: 2, want: []string{"a", "b/c"}},
		{name: "fewer separators than n", path: "a", n: 3, want: []string{"a"}},
		{name: "root", path: "/", n: 1, want: []string{""}},
		{name: "empty", path: "", n: 4, want: []string{""}},
		{name: "all segments", path: "/nodes/n1/status", n: 3, want: []string{"nodes", "n1", "status"}},
		{name: "single leading slash stripped", path: "//a", n: 2, want: []string{"", "a"}},
		{name: "trailing slash", path: "/a/", n: 3, want: []string{"a", ""}},
		{name: "zero capacity", path: "/a/b", n: 0, want: nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseSegments(tc.path, tc.n)
			if !reflect.DeepEqual(got.Slice(), tc.want) {
				t.Fatalf("ParseSegments(%q, %d)=%q want %q", tc.path, tc.n, got.Slice(), tc.want)
			}
			if got.Len() != len(tc.want) {
				t.Fatalf("len=%d want %d", got.Len(), len(tc.want))
			}
		})
	}
}

func TestSegmentsAt(t *testing.T) {
	s := NewRequest(MethodGet, "/nodes/n1", false).PathSegments(3)
	if s.At(0) != "nodes" || s.At(1) != "n1" || s.At(2) != "" || s.At(-1) != "" {
		t.Fatalf("unexpected segments: %q", s.Slice())
	}
}
