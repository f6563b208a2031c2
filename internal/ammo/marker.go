package ammo

import (
	"fmt"
	"strconv"
	"strings"
)

// Marker derives a routing marker from a request URI. It is applied by
// URI-family sources when a record carries no explicit marker.
type Marker func(uri string) string

// NoMarker derives nothing.
func NoMarker(string) string { return "" }

// NewMarker builds a derivation strategy from the autocases selector:
// "" or "none" disables derivation, "uri" tags with the full path (slashes
// replaced by underscores), and a positive integer N tags with the first N
// path segments joined by underscores.
func NewMarker(selector string) (Marker, error) {
	selector = strings.TrimSpace(selector)
	switch selector {
	case "", "none", "0":
		return NoMarker, nil
	case "uri":
		return func(uri string) string {
			return pathTag(uri, -1)
		}, nil
	}
	depth, err := strconv.Atoi(selector)
	if err != nil || depth < 1 {
		return nil, fmt.Errorf("unknown autocases selector %q", selector)
	}
	return func(uri string) string {
		return pathTag(uri, depth)
	}, nil
}

func pathTag(uri string, depth int) string {
	path := uri
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	segments := strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
	if depth >= 0 && len(segments) > depth {
		segments = segments[:depth]
	}
	if len(segments) == 0 {
		return "_"
	}
	return "_" + strings.Join(segments, "_")
}
