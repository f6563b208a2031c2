package ammo

import (
	"fmt"
	"strings"
)

// HeaderSet is a set of raw header lines ("Name: value"). Deduplication is
// by exact string equality only; two spellings of the same header that
// differ in casing are distinct entries. Order is not significant.
type HeaderSet map[string]struct{}

// NewHeaderSet builds a set from the given header lines.
func NewHeaderSet(headers []string) HeaderSet {
	s := make(HeaderSet, len(headers))
	for _, h := range headers {
		s.Add(h)
	}
	return s
}

// Add inserts a header line into the set.
func (s HeaderSet) Add(header string) { s[header] = struct{}{} }

// Contains reports whether the exact header line is present.
func (s HeaderSet) Contains(header string) bool {
	_, ok := s[header]
	return ok
}

// Lines returns the header lines in unspecified order.
func (s HeaderSet) Lines() []string {
	out := make([]string, 0, len(s))
	for h := range s {
		out = append(out, h)
	}
	return out
}

// HTTPAmmo is a wire-ready HTTP request representation.
type HTTPAmmo struct {
	Method  string
	URI     string
	Proto   string
	Headers HeaderSet
	Body    []byte
}

// NewHTTPAmmo builds a request from method, URI, headers and body. When the
// body is non-empty a Content-Length header reflecting its length is added
// to the set. httpVer is the bare version label, e.g. "1.1".
func NewHTTPAmmo(uri string, headers []string, method, httpVer string, body []byte) HTTPAmmo {
	if method == "" {
		method = "GET"
	}
	if httpVer == "" {
		httpVer = "1.1"
	}
	set := NewHeaderSet(headers)
	if len(body) > 0 {
		set.Add(fmt.Sprintf("Content-Length: %d", len(body)))
	}
	return HTTPAmmo{
		Method:  method,
		URI:     uri,
		Proto:   "HTTP/" + httpVer,
		Headers: set,
		Body:    body,
	}
}

// Render produces the request text block:
//
//	METHOD URI PROTO\r\n
//	<headers joined by \r\n>\r\n
//	\r\n
//	body
//
// Rendering is pure and deterministic except for header ordering, which is
// unordered; callers must not depend on it.
func (a HTTPAmmo) Render() []byte {
	var b strings.Builder
	b.WriteString(a.Method)
	b.WriteByte(' ')
	b.WriteString(a.URI)
	b.WriteByte(' ')
	b.WriteString(a.Proto)
	b.WriteString("\r\n")
	if len(a.Headers) > 0 {
		b.WriteString(strings.Join(a.Headers.Lines(), "\r\n"))
		b.WriteString("\r\n")
	}
	b.WriteString("\r\n")
	b.Write(a.Body)
	return []byte(b.String())
}
