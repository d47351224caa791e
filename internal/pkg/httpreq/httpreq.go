// Package httpreq builds HTTP/1.1 requests byte-for-byte: a permissive
// serializer that allows duplicate headers and caller-controlled
// desynchronization between Content-Length and Transfer-Encoding, the
// exact latitude HTTP Request Smuggling research needs and a cooperative
// client library would normally refuse to produce.
package httpreq

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultVersion is used when a Request's Version is left empty.
const DefaultVersion = "HTTP/1.1"

// DefaultUserAgent is set by the GET/POST/PUT/DELETE convenience
// constructors.
const DefaultUserAgent = "haquests/1.0"

// HeaderField is one header line, stored with the caller's original key
// casing. Smuggling relies on literal bytes (e.g. "Transfer-encoding" vs
// "Transfer-Encoding"), so header keys are never canonicalized.
type HeaderField struct {
	Key   string
	Value string
}

// Request is an ordered HTTP/1.1 request: method, path, version, an
// insertion-order header multimap that allows duplicate keys, and a raw
// body. When Body is non-empty, Content-Length either reflects its true
// length or has been deliberately desynchronized by the caller after
// SetBody — the smuggling builders rely on the latter.
type Request struct {
	Method  string
	Path    string
	Version string
	Headers []HeaderField
	Body    []byte
}

// New constructs a bare Request with the default version.
func New(method, path string) *Request {
	return &Request{Method: method, Path: path, Version: DefaultVersion}
}

// GET builds a GET request with a default User-Agent.
func GET(path string) *Request {
	r := New("GET", path)
	r.SetHeader("User-Agent", DefaultUserAgent)
	return r
}

// POST builds a POST request with a default User-Agent and the given body
// (Content-Length is set to its length).
func POST(path string, body []byte) *Request {
	r := New("POST", path)
	r.SetHeader("User-Agent", DefaultUserAgent)
	r.SetBody(body)
	return r
}

// PUT builds a PUT request with a default User-Agent and the given body.
func PUT(path string, body []byte) *Request {
	r := New("PUT", path)
	r.SetHeader("User-Agent", DefaultUserAgent)
	r.SetBody(body)
	return r
}

// DELETE builds a DELETE request with a default User-Agent.
func DELETE(path string) *Request {
	r := New("DELETE", path)
	r.SetHeader("User-Agent", DefaultUserAgent)
	return r
}

// SetHeader replaces the first existing header with this key (case-
// sensitive exact match), or appends one if none exists.
func (r *Request) SetHeader(key, value string) {
	for i := range r.Headers {
		if r.Headers[i].Key == key {
			r.Headers[i].Value = value
			return
		}
	}
	r.AddHeader(key, value)
}

// AddHeader always appends, permitting duplicate keys — required to build
// a TE.TE request with two Transfer-Encoding headers.
func (r *Request) AddHeader(key, value string) {
	r.Headers = append(r.Headers, HeaderField{Key: key, Value: value})
}

// SetBody replaces the body and rewrites Content-Length to its true
// length. Callers who intend CL/TE desynchronization call SetHeader
// ("Content-Length", ...) again afterwards to override it.
func (r *Request) SetBody(body []byte) {
	r.Body = body
	r.SetHeader("Content-Length", strconv.Itoa(len(body)))
}

// Bytes serializes the request exactly: "METHOD SP PATH SP VERSION CRLF",
// each header as "Key: Value CRLF" in insertion order (duplicates emitted
// both times), a blank CRLF, then the raw body.
func (r *Request) Bytes() []byte {
	version := r.Version
	if version == "" {
		version = DefaultVersion
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s\r\n", r.Method, r.Path, version)
	for _, h := range r.Headers {
		fmt.Fprintf(&b, "%s: %s\r\n", h.Key, h.Value)
	}
	b.WriteString("\r\n")
	out := make([]byte, 0, b.Len()+len(r.Body))
	out = append(out, b.String()...)
	out = append(out, r.Body...)
	return out
}
