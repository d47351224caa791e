// Package httpresp parses HTTP/1.1 responses out of a raw byte blob
// accumulated straight off the wire — permissively, since a smuggling
// target's response may itself be malformed.
package httpresp

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lirlia/100day_challenge_backend/day69_haquests/internal/pkg/herrors"
)

// ErrIncomplete is returned by Parse when the header/body delimiter
// "\r\n\r\n" has not yet appeared in the accumulated bytes. It is a soft
// signal to keep reading, not a hard parse failure.
var ErrIncomplete = errors.New("httpresp: response incomplete (no header terminator yet)")

// Response is a parsed HTTP/1.1 response. Header lookups are last-value-
// wins on duplicate keys, case-insensitive, per RFC 7230.
type Response struct {
	Version       string
	StatusCode    int
	StatusMessage string
	Headers       map[string]string
	Body          []byte
	Complete      bool
}

// Header returns the last value seen for key (case-insensitive), or "".
func (r *Response) Header(key string) string {
	return r.Headers[strings.ToLower(key)]
}

// IsChunked reports whether Transfer-Encoding's value contains the
// substring "chunked" (case-insensitive), per RFC 7230 §3.3.1.
func (r *Response) IsChunked() bool {
	return strings.Contains(strings.ToLower(r.Header("Transfer-Encoding")), "chunked")
}

// Parse splits raw on the first "\r\n\r\n", parses the status line and
// headers from the head, and takes everything after the delimiter as the
// raw body. Returns ErrIncomplete (not an *herrors.Error) if the delimiter
// hasn't arrived yet.
func Parse(raw []byte) (*Response, error) {
	idx := indexHeaderTerminator(raw)
	if idx < 0 {
		return nil, ErrIncomplete
	}
	head := string(raw[:idx])
	body := raw[idx+4:]

	lines := strings.Split(head, "\r\n")
	if len(lines) == 0 || lines[0] == "" {
		return nil, herrors.New(herrors.KindParse, "httpresp.Parse", fmt.Errorf("empty status line"))
	}

	resp := &Response{Headers: make(map[string]string), Body: body, Complete: true}
	if err := parseStatusLine(lines[0], resp); err != nil {
		return nil, herrors.New(herrors.KindParse, "httpresp.Parse", err)
	}
	for _, line := range lines[1:] {
		if line == "" {
			continue
		}
		key, value, err := parseHeaderLine(line)
		if err != nil {
			return nil, herrors.New(herrors.KindParse, "httpresp.Parse", err)
		}
		resp.Headers[strings.ToLower(key)] = value
	}
	return resp, nil
}

func indexHeaderTerminator(raw []byte) int {
	const term = "\r\n\r\n"
	return strings.Index(string(raw), term)
}

func parseStatusLine(line string, resp *Response) error {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 2 {
		return fmt.Errorf("malformed status line %q", line)
	}
	resp.Version = parts[0]
	code, err := strconv.Atoi(parts[1])
	if err != nil {
		return fmt.Errorf("malformed status code in %q: %w", line, err)
	}
	resp.StatusCode = code
	if len(parts) == 3 {
		resp.StatusMessage = parts[2]
	}
	return nil
}

func parseHeaderLine(line string) (key, value string, err error) {
	i := strings.IndexByte(line, ':')
	if i < 0 {
		return "", "", fmt.Errorf("malformed header line %q", line)
	}
	key = line[:i]
	value = strings.TrimLeft(line[i+1:], " \t")
	return key, value, nil
}
