package httpreq

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBytesPreservesInsertionOrderAndDuplicates(t *testing.T) {
	r := New("POST", "/")
	r.SetHeader("Host", "example.com")
	r.AddHeader("Transfer-Encoding", "chunked")
	r.AddHeader("Transfer-Encoding", "identity")
	r.Body = []byte("0\r\n\r\n")

	got := string(r.Bytes())
	want := "POST / HTTP/1.1\r\nHost: example.com\r\nTransfer-Encoding: chunked\r\nTransfer-Encoding: identity\r\n\r\n0\r\n\r\n"
	require.Equal(t, want, got)
}

func TestSetHeaderReplacesFirstMatchOnly(t *testing.T) {
	r := New("GET", "/")
	r.AddHeader("X-Foo", "1")
	r.AddHeader("X-Foo", "2")
	r.SetHeader("X-Foo", "replaced")

	require.Len(t, r.Headers, 2)
	require.Equal(t, "replaced", r.Headers[0].Value)
	require.Equal(t, "2", r.Headers[1].Value)
}

func TestSetBodyRewritesContentLength(t *testing.T) {
	r := New("POST", "/")
	r.SetBody([]byte("hello"))

	require.Equal(t, "5", headerValue(r, "Content-Length"))

	// Smuggling desync: caller overrides after SetBody.
	r.SetHeader("Content-Length", "999")
	require.Equal(t, "999", headerValue(r, "Content-Length"))
}

func TestConvenienceConstructorsSetDefaults(t *testing.T) {
	g := GET("/index.html")
	require.Equal(t, "GET", g.Method)
	require.Equal(t, DefaultUserAgent, headerValue(g, "User-Agent"))

	p := POST("/submit", []byte("a=1"))
	require.Equal(t, "POST", p.Method)
	require.Equal(t, "3", headerValue(p, "Content-Length"))
	require.Equal(t, []byte("a=1"), p.Body)
}

func headerValue(r *Request, key string) string {
	for _, h := range r.Headers {
		if h.Key == key {
			return h.Value
		}
	}
	return ""
}
