package httpclient

import (
	"context"
	"strings"
	"unicode/utf8"
)

// Response is the slice of an HTTP response the fetch helpers read.
type Response interface {
	Body() []byte
	StatusCode() int
	Header(name string) string
}

// Client performs GET requests; tests inject fakes in place of the resty transport.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}

// IsSuccess reports whether the response carries a 2xx status.
func IsSuccess(resp Response) bool {
	if resp == nil {
		return false
	}
	code := resp.StatusCode()
	return code >= 200 && code < 300
}

// Snippet trims a response body for inclusion in error messages.
func Snippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		return s[:cut] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
