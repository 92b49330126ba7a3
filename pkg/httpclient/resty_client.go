package httpclient

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultTimeout bounds a single request when callers do not configure one.
const DefaultTimeout = 15 * time.Second

// Options configures the resty-backed client.
type Options struct {
	Timeout   time.Duration
	UserAgent string
}

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client *resty.Client
}

// NewRestyClient creates a RestyClient from opts.
func NewRestyClient(opts Options) *RestyClient {
	return &RestyClient{client: NewRestyHTTPClient(opts)}
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing other verbs.
func NewRestyHTTPClient(opts Options) *resty.Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	c := resty.New()
	c.SetTimeout(opts.Timeout)
	if ua := strings.TrimSpace(opts.UserAgent); ua != "" {
		c.SetHeader("User-Agent", ua)
	}
	return c
}

// Get performs an HTTP GET with the given context, URL and per-request headers.
func (r *RestyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	req := r.client.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	resp, err := req.Get(url)
	if err != nil {
		return nil, err
	}
	return &restyResponseAdapter{resp: resp}, nil
}

type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte              { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int           { return r.resp.StatusCode() }
func (r *restyResponseAdapter) Header(name string) string { return r.resp.Header().Get(name) }
