// Package jsonfetch retrieves a URL and decodes its body as JSON.
package jsonfetch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samvad-hq/nestpath/pkg/httpclient"
)

var defaultFetcher = New(nil)

// GetJSON fetches url with the default resty client and returns the decoded payload.
func GetJSON(ctx context.Context, url string) (any, error) {
	return defaultFetcher.GetJSON(ctx, url)
}

// Fetcher decodes JSON responses served through an httpclient.Client.
type Fetcher struct {
	client  httpclient.Client
	headers map[string]string
}

// New builds a Fetcher around client; a nil client uses a resty client with default timeout.
// Extra headers are sent on every request alongside Accept: application/json.
func New(client httpclient.Client, headers ...map[string]string) *Fetcher {
	if client == nil {
		client = httpclient.NewRestyClient(httpclient.Options{})
	}
	merged := map[string]string{"Accept": "application/json"}
	for _, h := range headers {
		for k, v := range h {
			k, v = strings.TrimSpace(k), strings.TrimSpace(v)
			if k == "" || v == "" {
				continue
			}
			merged[k] = v
		}
	}
	return &Fetcher{client: client, headers: merged}
}

// GetJSON fetches url and decodes the body into a generic value
// (map[string]any, []any, string, float64, bool or nil).
func (f *Fetcher) GetJSON(ctx context.Context, url string) (any, error) {
	var payload any
	if err := f.GetJSONInto(ctx, url, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// GetJSONInto fetches url and decodes the body into target.
func (f *Fetcher) GetJSONInto(ctx context.Context, url string, target any) error {
	body, err := f.get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, target); err != nil {
		return &DecodeError{URL: url, Err: err}
	}
	return nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.client.Get(ctx, url, f.headers)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}

	body := resp.Body()
	if !httpclient.IsSuccess(resp) {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode(), Body: httpclient.Snippet(body)}
	}
	return body, nil
}
