package sinks

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/samvad-hq/nestpath/pkg/httpclient"
)

type httpSink struct {
	id      string
	method  string
	url     string
	headers map[string]string
	client  *resty.Client
	log     Logger
}

func newHTTPSink(_ context.Context, cfg SinkConfig, log Logger) (Sink, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("sink %q missing http configuration", cfg.ID)
	}

	client := httpclient.NewRestyHTTPClient(httpclient.Options{
		Timeout: time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second,
	})

	return &httpSink{
		id:      cfg.ID,
		method:  cfg.HTTP.Method,
		url:     cfg.HTTP.URL,
		headers: cfg.HTTP.Headers,
		client:  client,
		log:     ensureLogger(log),
	}, nil
}

func (h *httpSink) ID() string   { return h.id }
func (h *httpSink) Type() string { return TypeHTTP }

func (h *httpSink) Send(ctx context.Context, evt Event) error {
	req := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(evt)
	if len(h.headers) > 0 {
		req.SetHeaders(h.headers)
	}

	resp, err := req.Execute(h.method, h.url)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("http response status %d: %s", resp.StatusCode(), httpclient.Snippet(resp.Body()))
	}
	h.log.DebugObj("http sink delivered event", "sink_http_delivery", map[string]any{
		"sink_id":   h.id,
		"lookup_id": evt.ID,
		"status":    resp.StatusCode(),
	})
	return nil
}
