package sinks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPSinkSuccess(t *testing.T) {
	var received Event
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT, got %s", r.Method)
		}
		if got := r.Header.Get("X-Test"); got != "1" {
			t.Errorf("missing header, got %s", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sink, err := newHTTPSink(context.Background(), sanitizeSinkConfig(SinkConfig{
		ID:   "hook",
		Type: TypeHTTP,
		HTTP: &HTTPSinkConfig{
			URL:     srv.URL,
			Method:  "put",
			Headers: map[string]string{"X-Test": "1"},
		},
	}), nil)
	if err != nil {
		t.Fatalf("newHTTPSink: %v", err)
	}

	if err := sink.Send(context.Background(), Event{ID: "id-1", Source: "doc.json", Value: "v"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if received.ID != "id-1" || received.Value != "v" {
		t.Fatalf("server received %#v", received)
	}
}

func TestHTTPSinkErrorOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	sink, err := newHTTPSink(context.Background(), sanitizeSinkConfig(SinkConfig{
		ID:   "hook",
		Type: TypeHTTP,
		HTTP: &HTTPSinkConfig{URL: srv.URL, TimeoutSeconds: 1},
	}), nil)
	if err != nil {
		t.Fatalf("newHTTPSink: %v", err)
	}

	if err := sink.Send(context.Background(), Event{}); err == nil {
		t.Fatalf("expected error on non-2xx response")
	}
}
