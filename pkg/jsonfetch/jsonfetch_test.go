package jsonfetch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/samvad-hq/nestpath/pkg/httpclient"
)

// fakeResponse lets us stub the httpclient.Client interface.
type fakeResponse struct {
	body       []byte
	statusCode int
}

func (f fakeResponse) Body() []byte         { return f.body }
func (f fakeResponse) StatusCode() int      { return f.statusCode }
func (f fakeResponse) Header(string) string { return "" }

// fakeHTTPClient returns canned responses per URL and records every call.
type fakeHTTPClient struct {
	responses map[string]fakeResponse
	calls     []string
	headers   []map[string]string
	err       error
}

func (f *fakeHTTPClient) Get(_ context.Context, url string, headers map[string]string) (httpclient.Response, error) {
	f.calls = append(f.calls, url)
	f.headers = append(f.headers, headers)
	if f.err != nil {
		return nil, f.err
	}
	resp, ok := f.responses[url]
	if !ok {
		return fakeResponse{statusCode: http.StatusNotFound}, nil
	}
	return resp, nil
}

func TestFetcherGetJSONReturnsPayload(t *testing.T) {
	cases := []struct {
		url  string
		body string
		want any
	}{
		{url: "http://example.com", body: `{"payload": true}`, want: map[string]any{"payload": true}},
		{url: "http://holberton.io", body: `{"payload": false}`, want: map[string]any{"payload": false}},
	}

	for _, tc := range cases {
		client := &fakeHTTPClient{responses: map[string]fakeResponse{
			tc.url: {body: []byte(tc.body), statusCode: http.StatusOK},
		}}

		got, err := New(client).GetJSON(context.Background(), tc.url)
		if err != nil {
			t.Fatalf("GetJSON(%s): %v", tc.url, err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("GetJSON(%s) = %#v want %#v", tc.url, got, tc.want)
		}
		if len(client.calls) != 1 || client.calls[0] != tc.url {
			t.Fatalf("expected exactly one call to %s, got %v", tc.url, client.calls)
		}
	}
}

func TestFetcherSendsHeaders(t *testing.T) {
	client := &fakeHTTPClient{responses: map[string]fakeResponse{
		"http://example.com": {body: []byte(`[]`), statusCode: http.StatusOK},
	}}

	f := New(client, map[string]string{"Authorization": "token abc", " ": "skip", "X-Empty": " "})
	if _, err := f.GetJSON(context.Background(), "http://example.com"); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}

	want := map[string]string{"Accept": "application/json", "Authorization": "token abc"}
	if !reflect.DeepEqual(client.headers[0], want) {
		t.Fatalf("headers = %#v want %#v", client.headers[0], want)
	}
}

func TestFetcherNon2xxReturnsStatusError(t *testing.T) {
	client := &fakeHTTPClient{responses: map[string]fakeResponse{
		"http://example.com": {body: []byte("rate limited"), statusCode: http.StatusTooManyRequests},
	}}

	_, err := New(client).GetJSON(context.Background(), "http://example.com")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if se.StatusCode != http.StatusTooManyRequests || se.Body != "rate limited" {
		t.Fatalf("unexpected status error %#v", se)
	}
	if !strings.Contains(err.Error(), "status 429") {
		t.Fatalf("error text missing status: %v", err)
	}
}

func TestFetcherTransportError(t *testing.T) {
	client := &fakeHTTPClient{err: errors.New("connection refused")}

	_, err := New(client).GetJSON(context.Background(), "http://example.com")
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}
}

func TestFetcherInvalidJSON(t *testing.T) {
	client := &fakeHTTPClient{responses: map[string]fakeResponse{
		"http://example.com": {body: []byte("<html></html>"), statusCode: http.StatusOK},
	}}

	_, err := New(client).GetJSON(context.Background(), "http://example.com")
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DecodeError, got %v", err)
	}
	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("expected wrapped json.SyntaxError, got %v", de.Err)
	}
}

func TestFetcherGetJSONInto(t *testing.T) {
	client := &fakeHTTPClient{responses: map[string]fakeResponse{
		"http://example.com/org": {body: []byte(`{"login":"google","repos_url":"https://api.github.com/orgs/google/repos"}`), statusCode: http.StatusOK},
	}}

	var org struct {
		Login    string `json:"login"`
		ReposURL string `json:"repos_url"`
	}
	if err := New(client).GetJSONInto(context.Background(), "http://example.com/org", &org); err != nil {
		t.Fatalf("GetJSONInto: %v", err)
	}
	if org.Login != "google" || org.ReposURL != "https://api.github.com/orgs/google/repos" {
		t.Fatalf("unexpected decode %#v", org)
	}
}

func TestGetJSONOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"payload": {"nested": [1, 2]}}`))
	}))
	defer srv.Close()

	got, err := GetJSON(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	want := map[string]any{"payload": map[string]any{"nested": []any{1.0, 2.0}}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("GetJSON = %#v want %#v", got, want)
	}
}
