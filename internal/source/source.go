// Package source loads documents to resolve paths against.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/samvad-hq/nestpath/pkg/httpclient"
	"github.com/samvad-hq/nestpath/pkg/jsonfetch"
	"gopkg.in/yaml.v3"
)

const (
	FormatAuto = "auto"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatHTML = "html"
)

// Loader reads JSON, YAML or HTML documents from local files or http(s) URLs.
type Loader struct {
	client  httpclient.Client
	fetcher *jsonfetch.Fetcher
	headers map[string]string
	format  string
}

// NewLoader builds a Loader. A nil client uses the default resty client; format "" means auto.
func NewLoader(client httpclient.Client, format string, headers map[string]string) (*Loader, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatAuto
	}
	if _, ok := decoders[format]; !ok && format != FormatAuto {
		return nil, fmt.Errorf("unsupported source format %q", format)
	}
	if client == nil {
		client = httpclient.NewRestyClient(httpclient.Options{})
	}
	return &Loader{
		client:  client,
		fetcher: jsonfetch.New(client, headers),
		headers: headers,
		format:  format,
	}, nil
}

// Load reads ref and decodes it into a generic document.
func (l *Loader) Load(ctx context.Context, ref string) (any, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, errors.New("source reference is empty")
	}

	remote := isRemote(ref)
	format := l.format
	if format == FormatAuto {
		format = detectFormat(ref, remote)
	}

	if remote && format == FormatJSON {
		doc, err := l.fetcher.GetJSON(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", ref, err)
		}
		return doc, nil
	}

	var (
		raw []byte
		err error
	)
	if remote {
		raw, err = l.fetchRaw(ctx, ref)
	} else {
		raw, err = os.ReadFile(ref)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", ref, err)
	}

	doc, err := decoders[format](raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s as %s: %w", ref, format, err)
	}
	return doc, nil
}

func (l *Loader) fetchRaw(ctx context.Context, ref string) ([]byte, error) {
	resp, err := l.client.Get(ctx, ref, l.headers)
	if err != nil {
		return nil, err
	}
	if !httpclient.IsSuccess(resp) {
		return nil, &jsonfetch.StatusError{URL: ref, StatusCode: resp.StatusCode(), Body: httpclient.Snippet(resp.Body())}
	}
	return resp.Body(), nil
}

func isRemote(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// detectFormat picks the decoder from the file or URL path extension, defaulting to JSON.
func detectFormat(ref string, remote bool) string {
	p := ref
	if remote {
		if u, err := url.Parse(ref); err == nil {
			p = path.Clean(u.Path)
		}
	}
	switch strings.ToLower(filepath.Ext(p)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".html", ".htm":
		return FormatHTML
	default:
		return FormatJSON
	}
}

var decoders = map[string]func([]byte) (any, error){
	FormatJSON: decodeJSON,
	FormatYAML: decodeYAML,
	FormatHTML: decodeHTML,
}

func decodeJSON(raw []byte) (any, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func decodeYAML(raw []byte) (any, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return normalizeYAML(doc), nil
}

// normalizeYAML rewrites map[any]any nodes to map[string]any so documents
// stay walkable by string keys and encodable as JSON.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			t[k] = normalizeYAML(child)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[fmt.Sprint(k)] = normalizeYAML(child)
		}
		return out
	case []any:
		for i, child := range t {
			t[i] = normalizeYAML(child)
		}
		return t
	default:
		return v
	}
}
