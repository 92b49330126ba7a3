package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/samvad-hq/nestpath/internal/config"
)

func TestInitWritesStructuredJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := initTo(&config.Config{AppName: "nestget", Env: "test", LogLevel: "info"}, &buf)
	if err != nil {
		t.Fatalf("initTo: %v", err)
	}
	t.Cleanup(func() { S = nil })

	log.InfoObj("lookup resolved", "lookup", map[string]any{"path": []string{"a", "b"}})
	log.DebugObj("hidden at info", "lookup", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "lookup resolved" || entry["app"] != "nestget" || entry["env"] != "test" {
		t.Fatalf("unexpected entry %#v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts field, got %#v", entry)
	}
	if _, ok := entry["lookup"].(map[string]any); !ok {
		t.Fatalf("expected lookup object field, got %#v", entry["lookup"])
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]string{
		"debug":   "debug",
		" WARN ":  "warn",
		"warning": "warn",
		"error":   "error",
		"bogus":   "info",
		"":        "info",
	}
	for in, want := range cases {
		if got := parseLevel(in).String(); got != want {
			t.Errorf("parseLevel(%q) = %s want %s", in, got, want)
		}
	}
}

func TestHelpersAreSafeBeforeInit(t *testing.T) {
	S = nil
	InfoObj("noop", "k", 1)
	ErrorObj("noop", "k", 1)
	if err := Close(); err != nil {
		t.Fatalf("Close before Init: %v", err)
	}
	var nop Logger = &NopLogger{}
	nop.WarnObj("noop", "k", 1)
}
