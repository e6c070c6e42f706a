package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestJSONOutputCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithLevel(DebugLevel), WithOutput(NewWriterOutput(&buf)))
	l.With(Component("ids"), Str("kind", "ticket")).Info("issued", Uint64("id", 42))

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if got["msg"] != "issued" || got["component"] != "ids" || got["kind"] != "ticket" {
		t.Fatalf("unexpected entry: %v", got)
	}
	if got["level"] != "INFO" {
		t.Fatalf("level: %v", got["level"])
	}
}

func TestLevelGate(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithLevel(WarnLevel), WithFormatter(&TextFormatter{}), WithOutput(NewWriterOutput(&buf)))
	l.Info("dropped")
	l.Warn("kept")
	if strings.Contains(buf.String(), "dropped") || !strings.Contains(buf.String(), "kept") {
		t.Fatalf("level gate failed: %q", buf.String())
	}
	child := l.WithComponent("child")
	l.SetLevel(DebugLevel)
	child.Debug("shared level")
	if !strings.Contains(buf.String(), "shared level") {
		t.Fatalf("child should share level with parent: %q", buf.String())
	}
}

func TestApplyConfigRedactsAndSamples(t *testing.T) {
	l, err := ApplyConfig(&Config{Level: "info", Format: "json", Outputs: []string{"null"}, RedactKeys: []string{"secret"}})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	bl := l.(*BaseLogger)
	var buf bytes.Buffer
	bl.outputs = append(bl.outputs, NewWriterOutput(&buf))
	l.Info("login", Str("secret", "hunter2"), Err(errors.New("boom")))
	if strings.Contains(buf.String(), "hunter2") || !strings.Contains(buf.String(), "[REDACTED]") {
		t.Fatalf("redaction failed: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "boom") {
		t.Fatalf("error field missing: %q", buf.String())
	}

	if _, err := ApplyConfig(&Config{Format: "xml"}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
	if _, err := ApplyConfig(&Config{Level: "loud"}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestSampler(t *testing.T) {
	s := newSampler(2, 3)
	var allowed int
	for i := 0; i < 11; i++ {
		if s.allow(0, "m") {
			allowed++
		}
	}
	// first 2, then every 3rd of the remaining 9
	if allowed != 5 {
		t.Fatalf("allowed=%d want 5", allowed)
	}
}

func TestWithContextRequestID(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(NewWriterOutput(&buf)))
	ctx := ContextWithRequestID(context.Background(), "req-1")
	l.WithContext(ctx).Info("hello")
	if !strings.Contains(buf.String(), `"request_id":"req-1"`) {
		t.Fatalf("missing request id: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
		err  bool
	}{
		{"debug", DebugLevel, false},
		{"INFO", InfoLevel, false},
		{"", InfoLevel, false},
		{"warning", WarnLevel, false},
		{"error", ErrorLevel, false},
		{"nope", InfoLevel, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.err || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
}
