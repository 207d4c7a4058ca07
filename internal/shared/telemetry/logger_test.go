package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestWriteJSONLine(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()

	Warn("workspace.save", map[string]any{
		"user_id": "guest:1",
		"err":     errors.New("boom"),
		"level":   "ignored",
	})

	line := strings.TrimSpace(buf.String())
	var payload map[string]any
	if err := json.Unmarshal([]byte(line), &payload); err != nil {
		t.Fatalf("decode %q: %v", line, err)
	}
	if payload["level"] != "warn" || payload["msg"] != "workspace.save" {
		t.Fatalf("reserved keys must not be overridden: %v", payload)
	}
	if payload["err"] != "boom" {
		t.Fatalf("expected error rendered as string, got %v", payload["err"])
	}
	if payload["ts"] == "" {
		t.Fatalf("expected timestamp")
	}
}

func TestWriteUnmarshalableField(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()

	Info("bad", map[string]any{"ch": make(chan int)})
	if !strings.Contains(buf.String(), "logger marshal failed") {
		t.Fatalf("expected fallback line, got %q", buf.String())
	}
}
