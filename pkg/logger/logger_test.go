package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLoggerWritesComponentAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "[Registry]", false)
	l.Info("watch_created", "watch_id", 3)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode: %v (%s)", err, buf.String())
	}
	if rec["msg"] != "watch_created" || rec["component"] != "[Registry]" {
		t.Fatalf("unexpected record: %v", rec)
	}
	if rec["watch_id"].(float64) != 3 {
		t.Fatalf("attr missing: %v", rec)
	}
}

func TestLoggerDebugGate(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, "x", false).Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug written without debug flag")
	}
	NewLogger(&buf, "x", true).Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("debug not written with debug flag")
	}
}

func TestWithPrefix(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "[App]", false).WithPrefix("[Engine]")
	l.Warn("delivery_failed")
	if !strings.Contains(buf.String(), `"component":"[App] [Engine]"`) {
		t.Fatalf("prefix not chained: %s", buf.String())
	}
}
