package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_JSONByDefault(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	New(&buf, "json", slog.LevelInfo).Info("import stored", "rows", 2)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("not JSON: %q (%v)", buf.String(), err)
	}
	if rec["msg"] != "import stored" || rec["rows"] != float64(2) {
		t.Fatalf("unexpected record: %v", rec)
	}
}

func TestNew_TextAndLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := New(&buf, "text", slog.LevelWarn)
	l.Info("dropped")
	l.Warn("kept")
	out := buf.String()
	if strings.Contains(out, "dropped") || !strings.Contains(out, "msg=kept") {
		t.Fatalf("unexpected output: %q", out)
	}
}
