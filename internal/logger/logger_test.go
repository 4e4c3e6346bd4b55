package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/samvad-hq/samvad-post-curator/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"
)

func TestZapLoggerWritesStructuredField(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := New(zap.New(core))

	log.InfoObj("post scheduled", "post", map[string]any{"id": "p1"})
	log.WarnObj("transition rejected", "post_id", "p1")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Message != "post scheduled" || entries[0].ContextMap()["post"] == nil {
		t.Fatalf("unexpected first entry %#v", entries[0])
	}
	if entries[1].Level != zapcore.WarnLevel {
		t.Fatalf("expected warn level, got %s", entries[1].Level)
	}
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	if got := parseLevel("verbose"); got != zapcore.InfoLevel {
		t.Fatalf("parseLevel returned %s", got)
	}
	if got := parseLevel("warning"); got != zapcore.WarnLevel {
		t.Fatalf("parseLevel returned %s", got)
	}
}

func TestEnsureNil(t *testing.T) {
	if _, ok := Ensure(nil).(NopLogger); !ok {
		t.Fatalf("Ensure(nil) should return NopLogger")
	}
	if _, ok := New(nil).(NopLogger); !ok {
		t.Fatalf("New(nil) should return NopLogger")
	}
}

func TestInitToWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := InitTo(&config.Config{AppName: "curator", Env: "test", LogLevel: "warn"}, &buf)
	if err != nil {
		t.Fatalf("InitTo: %v", err)
	}
	log.InfoObj("dropped", "k", 1)
	log.WarnObj("kept", "post_id", "p1")
	_ = Close()

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "kept" || entry["app"] != "curator" || entry["post_id"] != "p1" {
		t.Fatalf("unexpected entry %#v", entry)
	}
}
