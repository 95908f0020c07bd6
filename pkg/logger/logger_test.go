package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoggerErrorIncludesContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf})

	ctx := context.Background()
	ctx = log.WithRequestID(ctx, "req-123")
	ctx = log.WithTxRef(ctx, "ORD-20260101-120000-abcd1234")

	log.Error(ctx, "boom", errors.New("boom"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode entry: %v; entry=%s", err, buf.String())
	}
	if entry["request_id"] != "req-123" {
		t.Fatalf("expected request_id to be preserved; entry=%s", buf.String())
	}
	if entry["tx_ref"] != "ORD-20260101-120000-abcd1234" {
		t.Fatalf("expected tx_ref field; entry=%s", buf.String())
	}
	if entry["service"] != "test" {
		t.Fatalf("expected service field; entry=%s", buf.String())
	}
	if _, ok := entry["stack"]; !ok {
		t.Fatalf("expected stack trace on error; entry=%s", buf.String())
	}
}

func TestLoggerWarnStackToggle(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf, WarnStack: true})
	log.Warn(context.Background(), "warny")
	if !bytes.Contains(buf.Bytes(), []byte("\"stack\"")) {
		t.Fatalf("expected stack when warn stack enabled")
	}

	buf.Reset()
	quiet := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf})
	quiet.Warn(context.Background(), "warny")
	if bytes.Contains(buf.Bytes(), []byte("\"stack\"")) {
		t.Fatalf("did not expect stack when warn stack disabled")
	}
}

func TestLevelFiltersDebug(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("info"), Output: buf})
	log.Debug(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug line should be filtered at info level: %s", buf.String())
	}
}

func TestParseLevelDefaults(t *testing.T) {
	if lvl := ParseLevel(""); lvl != zerolog.InfoLevel {
		t.Fatalf("expected default info level, got %v", lvl)
	}
	if lvl := ParseLevel("invalid"); lvl != zerolog.InfoLevel {
		t.Fatalf("invalid level should fallback to info, got %v", lvl)
	}
	if lvl := ParseLevel(" WARN "); lvl != zerolog.WarnLevel {
		t.Fatalf("expected warn level, got %v", lvl)
	}
}

func TestStaticFieldsAndFormatOverride(t *testing.T) {
	t.Setenv("MOONPOS_LOG_FORMAT", "console")
	buf := &bytes.Buffer{}
	log := New(Options{
		ServiceName: "cron-worker",
		Output:      buf,
		Format:      FormatJSON,
		Fields:      map[string]any{"instance": "pos-1", "env": "test"},
	})
	log.Info(context.Background(), "tick")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("explicit json format should win over env: %v; entry=%s", err, buf.String())
	}
	if entry["instance"] != "pos-1" || entry["env"] != "test" {
		t.Fatalf("expected static fields; entry=%s", buf.String())
	}
	if strings.Index(buf.String(), `"env"`) > strings.Index(buf.String(), `"instance"`) {
		t.Fatalf("expected fields in key order; entry=%s", buf.String())
	}
}

func TestNilLoggerIsSilent(t *testing.T) {
	var log *Logger
	ctx := log.WithTxRef(context.Background(), "INV-1")
	log.Info(ctx, "ignored")
	log.Error(ctx, "ignored", errors.New("x"))
	if ctx.Value(ctxKey{}) != nil {
		t.Fatal("nil logger should not attach fields")
	}
}

func TestErrorStackStartsAtCaller(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Output: buf})
	log.Error(context.Background(), "boom", nil)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode entry: %v", err)
	}
	stack, _ := entry["stack"].(string)
	first := strings.SplitN(stack, "\n", 2)[0]
	if !strings.Contains(first, "TestErrorStackStartsAtCaller") {
		t.Fatalf("expected first frame to be the caller, got %q", first)
	}
}
