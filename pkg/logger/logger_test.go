package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestInit_WritesJSONAtLevel(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	l := Init(Options{Level: "warn", Output: &buf})

	l.Info().Msg("dropped")
	l.Warn().Str("k", "v").Msg("kept")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "kept" || entry["k"] != "v" || entry["level"] != "warn" {
		t.Fatalf("unexpected entry %+v", entry)
	}
}

func TestInit_OnlyFirstCallApplies(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var first, second bytes.Buffer
	Init(Options{Output: &first})
	l := Init(Options{Output: &second})

	l.Info().Msg("hello")
	if first.Len() == 0 || second.Len() != 0 {
		t.Fatalf("expected output on the first writer only")
	}
}

func TestFromContext_FallsBackToSingleton(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	Init(Options{Output: &buf})

	l := FromContext(context.Background())
	l.Info().Msg("global")
	if !bytes.Contains(buf.Bytes(), []byte(`"message":"global"`)) {
		t.Fatalf("expected the singleton to be used, got %q", buf.String())
	}
}

func TestFromContext(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if l := FromContext(context.Background()); l.GetLevel() != zerolog.Disabled {
		t.Fatalf("expected no-op logger before Init")
	}

	var buf bytes.Buffer
	scoped := zerolog.New(&buf).With().Str("request_id", "req-1").Logger()
	ctx := WithContext(context.Background(), scoped)

	l := FromContext(ctx)
	l.Info().Msg("scoped")
	if !bytes.Contains(buf.Bytes(), []byte(`"request_id":"req-1"`)) {
		t.Fatalf("expected request-scoped field, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
