package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoggerErrorIncludesContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf})

	ctx := context.Background()
	ctx = log.WithActorID(ctx, "b7a3e1d0-0000-0000-0000-000000000000")
	ctx = log.WithBeverageID(ctx, 7)

	log.Error(ctx, "commit failed", errors.New("boom"))

	if !bytes.Contains(buf.Bytes(), []byte("\"actor_id\"")) {
		t.Fatalf("expected actor_id to be preserved; entry=%s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("\"beverage_id\"")) {
		t.Fatalf("expected beverage_id to be preserved; entry=%s", buf.String())
	}
}

func TestLoggerEventScopeField(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf})

	eventID := uint(3)
	log.Info(log.WithEventID(context.Background(), &eventID), "scoped")
	if !bytes.Contains(buf.Bytes(), []byte("\"event_id\":3")) {
		t.Fatalf("expected event_id field; entry=%s", buf.String())
	}

	buf.Reset()
	log.Info(log.WithEventID(context.Background(), nil), "general")
	if !bytes.Contains(buf.Bytes(), []byte("\"scope\":\"general\"")) {
		t.Fatalf("expected general scope marker; entry=%s", buf.String())
	}
}

func TestParseLevelDefaults(t *testing.T) {
	if lvl := ParseLevel(""); lvl != zerolog.InfoLevel {
		t.Fatalf("expected default info level, got %v", lvl)
	}
	if lvl := ParseLevel("invalid"); lvl != zerolog.InfoLevel {
		t.Fatalf("invalid level should fall back to info, got %v", lvl)
	}
	if lvl := ParseLevel("WARN"); lvl != zerolog.WarnLevel {
		t.Fatalf("level parsing should be case insensitive, got %v", lvl)
	}
}
