package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewWriter_IncludesStackOnError(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, zerolog.DebugLevel)
	log.Error().Stack().Err(errors.New("boom")).Msg("save failed")

	var payload map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &payload); err != nil {
		t.Fatalf("invalid json log: %v\n%s", err, buf.String())
	}
	if svc, _ := payload["service"].(string); svc != "backlog" {
		t.Fatalf("service = %v, want backlog", payload["service"])
	}
	if lvl, _ := payload["level"].(string); lvl != "error" {
		t.Fatalf("level = %v, want error", payload["level"])
	}
	if _, ok := payload["stack"]; !ok {
		t.Fatalf("expected stack field in error log: %s", buf.String())
	}
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "backlog.log")
	log, closer, err := New(path, "warn")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Info().Msg("hidden")
	log.Warn().Msg("visible")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if strings.Contains(string(data), "hidden") || !strings.Contains(string(data), "visible") {
		t.Fatalf("log file = %q, want only the warn record", data)
	}
}

func TestNew_EmptyPathDiscards(t *testing.T) {
	log, closer, err := New("", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Info().Msg("nowhere")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	if lvl, err := ParseLevel(" DEBUG "); err != nil || lvl != zerolog.DebugLevel {
		t.Fatalf("ParseLevel(DEBUG) = %v, %v", lvl, err)
	}
	if _, err := ParseLevel("chatty"); err == nil {
		t.Fatal("ParseLevel(chatty) error = nil, want error")
	}
}
