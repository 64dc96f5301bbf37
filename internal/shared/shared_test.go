package shared

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

func TestLoggers(t *testing.T) {
	t.Run("NewLogger writes to the given writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		logger.Info("hello", "key", "value")

		if !strings.Contains(buf.String(), "hello") {
			t.Errorf("expected log output to contain message, got %q", buf.String())
		}
	})

	t.Run("SetLogLevel filters lower levels", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		SetLogLevel(logger, log.WarnLevel)
		logger.Info("quiet")

		if buf.Len() != 0 {
			t.Errorf("expected info to be filtered, got %q", buf.String())
		}
	})

	t.Run("NewFileLogger creates parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "sentix.log")
		logger, closer, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("NewFileLogger() error = %v", err)
		}
		logger.Info("to file")
		if err := closer.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
		if err := closer.Close(); err == nil {
			t.Error("expected second Close to report an already closed file")
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		if !strings.Contains(string(data), "to file") {
			t.Errorf("expected file to contain log line, got %q", string(data))
		}
	})
}

func TestHelpers(t *testing.T) {
	t.Run("GenerateID returns a v4 UUID", func(t *testing.T) {
		id := GenerateID()
		parsed, err := uuid.Parse(id)
		if err != nil {
			t.Fatalf("expected valid UUID, got %q: %v", id, err)
		}
		if parsed.Version() != 4 {
			t.Errorf("expected version 4, got %d", parsed.Version())
		}
	})

	t.Run("MarshalJSON pretty and compact", func(t *testing.T) {
		data := map[string]int{"neutral": 5}

		compact, err := MarshalJSON(data, false)
		if err != nil {
			t.Fatalf("MarshalJSON() error = %v", err)
		}
		if string(compact) != `{"neutral":5}` {
			t.Errorf("unexpected compact output %s", compact)
		}

		pretty, err := MarshalJSON(data, true)
		if err != nil {
			t.Fatalf("MarshalJSON() error = %v", err)
		}
		if !strings.Contains(string(pretty), "\n  \"neutral\": 5") {
			t.Errorf("unexpected pretty output %s", pretty)
		}
	})
}
