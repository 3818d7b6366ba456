package shared

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLogger(t *testing.T) {
	t.Run("writes to the provided writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		logger.Info("hello")

		if !strings.Contains(buf.String(), "hello") {
			t.Errorf("expected log output, got %q", buf.String())
		}
	})

	t.Run("nil writer defaults to stderr", func(t *testing.T) {
		if NewLogger(nil) == nil {
			t.Error("expected a logger")
		}
	})
}

func TestNewFileLogger(t *testing.T) {
	t.Run("creates parent directories and the log file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "app.log")

		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		logger.Info("started")

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("expected log file created: %v", err)
		}
		if !strings.Contains(string(data), "started") {
			t.Errorf("expected log entry in file, got %q", string(data))
		}
	})

	t.Run("appends across openings", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")

		first, err := NewFileLogger(path)
		if err != nil {
			t.Fatal(err)
		}
		first.Info("one")

		second, err := NewFileLogger(path)
		if err != nil {
			t.Fatal(err)
		}
		second.Info("two")

		data, _ := os.ReadFile(path)
		if !strings.Contains(string(data), "one") || !strings.Contains(string(data), "two") {
			t.Errorf("expected both entries retained, got %q", string(data))
		}
	})
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)
	SetLogLevel(logger, log.ErrorLevel)

	logger.Info("suppressed")
	if buf.Len() != 0 {
		t.Errorf("expected info suppressed at error level, got %q", buf.String())
	}

	logger.Error("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected error logged, got %q", buf.String())
	}
}

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()

	if len(a) != 36 {
		t.Errorf("expected uuid string length 36, got %d", len(a))
	}
	if a == b {
		t.Error("expected distinct ids")
	}
}

func TestMarshalJSON(t *testing.T) {
	data := map[string]string{"key": "value"}

	t.Run("compact", func(t *testing.T) {
		out, err := MarshalJSON(data, false)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if string(out) != `{"key":"value"}` {
			t.Errorf("unexpected output %q", string(out))
		}
	})

	t.Run("pretty", func(t *testing.T) {
		out, err := MarshalJSON(data, true)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(string(out), "\n") {
			t.Errorf("expected indented output, got %q", string(out))
		}
	})

	t.Run("marshal failure is wrapped", func(t *testing.T) {
		if _, err := MarshalJSON(make(chan int), false); err == nil {
			t.Error("expected error for non-serializable data")
		}
	})
}
