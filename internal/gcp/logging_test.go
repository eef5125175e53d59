package gcp

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigureLogging(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	t.Run("stream only", func(t *testing.T) {
		t.Setenv("ENABLE_LOGGING", "false")
		var buf bytes.Buffer
		closeFn, err := ConfigureLogging(&buf)
		if err != nil {
			t.Fatalf("ConfigureLogging: %v", err)
		}
		defer closeFn()

		slog.Debug("hidden")
		slog.Info("shown", "presentationId", "deck1")
		if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), `"presentationId":"deck1"`) {
			t.Fatalf("unexpected output: %s", buf.String())
		}
	})

	t.Run("file log", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs.txt")
		t.Setenv("ENABLE_LOGGING", "true")
		t.Setenv("LOG_FILE", path)
		var buf bytes.Buffer
		closeFn, err := ConfigureLogging(&buf)
		if err != nil {
			t.Fatalf("ConfigureLogging: %v", err)
		}

		slog.Debug("debug record")
		if err := closeFn(); err != nil {
			t.Fatalf("close: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read log file: %v", err)
		}
		if !strings.Contains(string(data), "debug record") || !strings.Contains(buf.String(), "debug record") {
			t.Fatalf("debug record missing: file=%q stream=%q", data, buf.String())
		}
	})
}
