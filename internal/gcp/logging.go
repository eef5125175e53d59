package gcp

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// ConfigureLogging installs a JSON slog logger writing to base as the
// default. With ENABLE_LOGGING=true it also appends debug-level records to
// LOG_FILE. The returned func closes the log file.
func ConfigureLogging(base io.Writer) (func() error, error) {
	level := slog.LevelInfo
	out := base
	closeFn := func() error { return nil }

	if GetEnvBool("ENABLE_LOGGING", false) {
		path := GetEnv("LOG_FILE", "logs.txt")
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
		}
		level = slog.LevelDebug
		out = io.MultiWriter(base, f)
		closeFn = f.Close
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})))
	return closeFn, nil
}
