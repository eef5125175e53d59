package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

// GetEnv is a helper to read an environment variable or return a default value.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// GetEnvBool reads a boolean environment variable. Unparseable values fall
// back to the default.
func GetEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}

// GetEnvDuration reads a duration such as "90s" or "5m".
func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

// ParseGCSURI splits gs://bucket/object into its parts.
func ParseGCSURI(uri string) (string, string, error) {
	rest, ok := strings.CutPrefix(uri, "gs://")
	if !ok {
		return "", "", fmt.Errorf("not a gs:// uri: %q", uri)
	}
	bucket, object, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" {
		return "", "", fmt.Errorf("gs:// uri must name a bucket and an object: %q", uri)
	}
	return bucket, object, nil
}

// ReadGCSObject returns the full content of an object. A missing object is
// reported as storage.ErrObjectNotExist.
func ReadGCSObject(ctx context.Context, bucket *storage.BucketHandle, objectName string) ([]byte, error) {
	reader, err := bucket.Object(objectName).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to open GCS object %s: %w", objectName, err)
	}
	defer reader.Close()
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read GCS object %s: %w", objectName, err)
	}
	return data, nil
}

// SaveToGCS overwrites an object with content.
func SaveToGCS(ctx context.Context, bucket *storage.BucketHandle, objectName string, content []byte, contentType string) error {
	writer := bucket.Object(objectName).NewWriter(ctx)
	writer.ContentType = contentType

	if _, err := writer.Write(content); err != nil {
		_ = writer.Close()
		slog.Error("Failed to write GCS object", "object", objectName, "error", err)
		return fmt.Errorf("failed to write to GCS: %w", err)
	}

	if err := writer.Close(); err != nil {
		slog.Error("Failed to close GCS writer", "object", objectName, "error", err)
		return fmt.Errorf("failed to finalize GCS write: %w", err)
	}
	return nil
}
