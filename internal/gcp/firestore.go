package gcp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/Lllllllleong/slidesmcp/internal/models"
)

// NewFirestoreClient creates and returns a new Firestore client for the given project ID.
func NewFirestoreClient(ctx context.Context, projectID string) (*firestore.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID must be provided to create a firestore client")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return client, nil
}

// FirestoreAuditWriter stores audit events as documents in one collection.
// Write failures are logged and dropped; auditing never fails a tool call.
type FirestoreAuditWriter struct {
	client     *firestore.Client
	collection string
	timeout    time.Duration
}

// NewFirestoreAuditWriter creates a new FirestoreAuditWriter for collection.
func NewFirestoreAuditWriter(client *firestore.Client, collection string) *FirestoreAuditWriter {
	return &FirestoreAuditWriter{client: client, collection: collection, timeout: 10 * time.Second}
}

// Record adds ev as a new document. It blocks for at most the write timeout.
func (w *FirestoreAuditWriter) Record(ev models.AuditEvent) {
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	if _, _, err := w.client.Collection(w.collection).Add(ctx, ev); err != nil {
		slog.Warn("Failed to store audit event", "collection", w.collection, "event", ev.Name, "error", err)
	}
}

// Close closes the underlying Firestore client.
func (w *FirestoreAuditWriter) Close() error {
	return w.client.Close()
}
