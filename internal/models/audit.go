package models

import "time"

// Event names recorded by the services.
const (
	EventFetch           = "fetch"
	EventBatchWrite      = "batch_write"
	EventInsertAtIgnored = "insert_at_ignored"
	EventToolFailed      = "tool_failed"
)

// AuditEvent is one observation emitted by a tool call. It is stored as-is
// in Firestore when the audit collection is configured.
type AuditEvent struct {
	Name           string    `firestore:"name" json:"name"`
	Tool           string    `firestore:"tool,omitempty" json:"tool,omitempty"`
	PresentationID string    `firestore:"presentationId,omitempty" json:"presentationId,omitempty"`
	SlideNumber    int       `firestore:"slideNumber,omitempty" json:"slideNumber,omitempty"`
	ElementID      string    `firestore:"elementId,omitempty" json:"elementId,omitempty"`
	RequestCount   int       `firestore:"requestCount,omitempty" json:"requestCount,omitempty"`
	ErrorCode      string    `firestore:"errorCode,omitempty" json:"errorCode,omitempty"`
	ErrorDetails   string    `firestore:"errorDetails,omitempty" json:"errorDetails,omitempty"`
	CreatedAt      time.Time `firestore:"createdAt,omitempty" json:"createdAt"`
}
