package services

import (
	"log/slog"

	"github.com/Lllllllleong/slidesmcp/internal/models"
)

// Recorder receives audit events from tool calls. Implementations must not
// block for long and must never fail the call that emitted the event.
type Recorder interface {
	Record(ev models.AuditEvent)
}

// NopRecorder discards every event. It is the default.
type NopRecorder struct{}

// Record does nothing.
func (NopRecorder) Record(models.AuditEvent) {}

// SlogRecorder writes events to a structured logger.
type SlogRecorder struct {
	Logger *slog.Logger
}

// Record logs ev at Info, or at Warn when it carries an error code.
func (r SlogRecorder) Record(ev models.AuditEvent) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []any{"event", ev.Name}
	if ev.Tool != "" {
		attrs = append(attrs, "tool", ev.Tool)
	}
	if ev.PresentationID != "" {
		attrs = append(attrs, "presentationId", ev.PresentationID)
	}
	if ev.SlideNumber != 0 {
		attrs = append(attrs, "slideNumber", ev.SlideNumber)
	}
	if ev.ElementID != "" {
		attrs = append(attrs, "elementId", ev.ElementID)
	}
	if ev.RequestCount != 0 {
		attrs = append(attrs, "requestCount", ev.RequestCount)
	}
	if ev.ErrorCode != "" {
		logger.Warn("Tool event", append(attrs, "errorCode", ev.ErrorCode, "error", ev.ErrorDetails)...)
		return
	}
	logger.Info("Tool event", attrs...)
}

// MultiRecorder fans an event out to several recorders in order.
type MultiRecorder []Recorder

// Record passes ev to every non-nil recorder.
func (m MultiRecorder) Record(ev models.AuditEvent) {
	for _, r := range m {
		if r != nil {
			r.Record(ev)
		}
	}
}
