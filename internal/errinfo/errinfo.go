// Package errinfo holds the closed error taxonomy every tool reports.
package errinfo

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a failure. The set is closed; anything unclassified is a
// transport failure.
type Kind string

const (
	KindAuthFailure      Kind = "AUTH_FAILURE"
	KindNotFound         Kind = "NOT_FOUND"
	KindOutOfRange       Kind = "OUT_OF_RANGE"
	KindInvalidParams    Kind = "INVALID_PARAMS"
	KindDuplicateID      Kind = "DUPLICATE_ID"
	KindTransportFailure Kind = "TRANSPORT_FAILURE"
)

// Sentinels for errors.Is. Matching is by kind only.
var (
	ErrAuthFailure      = &Error{Kind: KindAuthFailure}
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrOutOfRange       = &Error{Kind: KindOutOfRange}
	ErrInvalidParams    = &Error{Kind: KindInvalidParams}
	ErrDuplicateID      = &Error{Kind: KindDuplicateID}
	ErrTransportFailure = &Error{Kind: KindTransportFailure}
)

// Error carries the kind plus enough context to identify the offending
// presentation, slide or element.
type Error struct {
	Kind           Kind   `json:"error_code"`
	PresentationID string `json:"presentation_id,omitempty"`
	SlideNumber    int    `json:"slide_number,omitempty"`
	ElementID      string `json:"element_id,omitempty"`
	Requested      int    `json:"requested,omitempty"`
	Available      int    `json:"available,omitempty"`
	Detail         string `json:"detail,omitempty"`
	Err            error  `json:"-"`
}

// Error renders the kind followed by whatever context is set.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(strings.ToLower(string(e.Kind)))
	if e.PresentationID != "" {
		fmt.Fprintf(&b, " [presentation %s]", e.PresentationID)
	}
	if e.SlideNumber != 0 {
		fmt.Fprintf(&b, " [slide %d]", e.SlideNumber)
	}
	if e.ElementID != "" {
		fmt.Fprintf(&b, " [element %s]", e.ElementID)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindTransportFailure when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindTransportFailure
}

// HTTPStatus is the status code the HTTP entry point reports for a kind.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindAuthFailure:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindOutOfRange, KindInvalidParams:
		return http.StatusBadRequest
	case KindDuplicateID:
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

// AuthFailure reports missing, invalid or revoked credentials.
func AuthFailure(presentationID string, err error) *Error {
	return &Error{Kind: KindAuthFailure, PresentationID: presentationID, Err: err}
}

// NotFound reports a presentation the caller cannot see.
func NotFound(presentationID string, err error) *Error {
	return &Error{Kind: KindNotFound, PresentationID: presentationID, Err: err}
}

// ElementNotFound reports an element id that is not on the given slide.
func ElementNotFound(presentationID string, slideNumber int, elementID string) *Error {
	return &Error{
		Kind:           KindNotFound,
		PresentationID: presentationID,
		SlideNumber:    slideNumber,
		ElementID:      elementID,
		Detail:         "element is not on this slide",
	}
}

// OutOfRange reports a slide number outside [1, available].
func OutOfRange(presentationID string, requested, available int) *Error {
	return &Error{
		Kind:           KindOutOfRange,
		PresentationID: presentationID,
		Requested:      requested,
		Available:      available,
		Detail:         fmt.Sprintf("slide %d not found (presentation has %d slides)", requested, available),
	}
}

// InvalidParams reports a request rejected before any write.
func InvalidParams(presentationID, detail string) *Error {
	return &Error{Kind: KindInvalidParams, PresentationID: presentationID, Detail: detail}
}

// DuplicateID reports an object id already used in the presentation.
func DuplicateID(presentationID, elementID string, err error) *Error {
	return &Error{
		Kind:           KindDuplicateID,
		PresentationID: presentationID,
		ElementID:      elementID,
		Detail:         "object id already exists",
		Err:            err,
	}
}

// TransportFailure wraps any error the other kinds do not cover.
func TransportFailure(presentationID string, err error) *Error {
	return &Error{Kind: KindTransportFailure, PresentationID: presentationID, Err: err}
}
