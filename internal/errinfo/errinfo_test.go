package errinfo

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestOutOfRange(t *testing.T) {
	err := OutOfRange("deck1", 0, 3)
	if err.Kind != KindOutOfRange {
		t.Fatalf("expected out of range, got %s", err.Kind)
	}
	if err.Requested != 0 || err.Available != 3 {
		t.Fatalf("expected requested/available to be set")
	}
	if !strings.Contains(err.Error(), "deck1") {
		t.Fatalf("expected presentation id in message: %s", err.Error())
	}
}

func TestErrorsIsMatchesByKind(t *testing.T) {
	wrapped := fmt.Errorf("failed to fetch: %w", NotFound("deck1", errors.New("404")))
	if !errors.Is(wrapped, ErrNotFound) {
		t.Fatalf("expected wrapped not found to match sentinel")
	}
	if errors.Is(wrapped, ErrAuthFailure) {
		t.Fatalf("expected kinds to differ")
	}
	if KindOf(wrapped) != KindNotFound {
		t.Fatalf("expected KindOf to see through wrapping")
	}
}

func TestKindOfUnclassified(t *testing.T) {
	if KindOf(errors.New("boom")) != KindTransportFailure {
		t.Fatalf("expected unclassified errors to be transport failures")
	}
}

func TestUnwrapKeepsCause(t *testing.T) {
	cause := errors.New("socket closed")
	err := TransportFailure("deck1", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable")
	}
}

func TestElementNotFoundContext(t *testing.T) {
	msg := ElementNotFound("deck1", 2, "shape9").Error()
	for _, want := range []string{"deck1", "slide 2", "shape9"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in %q", want, msg)
		}
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindAuthFailure:      http.StatusUnauthorized,
		KindNotFound:         http.StatusNotFound,
		KindOutOfRange:       http.StatusBadRequest,
		KindInvalidParams:    http.StatusBadRequest,
		KindDuplicateID:      http.StatusConflict,
		KindTransportFailure: http.StatusBadGateway,
	}
	for kind, want := range cases {
		if got := HTTPStatus(kind); got != want {
			t.Errorf("HTTPStatus(%s) = %d, want %d", kind, got, want)
		}
	}
}
