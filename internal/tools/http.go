package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Lllllllleong/slidesmcp/internal/errinfo"
)

const maxRequestBytes = 1 << 20

// ToolRequest is the body accepted by the HTTP entry point.
type ToolRequest struct {
	Tool      string          `json:"tool"`
	Arguments json.RawMessage `json:"arguments"`
}

type dispatchFunc func(ctx context.Context, svc Service, args json.RawMessage) (any, error)

var dispatchers = map[string]dispatchFunc{
	NameOverview:          dispatch(Service.Overview),
	NameGetSlide:          dispatch(Service.GetSlide),
	NameUpdateText:        dispatch(Service.UpdateText),
	NameReplaceElements:   dispatch(Service.ReplaceElements),
	NameAddElement:        dispatch(Service.AddElement),
	NameDuplicateSlide:    dispatch(Service.DuplicateSlide),
	NameListPresentations: dispatch(Service.ListPresentations),
}

func dispatch[In, Out any](call func(Service, context.Context, *In) (*Out, error)) dispatchFunc {
	return func(ctx context.Context, svc Service, args json.RawMessage) (any, error) {
		var in In
		if len(args) > 0 && string(args) != "null" {
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, errinfo.InvalidParams("", fmt.Sprintf("could not parse arguments: %v", err))
			}
		}
		out, err := call(svc, ctx, &in)
		if err != nil {
			return nil, err
		}
		return out, nil
	}
}

// Dispatch runs the named tool with JSON arguments.
func Dispatch(ctx context.Context, svc Service, tool string, args json.RawMessage) (any, error) {
	d, ok := dispatchers[tool]
	if !ok {
		return nil, errinfo.InvalidParams("", fmt.Sprintf("unknown tool %q", tool))
	}
	return d(ctx, svc, args)
}

// Handler serves POST requests of the form {"tool": ..., "arguments": {...}}.
// Failures are answered with the structured error body and a status derived
// from its kind.
func Handler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		var req ToolRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
			slog.Error("Could not decode request body", "error", err)
			writeError(w, errinfo.InvalidParams("", "could not parse JSON body"))
			return
		}

		logCtx := slog.With("tool", req.Tool)
		res, err := Dispatch(r.Context(), svc, req.Tool, req.Arguments)
		if err != nil {
			logCtx.Warn("Tool call failed", "errorCode", errinfo.KindOf(err), "error", err)
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	})
}

func writeError(w http.ResponseWriter, err error) {
	payload := Payload(err)
	writeJSON(w, errinfo.HTTPStatus(payload.Kind), payload)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}
