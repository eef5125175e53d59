// Package tools exposes the slides service as MCP tools and as a JSON
// dispatcher for the HTTP function.
package tools

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Lllllllleong/slidesmcp/internal/errinfo"
	"github.com/Lllllllleong/slidesmcp/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool names.
const (
	NameOverview          = "get_presentation_overview"
	NameGetSlide          = "get_slide"
	NameUpdateText        = "update_text"
	NameReplaceElements   = "replace_slide_elements"
	NameAddElement        = "add_element"
	NameDuplicateSlide    = "duplicate_slide"
	NameListPresentations = "list_presentations"
)

// Service is the set of operations the tools call.
type Service interface {
	Overview(ctx context.Context, req *models.OverviewRequest) (*models.OverviewResponse, error)
	GetSlide(ctx context.Context, req *models.GetSlideRequest) (*models.SlideResponse, error)
	UpdateText(ctx context.Context, req *models.UpdateTextRequest) (*models.UpdateTextResponse, error)
	ReplaceElements(ctx context.Context, req *models.ReplaceElementsRequest) (*models.ReplaceElementsResponse, error)
	AddElement(ctx context.Context, req *models.AddElementRequest) (*models.AddElementResponse, error)
	DuplicateSlide(ctx context.Context, req *models.DuplicateSlideRequest) (*models.DuplicateSlideResponse, error)
	ListPresentations(ctx context.Context, req *models.ListPresentationsRequest) (*models.ListPresentationsResponse, error)
}

func boolPtr(b bool) *bool { return &b }

// Register adds every tool to server.
func Register(server *mcp.Server, svc Service) {
	addTool(server, &mcp.Tool{
		Name:        NameOverview,
		Description: "Get a quick overview of all slides: title, slide count and a one-line summary per slide. Use first to find which slide to read or edit.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Presentation Overview",
			ReadOnlyHint:  true,
			OpenWorldHint: boolPtr(true),
		},
	}, svc.Overview)

	addTool(server, &mcp.Tool{
		Name:        NameGetSlide,
		Description: "Get every element of one slide with ids, text, formatting and position. Groups are flattened. Element ids are needed for updates.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Get Slide",
			ReadOnlyHint:  true,
			OpenWorldHint: boolPtr(true),
		},
	}, svc.GetSlide)

	addTool(server, &mcp.Tool{
		Name:        NameUpdateText,
		Description: "Replace the text of one element. The new text keeps the formatting of the element's first character.",
		Annotations: &mcp.ToolAnnotations{
			Title:           "Update Text",
			IdempotentHint:  true,
			DestructiveHint: boolPtr(true),
			OpenWorldHint:   boolPtr(true),
		},
	}, svc.UpdateText)

	addTool(server, &mcp.Tool{
		Name:        NameReplaceElements,
		Description: "Replace the text of several elements on one slide in a single atomic batch. Either all updates apply or none do.",
		Annotations: &mcp.ToolAnnotations{
			Title:           "Replace Slide Elements",
			IdempotentHint:  true,
			DestructiveHint: boolPtr(true),
			OpenWorldHint:   boolPtr(true),
		},
	}, svc.ReplaceElements)

	addTool(server, &mcp.Tool{
		Name:        NameAddElement,
		Description: "Add an image or a table to a slide. The element is centred horizontally at the top, center or bottom of the slide.",
		Annotations: &mcp.ToolAnnotations{
			Title:           "Add Element",
			DestructiveHint: boolPtr(false),
			OpenWorldHint:   boolPtr(true),
		},
	}, svc.AddElement)

	addTool(server, &mcp.Tool{
		Name:        NameDuplicateSlide,
		Description: "Duplicate a slide. The copy is placed immediately after the source slide.",
		Annotations: &mcp.ToolAnnotations{
			Title:           "Duplicate Slide",
			DestructiveHint: boolPtr(false),
			OpenWorldHint:   boolPtr(true),
		},
	}, svc.DuplicateSlide)

	addTool(server, &mcp.Tool{
		Name:        NameListPresentations,
		Description: "List Google Slides presentations the user can access, most recently modified first.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "List Presentations",
			ReadOnlyHint:  true,
			OpenWorldHint: boolPtr(true),
		},
	}, svc.ListPresentations)
}

func addTool[In, Out any](server *mcp.Server, tool *mcp.Tool, call func(context.Context, *In) (*Out, error)) {
	mcp.AddTool(server, tool, func(ctx context.Context, _ *mcp.CallToolRequest, in In) (*mcp.CallToolResult, Out, error) {
		var zero Out
		out, err := call(ctx, &in)
		if err != nil {
			return nil, zero, toolError{err: err}
		}
		return nil, *out, nil
	})
}

// toolError renders as the JSON error payload so MCP clients see the same
// body as HTTP callers.
type toolError struct {
	err error
}

func (e toolError) Error() string {
	raw, err := json.Marshal(Payload(e.err))
	if err != nil {
		return e.err.Error()
	}
	return string(raw)
}

func (e toolError) Unwrap() error { return e.err }

// Payload converts any error into the structured error body. Errors outside
// the taxonomy are reported as transport failures.
func Payload(err error) *errinfo.Error {
	var ie *errinfo.Error
	if errors.As(err, &ie) {
		out := *ie
		switch {
		case out.Err == nil:
		case out.Detail == "":
			out.Detail = out.Err.Error()
		default:
			out.Detail += ": " + out.Err.Error()
		}
		return &out
	}
	return &errinfo.Error{Kind: errinfo.KindTransportFailure, Detail: err.Error()}
}
