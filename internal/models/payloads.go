package models

// These structs define the request and response payloads of the tools. The
// same types back the MCP tool schemas and the HTTP function's JSON bodies.

// OverviewRequest is the input for get_presentation_overview.
type OverviewRequest struct {
	PresentationID string `json:"presentationId" jsonschema:"Google Slides ID from the URL (after /d/)"`
}

// OverviewResponse is a low-detail summary of every slide.
type OverviewResponse struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	SlideCount int            `json:"slideCount"`
	Slides     []SlideSummary `json:"slides"`
}

// SlideSummary describes one slide in an overview.
type SlideSummary struct {
	Num          int    `json:"num"`
	Summary      string `json:"summary"`
	ElementCount int    `json:"elementCount"`
}

// GetSlideRequest is the input for get_slide.
type GetSlideRequest struct {
	PresentationID string `json:"presentationId" jsonschema:"Google Slides ID"`
	SlideNumber    int    `json:"slideNumber" jsonschema:"slide position, 1 for the first slide"`
}

// SlideResponse holds the flattened elements of one slide.
type SlideResponse struct {
	Num      int       `json:"num"`
	ID       string    `json:"id"`
	Elements []Element `json:"elements"`
}

// UpdateTextRequest is the input for update_text.
type UpdateTextRequest struct {
	PresentationID string `json:"presentationId" jsonschema:"Google Slides ID"`
	SlideNumber    int    `json:"slideNumber" jsonschema:"slide position, 1 for the first slide"`
	ElementID      string `json:"elementId" jsonschema:"element id from get_slide"`
	Text           string `json:"text" jsonschema:"new text content, use \n for line breaks"`
}

// UpdateTextResponse is the result of update_text.
type UpdateTextResponse struct {
	Success bool `json:"success"`
}

// TextUpdate pairs an element id with its new text.
type TextUpdate struct {
	ID   string `json:"id" jsonschema:"element id from get_slide"`
	Text string `json:"text" jsonschema:"new text content"`
}

// ReplaceElementsRequest is the input for replace_slide_elements.
type ReplaceElementsRequest struct {
	PresentationID string       `json:"presentationId" jsonschema:"Google Slides ID"`
	SlideNumber    int          `json:"slideNumber" jsonschema:"slide position, 1 for the first slide"`
	Elements       []TextUpdate `json:"elements" jsonschema:"text updates to apply in one batch"`
}

// ReplaceElementsResponse is the result of replace_slide_elements.
type ReplaceElementsResponse struct {
	Success bool `json:"success"`
	Updated int  `json:"updated"`
}

// Positions accepted by add_element.
const (
	PositionTop    = "top"
	PositionCenter = "center"
	PositionBottom = "bottom"
)

// AddElementRequest is the input for add_element.
type AddElementRequest struct {
	PresentationID string `json:"presentationId" jsonschema:"Google Slides ID"`
	SlideNumber    int    `json:"slideNumber" jsonschema:"slide position, 1 for the first slide"`
	Type           string `json:"type" jsonschema:"element type: image or table"`
	URL            string `json:"url,omitempty" jsonschema:"public image URL, required for images"`
	Position       string `json:"position,omitempty" jsonschema:"top, center (default) or bottom"`
	Rows           int64  `json:"rows,omitempty" jsonschema:"table rows, default 2"`
	Cols           int64  `json:"cols,omitempty" jsonschema:"table columns, default 2"`
}

// AddElementResponse is the result of add_element.
type AddElementResponse struct {
	Success   bool   `json:"success"`
	ElementID string `json:"elementId"`
}

// DuplicateSlideRequest is the input for duplicate_slide.
type DuplicateSlideRequest struct {
	PresentationID string `json:"presentationId" jsonschema:"Google Slides ID"`
	SourceSlide    int    `json:"sourceSlide" jsonschema:"slide to copy, 1 for the first slide"`
	InsertAt       int    `json:"insertAt,omitempty" jsonschema:"requested position of the copy, defaults to after the source"`
}

// DuplicateSlideResponse is the result of duplicate_slide.
type DuplicateSlideResponse struct {
	Success        bool   `json:"success"`
	NewSlideNumber int    `json:"newSlideNumber"`
	NewSlideID     string `json:"newSlideId,omitempty"`
}

// ListPresentationsRequest is the input for list_presentations.
type ListPresentationsRequest struct {
	Query string `json:"query,omitempty" jsonschema:"only presentations whose name contains this text"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results, default 20, max 100"`
}

// ListPresentationsResponse is the result of list_presentations.
type ListPresentationsResponse struct {
	Presentations []PresentationFile `json:"presentations"`
}
