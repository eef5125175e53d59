package services

import (
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/Lllllllleong/slidesmcp/internal/errinfo"
	"github.com/Lllllllleong/slidesmcp/internal/models"
	"google.golang.org/api/slides/v1"
)

const rangeFixed = "FIXED_RANGE"

// utf16Len is the length of s in the unit Slides uses for text indexes.
func utf16Len(s string) int64 {
	return int64(len(utf16.Encode([]rune(s))))
}

// deletableLength is the length of a shape's text without the final
// newline, which the service keeps in every shape.
func deletableLength(text *slides.TextContent) int64 {
	if text == nil {
		return 0
	}
	var b strings.Builder
	for _, te := range text.TextElements {
		if te == nil {
			continue
		}
		switch {
		case te.TextRun != nil:
			b.WriteString(te.TextRun.Content)
		case te.AutoText != nil:
			b.WriteString(te.AutoText.Content)
		}
	}
	content := b.String()
	n := utf16Len(content)
	if strings.HasSuffix(content, "\n") {
		n--
	}
	return n
}

// planSetText replaces the text of one element. The new text is inserted
// at index 0 first, so it takes the style of the old first character; the
// old content, now at [len(newText), len(newText)+currentLen), is deleted
// second. Empty inserts and empty ranges are left out.
func planSetText(elementID, newText string, currentLen int64) []*slides.Request {
	var requests []*slides.Request
	start := utf16Len(newText)
	if start > 0 {
		requests = append(requests, &slides.Request{
			InsertText: &slides.InsertTextRequest{
				ObjectId:        elementID,
				Text:            newText,
				InsertionIndex:  0,
				ForceSendFields: []string{"InsertionIndex"},
			},
		})
	}
	if currentLen > 0 {
		end := start + currentLen
		requests = append(requests, &slides.Request{
			DeleteText: &slides.DeleteTextRequest{
				ObjectId: elementID,
				TextRange: &slides.Range{
					Type:       rangeFixed,
					StartIndex: &start,
					EndIndex:   &end,
				},
			},
		})
	}
	return requests
}

// planTextUpdates validates every target against the slide and plans all
// updates as one batch. An element updated twice is planned against the
// text the first update leaves behind.
func planTextUpdates(presentationID string, slideNumber int, page *slides.Page, updates []models.TextUpdate) ([]*slides.Request, error) {
	lengths := make(map[string]int64, len(updates))
	var requests []*slides.Request
	for i, u := range updates {
		if strings.TrimSpace(u.ID) == "" {
			return nil, errinfo.InvalidParams(presentationID, fmt.Sprintf("elements[%d] has no id", i))
		}
		current, seen := lengths[u.ID]
		if !seen {
			pe := findElement(page.PageElements, u.ID)
			if pe == nil {
				return nil, errinfo.ElementNotFound(presentationID, slideNumber, u.ID)
			}
			if kindOf(pe) != kindShape || !isTextShape(pe.Shape) {
				err := errinfo.InvalidParams(presentationID, "element does not hold text")
				err.SlideNumber = slideNumber
				err.ElementID = u.ID
				return nil, err
			}
			current = deletableLength(pe.Shape.Text)
		}
		requests = append(requests, planSetText(u.ID, u.Text, current)...)
		lengths[u.ID] = utf16Len(u.Text)
	}
	return requests, nil
}
