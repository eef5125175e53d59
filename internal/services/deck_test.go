package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"unicode/utf16"

	"github.com/Lllllllleong/slidesmcp/internal/errinfo"
	"github.com/Lllllllleong/slidesmcp/internal/models"
	"google.golang.org/api/slides/v1"
)

// fakeDeck keeps one presentation in memory and applies batches the way the
// service does: all requests against a copy, committed only if every one
// succeeds. Text shapes are kept as a single run that inherits the style
// of the first character.
type fakeDeck struct {
	mu          sync.Mutex
	p           *slides.Presentation
	reads       int
	writes      int
	batches     [][]*slides.Request
	readErr     error
	writeErr    error
	copyCounter int
}

func newFakeDeck(t *testing.T, p *slides.Presentation) *fakeDeck {
	t.Helper()
	return &fakeDeck{p: clonePresentation(t, p)}
}

func clonePresentation(t testing.TB, p *slides.Presentation) *slides.Presentation {
	t.Helper()
	raw, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal presentation: %v", err)
	}
	var out slides.Presentation
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal presentation: %v", err)
	}
	return &out
}

func (d *fakeDeck) Read(_ context.Context, presentationID string) (*slides.Presentation, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reads++
	if d.readErr != nil {
		return nil, d.readErr
	}
	if presentationID != d.p.PresentationId {
		return nil, errinfo.NotFound(presentationID, fmt.Errorf("no presentation %q", presentationID))
	}
	raw, _ := json.Marshal(d.p)
	var out slides.Presentation
	_ = json.Unmarshal(raw, &out)
	return &out, nil
}

func (d *fakeDeck) BatchWrite(_ context.Context, presentationID string, requests []*slides.Request) (*slides.BatchUpdatePresentationResponse, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writes++
	d.batches = append(d.batches, requests)
	if d.writeErr != nil {
		return nil, d.writeErr
	}

	raw, _ := json.Marshal(d.p)
	var working slides.Presentation
	_ = json.Unmarshal(raw, &working)

	resp := &slides.BatchUpdatePresentationResponse{PresentationId: presentationID}
	for i, r := range requests {
		reply, err := d.apply(&working, r)
		if err != nil {
			return nil, errinfo.TransportFailure(presentationID, fmt.Errorf("request %d: %w", i, err))
		}
		resp.Replies = append(resp.Replies, reply)
	}
	d.p = &working
	return resp, nil
}

func (d *fakeDeck) apply(p *slides.Presentation, r *slides.Request) (*slides.Response, error) {
	switch {
	case r.InsertText != nil:
		shape, err := textShape(p, r.InsertText.ObjectId)
		if err != nil {
			return nil, err
		}
		units := utf16.Encode([]rune(shapeContent(shape)))
		at := r.InsertText.InsertionIndex
		if at < 0 || at > int64(len(units)) {
			return nil, fmt.Errorf("insertion index %d out of bounds", at)
		}
		ins := utf16.Encode([]rune(r.InsertText.Text))
		next := append(append(append([]uint16{}, units[:at]...), ins...), units[at:]...)
		setShapeContent(shape, string(utf16.Decode(next)))
		return &slides.Response{}, nil
	case r.DeleteText != nil:
		shape, err := textShape(p, r.DeleteText.ObjectId)
		if err != nil {
			return nil, err
		}
		rng := r.DeleteText.TextRange
		if rng == nil || rng.Type != rangeFixed || rng.StartIndex == nil || rng.EndIndex == nil {
			return nil, fmt.Errorf("unsupported range")
		}
		units := utf16.Encode([]rune(shapeContent(shape)))
		start, end := *rng.StartIndex, *rng.EndIndex
		// The final newline cannot be deleted.
		if start < 0 || end <= start || end > int64(len(units))-1 {
			return nil, fmt.Errorf("range [%d, %d) out of bounds for %d units", start, end, len(units))
		}
		next := append(append([]uint16{}, units[:start]...), units[end:]...)
		setShapeContent(shape, string(utf16.Decode(next)))
		return &slides.Response{}, nil
	case r.CreateImage != nil:
		return createElement(p, r.CreateImage.ObjectId, r.CreateImage.ElementProperties, &slides.PageElement{
			Image: &slides.Image{ContentUrl: r.CreateImage.Url},
		})
	case r.CreateTable != nil:
		return createElement(p, r.CreateTable.ObjectId, r.CreateTable.ElementProperties, &slides.PageElement{
			Table: &slides.Table{Rows: r.CreateTable.Rows, Columns: r.CreateTable.Columns},
		})
	case r.DuplicateObject != nil:
		for i, page := range p.Slides {
			if page.ObjectId != r.DuplicateObject.ObjectId {
				continue
			}
			d.copyCounter++
			raw, _ := json.Marshal(page)
			var dup slides.Page
			_ = json.Unmarshal(raw, &dup)
			dup.ObjectId = fmt.Sprintf("%s_copy%d", page.ObjectId, d.copyCounter)
			for _, pe := range dup.PageElements {
				pe.ObjectId = fmt.Sprintf("%s_copy%d", pe.ObjectId, d.copyCounter)
			}
			p.Slides = append(p.Slides[:i+1], append([]*slides.Page{&dup}, p.Slides[i+1:]...)...)
			return &slides.Response{DuplicateObject: &slides.DuplicateObjectResponse{ObjectId: dup.ObjectId}}, nil
		}
		return nil, fmt.Errorf("object %q not found", r.DuplicateObject.ObjectId)
	}
	return nil, fmt.Errorf("unsupported request")
}

func textShape(p *slides.Presentation, id string) (*slides.Shape, error) {
	for _, page := range p.Slides {
		if pe := findElement(page.PageElements, id); pe != nil {
			if pe.Shape == nil {
				return nil, fmt.Errorf("object %q is not a shape", id)
			}
			return pe.Shape, nil
		}
	}
	return nil, fmt.Errorf("object %q not found", id)
}

func shapeContent(shape *slides.Shape) string {
	if shape.Text == nil {
		return "\n"
	}
	return runText(shape.Text)
}

func setShapeContent(shape *slides.Shape, content string) {
	var style *slides.TextStyle
	if shape.Text != nil {
		for _, te := range shape.Text.TextElements {
			if te.TextRun != nil && te.TextRun.Style != nil {
				style = te.TextRun.Style
				break
			}
		}
	}
	shape.Text = &slides.TextContent{
		TextElements: []*slides.TextElement{{TextRun: &slides.TextRun{Content: content, Style: style}}},
	}
}

func createElement(p *slides.Presentation, id string, props *slides.PageElementProperties, pe *slides.PageElement) (*slides.Response, error) {
	if hasObjectID(p, id) {
		return nil, fmt.Errorf("object id %q already exists", id)
	}
	for _, page := range p.Slides {
		if page.ObjectId == props.PageObjectId {
			pe.ObjectId = id
			pe.Size = props.Size
			pe.Transform = props.Transform
			page.PageElements = append(page.PageElements, pe)
			return &slides.Response{}, nil
		}
	}
	return nil, fmt.Errorf("page %q not found", props.PageObjectId)
}

// eventLog captures recorded events.
type eventLog struct {
	mu     sync.Mutex
	events []models.AuditEvent
}

func (l *eventLog) Record(ev models.AuditEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *eventLog) named(name string) []models.AuditEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []models.AuditEvent
	for _, ev := range l.events {
		if ev.Name == name {
			out = append(out, ev)
		}
	}
	return out
}

// fixture helpers

func textRun(content string, style *slides.TextStyle) *slides.TextElement {
	return &slides.TextElement{TextRun: &slides.TextRun{Content: content, Style: style}}
}

func shapeElement(id, shapeType, placeholder string, elements ...*slides.TextElement) *slides.PageElement {
	shape := &slides.Shape{ShapeType: shapeType}
	if placeholder != "" {
		shape.Placeholder = &slides.Placeholder{Type: placeholder}
	}
	if len(elements) > 0 {
		shape.Text = &slides.TextContent{TextElements: elements}
	}
	return &slides.PageElement{
		ObjectId:  id,
		Shape:     shape,
		Transform: &slides.AffineTransform{ScaleX: 1, ScaleY: 1, TranslateX: 100, TranslateY: 50, Unit: "EMU"},
	}
}

func imageElement(id, url string) *slides.PageElement {
	return &slides.PageElement{ObjectId: id, Image: &slides.Image{ContentUrl: url}}
}

func groupElement(id string, children ...*slides.PageElement) *slides.PageElement {
	return &slides.PageElement{ObjectId: id, ElementGroup: &slides.Group{Children: children}}
}

// testPresentation has three slides: a title slide, a content slide with a
// bulleted body and a group, and an image-only slide.
func testPresentation() *slides.Presentation {
	bold := &slides.TextStyle{Bold: true, FontSize: &slides.Dimension{Magnitude: 32, Unit: "PT"}}
	return &slides.Presentation{
		PresentationId: "deck1",
		Title:          "Quarterly Review",
		PageSize: &slides.Size{
			Width:  &slides.Dimension{Magnitude: 9144000, Unit: "EMU"},
			Height: &slides.Dimension{Magnitude: 5143500, Unit: "EMU"},
		},
		Slides: []*slides.Page{
			{
				ObjectId: "s1",
				PageElements: []*slides.PageElement{
					shapeElement("s1_title", "TEXT_BOX", "CENTERED_TITLE", textRun("Hello\n", bold)),
					shapeElement("s1_subtitle", "TEXT_BOX", "SUBTITLE", textRun("Q3 results\n", nil)),
				},
			},
			{
				ObjectId: "s2",
				PageElements: []*slides.PageElement{
					shapeElement("s2_title", "TEXT_BOX", "TITLE", textRun("Agenda\n", nil)),
					shapeElement("s2_body", "TEXT_BOX", "BODY",
						textRun("First\n", nil),
						&slides.TextElement{ParagraphMarker: &slides.ParagraphMarker{Bullet: &slides.Bullet{ListId: "l1"}}},
						textRun("Second\n", nil),
						&slides.TextElement{ParagraphMarker: &slides.ParagraphMarker{Bullet: &slides.Bullet{ListId: "l1"}}},
					),
					groupElement("s2_group",
						shapeElement("s2_note", "TEXT_BOX", "", textRun("Grouped note\n", nil)),
						imageElement("s2_logo", "https://example.com/logo.png"),
					),
				},
			},
			{
				ObjectId:     "s3",
				PageElements: []*slides.PageElement{imageElement("s3_photo", "https://example.com/photo.png")},
			},
		},
	}
}

func newTestFunction(t *testing.T) (*SlidesFunction, *fakeDeck, *eventLog) {
	t.Helper()
	deck := newFakeDeck(t, testPresentation())
	events := &eventLog{}
	return New(deck, nil, events), deck, events
}

func textOf(t *testing.T, deck *fakeDeck, id string) string {
	t.Helper()
	deck.mu.Lock()
	defer deck.mu.Unlock()
	shape, err := textShape(deck.p, id)
	if err != nil {
		t.Fatalf("lookup %s: %v", id, err)
	}
	return strings.TrimSuffix(shapeContent(shape), "\n")
}
