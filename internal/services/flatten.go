package services

import (
	"strings"

	"github.com/Lllllllleong/slidesmcp/internal/models"
	"google.golang.org/api/slides/v1"
)

// elementKind is the closed set of page element variants the flattener
// understands. Lines, charts, word art and the like are kindOther.
type elementKind int

const (
	kindOther elementKind = iota
	kindShape
	kindImage
	kindTable
	kindVideo
	kindGroup
)

const shapeTypeTextBox = "TEXT_BOX"

func kindOf(pe *slides.PageElement) elementKind {
	switch {
	case pe == nil:
		return kindOther
	case pe.ElementGroup != nil:
		return kindGroup
	case pe.Shape != nil:
		return kindShape
	case pe.Image != nil:
		return kindImage
	case pe.Table != nil:
		return kindTable
	case pe.Video != nil:
		return kindVideo
	default:
		return kindOther
	}
}

// flattenSlide returns the slide's elements in pre-order with groups elided:
// a group's children take the group's place, recursively.
func flattenSlide(page *slides.Page) []models.Element {
	if page == nil {
		return []models.Element{}
	}
	return appendFlattened(make([]models.Element, 0, len(page.PageElements)), page.PageElements)
}

func appendFlattened(out []models.Element, elements []*slides.PageElement) []models.Element {
	for _, pe := range elements {
		switch kindOf(pe) {
		case kindGroup:
			out = appendFlattened(out, pe.ElementGroup.Children)
		case kindShape:
			if isTextShape(pe.Shape) {
				out = append(out, textElement(pe))
			}
		case kindImage:
			out = append(out, models.Element{ID: pe.ObjectId, Type: models.ElementImage, URL: pe.Image.ContentUrl})
		case kindTable:
			out = append(out, models.Element{ID: pe.ObjectId, Type: models.ElementTable, Rows: pe.Table.Rows, Cols: pe.Table.Columns})
		case kindVideo:
			out = append(out, models.Element{ID: pe.ObjectId, Type: models.ElementVideo, URL: pe.Video.Url})
		}
	}
	return out
}

// isTextShape reports whether a shape can hold text: an explicit text box,
// a shape with a text body, or a layout placeholder.
func isTextShape(shape *slides.Shape) bool {
	if shape == nil {
		return false
	}
	return shape.ShapeType == shapeTypeTextBox || shape.Text != nil || shape.Placeholder != nil
}

// textRole infers the role from the placeholder type by substring, so
// CENTERED_TITLE and SUBTITLE are both titles.
func textRole(shape *slides.Shape) string {
	placeholderType := ""
	if shape.Placeholder != nil {
		placeholderType = shape.Placeholder.Type
	}
	switch {
	case strings.Contains(placeholderType, "TITLE"):
		return models.RoleTitle
	case strings.Contains(placeholderType, "BODY"), strings.Contains(placeholderType, "SUBTITLE"):
		return models.RoleBody
	case shape.ShapeType == shapeTypeTextBox:
		return models.RoleTextbox
	default:
		return models.RoleText
	}
}

func textElement(pe *slides.PageElement) models.Element {
	shape := pe.Shape
	text := strings.TrimSpace(runText(shape.Text))
	el := models.Element{
		ID:       pe.ObjectId,
		Type:     models.ElementText,
		Role:     textRole(shape),
		Text:     &text,
		Format:   models.FormatPlain,
		Position: position(pe.Transform),
	}
	styles, paragraphs, bulleted := extractStyles(shape.Text)
	el.Styles = styles
	el.Paragraphs = paragraphs
	if bulleted {
		el.Format = models.FormatBullets
	}
	return el
}

// runText concatenates the content of every text run.
func runText(text *slides.TextContent) string {
	if text == nil {
		return ""
	}
	var b strings.Builder
	for _, te := range text.TextElements {
		if te != nil && te.TextRun != nil {
			b.WriteString(te.TextRun.Content)
		}
	}
	return b.String()
}

func position(t *slides.AffineTransform) *models.Position {
	if t == nil {
		return &models.Position{}
	}
	return &models.Position{X: t.TranslateX, Y: t.TranslateY, Unit: t.Unit}
}

// findElement looks up an element by object id anywhere in the tree,
// including inside groups.
func findElement(elements []*slides.PageElement, objectID string) *slides.PageElement {
	for _, pe := range elements {
		if pe == nil {
			continue
		}
		if pe.ObjectId == objectID {
			return pe
		}
		if pe.ElementGroup != nil {
			if found := findElement(pe.ElementGroup.Children, objectID); found != nil {
				return found
			}
		}
	}
	return nil
}
