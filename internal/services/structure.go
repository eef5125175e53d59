package services

import (
	"fmt"
	"strings"

	"github.com/Lllllllleong/slidesmcp/internal/errinfo"
	"github.com/Lllllllleong/slidesmcp/internal/models"
	"google.golang.org/api/slides/v1"
)

const (
	defaultPageWidth  = 720.0
	defaultPageHeight = 540.0
	defaultPageUnit   = "PT"

	boxWidthRatio  = 0.6
	boxHeightRatio = 0.4

	defaultTableSize = 2
)

// placement is the bounding box of a new element, in the page's unit.
type placement struct {
	Width, Height float64
	X, Y          float64
	Unit          string
}

// pageGeometry returns the page size, falling back to 720x540 PT when the
// presentation does not report one.
func pageGeometry(p *slides.Presentation) (width, height float64, unit string) {
	width, height, unit = defaultPageWidth, defaultPageHeight, defaultPageUnit
	if p.PageSize == nil || p.PageSize.Width == nil || p.PageSize.Height == nil {
		return width, height, unit
	}
	if p.PageSize.Width.Magnitude <= 0 || p.PageSize.Height.Magnitude <= 0 {
		return width, height, unit
	}
	unit = p.PageSize.Width.Unit
	if unit == "" {
		unit = defaultPageUnit
	}
	return p.PageSize.Width.Magnitude, p.PageSize.Height.Magnitude, unit
}

// computePlacement sizes the box at 60% x 40% of the page, centred
// horizontally, with the vertical offset chosen by position.
func computePlacement(pageWidth, pageHeight float64, unit, position string) (placement, error) {
	pl := placement{
		Width:  pageWidth * boxWidthRatio,
		Height: pageHeight * boxHeightRatio,
		Unit:   unit,
	}
	pl.X = (pageWidth - pl.Width) / 2
	switch strings.ToLower(strings.TrimSpace(position)) {
	case models.PositionTop:
		pl.Y = pageHeight * 0.1
	case models.PositionBottom:
		pl.Y = pageHeight * 0.5
	case "", models.PositionCenter:
		pl.Y = (pageHeight - pl.Height) / 2
	default:
		return placement{}, fmt.Errorf("unsupported position %q (use top, center or bottom)", position)
	}
	return pl, nil
}

// newElementID is deterministic; repeated calls for the same slide and
// type produce the same id.
func newElementID(slideNumber int, elementType string) string {
	return fmt.Sprintf("element_%d_%s", slideNumber, elementType)
}

func normalizeElementType(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

// validateAddElement checks the request before any round trip.
func validateAddElement(req *models.AddElementRequest) error {
	switch normalizeElementType(req.Type) {
	case models.ElementImage:
		if strings.TrimSpace(req.URL) == "" {
			return errinfo.InvalidParams(req.PresentationID, "image elements require a url")
		}
	case models.ElementTable:
	default:
		return errinfo.InvalidParams(req.PresentationID, fmt.Sprintf("unsupported element type %q (use image or table)", req.Type))
	}
	if _, err := computePlacement(defaultPageWidth, defaultPageHeight, defaultPageUnit, req.Position); err != nil {
		return errinfo.InvalidParams(req.PresentationID, err.Error())
	}
	return nil
}

// planAddElement builds the creation request for an image or table on pageID.
func planAddElement(pageID, objectID string, req *models.AddElementRequest, pl placement) *slides.Request {
	props := &slides.PageElementProperties{
		PageObjectId: pageID,
		Size: &slides.Size{
			Width:  &slides.Dimension{Magnitude: pl.Width, Unit: pl.Unit},
			Height: &slides.Dimension{Magnitude: pl.Height, Unit: pl.Unit},
		},
		Transform: &slides.AffineTransform{
			ScaleX:     1,
			ScaleY:     1,
			TranslateX: pl.X,
			TranslateY: pl.Y,
			Unit:       pl.Unit,
		},
	}
	if normalizeElementType(req.Type) == models.ElementImage {
		return &slides.Request{
			CreateImage: &slides.CreateImageRequest{
				ObjectId:          objectID,
				Url:               strings.TrimSpace(req.URL),
				ElementProperties: props,
			},
		}
	}
	rows, cols := req.Rows, req.Cols
	if rows <= 0 {
		rows = defaultTableSize
	}
	if cols <= 0 {
		cols = defaultTableSize
	}
	return &slides.Request{
		CreateTable: &slides.CreateTableRequest{
			ObjectId:          objectID,
			Rows:              rows,
			Columns:           cols,
			ElementProperties: props,
		},
	}
}

// planDuplicateSlide copies a slide. The service places the copy right
// after the source.
func planDuplicateSlide(slideID string) *slides.Request {
	return &slides.Request{
		DuplicateObject: &slides.DuplicateObjectRequest{ObjectId: slideID},
	}
}

// hasObjectID reports whether id is used by any page or page element in
// the presentation, including layouts, masters and grouped children.
func hasObjectID(p *slides.Presentation, id string) bool {
	for _, pages := range [][]*slides.Page{p.Slides, p.Layouts, p.Masters} {
		for _, page := range pages {
			if page == nil {
				continue
			}
			if page.ObjectId == id || findElement(page.PageElements, id) != nil {
				return true
			}
		}
	}
	return false
}
