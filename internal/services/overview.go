package services

import (
	"fmt"
	"strings"

	"github.com/Lllllllleong/slidesmcp/internal/models"
	"google.golang.org/api/slides/v1"
)

const summaryLimit = 50

// summarize builds the low-detail overview of every slide.
func summarize(p *slides.Presentation) *models.OverviewResponse {
	resp := &models.OverviewResponse{
		ID:     p.PresentationId,
		Title:  p.Title,
		Slides: make([]models.SlideSummary, 0, len(p.Slides)),
	}
	for i, page := range p.Slides {
		num := i + 1
		var elements []*slides.PageElement
		if page != nil {
			elements = page.PageElements
		}
		resp.Slides = append(resp.Slides, models.SlideSummary{
			Num:          num,
			Summary:      slideSummary(num, elements),
			ElementCount: len(elements),
		})
	}
	resp.SlideCount = len(resp.Slides)
	return resp
}

// slideSummary returns the first non-blank text run of the top-level
// shapes. Groups are not descended.
func slideSummary(num int, elements []*slides.PageElement) string {
	for _, pe := range elements {
		if pe == nil || pe.Shape == nil || pe.Shape.Text == nil {
			continue
		}
		for _, te := range pe.Shape.Text.TextElements {
			if te == nil || te.TextRun == nil {
				continue
			}
			if text := strings.TrimSpace(te.TextRun.Content); text != "" {
				return truncate(text, summaryLimit)
			}
		}
	}
	return fmt.Sprintf("Slide %d", num)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
