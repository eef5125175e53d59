package services

import (
	"github.com/Lllllllleong/slidesmcp/internal/models"
	"google.golang.org/api/slides/v1"
)

const baselineNone = "NONE"

// extractStyles builds one TextStyle per styled run and one ParagraphStyle
// per paragraph marker, in document order. bulleted is true when any
// paragraph carries a bullet.
func extractStyles(text *slides.TextContent) (runs []models.TextStyle, paragraphs []models.ParagraphStyle, bulleted bool) {
	if text == nil {
		return nil, nil, false
	}
	for _, te := range text.TextElements {
		if te == nil {
			continue
		}
		if te.TextRun != nil && te.TextRun.Style != nil {
			runs = append(runs, textStyle(te.TextRun.Style))
		}
		if te.ParagraphMarker != nil {
			paragraphs = append(paragraphs, paragraphStyle(te.ParagraphMarker))
			if te.ParagraphMarker.Bullet != nil {
				bulleted = true
			}
		}
	}
	return runs, paragraphs, bulleted
}

func textStyle(s *slides.TextStyle) models.TextStyle {
	style := models.TextStyle{
		Bold:           s.Bold,
		Italic:         s.Italic,
		Underline:      s.Underline,
		Strikethrough:  s.Strikethrough,
		FontSize:       magnitude(s.FontSize),
		FontFamily:     s.FontFamily,
		SmallCaps:      s.SmallCaps,
		BaselineOffset: baselineOffset(s.BaselineOffset),
		Foreground:     rgb(s.ForegroundColor),
		Background:     rgb(s.BackgroundColor),
	}
	if s.WeightedFontFamily != nil {
		style.FontWeight = s.WeightedFontFamily.Weight
		if style.FontFamily == "" {
			style.FontFamily = s.WeightedFontFamily.FontFamily
		}
	}
	if s.Link != nil {
		style.Link = s.Link.Url
	}
	return style
}

func paragraphStyle(marker *slides.ParagraphMarker) models.ParagraphStyle {
	var style models.ParagraphStyle
	if s := marker.Style; s != nil {
		style = models.ParagraphStyle{
			Alignment:       s.Alignment,
			LineSpacing:     s.LineSpacing,
			SpaceAbove:      magnitude(s.SpaceAbove),
			SpaceBelow:      magnitude(s.SpaceBelow),
			IndentStart:     magnitude(s.IndentStart),
			IndentEnd:       magnitude(s.IndentEnd),
			IndentFirstLine: magnitude(s.IndentFirstLine),
			Direction:       s.Direction,
			SpacingMode:     s.SpacingMode,
		}
	}
	if b := marker.Bullet; b != nil {
		style.Bullet = &models.Bullet{
			ListID:       b.ListId,
			NestingLevel: b.NestingLevel,
			Glyph:        b.Glyph,
		}
	}
	return style
}

func baselineOffset(v string) string {
	switch v {
	case "SUPERSCRIPT", "SUBSCRIPT":
		return v
	default:
		return baselineNone
	}
}

func magnitude(d *slides.Dimension) float64 {
	if d == nil {
		return 0
	}
	return d.Magnitude
}

// rgb returns nil unless the colour is an explicit RGB value; theme colours
// are left out.
func rgb(c *slides.OptionalColor) *models.RGB {
	if c == nil || c.OpaqueColor == nil || c.OpaqueColor.RgbColor == nil {
		return nil
	}
	return &models.RGB{
		Red:   c.OpaqueColor.RgbColor.Red,
		Green: c.OpaqueColor.RgbColor.Green,
		Blue:  c.OpaqueColor.RgbColor.Blue,
	}
}
