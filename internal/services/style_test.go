package services

import (
	"testing"

	"google.golang.org/api/slides/v1"
)

func TestExtractStyles(t *testing.T) {
	text := &slides.TextContent{TextElements: []*slides.TextElement{
		{ParagraphMarker: &slides.ParagraphMarker{
			Style: &slides.ParagraphStyle{
				Alignment:   "CENTER",
				LineSpacing: 115,
				SpaceAbove:  &slides.Dimension{Magnitude: 6, Unit: "PT"},
				IndentStart: &slides.Dimension{Magnitude: 18, Unit: "PT"},
				Direction:   "LEFT_TO_RIGHT",
			},
			Bullet: &slides.Bullet{ListId: "list1", NestingLevel: 1, Glyph: "●"},
		}},
		{TextRun: &slides.TextRun{Content: "Bold ", Style: &slides.TextStyle{
			Bold:               true,
			FontSize:           &slides.Dimension{Magnitude: 18, Unit: "PT"},
			WeightedFontFamily: &slides.WeightedFontFamily{FontFamily: "Roboto", Weight: 700},
			ForegroundColor: &slides.OptionalColor{OpaqueColor: &slides.OpaqueColor{
				RgbColor: &slides.RgbColor{Red: 1, Green: 0.5},
			}},
			BackgroundColor: &slides.OptionalColor{OpaqueColor: &slides.OpaqueColor{ThemeColor: "ACCENT1"}},
			BaselineOffset:  "SUPERSCRIPT",
			Link:            &slides.Link{Url: "https://example.com"},
		}}},
		{TextRun: &slides.TextRun{Content: "plain\n", Style: &slides.TextStyle{BaselineOffset: "BASELINE_OFFSET_UNSPECIFIED"}}},
		{TextRun: &slides.TextRun{Content: "unstyled"}},
	}}

	runs, paragraphs, bulleted := extractStyles(text)

	if !bulleted {
		t.Error("expected bulleted")
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	first := runs[0]
	if !first.Bold || first.FontSize != 18 || first.FontFamily != "Roboto" || first.FontWeight != 700 {
		t.Errorf("unexpected first run: %+v", first)
	}
	if first.Foreground == nil || first.Foreground.Red != 1 || first.Foreground.Green != 0.5 {
		t.Errorf("unexpected foreground: %+v", first.Foreground)
	}
	if first.Background != nil {
		t.Errorf("theme colour should be omitted, got %+v", first.Background)
	}
	if first.BaselineOffset != "SUPERSCRIPT" || first.Link != "https://example.com" {
		t.Errorf("unexpected offset/link: %q/%q", first.BaselineOffset, first.Link)
	}
	if runs[1].BaselineOffset != "NONE" {
		t.Errorf("baseline = %q, want NONE", runs[1].BaselineOffset)
	}

	if len(paragraphs) != 1 {
		t.Fatalf("got %d paragraphs, want 1", len(paragraphs))
	}
	p := paragraphs[0]
	if p.Alignment != "CENTER" || p.LineSpacing != 115 || p.SpaceAbove != 6 || p.IndentStart != 18 || p.Direction != "LEFT_TO_RIGHT" {
		t.Errorf("unexpected paragraph: %+v", p)
	}
	if p.Bullet == nil || p.Bullet.ListID != "list1" || p.Bullet.NestingLevel != 1 || p.Bullet.Glyph != "●" {
		t.Errorf("unexpected bullet: %+v", p.Bullet)
	}
}

func TestExtractStylesNil(t *testing.T) {
	runs, paragraphs, bulleted := extractStyles(nil)
	if runs != nil || paragraphs != nil || bulleted {
		t.Fatalf("expected nothing for nil text, got %v %v %v", runs, paragraphs, bulleted)
	}
}

func TestTextStyleFamilyPrecedence(t *testing.T) {
	style := textStyle(&slides.TextStyle{
		FontFamily:         "Arial",
		WeightedFontFamily: &slides.WeightedFontFamily{FontFamily: "Roboto", Weight: 400},
	})
	if style.FontFamily != "Arial" || style.FontWeight != 400 {
		t.Fatalf("unexpected style: %+v", style)
	}
}
