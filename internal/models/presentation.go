package models

// Element types reported to agents.
const (
	ElementText  = "text"
	ElementImage = "image"
	ElementTable = "table"
	ElementVideo = "video"
)

// Text roles, inferred from the placeholder type or shape type.
const (
	RoleTitle   = "title"
	RoleBody    = "body"
	RoleTextbox = "textbox"
	RoleText    = "text"
)

// Text formats. One bulleted paragraph makes the whole element "bullets".
const (
	FormatBullets = "bullets"
	FormatPlain   = "plain"
)

// Element is the flat, agent-facing record for one page element. Type
// selects which of the remaining fields are populated.
type Element struct {
	ID   string `json:"id"`
	Type string `json:"type"`

	// text
	Role       string           `json:"role,omitempty"`
	Text       *string          `json:"text,omitempty"`
	Format     string           `json:"format,omitempty"`
	Position   *Position        `json:"position,omitempty"`
	Styles     []TextStyle      `json:"styles,omitempty"`
	Paragraphs []ParagraphStyle `json:"paragraphs,omitempty"`

	// image, video
	URL string `json:"url,omitempty"`

	// table
	Rows int64 `json:"rows,omitempty"`
	Cols int64 `json:"cols,omitempty"`
}

// Position is the element's translation on the page.
type Position struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Unit string  `json:"unit,omitempty"`
}

// RGB channels are in [0, 1].
type RGB struct {
	Red   float64 `json:"red"`
	Green float64 `json:"green"`
	Blue  float64 `json:"blue"`
}

// TextStyle is the styling of a single text run.
type TextStyle struct {
	Bold           bool    `json:"bold"`
	Italic         bool    `json:"italic"`
	Underline      bool    `json:"underline"`
	Strikethrough  bool    `json:"strikethrough"`
	FontSize       float64 `json:"fontSize,omitempty"`
	FontFamily     string  `json:"fontFamily,omitempty"`
	FontWeight     int64   `json:"fontWeight,omitempty"`
	SmallCaps      bool    `json:"smallCaps"`
	BaselineOffset string  `json:"baselineOffset"`
	Foreground     *RGB    `json:"foreground,omitempty"`
	Background     *RGB    `json:"background,omitempty"`
	Link           string  `json:"link,omitempty"`
}

// ParagraphStyle is the styling carried by one paragraph marker.
type ParagraphStyle struct {
	Alignment       string  `json:"alignment,omitempty"`
	LineSpacing     float64 `json:"lineSpacing,omitempty"`
	SpaceAbove      float64 `json:"spaceAbove,omitempty"`
	SpaceBelow      float64 `json:"spaceBelow,omitempty"`
	IndentStart     float64 `json:"indentStart,omitempty"`
	IndentEnd       float64 `json:"indentEnd,omitempty"`
	IndentFirstLine float64 `json:"indentFirstLine,omitempty"`
	Direction       string  `json:"direction,omitempty"`
	SpacingMode     string  `json:"spacingMode,omitempty"`
	Bullet          *Bullet `json:"bullet,omitempty"`
}

// Bullet describes list membership of a paragraph.
type Bullet struct {
	ListID       string `json:"listId"`
	NestingLevel int64  `json:"nestingLevel"`
	Glyph        string `json:"glyph,omitempty"`
}

// PresentationFile is one entry of a Drive listing.
type PresentationFile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ModifiedTime string `json:"modifiedTime,omitempty"`
	URL          string `json:"url,omitempty"`
}
