// Package docmodel defines the immutable snapshot of a document that the
// detectors and diff generator operate on. A model is built once per run and
// discarded afterwards; the live document may change between runs.
package docmodel

// Range addresses a span of paragraphs by index, inclusive. Start and End
// are -1 when a finding is not paragraph-addressable.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// NoRange is the sentinel for findings without a paragraph range.
var NoRange = Range{Start: -1, End: -1}

// HeadingBasis records why a paragraph was classified as a heading.
type HeadingBasis string

const (
	// BasisStyle means the paragraph declares a heading style.
	BasisStyle HeadingBasis = "style"
	// BasisVisual means the paragraph merely looks like a heading
	// (short bold text without a heading style).
	BasisVisual HeadingBasis = "visual"
)

// HeadingInfo tags a paragraph classified as a heading.
type HeadingInfo struct {
	Level int          `json:"level"`
	Basis HeadingBasis `json:"basis"`
}

// ParagraphInfo is one paragraph of the snapshot.
type ParagraphInfo struct {
	Index       int          `json:"index"`
	Text        string       `json:"text"`
	StyleName   string       `json:"style_name,omitempty"`
	FontName    string       `json:"font_name,omitempty"`
	FontSize    float64      `json:"font_size,omitempty"`
	Bold        bool         `json:"bold,omitempty"`
	Alignment   string       `json:"alignment,omitempty"`
	LineSpacing float64      `json:"line_spacing,omitempty"`
	IsListItem  bool         `json:"is_list_item,omitempty"`
	ListLevel   int          `json:"list_level,omitempty"`
	Heading     *HeadingInfo `json:"heading,omitempty"`
}

// IsEmpty reports whether the paragraph carries no text.
func (p ParagraphInfo) IsEmpty() bool {
	return p.Text == ""
}

// TableInfo is one table of the snapshot. ColumnCount is inferred from the
// first row; HasHeaderRow is a heuristic and not verified.
type TableInfo struct {
	Index        int  `json:"index"`
	RowCount     int  `json:"row_count"`
	ColumnCount  int  `json:"column_count"`
	HasHeaderRow bool `json:"has_header_row"`
}

// ImageInfo is one inline image of the snapshot.
type ImageInfo struct {
	Index      int     `json:"index"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	HasAltText bool    `json:"has_alt_text"`
	Wrapping   string  `json:"wrapping"`
}

// SectionInfo is one section with its page margins in points.
type SectionInfo struct {
	Index        int     `json:"index"`
	MarginTop    float64 `json:"margin_top"`
	MarginBottom float64 `json:"margin_bottom"`
	MarginLeft   float64 `json:"margin_left"`
	MarginRight  float64 `json:"margin_right"`
}

// DocumentModel is the full snapshot. Plain data, JSON-serializable, with no
// live references back into the document.
type DocumentModel struct {
	Paragraphs []ParagraphInfo `json:"paragraphs"`
	Tables     []TableInfo     `json:"tables"`
	Images     []ImageInfo     `json:"images"`
	Sections   []SectionInfo   `json:"sections"`
	Headers    []string        `json:"headers"`
	Footers    []string        `json:"footers"`
}
