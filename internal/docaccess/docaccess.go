// Package docaccess abstracts batched read/write access to a live document.
//
// Reads and writes are batched and only become visible after an explicit
// Sync, mirroring hosts that buffer document operations. The pipeline never
// assumes synchronous write visibility.
package docaccess

import (
	"context"
	"errors"
	"strings"
)

// ErrReadOnly is returned by WriteBatch on backends that cannot mutate
// their document (pdf, html). Read-only backends still support analysis.
var ErrReadOnly = errors.New("document backend is read-only")

// Context is the document access boundary consumed by the pipeline.
type Context interface {
	// ReadBatch performs one batched read of the whole document.
	ReadBatch(ctx context.Context) (*RawDocument, error)

	// WriteBatch buffers mutation ops. Effects are not visible until Sync.
	WriteBatch(ctx context.Context, ops []Op) error

	// Sync flushes buffered writes to the document.
	Sync(ctx context.Context) error

	// ReadOnly reports whether WriteBatch will be rejected.
	ReadOnly() bool
}

// RawParagraph is one paragraph record from a read batch.
type RawParagraph struct {
	Text        string  `json:"text"`
	StyleName   string  `json:"style_name,omitempty"`
	FontName    string  `json:"font_name,omitempty"`
	FontSize    float64 `json:"font_size,omitempty"`
	Bold        bool    `json:"bold,omitempty"`
	Color       string  `json:"color,omitempty"`
	Alignment   string  `json:"alignment,omitempty"`
	LineSpacing float64 `json:"line_spacing,omitempty"`
	ListLevel   int     `json:"list_level"` // -1 when not a list item
}

// RawTable is one table record. Cols is inferred from the first row.
type RawTable struct {
	Rows         int    `json:"rows"`
	Cols         int    `json:"cols"`
	StyleName    string `json:"style_name,omitempty"`
	FirstRowBold bool   `json:"first_row_bold,omitempty"`
}

// RawImage is one inline image record. Dimensions are in points.
type RawImage struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	AltText string  `json:"alt_text,omitempty"`
}

// RawSection is one section record with page margins in points.
type RawSection struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Header string  `json:"header,omitempty"`
	Footer string  `json:"footer,omitempty"`
}

// RawDocument is the result of one read batch: plain records with no live
// references back into the document.
type RawDocument struct {
	Paragraphs []RawParagraph `json:"paragraphs"`
	Tables     []RawTable     `json:"tables"`
	Images     []RawImage     `json:"images"`
	Sections   []RawSection   `json:"sections"`
}

// OpKind tags a mutation op.
type OpKind string

const (
	OpNormalizeFonts      OpKind = "normalize_fonts"
	OpStandardizeHeadings OpKind = "standardize_headings"
	OpCollapseBlankRuns   OpKind = "collapse_blank_runs"
	OpApplyTableStyle     OpKind = "apply_table_style"
	OpResizeImages        OpKind = "resize_images"
	OpSetMargins          OpKind = "set_margins"
)

// HeadingStyle is the target rendering for one heading level.
type HeadingStyle struct {
	FontSize  float64 `json:"font_size" yaml:"font_size"`
	Bold      bool    `json:"bold" yaml:"bold"`
	Color     string  `json:"color,omitempty" yaml:"color"`
	Alignment string  `json:"alignment,omitempty" yaml:"alignment"`
}

// Margins are page margins in points.
type Margins struct {
	Top    float64 `json:"top" yaml:"top"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
	Left   float64 `json:"left" yaml:"left"`
	Right  float64 `json:"right" yaml:"right"`
}

// Op is a tagged, serializable mutation command. All parameters are resolved
// by the caller before the op is issued; backends never consult templates.
// Every op is idempotent over an already-conforming document.
type Op struct {
	Kind OpKind `json:"kind"`

	// normalize_fonts
	FontName    string  `json:"font_name,omitempty"`
	FontSize    float64 `json:"font_size,omitempty"`
	LineSpacing float64 `json:"line_spacing,omitempty"`

	// standardize_headings
	Headings map[int]HeadingStyle `json:"headings,omitempty"`

	// apply_table_style
	TableStyle string `json:"table_style,omitempty"`

	// resize_images
	MaxImageWidth float64 `json:"max_image_width,omitempty"`

	// set_margins
	Margins *Margins `json:"margins,omitempty"`
}

// HeadingStyleLevel returns the heading level declared by a style name
// ("Heading1", "heading 2", ...) or 0 for non-heading styles.
func HeadingStyleLevel(style string) int {
	s := strings.ToLower(strings.ReplaceAll(style, " ", ""))
	if !strings.HasPrefix(s, "heading") {
		return 0
	}
	rest := strings.TrimPrefix(s, "heading")
	if len(rest) != 1 || rest[0] < '1' || rest[0] > '6' {
		return 0
	}
	return int(rest[0] - '0')
}

// VisualHeadingLevel reports the heading level implied by a paragraph's
// visual weight: short bold text without a heading style. Returns 0 when the
// paragraph does not look like a heading.
func VisualHeadingLevel(p RawParagraph) int {
	if HeadingStyleLevel(p.StyleName) > 0 {
		return 0
	}
	text := strings.TrimSpace(p.Text)
	if text == "" || len(text) > 80 || !p.Bold {
		return 0
	}
	switch {
	case p.FontSize >= 18:
		return 1
	case p.FontSize >= 15:
		return 2
	default:
		return 3
	}
}

// body-text exclusions for font normalization: headings, titles, quotes, code.
var excludedStyles = map[string]bool{
	"title":         true,
	"subtitle":      true,
	"quote":         true,
	"intensequote":  true,
	"code":          true,
	"htmlcode":      true,
	"preformatted":  true,
	"plaintext":     true,
	"macrotext":     true,
	"caption":       true,
	"footnotetext":  true,
}

// excludedFromBodyFont reports whether a paragraph keeps its own font when
// body fonts are normalized.
func excludedFromBodyFont(p RawParagraph) bool {
	if HeadingStyleLevel(p.StyleName) > 0 {
		return true
	}
	s := strings.ToLower(strings.ReplaceAll(p.StyleName, " ", ""))
	return excludedStyles[s]
}
