package docmodel

import (
	"context"
	"strings"

	"github.com/vasuvaghasia/formate/internal/docaccess"
)

// Build performs one batched read against the document and maps the raw
// records into a DocumentModel. A failed read propagates without returning a
// partial model.
func Build(ctx context.Context, access docaccess.Context) (*DocumentModel, error) {
	raw, err := access.ReadBatch(ctx)
	if err != nil {
		return nil, err
	}

	m := &DocumentModel{
		Paragraphs: make([]ParagraphInfo, 0, len(raw.Paragraphs)),
		Tables:     make([]TableInfo, 0, len(raw.Tables)),
		Images:     make([]ImageInfo, 0, len(raw.Images)),
		Sections:   make([]SectionInfo, 0, len(raw.Sections)),
		Headers:    make([]string, 0, len(raw.Sections)),
		Footers:    make([]string, 0, len(raw.Sections)),
	}

	for i, p := range raw.Paragraphs {
		info := ParagraphInfo{
			Index:       i,
			Text:        strings.TrimSpace(p.Text),
			StyleName:   p.StyleName,
			FontName:    p.FontName,
			FontSize:    p.FontSize,
			Bold:        p.Bold,
			Alignment:   p.Alignment,
			LineSpacing: p.LineSpacing,
			IsListItem:  p.ListLevel >= 0,
		}
		if info.IsListItem {
			info.ListLevel = p.ListLevel
		}
		if level := docaccess.HeadingStyleLevel(p.StyleName); level > 0 {
			info.Heading = &HeadingInfo{Level: level, Basis: BasisStyle}
		} else if level := docaccess.VisualHeadingLevel(p); level > 0 {
			info.Heading = &HeadingInfo{Level: level, Basis: BasisVisual}
		}
		m.Paragraphs = append(m.Paragraphs, info)
	}

	for i, t := range raw.Tables {
		cols := t.Cols
		if t.Rows == 0 {
			cols = 0
		}
		m.Tables = append(m.Tables, TableInfo{
			Index:        i,
			RowCount:     t.Rows,
			ColumnCount:  cols,
			HasHeaderRow: t.Rows > 0 && t.FirstRowBold,
		})
	}

	for i, img := range raw.Images {
		m.Images = append(m.Images, ImageInfo{
			Index:      i,
			Width:      img.Width,
			Height:     img.Height,
			HasAltText: strings.TrimSpace(img.AltText) != "",
			Wrapping:   "inline",
		})
	}

	for i, s := range raw.Sections {
		m.Sections = append(m.Sections, SectionInfo{
			Index:        i,
			MarginTop:    s.Top,
			MarginBottom: s.Bottom,
			MarginLeft:   s.Left,
			MarginRight:  s.Right,
		})
		// Sections without header/footer content still get a record.
		m.Headers = append(m.Headers, s.Header)
		m.Footers = append(m.Footers, s.Footer)
	}

	return m, nil
}
