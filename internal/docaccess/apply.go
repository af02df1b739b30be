package docaccess

import (
	"fmt"
	"strings"
)

// applyOp mutates a RawDocument in place according to one op. Shared by every
// writable backend so remediation semantics exist exactly once.
func applyOp(doc *RawDocument, op Op) error {
	switch op.Kind {
	case OpNormalizeFonts:
		normalizeFonts(doc, op)
	case OpStandardizeHeadings:
		standardizeHeadings(doc, op)
	case OpCollapseBlankRuns:
		collapseBlankRuns(doc)
	case OpApplyTableStyle:
		applyTableStyle(doc, op)
	case OpResizeImages:
		resizeImages(doc, op)
	case OpSetMargins:
		setMargins(doc, op)
	default:
		return fmt.Errorf("unknown op kind %q", op.Kind)
	}
	return nil
}

func normalizeFonts(doc *RawDocument, op Op) {
	for i := range doc.Paragraphs {
		p := &doc.Paragraphs[i]
		if excludedFromBodyFont(*p) || VisualHeadingLevel(*p) > 0 {
			continue
		}
		if op.FontName != "" {
			p.FontName = op.FontName
		}
		if op.FontSize > 0 {
			p.FontSize = op.FontSize
		}
		if op.LineSpacing > 0 {
			p.LineSpacing = op.LineSpacing
		}
	}
}

func standardizeHeadings(doc *RawDocument, op Op) {
	// Reclassify fake headings first so the level rules below cover them.
	for i := range doc.Paragraphs {
		p := &doc.Paragraphs[i]
		if level := VisualHeadingLevel(*p); level > 0 {
			p.StyleName = fmt.Sprintf("Heading%d", level)
		}
	}
	for i := range doc.Paragraphs {
		p := &doc.Paragraphs[i]
		level := HeadingStyleLevel(p.StyleName)
		if level == 0 {
			continue
		}
		p.StyleName = fmt.Sprintf("Heading%d", level)
		rule, ok := op.Headings[level]
		if !ok {
			continue
		}
		if rule.FontSize > 0 {
			p.FontSize = rule.FontSize
		}
		p.Bold = rule.Bold
		if rule.Color != "" {
			p.Color = rule.Color
		}
		if rule.Alignment != "" {
			p.Alignment = rule.Alignment
		}
	}
}

func collapseBlankRuns(doc *RawDocument) {
	out := doc.Paragraphs[:0]
	blanks := 0
	for _, p := range doc.Paragraphs {
		if strings.TrimSpace(p.Text) == "" {
			blanks++
			if blanks > 1 {
				continue
			}
		} else {
			blanks = 0
		}
		out = append(out, p)
	}
	doc.Paragraphs = out
}

func applyTableStyle(doc *RawDocument, op Op) {
	for i := range doc.Tables {
		t := &doc.Tables[i]
		if op.TableStyle != "" {
			t.StyleName = op.TableStyle
		}
		if t.Rows > 0 {
			t.FirstRowBold = true
		}
	}
}

func resizeImages(doc *RawDocument, op Op) {
	if op.MaxImageWidth <= 0 {
		return
	}
	for i := range doc.Images {
		img := &doc.Images[i]
		if img.Width <= op.MaxImageWidth {
			continue
		}
		scale := op.MaxImageWidth / img.Width
		img.Width = op.MaxImageWidth
		img.Height = img.Height * scale
	}
}

func setMargins(doc *RawDocument, op Op) {
	if op.Margins == nil {
		return
	}
	for i := range doc.Sections {
		s := &doc.Sections[i]
		s.Top = op.Margins.Top
		s.Bottom = op.Margins.Bottom
		s.Left = op.Margins.Left
		s.Right = op.Margins.Right
	}
}
