package detect

import (
	"fmt"

	"github.com/vasuvaghasia/formate/internal/docmodel"
)

// Fonts finds paragraphs deviating from the document's modal body font.
// The modal font is computed over non-empty, non-heading paragraphs; ties
// break toward the first font to reach the maximal count in document order,
// which keeps the result deterministic. One problem is emitted per maximal
// contiguous run of deviating paragraphs.
func Fonts(m *docmodel.DocumentModel) []Problem {
	modal := ModalFont(m)
	if modal == "" {
		return nil
	}

	deviates := func(p docmodel.ParagraphInfo) bool {
		return !p.IsEmpty() && p.Heading == nil && p.FontName != "" && p.FontName != modal
	}

	var out []Problem
	i := 0
	for i < len(m.Paragraphs) {
		if !deviates(m.Paragraphs[i]) {
			i++
			continue
		}
		start := i
		for i < len(m.Paragraphs) && deviates(m.Paragraphs[i]) {
			i++
		}
		end := i - 1
		out = append(out, Problem{
			ID:       fmt.Sprintf("fonts-%d", len(out)+1),
			Category: CategoryFonts,
			Description: fmt.Sprintf("%d paragraph(s) do not use the dominant font %q",
				end-start+1, modal),
			Severity: SeverityWarning,
			Range:    docmodel.Range{Start: start, End: end},
		})
	}
	return out
}

// ModalFont returns the dominant body font, or "" when no paragraph carries
// font information.
func ModalFont(m *docmodel.DocumentModel) string {
	counts := make(map[string]int)
	modal := ""
	best := 0
	for _, p := range m.Paragraphs {
		if p.IsEmpty() || p.Heading != nil || p.FontName == "" {
			continue
		}
		counts[p.FontName]++
		if counts[p.FontName] > best {
			best = counts[p.FontName]
			modal = p.FontName
		}
	}
	return modal
}
