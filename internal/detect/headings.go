package detect

import (
	"fmt"

	"github.com/vasuvaghasia/formate/internal/docmodel"
)

// Headings finds hierarchy skips between successive headings and paragraphs
// that fake heading status through visual weight instead of a heading style.
// The walk starts at level 0, so a document whose first heading is deeper
// than H1 counts as a skip.
func Headings(m *docmodel.DocumentModel) []Problem {
	var out []Problem
	prevLevel := 0
	for _, p := range m.Paragraphs {
		if p.Heading == nil {
			continue
		}
		if p.Heading.Basis == docmodel.BasisVisual {
			out = append(out, Problem{
				ID:       fmt.Sprintf("headings-%d", len(out)+1),
				Category: CategoryHeadings,
				Description: fmt.Sprintf(
					"paragraph %d looks like a level %d heading but uses body styling",
					p.Index, p.Heading.Level),
				Severity: SeverityWarning,
				Range:    docmodel.Range{Start: p.Index, End: p.Index},
			})
		}
		if p.Heading.Level > prevLevel+1 {
			out = append(out, Problem{
				ID:       fmt.Sprintf("headings-%d", len(out)+1),
				Category: CategoryHeadings,
				Description: fmt.Sprintf(
					"heading level jumps from %d to %d at paragraph %d",
					prevLevel, p.Heading.Level, p.Index),
				Severity: SeverityInfo,
				Range:    docmodel.Range{Start: p.Index, End: p.Index},
			})
		}
		prevLevel = p.Heading.Level
	}
	return out
}
