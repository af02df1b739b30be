package detect

import (
	"fmt"

	"github.com/vasuvaghasia/formate/internal/docmodel"
)

// Spacing finds runs of two or more consecutive empty paragraphs. One problem
// covers each whole run.
func Spacing(m *docmodel.DocumentModel) []Problem {
	var out []Problem
	i := 0
	for i < len(m.Paragraphs) {
		if !m.Paragraphs[i].IsEmpty() {
			i++
			continue
		}
		start := i
		for i < len(m.Paragraphs) && m.Paragraphs[i].IsEmpty() {
			i++
		}
		count := i - start
		if count < 2 {
			continue
		}
		out = append(out, Problem{
			ID:          fmt.Sprintf("spacing-%d", len(out)+1),
			Category:    CategorySpacing,
			Description: fmt.Sprintf("%d consecutive empty paragraphs", count),
			Severity:    SeverityInfo,
			Range:       docmodel.Range{Start: start, End: i - 1},
		})
	}
	return out
}
