package detect

import (
	"fmt"

	"github.com/vasuvaghasia/formate/internal/docmodel"
)

// Images finds images lacking accessibility text, one problem per image.
// Image findings are not paragraph-addressable, so the range is the sentinel.
func Images(m *docmodel.DocumentModel) []Problem {
	var out []Problem
	for _, img := range m.Images {
		if img.HasAltText {
			continue
		}
		out = append(out, Problem{
			ID:          fmt.Sprintf("images-%d", len(out)+1),
			Category:    CategoryImages,
			Description: fmt.Sprintf("image %d has no accessibility text", img.Index),
			Severity:    SeverityWarning,
			Range:       docmodel.NoRange,
		})
	}
	return out
}
