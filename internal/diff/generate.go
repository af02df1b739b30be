package diff

import (
	"fmt"

	"github.com/vasuvaghasia/formate/internal/detect"
	"github.com/vasuvaghasia/formate/internal/docaccess"
	"github.com/vasuvaghasia/formate/internal/docmodel"
	"github.com/vasuvaghasia/formate/internal/styles"
)

// Generate produces the change list for one run. Categories appear in a
// fixed order; each enabled category with relevant findings yields exactly
// one change, and always-beneficial categories (tables, margins) are checked
// directly against the snapshot. All style values come from the template —
// nothing here is hardcoded.
func Generate(m *docmodel.DocumentModel, problems []detect.Problem, opts styles.AutoFormatOptions, tmpl styles.FormatTemplate) []FormatChange {
	byCat := make(map[detect.Category][]detect.Problem)
	for _, p := range problems {
		byCat[p.Category] = append(byCat[p.Category], p)
	}

	enabled := opts.Mode != styles.ModeSuggest
	rules := tmpl.Rules
	var out []FormatChange

	if opts.Fonts && len(byCat[detect.CategoryFonts]) > 0 {
		ps := byCat[detect.CategoryFonts]
		out = append(out, FormatChange{
			ID:       "change-fonts",
			Kind:     docaccess.OpNormalizeFonts,
			Category: detect.CategoryFonts,
			Description: fmt.Sprintf("Normalize body text to %s %gpt",
				rules.Font, rules.FontSize),
			Before: fmt.Sprintf("%d run(s) of paragraphs deviate from the dominant font", len(ps)),
			After:  fmt.Sprintf("All body text in %s %gpt, %g line spacing", rules.Font, rules.FontSize, rules.LineSpacing),
			Range:  coveringRange(ps),
			Command: docaccess.Op{
				Kind:        docaccess.OpNormalizeFonts,
				FontName:    rules.Font,
				FontSize:    rules.FontSize,
				LineSpacing: rules.LineSpacing,
			},
			Enabled: enabled,
		})
	}

	if opts.Headings && len(byCat[detect.CategoryHeadings]) > 0 {
		ps := byCat[detect.CategoryHeadings]
		out = append(out, FormatChange{
			ID:          "change-headings",
			Kind:        docaccess.OpStandardizeHeadings,
			Category:    detect.CategoryHeadings,
			Description: "Standardize heading styles and levels",
			Before:      fmt.Sprintf("%d heading anomaly(ies) detected", len(ps)),
			After:       fmt.Sprintf("Headings restyled per the %s template", tmpl.Name),
			Range:       coveringRange(ps),
			Command: docaccess.Op{
				Kind:     docaccess.OpStandardizeHeadings,
				Headings: rules.Headings,
			},
			Enabled: enabled,
		})
	}

	if opts.Spacing && len(byCat[detect.CategorySpacing]) > 0 {
		ps := byCat[detect.CategorySpacing]
		out = append(out, FormatChange{
			ID:          "change-spacing",
			Kind:        docaccess.OpCollapseBlankRuns,
			Category:    detect.CategorySpacing,
			Description: "Collapse redundant blank paragraphs",
			Before:      fmt.Sprintf("%d run(s) of consecutive empty paragraphs", len(ps)),
			After:       "At most one blank paragraph between blocks",
			Range:       coveringRange(ps),
			Command:     docaccess.Op{Kind: docaccess.OpCollapseBlankRuns},
			Enabled:     enabled,
		})
	}

	if opts.Images {
		altMissing := len(byCat[detect.CategoryImages])
		oversized := 0
		width := rules.ContentWidth()
		for _, img := range m.Images {
			if img.Width > width {
				oversized++
			}
		}
		if altMissing > 0 || oversized > 0 {
			desc := "Resize oversized images to the page width"
			if altMissing > 0 {
				desc += fmt.Sprintf(" (%d image(s) still need accessibility text)", altMissing)
			}
			out = append(out, FormatChange{
				ID:          "change-images",
				Kind:        docaccess.OpResizeImages,
				Category:    detect.CategoryImages,
				Description: desc,
				Before:      fmt.Sprintf("%d oversized image(s), %d without accessibility text", oversized, altMissing),
				After:       fmt.Sprintf("Images fit within %gpt", width),
				Range:       docmodel.NoRange,
				Command: docaccess.Op{
					Kind:          docaccess.OpResizeImages,
					MaxImageWidth: width,
				},
				Enabled: enabled,
			})
		}
	}

	// Table styling is always beneficial: emit whenever tables exist.
	if opts.Tables && len(m.Tables) > 0 {
		out = append(out, FormatChange{
			ID:          "change-tables",
			Kind:        docaccess.OpApplyTableStyle,
			Category:    detect.CategoryTables,
			Description: fmt.Sprintf("Apply the %s table style", rules.TableStyle),
			Before:      fmt.Sprintf("%d table(s) with ad-hoc styling", len(m.Tables)),
			After:       fmt.Sprintf("All tables styled %s with a bold header row", rules.TableStyle),
			Range:       docmodel.NoRange,
			Command: docaccess.Op{
				Kind:       docaccess.OpApplyTableStyle,
				TableStyle: rules.TableStyle,
			},
			Enabled: enabled,
		})
	}

	if opts.Margins && marginsDeviate(m, rules.Margins) {
		out = append(out, FormatChange{
			ID:          "change-margins",
			Kind:        docaccess.OpSetMargins,
			Category:    detect.CategoryMargins,
			Description: "Set page margins to the template values",
			Before:      "One or more sections deviate from the target margins",
			After: fmt.Sprintf("Margins %g/%g/%g/%g pt (top/bottom/left/right)",
				rules.Margins.Top, rules.Margins.Bottom, rules.Margins.Left, rules.Margins.Right),
			Range: docmodel.NoRange,
			Command: docaccess.Op{
				Kind:    docaccess.OpSetMargins,
				Margins: &docaccess.Margins{Top: rules.Margins.Top, Bottom: rules.Margins.Bottom, Left: rules.Margins.Left, Right: rules.Margins.Right},
			},
			Enabled: enabled,
		})
	}

	return out
}

func coveringRange(problems []detect.Problem) docmodel.Range {
	r := docmodel.NoRange
	for _, p := range problems {
		if p.Range == docmodel.NoRange {
			continue
		}
		if r == docmodel.NoRange {
			r = p.Range
			continue
		}
		if p.Range.Start < r.Start {
			r.Start = p.Range.Start
		}
		if p.Range.End > r.End {
			r.End = p.Range.End
		}
	}
	return r
}

func marginsDeviate(m *docmodel.DocumentModel, want docaccess.Margins) bool {
	for _, s := range m.Sections {
		if s.MarginTop != want.Top || s.MarginBottom != want.Bottom ||
			s.MarginLeft != want.Left || s.MarginRight != want.Right {
			return true
		}
	}
	return false
}
