// Package detect holds the problem detectors: independent pure functions,
// one per issue category, each mapping a document snapshot to findings.
// Detectors never mutate the model or the document; adding a category does
// not touch the existing ones.
package detect

import (
	"github.com/vasuvaghasia/formate/internal/docmodel"
	"github.com/vasuvaghasia/formate/internal/styles"
)

// Severity grades a finding.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Category labels a family of findings and the change that fixes them.
type Category string

const (
	CategoryFonts    Category = "Fonts"
	CategoryHeadings Category = "Headings"
	CategorySpacing  Category = "Spacing"
	CategoryImages   Category = "Images"
	CategoryTables   Category = "Tables"
	CategoryMargins  Category = "Margins"
)

// Problem is one detected deviation from the target style profile.
type Problem struct {
	ID          string         `json:"id"`
	Category    Category       `json:"category"`
	Description string         `json:"description"`
	Severity    Severity       `json:"severity"`
	Range       docmodel.Range `json:"range"`
}

// Detector maps a snapshot to zero or more findings.
type Detector func(*docmodel.DocumentModel) []Problem

// Enabled returns the detectors selected by the run options, keyed by
// category, in a fixed evaluation order.
func Enabled(opts styles.AutoFormatOptions) []Detector {
	var ds []Detector
	if opts.Fonts {
		ds = append(ds, Fonts)
	}
	if opts.Headings {
		ds = append(ds, Headings)
	}
	if opts.Spacing {
		ds = append(ds, Spacing)
	}
	if opts.Images || opts.Accessibility {
		ds = append(ds, Images)
	}
	return ds
}

// All runs the given detectors in order and concatenates their findings.
func All(model *docmodel.DocumentModel, detectors []Detector) []Problem {
	var out []Problem
	for _, d := range detectors {
		out = append(out, d(model)...)
	}
	return out
}
