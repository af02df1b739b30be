// Package styles holds the target style profiles: run options, the template
// registry and the merge rules between them.
package styles

import "fmt"

// Mode governs default approval of generated changes.
type Mode string

const (
	ModeAutoFix  Mode = "auto-fix"  // apply everything without review
	ModeSemiAuto Mode = "semi-auto" // review first, changes enabled by default
	ModeSuggest  Mode = "suggest"   // review first, changes disabled by default
)

// Processing selects how findings are produced.
type Processing string

const (
	ProcessingHeuristics Processing = "heuristics"
	ProcessingModel      Processing = "model"
)

// AutoFormatOptions are the per-run category toggles and execution policy.
type AutoFormatOptions struct {
	Fonts         bool `json:"fonts"`
	Headings      bool `json:"headings"`
	Spacing       bool `json:"spacing"`
	Lists         bool `json:"lists"`
	Tables        bool `json:"tables"`
	Images        bool `json:"images"`
	Margins       bool `json:"margins"`
	Accessibility bool `json:"accessibility"`
	Grammar       bool `json:"grammar"`
	Citations     bool `json:"citations"`
	Repair        bool `json:"repair"`

	Mode       Mode       `json:"mode"`
	Processing Processing `json:"processing"`
	TemplateID string     `json:"template_id"`
}

// DefaultOptions returns the baseline options before any template merge.
func DefaultOptions() AutoFormatOptions {
	return AutoFormatOptions{
		Fonts:      true,
		Headings:   true,
		Spacing:    true,
		Tables:     true,
		Images:     true,
		Mode:       ModeSemiAuto,
		Processing: ProcessingHeuristics,
		TemplateID: "standard",
	}
}

// Validate rejects malformed options before any document access happens.
func (o AutoFormatOptions) Validate() error {
	switch o.Mode {
	case ModeAutoFix, ModeSemiAuto, ModeSuggest:
	default:
		return fmt.Errorf("unknown run mode %q", o.Mode)
	}
	switch o.Processing {
	case ProcessingHeuristics, ProcessingModel:
	default:
		return fmt.Errorf("unknown processing mode %q", o.Processing)
	}
	if o.TemplateID == "" {
		return fmt.Errorf("template id is required")
	}
	return nil
}

// SetToggle maps a toggle key onto an options field. Unknown keys are
// ignored so newer templates stay loadable by older binaries.
func (o *AutoFormatOptions) SetToggle(key string, v bool) {
	switch key {
	case "fonts":
		o.Fonts = v
	case "headings":
		o.Headings = v
	case "spacing":
		o.Spacing = v
	case "lists":
		o.Lists = v
	case "tables":
		o.Tables = v
	case "images":
		o.Images = v
	case "margins":
		o.Margins = v
	case "accessibility":
		o.Accessibility = v
	case "grammar":
		o.Grammar = v
	case "citations":
		o.Citations = v
	case "repair":
		o.Repair = v
	}
}
