package styles

import (
	"fmt"
	"sort"

	"github.com/vasuvaghasia/formate/internal/docaccess"
)

// PageWidth is the assumed page width in points (US letter).
const PageWidth = 612

// Rules is the target style payload of a template.
type Rules struct {
	Font        string                         `json:"font" yaml:"font"`
	FontSize    float64                        `json:"font_size" yaml:"font_size"`
	LineSpacing float64                        `json:"line_spacing" yaml:"line_spacing"`
	Margins     docaccess.Margins              `json:"margins" yaml:"margins"`
	TableStyle  string                         `json:"table_style" yaml:"table_style"`
	Headings    map[int]docaccess.HeadingStyle `json:"headings" yaml:"headings"`
}

// ContentWidth is the usable page width inside the template margins.
func (r Rules) ContentWidth() float64 {
	return PageWidth - r.Margins.Left - r.Margins.Right
}

// FormatTemplate is a named rule bundle plus the category toggles it sets by
// default. Toggles holds only the keys the template explicitly sets.
type FormatTemplate struct {
	ID          string          `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description" yaml:"description"`
	Toggles     map[string]bool `json:"toggles" yaml:"toggles"`
	Rules       Rules           `json:"rules" yaml:"rules"`
}

// Registry is the enumerable set of known templates.
type Registry struct {
	templates map[string]FormatTemplate
}

// NewRegistry returns a registry holding the built-in templates.
func NewRegistry() *Registry {
	r := &Registry{templates: make(map[string]FormatTemplate)}
	for _, t := range builtinTemplates() {
		r.templates[t.ID] = t
	}
	return r
}

// Get looks up a template by id.
func (r *Registry) Get(id string) (FormatTemplate, bool) {
	t, ok := r.templates[id]
	return t, ok
}

// List returns all templates ordered by id.
func (r *Registry) List() []FormatTemplate {
	out := make([]FormatTemplate, 0, len(r.templates))
	for _, t := range r.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Add registers a template, replacing any previous one with the same id.
func (r *Registry) Add(t FormatTemplate) error {
	if t.ID == "" {
		return fmt.Errorf("template id is required")
	}
	if t.Rules.Font == "" || t.Rules.FontSize <= 0 {
		return fmt.Errorf("template %q: font and font_size are required", t.ID)
	}
	r.templates[t.ID] = t
	return nil
}

// ApplyTemplateSettings merges a template's default toggles into the caller's
// options. The template wins for the fields it explicitly sets; every other
// manual setting is retained. The template id is always stamped.
func (r *Registry) ApplyTemplateSettings(opts AutoFormatOptions, id string) (AutoFormatOptions, error) {
	t, ok := r.Get(id)
	if !ok {
		return opts, fmt.Errorf("unknown template %q", id)
	}
	merged := opts
	for key, v := range t.Toggles {
		merged.SetToggle(key, v)
	}
	merged.TemplateID = t.ID
	return merged, nil
}

func builtinTemplates() []FormatTemplate {
	stdHeadings := map[int]docaccess.HeadingStyle{
		1: {FontSize: 16, Bold: true, Color: "1F4E79", Alignment: "left"},
		2: {FontSize: 14, Bold: true, Color: "1F4E79", Alignment: "left"},
		3: {FontSize: 12, Bold: true, Color: "2E74B5", Alignment: "left"},
	}
	return []FormatTemplate{
		{
			ID:          "standard",
			Name:        "Standard",
			Description: "General-purpose document styling",
			Toggles: map[string]bool{
				"fonts": true, "headings": true, "spacing": true,
				"tables": true, "images": true,
			},
			Rules: Rules{
				Font: "Calibri", FontSize: 11, LineSpacing: 1.15,
				Margins:    docaccess.Margins{Top: 72, Bottom: 72, Left: 72, Right: 72},
				TableStyle: "TableGrid",
				Headings:   stdHeadings,
			},
		},
		{
			ID:          "academic",
			Name:        "Academic",
			Description: "Double-spaced serif styling for papers",
			Toggles: map[string]bool{
				"fonts": true, "headings": true, "spacing": true,
				"margins": true, "citations": true,
			},
			Rules: Rules{
				Font: "Times New Roman", FontSize: 12, LineSpacing: 2,
				Margins:    docaccess.Margins{Top: 72, Bottom: 72, Left: 72, Right: 72},
				TableStyle: "PlainTable1",
				Headings: map[int]docaccess.HeadingStyle{
					1: {FontSize: 14, Bold: true, Alignment: "center"},
					2: {FontSize: 12, Bold: true, Alignment: "left"},
					3: {FontSize: 12, Bold: false, Alignment: "left"},
				},
			},
		},
		{
			ID:          "resume",
			Name:        "Resume",
			Description: "Compact styling for resumes",
			Toggles: map[string]bool{
				"fonts": true, "headings": true, "spacing": true,
				"margins": true, "tables": false,
			},
			Rules: Rules{
				Font: "Calibri", FontSize: 10.5, LineSpacing: 1,
				Margins:    docaccess.Margins{Top: 54, Bottom: 54, Left: 54, Right: 54},
				TableStyle: "PlainTable1",
				Headings: map[int]docaccess.HeadingStyle{
					1: {FontSize: 14, Bold: true, Alignment: "left"},
					2: {FontSize: 12, Bold: true, Alignment: "left"},
					3: {FontSize: 11, Bold: true, Alignment: "left"},
				},
			},
		},
		{
			ID:          "formal",
			Name:        "Formal",
			Description: "Letter and report styling",
			Toggles: map[string]bool{
				"fonts": true, "headings": true, "spacing": true,
				"margins": true, "images": true,
			},
			Rules: Rules{
				Font: "Cambria", FontSize: 12, LineSpacing: 1.5,
				Margins:    docaccess.Margins{Top: 90, Bottom: 72, Left: 72, Right: 72},
				TableStyle: "TableGrid",
				Headings: map[int]docaccess.HeadingStyle{
					1: {FontSize: 16, Bold: true, Alignment: "center"},
					2: {FontSize: 13, Bold: true, Alignment: "left"},
					3: {FontSize: 12, Bold: true, Alignment: "left"},
				},
			},
		},
	}
}
