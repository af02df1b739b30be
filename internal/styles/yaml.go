package styles

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseTemplateYAML decodes one template definition.
func ParseTemplateYAML(data []byte) (FormatTemplate, error) {
	var t FormatTemplate
	if err := yaml.Unmarshal(data, &t); err != nil {
		return FormatTemplate{}, fmt.Errorf("decode template: %w", err)
	}
	if t.ID == "" {
		return FormatTemplate{}, fmt.Errorf("template id is required")
	}
	if t.Rules.Font == "" || t.Rules.FontSize <= 0 {
		return FormatTemplate{}, fmt.Errorf("template %q: font and font_size are required", t.ID)
	}
	return t, nil
}

// LoadTemplateDir scans a directory for *.yaml templates and registers them.
// A missing directory means "no extra templates" to simplify startup.
func (r *Registry) LoadTemplateDir(dir string) (int, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return 0, nil
	}
	entries, err := os.ReadDir(trimmed)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("read template dir %s: %w", trimmed, err)
	}

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(trimmed, name))
		if err != nil {
			return loaded, fmt.Errorf("read template %s: %w", name, err)
		}
		t, err := ParseTemplateYAML(data)
		if err != nil {
			return loaded, fmt.Errorf("template %s: %w", name, err)
		}
		if err := r.Add(t); err != nil {
			return loaded, err
		}
		loaded++
	}
	return loaded, nil
}
