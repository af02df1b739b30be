// Package report renders a formatting run's change list as a standalone
// HTML review page.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/vasuvaghasia/formate/internal/detect"
	"github.com/vasuvaghasia/formate/internal/diff"
	"github.com/vasuvaghasia/formate/internal/docmodel"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.Table, extension.Strikethrough),
)

// Render produces the HTML review report for one analyzed run.
func Render(filename string, problems []detect.Problem, changes []diff.FormatChange) (string, error) {
	var buf strings.Builder

	fmt.Fprintf(&buf, "# Formatting review — %s\n\n", filename)
	if len(changes) == 0 {
		buf.WriteString("No changes proposed. The document matches the target style.\n")
	} else {
		fmt.Fprintf(&buf, "%d change(s) proposed, %d finding(s).\n\n", len(changes), len(problems))
	}

	for _, c := range changes {
		marker := " "
		if c.Enabled {
			marker = "x"
		}
		fmt.Fprintf(&buf, "## [%s] %s\n\n", c.Category, c.Description)
		fmt.Fprintf(&buf, "- [%s] approved by default\n", marker)
		fmt.Fprintf(&buf, "- **Before:** %s\n", c.Before)
		fmt.Fprintf(&buf, "- **After:** %s\n", c.After)
		if c.Range != docmodel.NoRange {
			fmt.Fprintf(&buf, "- **Paragraphs:** %d–%d\n", c.Range.Start, c.Range.End)
		}
		buf.WriteString("\n")
	}

	if len(problems) > 0 {
		buf.WriteString("## Findings\n\n")
		buf.WriteString("| ID | Severity | Description |\n|---|---|---|\n")
		for _, p := range problems {
			fmt.Fprintf(&buf, "| %s | %s | %s |\n", p.ID, p.Severity, escapePipes(p.Description))
		}
	}

	var out bytes.Buffer
	if err := md.Convert([]byte(buf.String()), &out); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}

	return "<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>Formatting review</title></head><body>\n" +
		out.String() + "</body></html>\n", nil
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
