package docaccess

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/fumiama/go-docx"
)

// DocxDoc is a .docx backend. Reads map the word document into raw records;
// writes are buffered and flushed on Sync as a rebuilt document at OutPath.
//
// The reader exposes paragraph text, style names, run-level font attributes
// and table shape. Inline media and section geometry are not surfaced by the
// parser, so those record slices stay empty for docx inputs.
type DocxDoc struct {
	mu      sync.Mutex
	path    string
	outPath string
	doc     *RawDocument
	tables  []*docx.Table
	pending []Op
}

// NewDocxDoc opens a .docx document for analysis and remediation. Remediated
// output is written to outPath on Sync; an empty outPath overwrites the input.
func NewDocxDoc(path, outPath string) *DocxDoc {
	if outPath == "" {
		outPath = path
	}
	return &DocxDoc{path: path, outPath: outPath}
}

func (d *DocxDoc) ReadBatch(ctx context.Context) (*RawDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.load(); err != nil {
		return nil, err
	}
	c := cloneRaw(*d.doc)
	return &c, nil
}

func (d *DocxDoc) WriteBatch(ctx context.Context, ops []Op) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = append(d.pending, ops...)
	return nil
}

func (d *DocxDoc) Sync(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.pending) == 0 {
		return nil
	}
	if err := d.load(); err != nil {
		return err
	}
	for _, op := range d.pending {
		if err := applyOp(d.doc, op); err != nil {
			d.pending = nil
			return err
		}
	}
	d.pending = nil
	return d.save()
}

func (d *DocxDoc) ReadOnly() bool { return false }

func (d *DocxDoc) load() error {
	if d.doc != nil {
		return nil
	}
	f, err := os.Open(d.path)
	if err != nil {
		return fmt.Errorf("open docx: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat docx: %w", err)
	}
	word, err := docx.Parse(f, info.Size())
	if err != nil {
		return fmt.Errorf("parse docx: %w", err)
	}

	raw := &RawDocument{Sections: []RawSection{{Top: 72, Bottom: 72, Left: 72, Right: 72}}}
	for _, item := range word.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			raw.Paragraphs = append(raw.Paragraphs, docxParagraphRecord(it))
		case *docx.Table:
			raw.Tables = append(raw.Tables, docxTableRecord(it))
			d.tables = append(d.tables, it)
		}
	}
	d.doc = raw
	return nil
}

func docxTableRecord(tbl *docx.Table) RawTable {
	rec := RawTable{Rows: len(tbl.TableRows)}
	if tbl.TableProperties != nil && tbl.TableProperties.Style != nil {
		rec.StyleName = tbl.TableProperties.Style.Val
	}
	if len(tbl.TableRows) == 0 {
		return rec
	}
	rec.Cols = len(tbl.TableRows[0].TableCells)

	hasText := false
	bold := true
	for _, cell := range tbl.TableRows[0].TableCells {
		for _, p := range cell.Paragraphs {
			pr := docxParagraphRecord(p)
			if pr.Text == "" {
				continue
			}
			hasText = true
			if !pr.Bold {
				bold = false
			}
		}
	}
	rec.FirstRowBold = hasText && bold
	return rec
}

func docxParagraphRecord(para *docx.Paragraph) RawParagraph {
	rec := RawParagraph{ListLevel: -1}
	if para.Properties != nil && para.Properties.Style != nil {
		rec.StyleName = para.Properties.Style.Val
	}

	var buf strings.Builder
	runs := 0
	boldRuns := 0
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		hasText := false
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
				hasText = true
			}
		}
		if !hasText {
			continue
		}
		runs++
		if rp := run.RunProperties; rp != nil {
			if rp.Bold != nil {
				boldRuns++
			}
			if rec.FontName == "" && rp.Fonts != nil {
				rec.FontName = rp.Fonts.ASCII
			}
			if rec.FontSize == 0 && rp.Size != nil {
				if half, err := strconv.ParseFloat(rp.Size.Val, 64); err == nil {
					rec.FontSize = half / 2
				}
			}
		}
	}
	rec.Text = strings.TrimSpace(buf.String())
	rec.Bold = runs > 0 && boldRuns == runs
	return rec
}

func (d *DocxDoc) save() error {
	w := docx.New().WithDefaultTheme()
	for _, p := range d.doc.Paragraphs {
		para := w.AddParagraph()
		if p.StyleName != "" {
			para.Properties = &docx.ParagraphProperties{Style: &docx.Style{Val: p.StyleName}}
		}
		if p.Text == "" {
			continue
		}
		run := para.AddText(p.Text)
		if p.FontName != "" {
			run.Font(p.FontName, p.FontName, p.FontName, "default")
		}
		if p.FontSize > 0 {
			run.Size(strconv.Itoa(int(p.FontSize * 2)))
		}
		if p.Color != "" {
			run.Color(strings.TrimPrefix(p.Color, "#"))
		}
		if p.Bold {
			run.Bold()
		}
	}

	// Tables carry their parsed content through unchanged; only the table
	// style from the applied ops is rewritten.
	for i, tbl := range d.tables {
		if i < len(d.doc.Tables) && d.doc.Tables[i].StyleName != "" {
			if tbl.TableProperties == nil {
				tbl.TableProperties = &docx.WTableProperties{}
			}
			tbl.TableProperties.Style = &docx.WTableStyle{Val: d.doc.Tables[i].StyleName}
		}
		w.Document.Body.Items = append(w.Document.Body.Items, tbl)
	}

	out, err := os.Create(d.outPath)
	if err != nil {
		return fmt.Errorf("create docx: %w", err)
	}
	defer out.Close()
	if _, err := w.WriteTo(out); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}
