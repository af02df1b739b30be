package docaccess

import (
	"context"
	"fmt"
	"strings"
	"sync"

	pdflib "github.com/ledongthuc/pdf"
)

// PdfDoc is a read-only pdf backend. It supports suggest-mode analysis of
// paragraph structure; pdf carries no mutable style layer, so every write is
// rejected with ErrReadOnly.
type PdfDoc struct {
	mu   sync.Mutex
	path string
	doc  *RawDocument
}

func NewPdfDoc(path string) *PdfDoc {
	return &PdfDoc{path: path}
}

func (d *PdfDoc) ReadBatch(ctx context.Context) (*RawDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.doc == nil {
		raw, err := readPDF(d.path)
		if err != nil {
			return nil, err
		}
		d.doc = raw
	}
	c := cloneRaw(*d.doc)
	return &c, nil
}

func (d *PdfDoc) WriteBatch(ctx context.Context, ops []Op) error { return ErrReadOnly }
func (d *PdfDoc) Sync(ctx context.Context) error                 { return nil }
func (d *PdfDoc) ReadOnly() bool                                 { return true }

func readPDF(path string) (*RawDocument, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	raw := &RawDocument{}
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		for _, line := range strings.Split(text, "\n") {
			raw.Paragraphs = append(raw.Paragraphs, RawParagraph{
				Text:      strings.TrimSpace(line),
				ListLevel: -1,
			})
		}
		raw.Sections = append(raw.Sections, RawSection{Top: 72, Bottom: 72, Left: 72, Right: 72})
	}
	return raw, nil
}
