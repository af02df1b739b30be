package docaccess

import (
	"context"
	"sync"
)

// MemDoc is an in-memory document backend with full read/write support.
// Writes are buffered until Sync, like a real host's batched access model.
type MemDoc struct {
	mu      sync.Mutex
	doc     RawDocument
	pending []Op
}

// NewMemDoc builds an in-memory document from an initial state. The given
// document is copied; the caller's value is never aliased.
func NewMemDoc(doc RawDocument) *MemDoc {
	return &MemDoc{doc: cloneRaw(doc)}
}

func (m *MemDoc) ReadBatch(ctx context.Context) (*RawDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := cloneRaw(m.doc)
	return &c, nil
}

func (m *MemDoc) WriteBatch(ctx context.Context, ops []Op) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, ops...)
	return nil
}

func (m *MemDoc) Sync(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, op := range m.pending {
		if err := applyOp(&m.doc, op); err != nil {
			m.pending = nil
			return err
		}
	}
	m.pending = nil
	return nil
}

func (m *MemDoc) ReadOnly() bool { return false }

func cloneRaw(doc RawDocument) RawDocument {
	c := RawDocument{
		Paragraphs: make([]RawParagraph, len(doc.Paragraphs)),
		Tables:     make([]RawTable, len(doc.Tables)),
		Images:     make([]RawImage, len(doc.Images)),
		Sections:   make([]RawSection, len(doc.Sections)),
	}
	copy(c.Paragraphs, doc.Paragraphs)
	copy(c.Tables, doc.Tables)
	copy(c.Images, doc.Images)
	copy(c.Sections, doc.Sections)
	return c
}
