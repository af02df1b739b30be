package docaccess

import (
	"context"
	"testing"
)

func TestNormalizeFonts_SkipsHeadingsAndQuotes(t *testing.T) {
	doc := RawDocument{Paragraphs: []RawParagraph{
		{Text: "Title", StyleName: "Heading1", FontName: "Georgia", FontSize: 16, ListLevel: -1},
		{Text: "body", FontName: "Arial", FontSize: 10, ListLevel: -1},
		{Text: "quoted", StyleName: "Quote", FontName: "Georgia", FontSize: 10, ListLevel: -1},
	}}
	op := Op{Kind: OpNormalizeFonts, FontName: "Calibri", FontSize: 11, LineSpacing: 1.15}
	if err := applyOp(&doc, op); err != nil {
		t.Fatalf("applyOp failed: %v", err)
	}

	if doc.Paragraphs[0].FontName != "Georgia" {
		t.Errorf("heading font changed to %q", doc.Paragraphs[0].FontName)
	}
	if doc.Paragraphs[1].FontName != "Calibri" || doc.Paragraphs[1].FontSize != 11 {
		t.Errorf("body paragraph not normalized: %+v", doc.Paragraphs[1])
	}
	if doc.Paragraphs[2].FontName != "Georgia" {
		t.Errorf("quote font changed to %q", doc.Paragraphs[2].FontName)
	}
}

func TestNormalizeFonts_Idempotent(t *testing.T) {
	doc := RawDocument{Paragraphs: []RawParagraph{
		{Text: "body", FontName: "Arial", FontSize: 10, ListLevel: -1},
	}}
	op := Op{Kind: OpNormalizeFonts, FontName: "Calibri", FontSize: 11}
	applyOp(&doc, op)
	first := doc.Paragraphs[0]
	applyOp(&doc, op)
	if doc.Paragraphs[0] != first {
		t.Errorf("second application changed the paragraph: %+v vs %+v", doc.Paragraphs[0], first)
	}
}

func TestStandardizeHeadings_ReclassifiesFakeHeading(t *testing.T) {
	doc := RawDocument{Paragraphs: []RawParagraph{
		{Text: "Quarterly Results", Bold: true, FontSize: 16, ListLevel: -1},
		{Text: "Plain body text that is long enough not to look like a heading at all, really.", ListLevel: -1},
	}}
	op := Op{Kind: OpStandardizeHeadings, Headings: map[int]HeadingStyle{
		2: {FontSize: 14, Bold: true, Color: "1F4E79"},
	}}
	if err := applyOp(&doc, op); err != nil {
		t.Fatalf("applyOp failed: %v", err)
	}

	if doc.Paragraphs[0].StyleName != "Heading2" {
		t.Errorf("expected Heading2, got %q", doc.Paragraphs[0].StyleName)
	}
	if doc.Paragraphs[0].FontSize != 14 || doc.Paragraphs[0].Color != "1F4E79" {
		t.Errorf("heading rule not enforced: %+v", doc.Paragraphs[0])
	}
	if doc.Paragraphs[1].StyleName != "" {
		t.Errorf("body paragraph reclassified to %q", doc.Paragraphs[1].StyleName)
	}
}

func TestCollapseBlankRuns(t *testing.T) {
	doc := RawDocument{Paragraphs: []RawParagraph{
		{Text: "a", ListLevel: -1},
		{Text: "", ListLevel: -1},
		{Text: "", ListLevel: -1},
		{Text: "", ListLevel: -1},
		{Text: "b", ListLevel: -1},
		{Text: "", ListLevel: -1},
		{Text: "c", ListLevel: -1},
	}}
	applyOp(&doc, Op{Kind: OpCollapseBlankRuns})

	var texts []string
	for _, p := range doc.Paragraphs {
		texts = append(texts, p.Text)
	}
	want := []string{"a", "", "b", "", "c"}
	if len(texts) != len(want) {
		t.Fatalf("expected %v, got %v", want, texts)
	}
	for i := range want {
		if texts[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, texts)
		}
	}
}

func TestResizeImages_PreservesAspectRatio(t *testing.T) {
	doc := RawDocument{Images: []RawImage{
		{Width: 936, Height: 468},
		{Width: 200, Height: 100},
	}}
	applyOp(&doc, Op{Kind: OpResizeImages, MaxImageWidth: 468})

	if doc.Images[0].Width != 468 || doc.Images[0].Height != 234 {
		t.Errorf("oversized image not scaled: %+v", doc.Images[0])
	}
	if doc.Images[1].Width != 200 || doc.Images[1].Height != 100 {
		t.Errorf("fitting image was touched: %+v", doc.Images[1])
	}
}

func TestApplyTableStyleAndMargins(t *testing.T) {
	doc := RawDocument{
		Tables:   []RawTable{{Rows: 3, Cols: 2}, {Rows: 0}},
		Sections: []RawSection{{Top: 36, Bottom: 36, Left: 36, Right: 36}},
	}
	applyOp(&doc, Op{Kind: OpApplyTableStyle, TableStyle: "LightGrid"})
	applyOp(&doc, Op{Kind: OpSetMargins, Margins: &Margins{Top: 72, Bottom: 72, Left: 72, Right: 72}})

	if doc.Tables[0].StyleName != "LightGrid" || !doc.Tables[0].FirstRowBold {
		t.Errorf("table style not applied: %+v", doc.Tables[0])
	}
	if doc.Tables[1].FirstRowBold {
		t.Error("zero-row table got a header row")
	}
	if doc.Sections[0].Left != 72 {
		t.Errorf("margins not applied: %+v", doc.Sections[0])
	}
}

func TestMemDoc_WritesInvisibleUntilSync(t *testing.T) {
	ctx := context.Background()
	m := NewMemDoc(RawDocument{Paragraphs: []RawParagraph{
		{Text: "body", FontName: "Arial", ListLevel: -1},
	}})

	op := Op{Kind: OpNormalizeFonts, FontName: "Calibri"}
	if err := m.WriteBatch(ctx, []Op{op}); err != nil {
		t.Fatalf("WriteBatch failed: %v", err)
	}

	raw, err := m.ReadBatch(ctx)
	if err != nil {
		t.Fatalf("ReadBatch failed: %v", err)
	}
	if raw.Paragraphs[0].FontName != "Arial" {
		t.Error("write became visible before Sync")
	}

	if err := m.Sync(ctx); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	raw, _ = m.ReadBatch(ctx)
	if raw.Paragraphs[0].FontName != "Calibri" {
		t.Errorf("write not visible after Sync: %+v", raw.Paragraphs[0])
	}
}

func TestMemDoc_ReadReturnsCopy(t *testing.T) {
	m := NewMemDoc(RawDocument{Paragraphs: []RawParagraph{{Text: "a", ListLevel: -1}}})
	raw, _ := m.ReadBatch(context.Background())
	raw.Paragraphs[0].Text = "mutated"

	again, _ := m.ReadBatch(context.Background())
	if again.Paragraphs[0].Text != "a" {
		t.Error("ReadBatch aliases internal state")
	}
}

func TestHeadingStyleLevel(t *testing.T) {
	cases := map[string]int{
		"Heading1":  1,
		"heading 3": 3,
		"Heading6":  6,
		"Heading7":  0,
		"Normal":    0,
		"":          0,
	}
	for style, want := range cases {
		if got := HeadingStyleLevel(style); got != want {
			t.Errorf("HeadingStyleLevel(%q) = %d, want %d", style, got, want)
		}
	}
}

func TestVisualHeadingLevel(t *testing.T) {
	if got := VisualHeadingLevel(RawParagraph{Text: "Overview", Bold: true, FontSize: 18}); got != 1 {
		t.Errorf("expected level 1, got %d", got)
	}
	if got := VisualHeadingLevel(RawParagraph{Text: "Overview", Bold: true, FontSize: 12}); got != 3 {
		t.Errorf("expected level 3, got %d", got)
	}
	if got := VisualHeadingLevel(RawParagraph{Text: "Overview", Bold: false, FontSize: 18}); got != 0 {
		t.Errorf("non-bold text classified as heading level %d", got)
	}
	if got := VisualHeadingLevel(RawParagraph{Text: "Overview", StyleName: "Heading2", Bold: true, FontSize: 18}); got != 0 {
		t.Errorf("styled heading classified as visual level %d", got)
	}
}
