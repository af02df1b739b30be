package detect

import (
	"reflect"
	"testing"

	"github.com/vasuvaghasia/formate/internal/docmodel"
)

func body(text, font string) docmodel.ParagraphInfo {
	return docmodel.ParagraphInfo{Text: text, FontName: font}
}

func heading(level int, basis docmodel.HeadingBasis) docmodel.ParagraphInfo {
	return docmodel.ParagraphInfo{
		Text:    "Heading",
		Heading: &docmodel.HeadingInfo{Level: level, Basis: basis},
	}
}

func model(paras ...docmodel.ParagraphInfo) *docmodel.DocumentModel {
	for i := range paras {
		paras[i].Index = i
	}
	return &docmodel.DocumentModel{Paragraphs: paras}
}

func TestFonts_ModalWithContiguousRun(t *testing.T) {
	// 8 Calibri, 2 contiguous Arial, 1 Calibri.
	paras := make([]docmodel.ParagraphInfo, 0, 11)
	for i := 0; i < 8; i++ {
		paras = append(paras, body("text", "Calibri"))
	}
	paras = append(paras, body("text", "Arial"), body("text", "Arial"), body("text", "Calibri"))
	m := model(paras...)

	if modal := ModalFont(m); modal != "Calibri" {
		t.Fatalf("expected modal font Calibri, got %q", modal)
	}

	problems := Fonts(m)
	if len(problems) != 1 {
		t.Fatalf("expected 1 problem, got %d", len(problems))
	}
	want := docmodel.Range{Start: 8, End: 9}
	if problems[0].Range != want {
		t.Errorf("expected range %+v, got %+v", want, problems[0].Range)
	}
}

func TestFonts_TieBreaksToFirstSeen(t *testing.T) {
	m := model(
		body("a", "Georgia"), body("b", "Georgia"),
		body("c", "Arial"), body("d", "Arial"),
	)
	if modal := ModalFont(m); modal != "Georgia" {
		t.Errorf("tie should break to first font reaching the max, got %q", modal)
	}
}

func TestFonts_IgnoresHeadingsAndEmpty(t *testing.T) {
	m := model(
		heading(1, docmodel.BasisStyle),
		body("a", "Calibri"),
		body("", ""),
		body("b", "Calibri"),
	)
	m.Paragraphs[0].FontName = "Georgia"
	if problems := Fonts(m); len(problems) != 0 {
		t.Errorf("heading font counted as deviation: %+v", problems)
	}
}

func TestFonts_SeparateRuns(t *testing.T) {
	m := model(
		body("a", "Calibri"), body("b", "Arial"),
		body("c", "Calibri"), body("d", "Arial"),
		body("e", "Calibri"),
	)
	if problems := Fonts(m); len(problems) != 2 {
		t.Errorf("expected 2 problems for 2 separate runs, got %d", len(problems))
	}
}

func TestHeadings_SkipAndFake(t *testing.T) {
	m := model(
		heading(1, docmodel.BasisStyle),
		body("text", "Calibri"),
		heading(3, docmodel.BasisStyle), // skip: 1 -> 3
		heading(3, docmodel.BasisVisual),
	)
	problems := Headings(m)
	var skips, fakes int
	for _, p := range problems {
		switch p.Severity {
		case SeverityInfo:
			skips++
		case SeverityWarning:
			fakes++
		}
	}
	if skips != 1 {
		t.Errorf("expected 1 hierarchy skip, got %d (%+v)", skips, problems)
	}
	if fakes != 1 {
		t.Errorf("expected 1 fake heading, got %d (%+v)", fakes, problems)
	}
}

func TestHeadings_MissingTopLevelIsASkip(t *testing.T) {
	// The walk starts at level 0, so a document opening at H2 or deeper
	// skips a level just like H1 -> H3 does.
	m := model(
		heading(2, docmodel.BasisStyle),
		body("text", "Calibri"),
	)
	problems := Headings(m)
	if len(problems) != 1 {
		t.Fatalf("expected 1 problem for a document starting at H2, got %d", len(problems))
	}
	if problems[0].Severity != SeverityInfo {
		t.Errorf("hierarchy skip should be info severity, got %s", problems[0].Severity)
	}
}

func TestSpacing_RunOfThree(t *testing.T) {
	m := model(
		body("a", "Calibri"),
		body("", ""), body("", ""), body("", ""),
		body("b", "Calibri"),
	)
	problems := Spacing(m)
	if len(problems) != 1 {
		t.Fatalf("expected exactly 1 problem, got %d", len(problems))
	}
	want := docmodel.Range{Start: 1, End: 3}
	if problems[0].Range != want {
		t.Errorf("expected range %+v, got %+v", want, problems[0].Range)
	}
	if problems[0].Description != "3 consecutive empty paragraphs" {
		t.Errorf("count missing from description: %q", problems[0].Description)
	}
}

func TestSpacing_SingleEmptyIgnored(t *testing.T) {
	m := model(body("a", "Calibri"), body("", ""), body("b", "Calibri"))
	if problems := Spacing(m); len(problems) != 0 {
		t.Errorf("single empty paragraph flagged: %+v", problems)
	}
}

func TestImages_MissingAltText(t *testing.T) {
	m := &docmodel.DocumentModel{Images: []docmodel.ImageInfo{
		{Index: 0, HasAltText: true},
		{Index: 1, HasAltText: false},
		{Index: 2, HasAltText: false},
	}}
	problems := Images(m)
	if len(problems) != 2 {
		t.Fatalf("expected 2 problems, got %d", len(problems))
	}
	for _, p := range problems {
		if p.Range != docmodel.NoRange {
			t.Errorf("image problem has paragraph range %+v", p.Range)
		}
	}
}

func TestDetectors_Deterministic(t *testing.T) {
	m := model(
		heading(1, docmodel.BasisStyle),
		body("a", "Calibri"), body("b", "Arial"),
		body("", ""), body("", ""),
		heading(3, docmodel.BasisVisual),
	)
	for _, d := range []Detector{Fonts, Headings, Spacing, Images} {
		first := d(m)
		second := d(m)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("detector not deterministic: %+v vs %+v", first, second)
		}
	}
}

func TestProblemRangesIndexIntoModel(t *testing.T) {
	m := model(
		body("a", "Arial"), body("b", "Calibri"), body("c", "Calibri"),
		body("", ""), body("", ""),
	)
	problems := All(m, []Detector{Fonts, Headings, Spacing, Images})
	for _, p := range problems {
		if p.Range == docmodel.NoRange {
			continue
		}
		if p.Range.Start < 0 || p.Range.End >= len(m.Paragraphs) || p.Range.Start > p.Range.End {
			t.Errorf("problem %s has out-of-model range %+v", p.ID, p.Range)
		}
	}
}
