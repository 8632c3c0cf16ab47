package render

import (
	"bytes"
	"testing"

	"deckgen/content"
	"deckgen/layout"
	"deckgen/style"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func samplePages() []layout.Page {
	bg := "FEE2E2"
	size := 10
	table := &layout.PlacedTable{
		Header: &style.ResolvedRow{IsHeader: true, Cells: []style.ResolvedCell{
			{Paragraphs: []style.ResolvedParagraph{{Text: "Region", Style: content.TextStyle{FontSize: intPtr(11), Bold: boolPtr(true)}}}},
			{Paragraphs: []style.ResolvedParagraph{{Text: "Revenue", Style: content.TextStyle{FontSize: intPtr(11)}}}},
		}},
		Body: []style.ResolvedRow{
			{Cells: []style.ResolvedCell{
				{Paragraphs: []style.ResolvedParagraph{{Text: "EMEA", Style: content.TextStyle{FontSize: &size}}}},
				{Paragraphs: []style.ResolvedParagraph{{Text: "-12%", Style: content.TextStyle{FontSize: &size, Color: strPtr("DC2626")}}}, Background: &bg},
			}},
		},
		FontSize: 10,
	}

	return []layout.Page{
		{
			Title:    &style.ResolvedText{Text: "Quarterly Review", Style: content.TextStyle{FontSize: intPtr(32)}},
			Subtitle: &style.ResolvedText{Text: "FY26 Q2"},
			Footer:   &style.ResolvedText{Text: "Confidential"},
			Blocks: []layout.PlacedBlock{
				{
					Kind: content.BlockTypeText,
					Box:  layout.Box{X: 0, Y: emuPerInch, W: 4 * emuPerInch, H: 2 * emuPerInch},
					Text: &style.ResolvedTextBlock{
						Header:  &style.ResolvedText{Text: "Highlights"},
						Bullets: []style.ResolvedText{{Text: "Growth in core accounts"}},
					},
					FontSize: 14,
				},
				{
					Kind:  content.BlockTypeTable,
					Box:   layout.Box{X: 0, Y: int64(3.2 * emuPerInch), W: 8 * emuPerInch, H: 2 * emuPerInch},
					Table: table,
				},
			},
			ShowNumber: true,
		},
		{
			Title: &style.ResolvedText{Text: "Pipeline"},
			Blocks: []layout.PlacedBlock{
				{
					Kind: content.BlockTypeChart,
					Box:  layout.Box{X: 0, Y: emuPerInch, W: 8 * emuPerInch, H: 3 * emuPerInch},
					Chart: &content.ChartSpec{
						Kind:       content.ChartKindColumn,
						Categories: []string{"Q1", "Q2", "Q3"},
						Series: []content.ChartSeries{
							{Name: "Closed", Values: []float64{4, 7, 5}},
							{Name: "Open", Values: []float64{2, 3, 6}},
						},
						ShowValueLabels: true,
					},
				},
			},
		},
	}
}

func boolPtr(b bool) *bool { return &b }

func TestBuildDeck_ProducesPptxBytes(t *testing.T) {
	service := NewService(nil)

	data, err := service.BuildDeck(samplePages())
	if err != nil {
		t.Fatalf("BuildDeck failed: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("BuildDeck returned empty bytes")
	}
	// A .pptx is a zip container.
	if !bytes.HasPrefix(data, []byte("PK")) {
		t.Fatalf("output does not look like a zip, starts with %q", data[:2])
	}
}

func TestBuildDeck_RejectsEmptyPageList(t *testing.T) {
	service := NewService(nil)
	if _, err := service.BuildDeck(nil); err == nil {
		t.Fatal("BuildDeck with no pages should fail")
	}
}

func TestBuildDeck_LogoCell(t *testing.T) {
	service := NewService(nil)
	// Minimal PNG header is enough for embedding; decoding happens in the
	// viewer, not here.
	logo := &style.Logo{Data: []byte("\x89PNG\r\n\x1a\nfake"), MIME: "image/png"}
	pages := []layout.Page{{
		Title: &style.ResolvedText{Text: "Vendors"},
		Blocks: []layout.PlacedBlock{{
			Kind: content.BlockTypeTable,
			Box:  layout.Box{X: 0, Y: emuPerInch, W: 6 * emuPerInch, H: 2 * emuPerInch},
			Table: &layout.PlacedTable{Body: []style.ResolvedRow{{Cells: []style.ResolvedCell{
				{Paragraphs: []style.ResolvedParagraph{{Text: "acme.com"}}, Logo: logo},
				{Paragraphs: []style.ResolvedParagraph{{Text: "Platinum"}}},
			}}}},
		}},
	}}

	data, err := service.BuildDeck(pages)
	if err != nil {
		t.Fatalf("BuildDeck failed: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("BuildDeck returned empty bytes")
	}
}

func TestArgbNormalization(t *testing.T) {
	cases := map[string]string{
		"1e40af":   "FF1E40AF",
		"#DC2626":  "FFDC2626",
		"FF3B82F6": "FF3B82F6",
	}
	for in, want := range cases {
		if got := argb(in); got != want {
			t.Fatalf("argb(%q) = %q, want %q", in, got, want)
		}
	}
}
