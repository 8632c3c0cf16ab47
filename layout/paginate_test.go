package layout

import (
	"errors"
	"testing"

	"deckgen/style"
)

// A body row taller than the page at its resolved size shrinks to the
// largest fitting size instead of overflowing.
func TestPaginateShrinksOversizedRow(t *testing.T) {
	size := 40
	tbl := &style.ResolvedTable{Rows: []style.ResolvedRow{{
		Cells: []style.ResolvedCell{{Paragraphs: []style.ResolvedParagraph{{
			Text: "Total", Style: contentStyleWithSize(&size),
		}}}},
	}}}

	boxWidth := 4 * EMUPerInch
	pageHeight := EMUPerInch / 2

	pages, err := PaginateTable(tbl, boxWidth, pageHeight, 9)
	if err != nil {
		t.Fatalf("PaginateTable: %v", err)
	}
	if len(pages) != 1 || len(pages[0].Body) != 1 {
		t.Fatalf("pages = %+v", pages)
	}
	row := pages[0].Body[0]
	if h := RowHeight(&row, boxWidth, 0); h > pageHeight {
		t.Fatalf("row height %d still exceeds page height %d", h, pageHeight)
	}
	got := row.Cells[0].Paragraphs[0].Style.FontSize
	if got == nil || *got >= size || *got < 9 {
		t.Fatalf("shrunk size = %v, want within [9, 40)", got)
	}
	if *tbl.Rows[0].Cells[0].Paragraphs[0].Style.FontSize != 40 {
		t.Fatal("shrinking must not mutate the source table")
	}
}

func TestPaginateShrinkRespectsMinimum(t *testing.T) {
	size := 40
	tbl := &style.ResolvedTable{Rows: []style.ResolvedRow{{
		Cells: []style.ResolvedCell{{Paragraphs: []style.ResolvedParagraph{{
			Text: "Total", Style: contentStyleWithSize(&size),
		}}}},
	}}}

	// Too short for the row even at the minimum size.
	_, err := PaginateTable(tbl, 4*EMUPerInch, EMUPerInch/8, 9)
	var rtl *RowTooLargeError
	if !errors.As(err, &rtl) {
		t.Fatalf("expected RowTooLargeError, got %v", err)
	}
	if rtl.RowIndex != 0 {
		t.Fatalf("RowIndex = %d, want 0", rtl.RowIndex)
	}
}

// A header row that leaves no body space at any permitted size is an error,
// not a silently degenerate page.
func TestPaginateHeaderTallerThanPageErrors(t *testing.T) {
	var long string
	for i := 0; i < 80; i++ {
		long += "line\n"
	}
	size := fixedCellFont
	tbl := &style.ResolvedTable{Rows: []style.ResolvedRow{
		{IsHeader: true, Cells: []style.ResolvedCell{{Paragraphs: []style.ResolvedParagraph{{
			Text: long, Style: contentStyleWithSize(&size),
		}}}}},
		{Cells: []style.ResolvedCell{fixedCell("r0")}},
	}}

	_, err := PaginateTable(tbl, 4*EMUPerInch, 2*EMUPerInch, fixedCellFont)
	var rtl *RowTooLargeError
	if !errors.As(err, &rtl) {
		t.Fatalf("expected RowTooLargeError, got %v", err)
	}
	if rtl.RowIndex != 0 {
		t.Fatalf("RowIndex = %d, want the header row", rtl.RowIndex)
	}
}
