package layout

import "deckgen/style"

// TablePage is one page's worth of a split table: the cloned header row (if
// the table declares one) plus a run of body rows in original order.
type TablePage struct {
	Header *style.ResolvedRow
	Body   []style.ResolvedRow
}

// Height returns the fragment's stacked height at the rows' resolved sizes.
func (p *TablePage) Height(boxWidth int64) int64 {
	cols := p.columns()
	if cols == 0 {
		return 0
	}
	colWidth := boxWidth / int64(cols)
	var h int64
	if p.Header != nil {
		h += RowHeight(p.Header, colWidth, 0)
	}
	for i := range p.Body {
		h += RowHeight(&p.Body[i], colWidth, 0)
	}
	return h
}

func (p *TablePage) columns() int {
	if p.Header != nil {
		return len(p.Header.Cells)
	}
	if len(p.Body) > 0 {
		return len(p.Body[0].Cells)
	}
	return 0
}

// PaginateTable splits a resolved table into pages of at most pageHeight
// vertical space. Body rows are appended in original order until the next
// row would exceed the remaining space; the header row is cloned onto every
// page and never consumed from the row stream. Rows are measured at their
// resolved font sizes. A row taller than the page's body area shrinks
// independently to the largest size in [minFontSize, resolved] that fits; a
// row that does not fit even at minFontSize fails with RowTooLargeError, as
// does a header row that leaves no body space at any permitted size.
func PaginateTable(tbl *style.ResolvedTable, boxWidth, pageHeight int64, minFontSize int) ([]TablePage, error) {
	if len(tbl.Rows) == 0 {
		return nil, nil
	}
	cols := len(tbl.Rows[0].Cells)
	if cols == 0 {
		return nil, nil
	}
	colWidth := boxWidth / int64(cols)

	header := tbl.HeaderRow()
	var headerHeight int64
	if header != nil {
		headerHeight = RowHeight(header, colWidth, 0)
		if headerHeight >= pageHeight {
			// The cloned header must leave body space on every page.
			shrunk, err := fitRow(header, colWidth, pageHeight-1, minFontSize, headerIndex(tbl))
			if err != nil {
				return nil, err
			}
			header = shrunk
			headerHeight = RowHeight(header, colWidth, 0)
		}
	}
	bodyAvail := pageHeight - headerHeight

	body := tbl.BodyRows()
	// Body row indices are reported against the original row sequence,
	// header rows included.
	bodyIndex := make([]int, 0, len(body))
	for i := range tbl.Rows {
		if !tbl.Rows[i].IsHeader {
			bodyIndex = append(bodyIndex, i)
		}
	}

	var pages []TablePage
	current := TablePage{Header: header}
	var used int64

	for i := range body {
		row := body[i]
		h := RowHeight(&row, colWidth, 0)
		if h > bodyAvail {
			shrunk, err := fitRow(&row, colWidth, bodyAvail, minFontSize, bodyIndex[i])
			if err != nil {
				return nil, err
			}
			row = *shrunk
			h = RowHeight(&row, colWidth, 0)
		}
		if used+h > bodyAvail && len(current.Body) > 0 {
			pages = append(pages, current)
			current = TablePage{Header: header}
			used = 0
		}
		current.Body = append(current.Body, row)
		used += h
	}
	if len(current.Body) > 0 || len(pages) == 0 {
		pages = append(pages, current)
	}
	return pages, nil
}

// fitRow shrinks one row to the largest size in [minFontSize, resolved] whose
// height fits maxHeight. rowIndex names the row in the error when even
// minFontSize is too tall.
func fitRow(row *style.ResolvedRow, colWidth, maxHeight int64, minFontSize, rowIndex int) (*style.ResolvedRow, error) {
	start := rowStartSize(row)
	if start < minFontSize {
		start = minFontSize
	}
	size, ok := FitFont(minFontSize, start, func(s int) bool {
		shrunk := shrinkRow(row, s)
		return RowHeight(&shrunk, colWidth, 0) <= maxHeight
	})
	if !ok {
		return nil, &RowTooLargeError{RowIndex: rowIndex}
	}
	shrunk := shrinkRow(row, size)
	return &shrunk, nil
}

// rowStartSize returns the largest resolved paragraph size in the row, the
// upper bound of its shrink search.
func rowStartSize(row *style.ResolvedRow) int {
	max := DefaultTableFontSize
	for ci := range row.Cells {
		for pi := range row.Cells[ci].Paragraphs {
			if s := row.Cells[ci].Paragraphs[pi].Style.FontSize; s != nil && *s > max {
				max = *s
			}
		}
	}
	return max
}

// shrinkRow returns a copy of the row with every paragraph capped at size.
// Paragraphs already at or below size keep their own.
func shrinkRow(row *style.ResolvedRow, size int) style.ResolvedRow {
	out := *row
	out.Cells = make([]style.ResolvedCell, len(row.Cells))
	for ci := range row.Cells {
		cell := row.Cells[ci]
		cell.Paragraphs = append([]style.ResolvedParagraph(nil), cell.Paragraphs...)
		for pi := range cell.Paragraphs {
			cur := DefaultTableFontSize
			if fs := cell.Paragraphs[pi].Style.FontSize; fs != nil {
				cur = *fs
			}
			if cur > size {
				s := size
				cell.Paragraphs[pi].Style.FontSize = &s
			}
		}
		out.Cells[ci] = cell
	}
	return out
}

func headerIndex(tbl *style.ResolvedTable) int {
	for i := range tbl.Rows {
		if tbl.Rows[i].IsHeader {
			return i
		}
	}
	return 0
}
