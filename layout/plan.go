// Package layout decides how a style-resolved slide maps onto the fixed
// placeholder geometry of a template slide: how many physical pages the
// logical slide expands into, where each block lands, and which font sizes
// make mixed content fit. All measurement is the deterministic estimate in
// metrics.go; the package performs no I/O.
package layout

import (
	"errors"

	"deckgen/content"
	"deckgen/style"
	"deckgen/template"
)

// PlacedTable is a table fragment assigned to one page. FontSize is the
// fit-chosen override; 0 keeps the resolved per-cell sizes.
type PlacedTable struct {
	Header   *style.ResolvedRow
	Body     []style.ResolvedRow
	FontSize int
}

// Rows returns the fragment's rows in render order, header first.
func (p *PlacedTable) Rows() []style.ResolvedRow {
	if p.Header == nil {
		return p.Body
	}
	rows := make([]style.ResolvedRow, 0, len(p.Body)+1)
	rows = append(rows, *p.Header)
	return append(rows, p.Body...)
}

// PlacedBlock is one block instance assigned to a page with final geometry.
type PlacedBlock struct {
	Box      Box
	Kind     string
	Text     *style.ResolvedTextBlock
	Table    *PlacedTable
	Chart    *content.ChartSpec
	FontSize int
}

// ColumnHeader is a column's resolved header text with its placed box.
type ColumnHeader struct {
	Box  Box
	Text *style.ResolvedText
}

// Page is one physical output slide. The chrome boxes carry the template's
// placeholder geometry; a zero box means the template declared no such
// placeholder and the renderer falls back to its defaults.
type Page struct {
	Title         *style.ResolvedText
	TitleBox      Box
	Subtitle      *style.ResolvedText
	SubtitleBox   Box
	Header        *style.ResolvedText
	HeaderBox     Box
	Footer        *style.ResolvedText
	FooterBox     Box
	Blocks        []PlacedBlock
	ColumnHeaders []ColumnHeader
	ShowNumber    bool
}

// Plan assigns a resolved slide's blocks to one or more pages within the
// template slide's placeholder geometry.
//
// A single column holding only tables (and charts) paginates each table
// across pages when auto_paginate_tables is on. Mixed table + text content
// disables pagination and instead shrinks fonts until everything fits one
// page. Multi-column content maps positionally onto the template's declared
// column regions, one page.
func Plan(resolved *style.ResolvedSlide, slideLayout *template.SlideLayout, opts content.GenerateOptions) ([]Page, error) {
	regions := slideLayout.ContentRegions()
	columns := resolved.Columns

	if len(columns) == 0 {
		// Title-only slides produce a single page with no content blocks.
		return []Page{newPage(resolved, slideLayout, opts)}, nil
	}
	if len(columns) != len(regions) {
		return nil, &LayoutMismatchError{Expected: len(regions), Actual: len(columns)}
	}

	paginate := opts.AutoPaginate() && len(columns) == 1 && tableOnly(columns[0].Blocks)
	if paginate {
		return planPaginated(resolved, slideLayout, boxOf(regions[0]), opts)
	}
	return planSinglePage(resolved, slideLayout, regions, opts)
}

// tableOnly reports whether the block list holds at least one table and no
// free text. Charts do not force mixed mode: they have no font to shrink.
func tableOnly(blocks []style.ResolvedBlock) bool {
	hasTable := false
	for i := range blocks {
		switch blocks[i].Kind {
		case content.BlockTypeTable:
			hasTable = true
		case content.BlockTypeText:
			return false
		}
	}
	return hasTable
}

func boxOf(p *template.Placeholder) Box {
	return Box{X: p.X, Y: p.Y, W: p.W, H: p.H}
}

func newPage(resolved *style.ResolvedSlide, slideLayout *template.SlideLayout, opts content.GenerateOptions) Page {
	page := Page{
		Title:      resolved.Title,
		Subtitle:   resolved.Subtitle,
		Header:     resolved.Header,
		Footer:     footerText(resolved, opts),
		ShowNumber: opts.SlideNumbers(),
	}
	if p := slideLayout.Find(template.KindTitle); p != nil {
		page.TitleBox = boxOf(p)
	}
	if p := slideLayout.Find(template.KindSubtitle); p != nil {
		page.SubtitleBox = boxOf(p)
	}
	if p := slideLayout.Find(template.KindHeader); p != nil {
		page.HeaderBox = boxOf(p)
	}
	if p := slideLayout.Find(template.KindFooter); p != nil {
		page.FooterBox = boxOf(p)
	}
	return page
}

// footerText returns the slide's footer, falling back to the deck-level
// footer option when the slide declares none.
func footerText(resolved *style.ResolvedSlide, opts content.GenerateOptions) *style.ResolvedText {
	if resolved.Footer != nil || opts.FooterText == nil || *opts.FooterText == "" {
		return resolved.Footer
	}
	return &style.ResolvedText{
		Text: *opts.FooterText,
		Style: content.TextStyle{
			FontName: opts.FooterFontName,
			FontSize: opts.FooterFontSize,
		},
	}
}

// planPaginated splits the column's table(s) across as many pages as the
// placeholder height requires. Blocks stack top-down in content order: each
// chart and table fragment consumes vertical space on the current page, and
// the next block continues below it, moving to a fresh page when the current
// one is exhausted.
func planPaginated(resolved *style.ResolvedSlide, slideLayout *template.SlideLayout, box Box, opts content.GenerateOptions) ([]Page, error) {
	col := resolved.Columns[0]
	minFont := opts.TableMinFont()

	pages := []Page{newPage(resolved, slideLayout, opts)}
	cur := 0
	y := box.Y
	avail := box.H

	// Continuation pages reuse the full placeholder box and repeat the slide
	// chrome, subtitle excluded.
	freshPage := func() {
		page := newPage(resolved, slideLayout, opts)
		page.Subtitle = nil
		pages = append(pages, page)
		cur = len(pages) - 1
		y = box.Y
		avail = box.H
	}
	place := func(pb PlacedBlock, h int64) {
		pb.Box = Box{X: box.X, Y: y, W: box.W, H: h}
		pages[cur].Blocks = append(pages[cur].Blocks, pb)
		y += h + blockGap
		avail -= h + blockGap
	}

	for i := range col.Blocks {
		b := &col.Blocks[i]
		if b.Kind == content.BlockTypeChart {
			if minChartHeight > avail && avail < box.H {
				freshPage()
			}
			h := minChartHeight
			if h > avail {
				h = avail
			}
			place(PlacedBlock{Kind: content.BlockTypeChart, Chart: b.Chart}, h)
			continue
		}

		if avail <= 0 {
			freshPage()
		}
		tablePages, err := PaginateTable(b.Table, box.W, avail, minFont)
		if err != nil {
			// A row that only overflows the partial remainder of this page
			// still fits a full one.
			var tooLarge *RowTooLargeError
			if !errors.As(err, &tooLarge) || avail >= box.H {
				return nil, err
			}
			freshPage()
			if tablePages, err = PaginateTable(b.Table, box.W, avail, minFont); err != nil {
				return nil, err
			}
		}
		for pi := range tablePages {
			tp := &tablePages[pi]
			if pi > 0 {
				freshPage()
			}
			h := tp.Height(box.W)
			if h > avail {
				h = avail
			}
			place(PlacedBlock{
				Kind:  content.BlockTypeTable,
				Table: &PlacedTable{Header: tp.Header, Body: tp.Body},
			}, h)
		}
	}
	return pages, nil
}

// planSinglePage fits every column's content into its region on one page,
// shrinking table and text fonts independently under a shared descending
// search bound until the whole slide fits, or failing with
// ContentOverflowError when the configured minimums do not suffice.
func planSinglePage(resolved *style.ResolvedSlide, slideLayout *template.SlideLayout, regions []*template.Placeholder, opts content.GenerateOptions) ([]Page, error) {
	page := newPage(resolved, slideLayout, opts)
	tableMin := opts.TableMinFont()
	textMin := opts.TextboxMinFont()

	for ci := range resolved.Columns {
		col := &resolved.Columns[ci]
		box := boxOf(regions[ci])
		if col.Header != nil {
			headerH := resolvedTextHeight(col.Header, 0, DefaultBodyFontSize, box.W)
			page.ColumnHeaders = append(page.ColumnHeaders, ColumnHeader{
				Box:  Box{X: box.X, Y: box.Y, W: box.W, H: headerH},
				Text: col.Header,
			})
			box.Y += headerH
			box.H -= headerH
		}

		tableStart := startSize(col.Blocks, content.BlockTypeTable, DefaultTableFontSize)
		textStart := startSize(col.Blocks, content.BlockTypeText, DefaultBodyFontSize)
		searchTop := tableStart
		if textStart > searchTop {
			searchTop = textStart
		}
		searchFloor := tableMin
		if textMin < searchFloor {
			searchFloor = textMin
		}

		// One bound drives both regions so a page never mixes fit states;
		// each region clamps the bound into its own [min, start] range.
		bound, ok := FitFont(searchFloor, searchTop, func(size int) bool {
			tSize := clampSize(size, tableMin, tableStart)
			xSize := clampSize(size, textMin, textStart)
			return columnFits(col.Blocks, box, tSize, xSize, opts.RepositionTextboxes())
		})
		if !ok {
			return nil, &ContentOverflowError{TableMinFontSize: tableMin, TextboxMinFontSize: textMin}
		}

		tSize := clampSize(bound, tableMin, tableStart)
		xSize := clampSize(bound, textMin, textStart)
		page.Blocks = append(page.Blocks, placeColumn(col.Blocks, box, tSize, xSize)...)
	}
	return []Page{page}, nil
}

// startSize returns the search's upper bound for one region kind: the
// largest explicitly resolved size among the region's leaves, or the default.
func startSize(blocks []style.ResolvedBlock, kind string, def int) int {
	max := def
	consider := func(st content.TextStyle) {
		if st.FontSize != nil && *st.FontSize > max {
			max = *st.FontSize
		}
	}
	for i := range blocks {
		b := &blocks[i]
		if b.Kind != kind {
			continue
		}
		switch kind {
		case content.BlockTypeTable:
			for ri := range b.Table.Rows {
				for ci := range b.Table.Rows[ri].Cells {
					for pi := range b.Table.Rows[ri].Cells[ci].Paragraphs {
						consider(b.Table.Rows[ri].Cells[ci].Paragraphs[pi].Style)
					}
				}
			}
		case content.BlockTypeText:
			if b.Text.Header != nil {
				consider(b.Text.Header.Style)
			}
			if b.Text.Paragraph != nil {
				consider(b.Text.Paragraph.Style)
			}
			for bi := range b.Text.Bullets {
				consider(b.Text.Bullets[bi].Style)
			}
		}
	}
	return max
}

// blockHeight measures one block at the candidate sizes.
func blockHeight(b *style.ResolvedBlock, width int64, tableSize, textSize int) int64 {
	switch b.Kind {
	case content.BlockTypeTable:
		return tableHeight(b.Table, width, tableSize)
	case content.BlockTypeText:
		return textBlockHeight(b.Text, width, textSize)
	case content.BlockTypeChart:
		return minChartHeight
	}
	return 0
}

// columnFits checks one column at candidate table/text sizes. Without
// repositioning each block must fit the share of the box proportional to its
// height at the starting sizes; with repositioning the blocks are restacked,
// so text cedes vertical space to the table and only the stacked sum counts.
func columnFits(blocks []style.ResolvedBlock, box Box, tableSize, textSize int, reposition bool) bool {
	for i := range blocks {
		b := &blocks[i]
		switch b.Kind {
		case content.BlockTypeTable:
			if !tableFitsWidth(b.Table, box.W, tableSize) {
				return false
			}
		case content.BlockTypeText:
			if !textBlockFitsWidth(b.Text, box.W, textSize) {
				return false
			}
		}
	}

	gaps := int64(len(blocks)-1) * blockGap
	var total int64
	for i := range blocks {
		total += blockHeight(&blocks[i], box.W, tableSize, textSize)
	}
	if total+gaps > box.H {
		return false
	}
	if reposition {
		return true
	}

	// Fixed shares: the box is divided by the blocks' natural proportions at
	// the unshrunk sizes, and every block must fit its own share.
	shares := blockShares(blocks, box)
	for i := range blocks {
		if blockHeight(&blocks[i], box.W, tableSize, textSize) > shares[i] {
			return false
		}
	}
	return true
}

// blockShares divides the box height between blocks in proportion to their
// natural heights at the resolved (unshrunk) sizes.
func blockShares(blocks []style.ResolvedBlock, box Box) []int64 {
	natural := make([]int64, len(blocks))
	var sum int64
	for i := range blocks {
		natural[i] = blockHeight(&blocks[i], box.W, 0, 0)
		if natural[i] < 1 {
			natural[i] = 1
		}
		sum += natural[i]
	}
	usable := box.H - int64(len(blocks)-1)*blockGap
	shares := make([]int64, len(blocks))
	for i := range blocks {
		shares[i] = usable * natural[i] / sum
	}
	return shares
}

// placeColumn assigns final geometry: blocks stack top-down in content order
// at their measured heights.
func placeColumn(blocks []style.ResolvedBlock, box Box, tableSize, textSize int) []PlacedBlock {
	placed := make([]PlacedBlock, 0, len(blocks))
	y := box.Y
	for i := range blocks {
		b := &blocks[i]
		h := blockHeight(b, box.W, tableSize, textSize)
		pb := PlacedBlock{
			Kind: b.Kind,
			Box:  Box{X: box.X, Y: y, W: box.W, H: h},
		}
		switch b.Kind {
		case content.BlockTypeTable:
			pb.Table = &PlacedTable{Header: b.Table.HeaderRow(), Body: b.Table.BodyRows(), FontSize: tableSize}
			pb.FontSize = tableSize
		case content.BlockTypeText:
			pb.Text = b.Text
			pb.FontSize = textSize
		case content.BlockTypeChart:
			pb.Chart = b.Chart
		}
		placed = append(placed, pb)
		y += h + blockGap
	}
	return placed
}
