package layout

import (
	"strings"

	"deckgen/content"
	"deckgen/style"
)

// Geometry is expressed in EMU throughout, matching the pptx coordinate
// space. 914400 EMU per inch, 12700 per point.
const (
	EMUPerInch  = int64(914400)
	EMUPerPoint = int64(12700)
)

// Text metrics model. Rendered text height is estimated from character
// count, wrap width and line height alone, so measurement is a pure function
// of style and content length:
//
//	advance     = glyphAspect × font size        (average glyph width)
//	line height = lineFactor × font size × line spacing
//	lines       = ceil(rune count × advance / wrap width), per hard line
//
// glyphAspect 0.55 approximates the average advance-to-em ratio of the
// common presentation faces (Arial, Calibri) for mixed-case Latin text.
const (
	glyphAspect = 0.55
	lineFactor  = 1.2
)

// Default font sizes assumed for leaves whose cascade resolves no explicit
// size, and the starting sizes for the shrink search.
const (
	DefaultTableFontSize = 10
	DefaultBodyFontSize  = 14
	cellPadding          = int64(0.04 * 914400) // per side
	blockGap             = int64(0.1 * 914400)
	minChartHeight       = int64(1.2 * 914400)
)

// Box is a placeholder bounding rectangle in EMU.
type Box struct {
	X, Y, W, H int64
}

// LineHeight returns the rendered height of one line at the given size and
// line spacing (1.0 when spacing is nil).
func LineHeight(size int, spacing *float64) int64 {
	h := float64(size) * lineFactor
	if spacing != nil && *spacing > 0 {
		h *= *spacing
	}
	return int64(h * float64(EMUPerPoint))
}

// charAdvance returns the estimated width of one glyph at the given size.
func charAdvance(size int) int64 {
	return int64(glyphAspect * float64(size) * float64(EMUPerPoint))
}

// TextWidth returns the estimated natural (unwrapped) width of s.
func TextWidth(s string, size int) int64 {
	return int64(len([]rune(s))) * charAdvance(size)
}

// longestWordWidth returns the width of the longest unbreakable run in s.
// A word wider than its box can never be wrapped into it.
func longestWordWidth(s string, size int) int64 {
	longest := 0
	for _, line := range strings.Split(s, "\n") {
		for _, w := range strings.Fields(line) {
			if n := len([]rune(w)); n > longest {
				longest = n
			}
		}
	}
	return int64(longest) * charAdvance(size)
}

// TextHeight estimates the rendered height of s wrapped into width, at the
// given size and spacing. Empty text still occupies one line.
func TextHeight(s string, size int, spacing *float64, width int64) int64 {
	if width <= 0 {
		width = 1
	}
	adv := charAdvance(size)
	lines := int64(0)
	for _, line := range strings.Split(s, "\n") {
		natural := int64(len([]rune(line))) * adv
		n := (natural + width - 1) / width
		if n < 1 {
			n = 1
		}
		lines += n
	}
	return lines * LineHeight(size, spacing)
}

// TextFits reports whether s can be wrapped into width at the given size,
// i.e. no unbreakable word is wider than the box.
func TextFits(s string, size int, width int64) bool {
	return longestWordWidth(s, size) <= width
}

// styleSize returns the leaf's resolved size, the fallback when unresolved.
func styleSize(st content.TextStyle, fallback int) int {
	if st.FontSize != nil {
		return *st.FontSize
	}
	return fallback
}

// resolvedTextHeight measures one resolved leaf at an explicit size override
// (0 keeps the leaf's own size).
func resolvedTextHeight(rt *style.ResolvedText, override int, fallback int, width int64) int64 {
	if rt == nil {
		return 0
	}
	size := styleSize(rt.Style, fallback)
	if override > 0 {
		size = override
	}
	return TextHeight(rt.Text, size, rt.Style.LineSpacing, width)
}

// CellHeight estimates the rendered height of one resolved cell inside a
// column of the given width, at an optional size override.
func CellHeight(cell *style.ResolvedCell, colWidth int64, override int) int64 {
	inner := colWidth - 2*cellPadding
	if inner <= 0 {
		inner = 1
	}
	var h int64
	for i := range cell.Paragraphs {
		p := &cell.Paragraphs[i]
		size := styleSize(p.Style, DefaultTableFontSize)
		if override > 0 {
			size = override
		}
		indent := int64(p.IndentLevel) * 6 * EMUPerPoint
		h += TextHeight(p.Text, size, p.Style.LineSpacing, inner-indent)
	}
	if h == 0 {
		h = LineHeight(DefaultTableFontSize, nil)
	}
	return h + 2*cellPadding
}

// RowHeight estimates the rendered height of a resolved row: the tallest of
// its cells at the shared column width.
func RowHeight(row *style.ResolvedRow, colWidth int64, override int) int64 {
	var max int64
	for i := range row.Cells {
		if h := CellHeight(&row.Cells[i], colWidth, override); h > max {
			max = h
		}
	}
	return max
}

// rowFitsWidth reports whether every cell of the row wraps into the column
// width at the override size (0 keeps resolved sizes).
func rowFitsWidth(row *style.ResolvedRow, colWidth int64, override int) bool {
	inner := colWidth - 2*cellPadding
	for i := range row.Cells {
		for j := range row.Cells[i].Paragraphs {
			p := &row.Cells[i].Paragraphs[j]
			size := styleSize(p.Style, DefaultTableFontSize)
			if override > 0 {
				size = override
			}
			if !TextFits(p.Text, size, inner) {
				return false
			}
		}
	}
	return true
}

// textBlockHeight estimates a resolved text block's height at a size
// override (0 keeps resolved sizes). Header, paragraph and bullets stack.
func textBlockHeight(tb *style.ResolvedTextBlock, width int64, override int) int64 {
	var h int64
	h += resolvedTextHeight(tb.Header, override, DefaultBodyFontSize, width)
	h += resolvedTextHeight(tb.Paragraph, override, DefaultBodyFontSize, width)
	for i := range tb.Bullets {
		h += resolvedTextHeight(&tb.Bullets[i], override, DefaultBodyFontSize, width)
	}
	return h
}

// textBlockFitsWidth reports whether every run of the block wraps into width.
func textBlockFitsWidth(tb *style.ResolvedTextBlock, width int64, override int) bool {
	check := func(rt *style.ResolvedText) bool {
		if rt == nil {
			return true
		}
		size := styleSize(rt.Style, DefaultBodyFontSize)
		if override > 0 {
			size = override
		}
		return TextFits(rt.Text, size, width)
	}
	if !check(tb.Header) || !check(tb.Paragraph) {
		return false
	}
	for i := range tb.Bullets {
		if !check(&tb.Bullets[i]) {
			return false
		}
	}
	return true
}

// tableHeight estimates the full height of a resolved table at a size
// override: every row stacked at the shared column width.
func tableHeight(tbl *style.ResolvedTable, boxWidth int64, override int) int64 {
	if len(tbl.Rows) == 0 {
		return 0
	}
	cols := len(tbl.Rows[0].Cells)
	if cols == 0 {
		return 0
	}
	colWidth := boxWidth / int64(cols)
	var h int64
	for i := range tbl.Rows {
		h += RowHeight(&tbl.Rows[i], colWidth, override)
	}
	return h
}

// tableFitsWidth reports whether every cell of the table wraps into its
// column at the override size.
func tableFitsWidth(tbl *style.ResolvedTable, boxWidth int64, override int) bool {
	if len(tbl.Rows) == 0 {
		return true
	}
	cols := len(tbl.Rows[0].Cells)
	if cols == 0 {
		return true
	}
	colWidth := boxWidth / int64(cols)
	for i := range tbl.Rows {
		if !rowFitsWidth(&tbl.Rows[i], colWidth, override) {
			return false
		}
	}
	return true
}
