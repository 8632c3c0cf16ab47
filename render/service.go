// Package render turns planned pages into a .pptx byte stream with GoPPT.
// Every visual element is drawn as an absolutely positioned shape; geometry
// comes from the layout plan in EMU and is passed through unchanged.
package render

import (
	"bytes"
	"fmt"
	"strings"

	ppt "github.com/VantageDataChat/GoPPT"

	"deckgen/content"
	"deckgen/layout"
	"deckgen/style"
)

const emuPerInch = 914400

// Fallback chrome geometry for templates that declare no placeholder of the
// kind. 16:9 deck, 10 x 5.625 inches.
var (
	defaultTitleBox    = layout.Box{X: int64(0.4 * emuPerInch), Y: int64(0.3 * emuPerInch), W: int64(9.2 * emuPerInch), H: int64(0.6 * emuPerInch)}
	defaultSubtitleBox = layout.Box{X: int64(0.4 * emuPerInch), Y: int64(0.95 * emuPerInch), W: int64(9.2 * emuPerInch), H: int64(0.4 * emuPerInch)}
	defaultHeaderBox   = layout.Box{X: int64(6.4 * emuPerInch), Y: int64(0.1 * emuPerInch), W: int64(3.2 * emuPerInch), H: int64(0.3 * emuPerInch)}
	defaultFooterBox   = layout.Box{X: int64(0.4 * emuPerInch), Y: int64(5.25 * emuPerInch), W: int64(6.0 * emuPerInch), H: int64(0.3 * emuPerInch)}
	numberBox          = layout.Box{X: int64(9.0 * emuPerInch), Y: int64(5.25 * emuPerInch), W: int64(0.6 * emuPerInch), H: int64(0.3 * emuPerInch)}
)

// Fallback font sizes (pt) for chrome text whose cascade resolved no size.
const (
	fontTitle    = 28
	fontSubtitle = 18
	fontHeader   = 12
	fontColumn   = 16
	fontFooter   = 9
	fontNumber   = 9
)

const defaultTextColor = "FF334155"

// Service builds PowerPoint decks from planned pages
type Service struct {
	logger func(string)
}

// NewService creates a new render service
func NewService(logger func(string)) *Service {
	return &Service{logger: logger}
}

func (s *Service) log(msg string) {
	if s.logger != nil {
		s.logger(msg)
	}
}

// helper: create a solid fill
func solidFill(argbColor string) *ppt.Fill {
	return ppt.NewFill().SetSolid(ppt.NewColor(argbColor))
}

// helper: set paragraph alignment to center
func alignCenter(p *ppt.Paragraph) {
	p.SetAlignment(ppt.NewAlignment().SetHorizontal(ppt.HorizontalCenter))
}

// helper: set paragraph alignment to right
func alignRight(p *ppt.Paragraph) {
	p.SetAlignment(ppt.NewAlignment().SetHorizontal(ppt.HorizontalRight))
}

// argb normalizes a spec color ("1E40AF" or "FF1E40AF") to GoPPT's ARGB form.
func argb(hex string) string {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 6 {
		return "FF" + strings.ToUpper(hex)
	}
	return strings.ToUpper(hex)
}

// applyFont applies a resolved style to a run's font. A positive override
// wins over the resolved size, the fallback fills in an unresolved one.
func applyFont(f *ppt.Font, st content.TextStyle, override, fallback int) {
	size := fallback
	if st.FontSize != nil {
		size = *st.FontSize
	}
	if override > 0 {
		size = override
	}
	f.SetSize(size)
	if st.Bold != nil && *st.Bold {
		f.SetBold(true)
	}
	color := defaultTextColor
	if st.Color != nil {
		color = argb(*st.Color)
	}
	f.SetColor(ppt.NewColor(color))
}

// applyAlignment maps a resolved alignment onto the shape's paragraph.
// Left is GoPPT's default and needs no call.
func applyAlignment(p *ppt.Paragraph, st content.TextStyle) {
	if st.Alignment == nil {
		return
	}
	switch *st.Alignment {
	case "center":
		alignCenter(p)
	case "right":
		alignRight(p)
	}
}

func placeShape(sh *ppt.RichTextShape, box layout.Box) {
	sh.SetOffsetX(box.X).SetOffsetY(box.Y)
	sh.SetWidth(box.W).SetHeight(box.H)
}

func orDefault(box, def layout.Box) layout.Box {
	if box.W == 0 && box.H == 0 {
		return def
	}
	return box
}

// BuildDeck renders the planned pages into a single .pptx file.
func (s *Service) BuildDeck(pages []layout.Page) ([]byte, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages to render")
	}

	p := ppt.New()
	p.GetDocumentProperties().Title = "Generated Presentation"
	p.GetDocumentProperties().Creator = "deckgen"

	for i := range pages {
		var slide *ppt.Slide
		if i == 0 {
			slide = p.GetActiveSlide()
		} else {
			slide = p.CreateSlide()
		}
		s.renderPage(slide, &pages[i], i+1)
	}

	w, err := ppt.NewWriter(p, ppt.WriterPowerPoint2007)
	if err != nil {
		return nil, fmt.Errorf("failed to create PPT writer: %w", err)
	}
	var buf bytes.Buffer
	if err := w.(*ppt.PPTXWriter).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to save PPT: %w", err)
	}
	s.log(fmt.Sprintf("rendered deck: %d pages, %d bytes", len(pages), buf.Len()))
	return buf.Bytes(), nil
}

func (s *Service) renderPage(slide *ppt.Slide, page *layout.Page, number int) {
	s.renderChrome(slide, page.Title, page.TitleBox, defaultTitleBox, fontTitle, true)
	s.renderChrome(slide, page.Subtitle, page.SubtitleBox, defaultSubtitleBox, fontSubtitle, false)
	s.renderChrome(slide, page.Header, page.HeaderBox, defaultHeaderBox, fontHeader, false)
	s.renderChrome(slide, page.Footer, page.FooterBox, defaultFooterBox, fontFooter, false)

	for _, ch := range page.ColumnHeaders {
		if ch.Text == nil {
			continue
		}
		sh := slide.CreateRichTextShape()
		placeShape(sh, ch.Box)
		tr := sh.CreateTextRun(ch.Text.Text)
		applyFont(tr.GetFont(), ch.Text.Style, 0, fontColumn)
		if ch.Text.Style.Bold == nil {
			tr.GetFont().SetBold(true)
		}
		applyAlignment(sh.GetActiveParagraph(), ch.Text.Style)
	}

	for i := range page.Blocks {
		b := &page.Blocks[i]
		switch b.Kind {
		case content.BlockTypeText:
			s.renderTextBlock(slide, b)
		case content.BlockTypeTable:
			s.renderTable(slide, b)
		case content.BlockTypeChart:
			s.renderChart(slide, b)
		}
	}

	if page.ShowNumber {
		sh := slide.CreateRichTextShape()
		placeShape(sh, numberBox)
		tr := sh.CreateTextRun(fmt.Sprintf("%d", number))
		tr.GetFont().SetSize(fontNumber).SetColor(ppt.NewColor("FF94A3B8"))
		alignRight(sh.GetActiveParagraph())
	}
}

// renderChrome draws one chrome text (title, subtitle, header, footer).
func (s *Service) renderChrome(slide *ppt.Slide, rt *style.ResolvedText, box, def layout.Box, fallback int, bold bool) {
	if rt == nil || rt.Text == "" {
		return
	}
	sh := slide.CreateRichTextShape()
	placeShape(sh, orDefault(box, def))
	tr := sh.CreateTextRun(rt.Text)
	applyFont(tr.GetFont(), rt.Style, 0, fallback)
	if bold && rt.Style.Bold == nil {
		tr.GetFont().SetBold(true)
	}
	applyAlignment(sh.GetActiveParagraph(), rt.Style)
}

// renderTextBlock draws a free text block: header, paragraph and bullets as
// paragraphs of one shape, at the fit-chosen size.
func (s *Service) renderTextBlock(slide *ppt.Slide, b *layout.PlacedBlock) {
	sh := slide.CreateRichTextShape()
	placeShape(sh, b.Box)

	first := true
	addPart := func(rt *style.ResolvedText, prefix string) {
		if rt == nil {
			return
		}
		if !first {
			sh.CreateParagraph()
		}
		first = false
		tr := sh.CreateTextRun(prefix + rt.Text)
		applyFont(tr.GetFont(), rt.Style, b.FontSize, layout.DefaultBodyFontSize)
		applyAlignment(sh.GetActiveParagraph(), rt.Style)
	}

	addPart(b.Text.Header, "")
	addPart(b.Text.Paragraph, "")
	for i := range b.Text.Bullets {
		addPart(&b.Text.Bullets[i], "• ")
	}
}

// renderTable draws a table fragment as a per-cell shape grid so each cell
// keeps its own resolved background and text styles.
func (s *Service) renderTable(slide *ppt.Slide, b *layout.PlacedBlock) {
	rows := b.Table.Rows()
	if len(rows) == 0 {
		return
	}
	cols := len(rows[0].Cells)
	if cols == 0 {
		return
	}
	colWidth := b.Box.W / int64(cols)

	y := b.Box.Y
	for ri := range rows {
		row := &rows[ri]
		rowH := layout.RowHeight(row, colWidth, b.FontSize)
		x := b.Box.X
		for ci := range row.Cells {
			s.renderCell(slide, &row.Cells[ci], layout.Box{X: x, Y: y, W: colWidth, H: rowH}, b.FontSize)
			x += colWidth
		}
		y += rowH
	}
}

func (s *Service) renderCell(slide *ppt.Slide, cell *style.ResolvedCell, box layout.Box, override int) {
	if cell.Logo != nil {
		img := slide.CreateDrawingShape()
		img.SetImageData(cell.Logo.Data, cell.Logo.MIME)
		img.SetOffsetX(box.X).SetOffsetY(box.Y)
		img.SetWidth(box.W).SetHeight(box.H)
		return
	}

	sh := slide.CreateRichTextShape()
	placeShape(sh, box)
	if cell.Background != nil {
		sh.SetFill(solidFill(argb(*cell.Background)))
	}

	for pi := range cell.Paragraphs {
		p := &cell.Paragraphs[pi]
		if pi > 0 {
			sh.CreateParagraph()
		}
		text := p.Text
		if p.IsBullet {
			text = "• " + text
		}
		if p.IndentLevel > 0 {
			text = strings.Repeat("  ", p.IndentLevel) + text
		}
		tr := sh.CreateTextRun(text)
		applyFont(tr.GetFont(), p.Style, override, layout.DefaultTableFontSize)
		applyAlignment(sh.GetActiveParagraph(), p.Style)
	}
}
