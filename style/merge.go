package style

import "deckgen/content"

// Merge overlays one text style on another field-wise: a field defined in
// overlay wins, an undefined field falls through to base. Neither input is
// mutated. Chaining Merge over the cascade's ordered sources implements the
// documented "nearest defined ancestor" inheritance.
func Merge(base, overlay content.TextStyle) content.TextStyle {
	out := base
	if overlay.FontName != nil {
		out.FontName = overlay.FontName
	}
	if overlay.FontSize != nil {
		out.FontSize = overlay.FontSize
	}
	if overlay.Bold != nil {
		out.Bold = overlay.Bold
	}
	if overlay.Italic != nil {
		out.Italic = overlay.Italic
	}
	if overlay.Color != nil {
		out.Color = overlay.Color
	}
	if overlay.Alignment != nil {
		out.Alignment = overlay.Alignment
	}
	if overlay.LineSpacing != nil {
		out.LineSpacing = overlay.LineSpacing
	}
	return out
}

// mergePtr overlays an optional style on a concrete one.
func mergePtr(base content.TextStyle, overlay *content.TextStyle) content.TextStyle {
	if overlay == nil {
		return base
	}
	return Merge(base, *overlay)
}

// cellState tracks the style and background of one cell while the cascade
// levels are applied in order.
type cellState struct {
	text       content.TextStyle
	background *string
}

// applyPatch merges a style patch (text + cell appearance) into the state.
func (s *cellState) applyPatch(p *content.StylePatch) {
	if p == nil {
		return
	}
	s.text = mergePtr(s.text, p.Text)
	if p.Cell != nil && p.Cell.BackgroundColor != nil {
		s.background = p.Cell.BackgroundColor
	}
}

func (s *cellState) applyText(t *content.TextStyle) {
	s.text = mergePtr(s.text, t)
}

func (s *cellState) applyCell(c *content.CellFormat) {
	if c != nil && c.BackgroundColor != nil {
		s.background = c.BackgroundColor
	}
}
