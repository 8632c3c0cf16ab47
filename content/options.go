package content

// Font size bounds accepted for the fit search, and the defaults applied
// when a request leaves the minimums unset.
const (
	FontSizeFloor         = 6
	FontSizeCeiling       = 72
	DefaultTableMinFont   = 9
	DefaultTextboxMinFont = 8
)

// GenerateOptions are the generation knobs recognized by the engine. Every
// field is optional; deck-level options fill slide-level gaps with the same
// explicit-wins, absent-inherits rule the style cascade uses.
type GenerateOptions struct {
	AutoPaginateTables     *bool   `json:"auto_paginate_tables,omitempty"`
	AllowTextboxReposition *bool   `json:"allow_textbox_reposition,omitempty"`
	TableMinFontSize       *int    `json:"table_min_font_size,omitempty"`
	TextboxMinFontSize     *int    `json:"textbox_min_font_size,omitempty"`
	ShowSlideNumbers       *bool   `json:"show_slide_numbers,omitempty"`
	FooterText             *string `json:"footer_text,omitempty"`
	FooterFontSize         *int    `json:"footer_font_size,omitempty"`
	FooterFontName         *string `json:"footer_font_name,omitempty"`
}

// MergeOptions overlays slide-level options on deck-level options field-wise.
// A field set in overlay wins; an unset field inherits from base. Both inputs
// may be nil; the result is always a fresh value.
func MergeOptions(base, overlay *GenerateOptions) GenerateOptions {
	var out GenerateOptions
	if base != nil {
		out = *base
	}
	if overlay == nil {
		return out
	}
	if overlay.AutoPaginateTables != nil {
		out.AutoPaginateTables = overlay.AutoPaginateTables
	}
	if overlay.AllowTextboxReposition != nil {
		out.AllowTextboxReposition = overlay.AllowTextboxReposition
	}
	if overlay.TableMinFontSize != nil {
		out.TableMinFontSize = overlay.TableMinFontSize
	}
	if overlay.TextboxMinFontSize != nil {
		out.TextboxMinFontSize = overlay.TextboxMinFontSize
	}
	if overlay.ShowSlideNumbers != nil {
		out.ShowSlideNumbers = overlay.ShowSlideNumbers
	}
	if overlay.FooterText != nil {
		out.FooterText = overlay.FooterText
	}
	if overlay.FooterFontSize != nil {
		out.FooterFontSize = overlay.FooterFontSize
	}
	if overlay.FooterFontName != nil {
		out.FooterFontName = overlay.FooterFontName
	}
	return out
}

// AutoPaginate reports the effective auto_paginate_tables value (default true).
func (o *GenerateOptions) AutoPaginate() bool {
	if o == nil || o.AutoPaginateTables == nil {
		return true
	}
	return *o.AutoPaginateTables
}

// RepositionTextboxes reports the effective allow_textbox_reposition value
// (default false).
func (o *GenerateOptions) RepositionTextboxes() bool {
	if o == nil || o.AllowTextboxReposition == nil {
		return false
	}
	return *o.AllowTextboxReposition
}

// TableMinFont returns the effective table minimum font size, clamped to the
// accepted range.
func (o *GenerateOptions) TableMinFont() int {
	if o == nil || o.TableMinFontSize == nil {
		return DefaultTableMinFont
	}
	return clampFontSize(*o.TableMinFontSize)
}

// TextboxMinFont returns the effective textbox minimum font size, clamped to
// the accepted range.
func (o *GenerateOptions) TextboxMinFont() int {
	if o == nil || o.TextboxMinFontSize == nil {
		return DefaultTextboxMinFont
	}
	return clampFontSize(*o.TextboxMinFontSize)
}

// SlideNumbers reports the effective show_slide_numbers value (default false).
func (o *GenerateOptions) SlideNumbers() bool {
	if o == nil || o.ShowSlideNumbers == nil {
		return false
	}
	return *o.ShowSlideNumbers
}

func clampFontSize(v int) int {
	if v < FontSizeFloor {
		return FontSizeFloor
	}
	if v > FontSizeCeiling {
		return FontSizeCeiling
	}
	return v
}
