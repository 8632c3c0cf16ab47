package style

import (
	"context"
	"fmt"
	"strings"

	"deckgen/content"
)

// Resolver resolves slide specs against template defaults. Defaults come
// from the template provider (lowest precedence); Logos is optional and only
// consulted for cells flagged is_logo. Logger receives diagnostic messages
// for silent degradations.
type Resolver struct {
	Defaults RegionDefaults
	Logos    LogoResolver
	Logger   func(string)
}

// NewResolver creates a resolver over the given template region defaults.
func NewResolver(defaults RegionDefaults, logos LogoResolver, logger func(string)) *Resolver {
	return &Resolver{Defaults: defaults, Logos: logos, Logger: logger}
}

func (r *Resolver) log(format string, args ...interface{}) {
	if r.Logger != nil {
		r.Logger(fmt.Sprintf(format, args...))
	}
}

// regionBase returns the merged template + slide-format default for a region.
func (r *Resolver) regionBase(region string, sf *content.SlideFormat) content.TextStyle {
	var base content.TextStyle
	if r.Defaults != nil {
		base = r.Defaults[region]
	}
	if sf == nil {
		return base
	}
	switch region {
	case RegionTitle:
		return mergePtr(base, sf.Title)
	case RegionSubtitle:
		return mergePtr(base, sf.Subtitle)
	case RegionHeader:
		return mergePtr(base, sf.Header)
	case RegionBody:
		return mergePtr(base, sf.Body)
	case RegionTable:
		return mergePtr(base, sf.Table)
	case RegionFooter:
		return mergePtr(base, sf.Footer)
	}
	return base
}

// ResolveSlide produces the fully-resolved tree for one slide spec. The spec
// is read-only; all styles in the result are derived copies.
func (r *Resolver) ResolveSlide(ctx context.Context, spec *content.SlideSpec) *ResolvedSlide {
	out := &ResolvedSlide{}
	sf := spec.SlideFormat

	if spec.Title != "" {
		out.Title = &ResolvedText{Text: spec.Title, Style: r.regionBase(RegionTitle, sf)}
	}
	if spec.Subtitle != "" {
		out.Subtitle = &ResolvedText{Text: spec.Subtitle, Style: r.regionBase(RegionSubtitle, sf)}
	}
	if spec.Header != "" {
		out.Header = &ResolvedText{Text: spec.Header, Style: r.regionBase(RegionHeader, sf)}
	}
	if spec.Footer != "" {
		out.Footer = &ResolvedText{Text: spec.Footer, Style: r.regionBase(RegionFooter, sf)}
	}

	for _, col := range spec.Columns() {
		rc := ResolvedColumn{}
		if col.Header != "" {
			rc.Header = &ResolvedText{Text: col.Header, Style: r.regionBase(RegionHeader, sf)}
		}
		for i := range col.Blocks {
			rc.Blocks = append(rc.Blocks, r.resolveBlock(ctx, &col.Blocks[i], sf))
		}
		out.Columns = append(out.Columns, rc)
	}
	return out
}

func (r *Resolver) resolveBlock(ctx context.Context, b *content.Block, sf *content.SlideFormat) ResolvedBlock {
	switch b.Type {
	case content.BlockTypeText:
		return ResolvedBlock{Kind: content.BlockTypeText, Text: r.resolveTextBlock(b.Text, sf)}
	case content.BlockTypeTable:
		return ResolvedBlock{Kind: content.BlockTypeTable, Table: r.resolveTable(ctx, &b.Table.Table, sf)}
	case content.BlockTypeChart:
		chart := *b.Chart
		return ResolvedBlock{Kind: content.BlockTypeChart, Chart: &chart}
	}
	// Unknown types are rejected by validation; an empty block here keeps
	// resolution total.
	return ResolvedBlock{Kind: b.Type}
}

func (r *Resolver) resolveTextBlock(tb *content.TextBlock, sf *content.SlideFormat) *ResolvedTextBlock {
	out := &ResolvedTextBlock{}
	if tb.Header != "" {
		out.Header = &ResolvedText{
			Text:  tb.Header,
			Style: mergePtr(r.regionBase(RegionHeader, sf), tb.HeaderStyle),
		}
	}
	if tb.Paragraph != "" {
		out.Paragraph = &ResolvedText{
			Text:  tb.Paragraph,
			Style: mergePtr(r.regionBase(RegionBody, sf), tb.ParagraphStyle),
		}
	}
	bulletBase := mergePtr(r.regionBase(RegionBody, sf), tb.BulletStyle)
	for _, bullet := range tb.Bullets {
		out.Bullets = append(out.Bullets, ResolvedText{Text: bullet, Style: bulletBase})
	}
	return out
}

func (r *Resolver) resolveTable(ctx context.Context, t *content.TableSpec, sf *content.SlideFormat) *ResolvedTable {
	base := r.regionBase(RegionTable, sf)
	tf := t.TableFormat

	configByCol := make(map[int]*content.ColumnConfig, len(t.ColumnConfigs))
	for i := range t.ColumnConfigs {
		configByCol[t.ColumnConfigs[i].ColumnIndex] = &t.ColumnConfigs[i]
	}

	out := &ResolvedTable{Rows: make([]ResolvedRow, len(t.Rows))}
	for ri := range t.Rows {
		row := &t.Rows[ri]
		rr := ResolvedRow{IsHeader: row.IsHeader, Cells: make([]ResolvedCell, len(row.Cells))}
		for ci := range row.Cells {
			rr.Cells[ci] = r.resolveCell(ctx, t, tf, base, &row.Cells[ci], configByCol[ci], row.IsHeader)
		}
		out.Rows[ri] = rr
	}
	return out
}

// resolveCell applies the cascade levels in ascending precedence, then the
// cell's conditional rules, then logo substitution.
func (r *Resolver) resolveCell(ctx context.Context, t *content.TableSpec, tf *content.TableFormat,
	base content.TextStyle, cell *content.Cell, cc *content.ColumnConfig, headerRow bool) ResolvedCell {

	state := cellState{text: base}

	headerColumn := cc != nil && cc.IsHeader
	if tf != nil {
		state.applyPatch(tf.Default)
		if headerColumn {
			state.applyPatch(tf.HeaderColumn)
		}
		if headerRow {
			state.applyPatch(tf.HeaderRow)
		}
		// A cell on both a header row and a header column takes the
		// intersection style over either role.
		if headerRow && headerColumn {
			state.applyPatch(tf.HeaderIntersection)
		}
	}
	if cc != nil {
		state.applyText(cc.Style)
		state.applyCell(cc.Cell)
		if cc.BackgroundColor != nil {
			state.background = cc.BackgroundColor
		}
	}

	templateName := cell.FormatTemplate
	if templateName == "" && cc != nil {
		templateName = cc.FormatTemplate
	}
	var tmpl *content.FormatTemplate
	if templateName != "" {
		if ft, ok := t.FormatTemplates[templateName]; ok {
			tmpl = &ft
			state.applyText(ft.Text)
			state.applyCell(ft.Cell)
		}
	}

	state.applyText(cell.Style)
	state.applyCell(cell.Cell)

	out := ResolvedCell{Background: state.background}
	if len(cell.Paragraphs) > 0 {
		for _, p := range cell.Paragraphs {
			ps := cellState{text: state.text, background: state.background}
			if p.FormatTemplate != "" {
				if ft, ok := t.FormatTemplates[p.FormatTemplate]; ok {
					ps.applyText(ft.Text)
					ps.applyCell(ft.Cell)
					if rule := firstMatch(ft.Rules, p.Text); rule != nil {
						ps.applyText(rule.Text)
						ps.applyCell(rule.Cell)
					}
				}
			}
			ps.applyText(p.Style)
			out.Paragraphs = append(out.Paragraphs, ResolvedParagraph{
				Text:        p.Text,
				IsBullet:    p.IsBullet,
				IndentLevel: p.IndentLevel,
				Style:       ps.text,
			})
			if ps.background != nil {
				out.Background = ps.background
			}
		}
	} else {
		out.Paragraphs = []ResolvedParagraph{{Text: cell.Value, Style: state.text}}
	}

	// Conditional formatting runs after structural resolution, first match
	// wins, evaluated over the cell's literal value.
	if tmpl != nil && len(cell.Paragraphs) == 0 {
		if rule := firstMatch(tmpl.Rules, cell.Value); rule != nil {
			rs := cellState{text: out.Paragraphs[0].Style, background: out.Background}
			rs.applyText(rule.Text)
			rs.applyCell(rule.Cell)
			out.Paragraphs[0].Style = rs.text
			out.Background = rs.background
		}
	}

	if cell.IsLogo != nil && *cell.IsLogo {
		out.Logo = r.resolveLogo(ctx, cell.Value)
	}
	return out
}

// resolveLogo fetches a logo for a bare domain value. Every failure path
// degrades to literal text: logos are a cosmetic enhancement, never a
// generation error.
func (r *Resolver) resolveLogo(ctx context.Context, value string) *Logo {
	domain := strings.TrimSpace(value)
	if !isBareDomain(domain) {
		r.log("logo cell value %q is not a bare domain, rendering as text", value)
		return nil
	}
	if r.Logos == nil {
		return nil
	}
	logo, err := r.Logos.ResolveLogo(ctx, domain)
	if err != nil {
		r.log("logo fetch for %q failed, rendering as text: %v", domain, err)
		return nil
	}
	return logo
}

// isBareDomain reports whether s looks like a domain with no scheme or path.
func isBareDomain(s string) bool {
	if s == "" || strings.ContainsAny(s, " /\\") || strings.Contains(s, "://") {
		return false
	}
	return strings.Contains(s, ".")
}
