// Package style resolves the multi-level style cascade of a slide spec into
// a fully-resolved content tree. Resolution is pure: the input spec is never
// mutated, and every leaf of the output carries the style that results from
// merging template defaults, slide defaults, table defaults, role styles,
// format templates and direct overrides in ascending precedence.
package style

import (
	"context"

	"deckgen/content"
)

// Placeholder regions a template can declare defaults for.
const (
	RegionTitle    = "title"
	RegionSubtitle = "subtitle"
	RegionHeader   = "header"
	RegionBody     = "body"
	RegionTable    = "table"
	RegionFooter   = "footer"
)

// RegionDefaults holds the template-inherited default style per placeholder
// region. This is the lowest-precedence style source.
type RegionDefaults map[string]content.TextStyle

// Logo is a fetched logo image ready to substitute for a cell's text run.
type Logo struct {
	Data []byte
	MIME string
}

// LogoResolver fetches a logo image by bare domain. Implementations live
// behind this boundary; failures must be returned, never panicked, and the
// resolver treats every failure as a silent fallback to literal text.
type LogoResolver interface {
	ResolveLogo(ctx context.Context, domain string) (*Logo, error)
}

// ResolvedText is one resolved text leaf.
type ResolvedText struct {
	Text  string
	Style content.TextStyle
}

// ResolvedParagraph is one resolved paragraph of a table cell.
type ResolvedParagraph struct {
	Text        string
	IsBullet    bool
	IndentLevel int
	Style       content.TextStyle
}

// ResolvedCell is a table cell after cascade and rule resolution. Logo is
// non-nil only when logo substitution succeeded; the paragraphs remain
// populated as the text fallback either way.
type ResolvedCell struct {
	Paragraphs []ResolvedParagraph
	Background *string
	Logo       *Logo
}

// Value returns the cell's flattened text, used for rule predicates and for
// measurement.
func (c *ResolvedCell) Value() string {
	if len(c.Paragraphs) == 0 {
		return ""
	}
	out := c.Paragraphs[0].Text
	for _, p := range c.Paragraphs[1:] {
		out += "\n" + p.Text
	}
	return out
}

// ResolvedRow is one resolved table row.
type ResolvedRow struct {
	IsHeader bool
	Cells    []ResolvedCell
}

// ResolvedTable is a table with every cell resolved, rows in original order.
type ResolvedTable struct {
	Rows []ResolvedRow
}

// HeaderRow returns the first header row, or nil.
func (t *ResolvedTable) HeaderRow() *ResolvedRow {
	for i := range t.Rows {
		if t.Rows[i].IsHeader {
			return &t.Rows[i]
		}
	}
	return nil
}

// BodyRows returns the non-header rows in original order.
func (t *ResolvedTable) BodyRows() []ResolvedRow {
	body := make([]ResolvedRow, 0, len(t.Rows))
	for _, r := range t.Rows {
		if !r.IsHeader {
			body = append(body, r)
		}
	}
	return body
}

// ResolvedTextBlock is a free-text block with resolved parts.
type ResolvedTextBlock struct {
	Header    *ResolvedText
	Paragraph *ResolvedText
	Bullets   []ResolvedText
}

// ResolvedBlock is a resolved content block. Exactly one payload is set,
// matching Kind.
type ResolvedBlock struct {
	Kind  string
	Text  *ResolvedTextBlock
	Table *ResolvedTable
	Chart *content.ChartSpec
}

// ResolvedColumn is one resolved column of a slide.
type ResolvedColumn struct {
	Header *ResolvedText
	Blocks []ResolvedBlock
}

// ResolvedSlide is the output of the resolver: a derived tree carrying one
// concrete style per leaf. The original SlideSpec stays untouched.
type ResolvedSlide struct {
	Title    *ResolvedText
	Subtitle *ResolvedText
	Header   *ResolvedText
	Footer   *ResolvedText
	Columns  []ResolvedColumn
}
