package content

// Block type discriminator values.
const (
	BlockTypeText  = "text"
	BlockTypeTable = "table"
	BlockTypeChart = "chart"
)

// Chart kinds. Column charts grow vertically, bar charts horizontally;
// the stacked variants accumulate series values per category.
const (
	ChartKindColumn        = "column"
	ChartKindColumnStacked = "column_stacked"
	ChartKindBar           = "bar"
	ChartKindBarStacked    = "bar_stacked"
	ChartKindLine          = "line"
	ChartKindPie           = "pie"
)

// TextStyle holds optional text formatting. A nil field means "unresolved,
// inherit from the cascade"; the style resolver merges these field-wise.
type TextStyle struct {
	FontName    *string  `json:"font_name,omitempty"`
	FontSize    *int     `json:"font_size,omitempty"`
	Bold        *bool    `json:"bold,omitempty"`
	Italic      *bool    `json:"italic,omitempty"`
	Color       *string  `json:"color,omitempty"`
	Alignment   *string  `json:"alignment,omitempty"`
	LineSpacing *float64 `json:"line_spacing,omitempty"`
}

// CellFormat holds cell-level appearance (as opposed to text formatting).
type CellFormat struct {
	BackgroundColor *string `json:"background_color,omitempty"`
}

// StylePatch bundles a text style and a cell appearance patch. Role styles,
// format templates and conditional rules all apply patches of this shape.
type StylePatch struct {
	Text *TextStyle  `json:"text,omitempty"`
	Cell *CellFormat `json:"cell,omitempty"`
}

// RuleCondition is a predicate over a cell's literal value.
type RuleCondition struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// Rule pairs a condition with the patch applied when the condition matches.
// Rules are evaluated in declaration order; the first match wins.
type Rule struct {
	Condition RuleCondition `json:"condition"`
	Text      *TextStyle    `json:"text,omitempty"`
	Cell      *CellFormat   `json:"cell,omitempty"`
}

// FormatTemplate is a named, reusable style bundle referenced by cells.
type FormatTemplate struct {
	Text  *TextStyle  `json:"text,omitempty"`
	Cell  *CellFormat `json:"cell,omitempty"`
	Rules []Rule      `json:"rules,omitempty"`
}

// TableFormat carries the table-level defaults of the style cascade.
type TableFormat struct {
	Default            *StylePatch `json:"default,omitempty"`
	HeaderRow          *StylePatch `json:"header_row,omitempty"`
	HeaderColumn       *StylePatch `json:"header_column,omitempty"`
	HeaderIntersection *StylePatch `json:"header_intersection,omitempty"`
}

// ColumnConfig assigns a role or format template to one table column.
type ColumnConfig struct {
	ColumnIndex     int         `json:"column_index"`
	IsHeader        bool        `json:"is_header,omitempty"`
	FormatTemplate  string      `json:"format_template,omitempty"`
	BackgroundColor *string     `json:"background_color,omitempty"`
	Style           *TextStyle  `json:"style,omitempty"`
	Cell            *CellFormat `json:"cell,omitempty"`
}

// Paragraph is one structured paragraph inside a cell.
type Paragraph struct {
	Text           string     `json:"text"`
	IsBullet       bool       `json:"is_bullet,omitempty"`
	IndentLevel    int        `json:"indent_level,omitempty"`
	FormatTemplate string     `json:"format_template,omitempty"`
	Style          *TextStyle `json:"style,omitempty"`
}

// Cell is a table cell. Value and Paragraphs are mutually exclusive: a cell
// holds either a literal string or structured paragraphs. IsLogo is a
// tri-state: nil and false both render the literal value as text.
type Cell struct {
	Value          string      `json:"value,omitempty"`
	Paragraphs     []Paragraph `json:"paragraphs,omitempty"`
	IsLogo         *bool       `json:"is_logo,omitempty"`
	FormatTemplate string      `json:"format_template,omitempty"`
	Style          *TextStyle  `json:"style,omitempty"`
	Cell           *CellFormat `json:"cell,omitempty"`
}

// Row is one table row.
type Row struct {
	IsHeader bool   `json:"is_header,omitempty"`
	Cells    []Cell `json:"cells"`
}

// TableSpec is the full description of one table block.
type TableSpec struct {
	Rows            []Row                     `json:"rows"`
	TableFormat     *TableFormat              `json:"table_format,omitempty"`
	FormatTemplates map[string]FormatTemplate `json:"format_templates,omitempty"`
	ColumnConfigs   []ColumnConfig            `json:"column_configs,omitempty"`
}

// ColumnCount returns the cell count of the first row, or 0 for an empty table.
func (t *TableSpec) ColumnCount() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0].Cells)
}

// HeaderRow returns the first row marked is_header, or nil.
func (t *TableSpec) HeaderRow() *Row {
	for i := range t.Rows {
		if t.Rows[i].IsHeader {
			return &t.Rows[i]
		}
	}
	return nil
}

// BodyRows returns all rows not marked is_header, in original order.
func (t *TableSpec) BodyRows() []Row {
	body := make([]Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		if !r.IsHeader {
			body = append(body, r)
		}
	}
	return body
}

// TextBlock is free text: an optional header line, an optional paragraph and
// an ordered bullet list, each with independent style overrides.
type TextBlock struct {
	Header         string     `json:"header,omitempty"`
	Paragraph      string     `json:"paragraph,omitempty"`
	Bullets        []string   `json:"bullets,omitempty"`
	HeaderStyle    *TextStyle `json:"header_style,omitempty"`
	ParagraphStyle *TextStyle `json:"paragraph_style,omitempty"`
	BulletStyle    *TextStyle `json:"bullet_style,omitempty"`
}

// TableBlock wraps a TableSpec. The extra nesting level matches the wire
// format, where a table block is {"type": "table", "table": {"table": {...}}}.
type TableBlock struct {
	Table TableSpec `json:"table"`
}

// ChartSeries is one data series of a chart.
type ChartSeries struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
	Color  *string   `json:"color,omitempty"`
}

// ChartSpec describes one chart block.
type ChartSpec struct {
	Kind            string        `json:"kind"`
	Categories      []string      `json:"categories"`
	Series          []ChartSeries `json:"series"`
	ShowValueLabels bool          `json:"show_value_labels,omitempty"`
	AxisUnit        string        `json:"axis_unit,omitempty"`
	LegendPosition  string        `json:"legend_position,omitempty"`
}

// Block is a tagged content variant. Exactly one of Text, Table, Chart is
// set, selected by Type.
type Block struct {
	Type  string      `json:"type"`
	Text  *TextBlock  `json:"text,omitempty"`
	Table *TableBlock `json:"table,omitempty"`
	Chart *ChartSpec  `json:"chart,omitempty"`
}

// Column is one column of a multi-column slide.
type Column struct {
	Header string  `json:"header,omitempty"`
	Blocks []Block `json:"blocks"`
}

// Content holds a slide's block sequence, either as a single implicit column
// (Blocks) or as an explicit multi-column layout (Columns).
type Content struct {
	Blocks  []Block  `json:"blocks,omitempty"`
	Columns []Column `json:"columns,omitempty"`
}

// SlideFormat carries per-region default text styles for one slide.
type SlideFormat struct {
	Title    *TextStyle `json:"title,omitempty"`
	Subtitle *TextStyle `json:"subtitle,omitempty"`
	Header   *TextStyle `json:"header,omitempty"`
	Body     *TextStyle `json:"body,omitempty"`
	Table    *TextStyle `json:"table,omitempty"`
	Footer   *TextStyle `json:"footer,omitempty"`
}

// SlideSpec is the full content description of one logical slide.
type SlideSpec struct {
	Title       string       `json:"title,omitempty"`
	Subtitle    string       `json:"subtitle,omitempty"`
	Header      string       `json:"header,omitempty"`
	Footer      string       `json:"footer,omitempty"`
	Content     *Content     `json:"content,omitempty"`
	SlideFormat *SlideFormat `json:"slide_format,omitempty"`
}

// Columns normalizes the slide's content into an ordered column list. A
// single-column slide yields one synthetic column holding its blocks.
func (s *SlideSpec) Columns() []Column {
	if s.Content == nil {
		return nil
	}
	if len(s.Content.Columns) > 0 {
		return s.Content.Columns
	}
	if len(s.Content.Blocks) > 0 {
		return []Column{{Blocks: s.Content.Blocks}}
	}
	return nil
}
