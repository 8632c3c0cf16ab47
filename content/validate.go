package content

import "fmt"

// Validate checks a slide spec for structural consistency: block type tags,
// multi-column shape, table rectangularity, column config bounds and
// format_template references. It has no side effects and performs no layout
// work; a spec that passes is safe to hand to the style resolver.
func Validate(spec *SlideSpec) error {
	if spec == nil {
		return &SchemaError{Field: "slide_data", Message: "slide data is required"}
	}
	if spec.Content == nil {
		return nil
	}
	if len(spec.Content.Columns) > 0 {
		if len(spec.Content.Blocks) > 0 {
			return &SchemaError{Field: "content", Message: "blocks and columns are mutually exclusive"}
		}
		if len(spec.Content.Columns) < 2 {
			return &SchemaError{Field: "content.columns", Message: "multi-column content requires at least 2 columns"}
		}
		for ci, col := range spec.Content.Columns {
			for bi := range col.Blocks {
				where := fmt.Sprintf("content.columns[%d].blocks[%d]", ci, bi)
				if err := validateBlock(&col.Blocks[bi], where); err != nil {
					return err
				}
			}
		}
		return nil
	}
	for bi := range spec.Content.Blocks {
		where := fmt.Sprintf("content.blocks[%d]", bi)
		if err := validateBlock(&spec.Content.Blocks[bi], where); err != nil {
			return err
		}
	}
	return nil
}

func validateBlock(b *Block, where string) error {
	switch b.Type {
	case BlockTypeText:
		if b.Text == nil {
			return &SchemaError{Field: where, Message: "text block without text payload"}
		}
	case BlockTypeTable:
		if b.Table == nil {
			return &SchemaError{Field: where, Message: "table block without table payload"}
		}
		return validateTable(&b.Table.Table, where+".table")
	case BlockTypeChart:
		if b.Chart == nil {
			return &SchemaError{Field: where, Message: "chart block without chart payload"}
		}
		return validateChart(b.Chart, where+".chart")
	default:
		return &SchemaError{Field: where, Message: fmt.Sprintf("unknown block type %q", b.Type)}
	}
	return nil
}

func validateTable(t *TableSpec, where string) error {
	if len(t.Rows) == 0 {
		return &SchemaError{Field: where + ".rows", Message: "table must contain at least one row"}
	}
	cols := len(t.Rows[0].Cells)
	if cols == 0 {
		return &SchemaError{Field: where + ".rows[0]", Message: "table row must contain at least one cell"}
	}
	for ri, row := range t.Rows {
		if len(row.Cells) != cols {
			return &SchemaError{
				Field:   fmt.Sprintf("%s.rows[%d]", where, ri),
				Message: fmt.Sprintf("ragged table: row has %d cells, expected %d", len(row.Cells), cols),
			}
		}
	}

	seen := make(map[int]bool, len(t.ColumnConfigs))
	for i, cc := range t.ColumnConfigs {
		field := fmt.Sprintf("%s.column_configs[%d]", where, i)
		if cc.ColumnIndex < 0 || cc.ColumnIndex >= cols {
			return &SchemaError{Field: field, Message: fmt.Sprintf("column_index %d out of range [0, %d)", cc.ColumnIndex, cols)}
		}
		if seen[cc.ColumnIndex] {
			return &SchemaError{Field: field, Message: fmt.Sprintf("duplicate column_index %d", cc.ColumnIndex)}
		}
		seen[cc.ColumnIndex] = true
		if cc.FormatTemplate != "" {
			if _, ok := t.FormatTemplates[cc.FormatTemplate]; !ok {
				return &ReferenceError{Template: cc.FormatTemplate, Where: field}
			}
		}
	}

	for ri, row := range t.Rows {
		for ci, cell := range row.Cells {
			field := fmt.Sprintf("%s.rows[%d].cells[%d]", where, ri, ci)
			if cell.FormatTemplate != "" {
				if _, ok := t.FormatTemplates[cell.FormatTemplate]; !ok {
					return &ReferenceError{Template: cell.FormatTemplate, Where: field}
				}
			}
			for pi, p := range cell.Paragraphs {
				if p.FormatTemplate != "" {
					if _, ok := t.FormatTemplates[p.FormatTemplate]; !ok {
						return &ReferenceError{Template: p.FormatTemplate, Where: fmt.Sprintf("%s.paragraphs[%d]", field, pi)}
					}
				}
			}
		}
	}
	return nil
}

func validateChart(c *ChartSpec, where string) error {
	switch c.Kind {
	case ChartKindColumn, ChartKindColumnStacked, ChartKindBar, ChartKindBarStacked, ChartKindLine, ChartKindPie:
	default:
		return &SchemaError{Field: where + ".kind", Message: fmt.Sprintf("unknown chart kind %q", c.Kind)}
	}
	if len(c.Series) == 0 {
		return &SchemaError{Field: where + ".series", Message: "chart must contain at least one series"}
	}
	for si, s := range c.Series {
		if len(s.Values) != len(c.Categories) {
			return &SchemaError{
				Field:   fmt.Sprintf("%s.series[%d]", where, si),
				Message: fmt.Sprintf("series has %d values, expected %d (one per category)", len(s.Values), len(c.Categories)),
			}
		}
	}
	return nil
}
