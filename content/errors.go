package content

import "fmt"

// SchemaError reports a structural problem in a slide spec: an unknown block
// type, a ragged table, a bad column config. Detected at validation, before
// any layout work.
type SchemaError struct {
	Field   string
	Message string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error at %s: %s", e.Field, e.Message)
}

// ReferenceError reports a format_template reference that does not resolve
// to a declared template name.
type ReferenceError struct {
	Template string
	Where    string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("undefined format_template %q referenced at %s", e.Template, e.Where)
}
