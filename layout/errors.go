package layout

import "fmt"

// LayoutMismatchError reports content whose column shape does not match the
// template's declared column regions.
type LayoutMismatchError struct {
	Expected int
	Actual   int
}

func (e *LayoutMismatchError) Error() string {
	return fmt.Sprintf("layout mismatch: template declares %d content region(s), slide supplies %d column(s)", e.Expected, e.Actual)
}

// RowTooLargeError reports a single body row whose minimum-font-size height
// exceeds the full page height. The row can never be placed, so the slide
// fails; the deck job continues.
type RowTooLargeError struct {
	RowIndex int
}

func (e *RowTooLargeError) Error() string {
	return fmt.Sprintf("table row %d exceeds the page height even at the minimum font size", e.RowIndex)
}

// ContentOverflowError reports mixed content that does not fit a single page
// even with every region at its configured minimum font size.
type ContentOverflowError struct {
	TableMinFontSize   int
	TextboxMinFontSize int
}

func (e *ContentOverflowError) Error() string {
	return fmt.Sprintf("content does not fit one page at minimum font sizes (table %dpt, text %dpt)", e.TableMinFontSize, e.TextboxMinFontSize)
}
