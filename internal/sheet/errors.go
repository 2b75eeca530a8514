package sheet

import "fmt"

// RowError reports a data row that failed to parse a required field.
// Row is 1-based in file terms (the header is row 1). A RowError aborts
// the whole decode: partial grouping would silently drop detail lines.
type RowError struct {
	Row    int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d, column %q: %v", e.Row, e.Column, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// AccessError reports a failure reaching or replacing the sheet file
// itself, as opposed to malformed content within it.
type AccessError struct {
	Op   string // "open", "read", "write", "rename"
	Path string
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }
