package excel

import (
	"errors"
	"fmt"
)

// ErrUnknownFormat is returned by ExportTo for a format outside Formats.
var ErrUnknownFormat = errors.New("excel: unknown format")

// WorksheetError reports a worksheet that could not be added.
type WorksheetError struct {
	Title string
	Err   error
}

func (e *WorksheetError) Error() string {
	return fmt.Sprintf("excel: worksheet %q: %v", e.Title, e.Err)
}

func (e *WorksheetError) Unwrap() error {
	return e.Err
}
