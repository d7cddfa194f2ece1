package excel

import (
	"fmt"
	"strings"
)

// Format is an export format, spelled as the filename extension that selects it.
type Format string

const (
	FormatXLS  Format = ".xls"
	FormatXLSX Format = ".xlsx"
	FormatHTML Format = ".html"
	FormatCSV  Format = ".csv"
)

// Formats lists the supported formats.
var Formats = []Format{FormatXLS, FormatXLSX, FormatHTML, FormatCSV}

func (f Format) Valid() bool {
	switch f {
	case FormatXLS, FormatXLSX, FormatHTML, FormatCSV:
		return true
	}
	return false
}

// ContentType returns the MIME type sent with an export in this format.
func (f Format) ContentType() string {
	switch f {
	case FormatXLS:
		return "application/vnd.ms-excel; charset=UTF-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet; charset=UTF-8"
	case FormatHTML:
		return "text/html; charset=UTF-8"
	}
	return "text/csv; charset=UTF-8"
}

// FormatFromFilename derives the format from the text after the last dot of
// filename. The match is case-sensitive. Unknown or missing extensions
// select CSV, and ".csv" is appended to the returned filename: "report.txt"
// becomes "report.txt.csv".
func FormatFromFilename(filename string) (Format, string) {
	ext := filename
	if i := strings.LastIndexByte(filename, '.'); i >= 0 {
		ext = filename[i+1:]
	}
	format := Format("." + ext)
	if format.Valid() {
		return format, filename
	}
	return FormatCSV, filename + string(FormatCSV)
}

// ParseFormat accepts a format name with or without the leading dot, in any case.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	if !strings.HasPrefix(string(f), ".") {
		f = "." + f
	}
	if !f.Valid() {
		return "", fmt.Errorf("excel: unknown format %q", s)
	}
	return f, nil
}
