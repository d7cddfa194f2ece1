package codec

import (
	"io"

	csvcodec "github.com/go-data-exporter/excel/codec/csv"
	htmlcodec "github.com/go-data-exporter/excel/codec/html"
	jsoncodec "github.com/go-data-exporter/excel/codec/json"
	xlscodec "github.com/go-data-exporter/excel/codec/xls"
	xlsxcodec "github.com/go-data-exporter/excel/codec/xlsx"
	"github.com/go-data-exporter/excel/sheet"
)

// ErrNoWorksheets is returned by every codec for an empty workbook.
var ErrNoWorksheets = sheet.ErrNoWorksheets

// Codec encodes a whole workbook to a writer.
type Codec interface {
	Write(book *sheet.Workbook, writer io.Writer) error
}

func CSV(opts ...csvcodec.Option) Codec {
	return csvcodec.New(opts...)
}

func HTML(opts ...htmlcodec.Option) Codec {
	return htmlcodec.New(opts...)
}

func XLSX(opts ...xlsxcodec.Option) Codec {
	return xlsxcodec.New(opts...)
}

func XLS(opts ...xlscodec.Option) Codec {
	return xlscodec.New(opts...)
}

// JSON previews a workbook. It is not selectable by filename extension.
func JSON(opts ...jsoncodec.Option) Codec {
	return jsoncodec.New(opts...)
}
