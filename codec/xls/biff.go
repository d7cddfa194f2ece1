package xlscodec

import (
	"bytes"
	"encoding/binary"
	"math"
	"time"
	"unicode/utf16"
)

// BIFF8 record identifiers.
const (
	recBOF        = 0x0809
	recEOF        = 0x000A
	recCodepage   = 0x0042
	recDateMode   = 0x0022
	recWindow1    = 0x003D
	recFont       = 0x0031
	recXF         = 0x00E0
	recStyle      = 0x0293
	recBoundSheet = 0x0085
	recSST        = 0x00FC
	recContinue   = 0x003C
	recDimensions = 0x0200
	recNumber     = 0x0203
	recLabelSST   = 0x00FD
	recBoolErr    = 0x0205
	recWindow2    = 0x023E
)

const (
	maxRecordData = 8224
	bofGlobals    = 0x0005
	bofWorksheet  = 0x0010
	codepageUTF16 = 1200

	// Cell XF indexes; the first 15 XF records are style XFs.
	xfGeneral = 15
	xfDate    = 16
	xfBold    = 17

	fmtDateTime = 22 // built-in "m/d/yy h:mm"
)

var le = binary.LittleEndian

type biffWriter struct {
	bytes.Buffer
}

func (b *biffWriter) record(id uint16, data []byte) {
	var hdr [4]byte
	le.PutUint16(hdr[0:], id)
	le.PutUint16(hdr[2:], uint16(len(data)))
	b.Write(hdr[:])
	b.Write(data)
}

func (b *biffWriter) bof(kind uint16) {
	data := make([]byte, 16)
	le.PutUint16(data[0:], 0x0600)
	le.PutUint16(data[2:], kind)
	le.PutUint16(data[4:], 0x0DBB) // build
	le.PutUint16(data[6:], 0x07CC) // year
	le.PutUint32(data[8:], 0)
	le.PutUint32(data[12:], 0x06)
	b.record(recBOF, data)
}

func (b *biffWriter) eof() {
	b.record(recEOF, nil)
}

func u16(v uint16) []byte {
	data := make([]byte, 2)
	le.PutUint16(data, v)
	return data
}

func (b *biffWriter) window1() {
	data := make([]byte, 18)
	le.PutUint16(data[0:], 0x01E0)
	le.PutUint16(data[2:], 0x005A)
	le.PutUint16(data[4:], 0x3FCF)
	le.PutUint16(data[6:], 0x2A4E)
	le.PutUint16(data[8:], 0x0038)
	le.PutUint16(data[10:], 0) // active tab
	le.PutUint16(data[12:], 0) // first visible tab
	le.PutUint16(data[14:], 1) // selected tabs
	le.PutUint16(data[16:], 0x0258)
	b.record(recWindow1, data)
}

func (b *biffWriter) font(bold bool) {
	name := "Arial"
	data := make([]byte, 16, 16+len(name))
	le.PutUint16(data[0:], 200) // 10pt in twips
	le.PutUint16(data[4:], 0x7FFF)
	weight := uint16(400)
	if bold {
		weight = 700
	}
	le.PutUint16(data[6:], weight)
	data[14] = byte(len(name))
	data[15] = 0 // compressed 8-bit characters
	data = append(data, name...)
	b.record(recFont, data)
}

func (b *biffWriter) xf(font, format uint16, style bool) {
	data := make([]byte, 20)
	le.PutUint16(data[0:], font)
	le.PutUint16(data[2:], format)
	if style {
		le.PutUint16(data[4:], 0xFFF5) // locked, style XF, no parent
		data[9] = 0xF4
	} else {
		le.PutUint16(data[4:], 0x0001) // locked, parent XF 0
		if format != 0 || font != 0 {
			data[9] = 0x0C // number format and font differ from parent
		}
	}
	data[6] = 0x20 // bottom aligned
	le.PutUint16(data[18:], 0x20C0)
	b.record(recXF, data)
}

func (b *biffWriter) boundSheet(offset uint32, title string) int {
	u := utf16.Encode([]rune(title))
	data := make([]byte, 8, 8+2*len(u))
	le.PutUint32(data[0:], offset)
	data[6] = byte(len(u))
	data[7] = 1 // UTF-16LE
	for _, c := range u {
		data = le.AppendUint16(data, c)
	}
	b.record(recBoundSheet, data)
	return b.Len() - len(data) - 4
}

func (b *biffWriter) dimensions(rows, cols int) {
	data := make([]byte, 14)
	le.PutUint32(data[4:], uint32(rows))
	le.PutUint16(data[10:], uint16(cols))
	b.record(recDimensions, data)
}

func (b *biffWriter) window2(selected bool) {
	data := make([]byte, 18)
	flags := uint16(0x00B6)
	if selected {
		flags |= 0x0600
	}
	le.PutUint16(data[0:], flags)
	le.PutUint16(data[6:], 0x0040)
	b.record(recWindow2, data)
}

func cellHeader(row, col int, xf uint16, size int) []byte {
	data := make([]byte, 6, size)
	le.PutUint16(data[0:], uint16(row))
	le.PutUint16(data[2:], uint16(col))
	le.PutUint16(data[4:], xf)
	return data
}

func (b *biffWriter) number(row, col int, xf uint16, v float64) {
	data := cellHeader(row, col, xf, 14)
	data = le.AppendUint64(data, math.Float64bits(v))
	b.record(recNumber, data)
}

func (b *biffWriter) labelSST(row, col int, xf uint16, index uint32) {
	data := cellHeader(row, col, xf, 10)
	data = le.AppendUint32(data, index)
	b.record(recLabelSST, data)
}

func (b *biffWriter) boolean(row, col int, xf uint16, v bool) {
	data := cellHeader(row, col, xf, 8)
	var flag byte
	if v {
		flag = 1
	}
	data = append(data, flag, 0)
	b.record(recBoolErr, data)
}

// excelEpoch is day zero of the 1900 date system as spreadsheets count it.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// serialDate converts t to a 1900-system serial number, keeping the wall
// clock of t's location.
func serialDate(t time.Time) float64 {
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	return wall.Sub(excelEpoch).Hours() / 24
}
