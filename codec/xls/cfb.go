package xlscodec

import (
	"encoding/binary"
	"errors"
	"io"
	"unicode/utf16"
)

// Compound File Binary (OLE2) container, version 3, holding a single
// "Workbook" stream in regular 512-byte sectors. Streams shorter than the
// mini stream cutoff are padded so that no mini FAT is needed.
const (
	sectorSize       = 512
	dirEntrySize     = 128
	miniStreamCutoff = 4096
	headerDIFATSlots = 109

	freeSect   = 0xFFFFFFFF
	endOfChain = 0xFFFFFFFE
	fatSect    = 0xFFFFFFFD
	noStream   = 0xFFFFFFFF
)

var cfbSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// ErrWorkbookTooLarge is returned when the stream needs more FAT sectors than
// the header can address without DIFAT sectors (about 7 MB).
var ErrWorkbookTooLarge = errors.New("xls: workbook stream too large")

func writeCompoundFile(w io.Writer, stream []byte) error {
	if len(stream) < miniStreamCutoff {
		padded := make([]byte, miniStreamCutoff)
		copy(padded, stream)
		stream = padded
	}
	streamSectors := (len(stream) + sectorSize - 1) / sectorSize
	dirSectors := 1
	fatSectors := 1
	for (streamSectors+dirSectors+fatSectors)*4 > fatSectors*sectorSize {
		fatSectors++
	}
	if fatSectors > headerDIFATSlots {
		return ErrWorkbookTooLarge
	}
	dirStart := streamSectors
	fatStart := streamSectors + dirSectors

	buf := make([]byte, sectorSize*(1+streamSectors+dirSectors+fatSectors))
	le := binary.LittleEndian

	// Header.
	h := buf[:sectorSize]
	copy(h, cfbSignature)
	le.PutUint16(h[24:], 0x003E) // minor version
	le.PutUint16(h[26:], 0x0003) // major version
	le.PutUint16(h[28:], 0xFFFE) // byte order
	le.PutUint16(h[30:], 9)      // sector shift
	le.PutUint16(h[32:], 6)      // mini sector shift
	le.PutUint32(h[44:], uint32(fatSectors))
	le.PutUint32(h[48:], uint32(dirStart))
	le.PutUint32(h[56:], miniStreamCutoff)
	le.PutUint32(h[60:], endOfChain) // first mini FAT sector
	le.PutUint32(h[68:], endOfChain) // first DIFAT sector
	for i := range headerDIFATSlots {
		sect := uint32(freeSect)
		if i < fatSectors {
			sect = uint32(fatStart + i)
		}
		le.PutUint32(h[76+4*i:], sect)
	}

	sector := func(i int) []byte {
		off := sectorSize * (1 + i)
		return buf[off : off+sectorSize]
	}

	// Stream data.
	copy(buf[sectorSize:], stream)

	// Directory: root entry, the workbook stream and two unused entries.
	dir := sector(dirStart)
	putDirEntry(dir[0:], "Root Entry", 5, 1, endOfChain, 0)
	putDirEntry(dir[dirEntrySize:], "Workbook", 2, noStream, 0, uint32(len(stream)))
	for i := 2; i < sectorSize/dirEntrySize; i++ {
		e := dir[i*dirEntrySize:]
		le.PutUint32(e[68:], noStream)
		le.PutUint32(e[72:], noStream)
		le.PutUint32(e[76:], noStream)
	}

	// FAT.
	fat := make([]uint32, fatSectors*sectorSize/4)
	for i := range fat {
		fat[i] = freeSect
	}
	for i := range streamSectors {
		fat[i] = uint32(i + 1)
	}
	fat[streamSectors-1] = endOfChain
	fat[dirStart] = endOfChain
	for i := range fatSectors {
		fat[fatStart+i] = fatSect
	}
	for i, v := range fat {
		s := sector(fatStart + i/(sectorSize/4))
		le.PutUint32(s[4*(i%(sectorSize/4)):], v)
	}

	_, err := w.Write(buf)
	return err
}

func putDirEntry(e []byte, name string, objType byte, child, start, size uint32) {
	le := binary.LittleEndian
	u := utf16.Encode([]rune(name))
	for i, c := range u {
		le.PutUint16(e[2*i:], c)
	}
	le.PutUint16(e[64:], uint16(2*(len(u)+1)))
	e[66] = objType
	e[67] = 1 // black
	le.PutUint32(e[68:], noStream)
	le.PutUint32(e[72:], noStream)
	le.PutUint32(e[76:], child)
	le.PutUint32(e[116:], start)
	le.PutUint32(e[120:], size)
}
