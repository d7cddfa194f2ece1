package xlscodec

import "unicode/utf16"

// MaxCellLength is the longest text a cell can hold; longer strings are cut.
const MaxCellLength = 32767

// sst is the shared string table of a workbook.
type sst struct {
	index   map[string]uint32
	strings []string
	total   uint32
}

func newSST() *sst {
	return &sst{index: make(map[string]uint32)}
}

func (t *sst) add(s string) uint32 {
	t.total++
	if i, ok := t.index[s]; ok {
		return i
	}
	i := uint32(len(t.strings))
	t.index[s] = i
	t.strings = append(t.strings, s)
	return i
}

// records splits the table into an SST record followed by CONTINUE records.
// A string header never straddles two records; character data that does
// restarts with an option byte in the CONTINUE record.
func (t *sst) records() [][]byte {
	var out [][]byte
	cur := make([]byte, 8, maxRecordData)
	le.PutUint32(cur[0:], t.total)
	le.PutUint32(cur[4:], uint32(len(t.strings)))
	flush := func() {
		out = append(out, cur)
		cur = make([]byte, 0, maxRecordData)
	}
	for _, s := range t.strings {
		u := utf16.Encode([]rune(s))
		if len(u) > MaxCellLength {
			u = u[:MaxCellLength]
			if utf16.IsSurrogate(rune(u[len(u)-1])) {
				u = u[:len(u)-1]
			}
		}
		if len(cur)+3 > maxRecordData {
			flush()
		}
		cur = le.AppendUint16(cur, uint16(len(u)))
		cur = append(cur, 0x01) // UTF-16LE
		for len(u) > 0 {
			room := (maxRecordData - len(cur)) / 2
			if room == 0 {
				flush()
				cur = append(cur, 0x01)
				continue
			}
			n := min(room, len(u))
			for _, c := range u[:n] {
				cur = le.AppendUint16(cur, c)
			}
			u = u[n:]
		}
	}
	return append(out, cur)
}
