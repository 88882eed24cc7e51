package convert

import (
	"bytes"
	"encoding/binary"
	"io"
	"strings"

	"github.com/tabkit/tabkit/internal/cell"
)

// dBase III/IV field type codes, named the way jonas-p/go-shp's Field
// struct models a shapefile's companion .dbf descriptor — reused here as
// the idiom for a standalone .dbf reader, since go-shp itself only opens a
// .dbf alongside a sibling .shp and cannot be pointed at a bare .dbf file
// to the actual .dbf binary format.
const (
	dbfTypeChar    = 'C'
	dbfTypeNumeric = 'N'
	dbfTypeFloat   = 'F'
	dbfTypeLogical = 'L'
	dbfTypeDate    = 'D'
	dbfTypeMemo    = 'M'
)

type dbfField struct {
	Name     string
	Type     byte
	Length   byte
	Decimals byte
}

type dbfHeader struct {
	RecordCount  uint32
	HeaderLength uint16
	RecordLength uint16
	Fields       []dbfField
}

// FromDBF reads a dBase III/IV table directly (not via go-shp, which
// requires a sibling .shp). r must be seekable; callers reject streaming
// a DBF from a pipe with a FormatError before calling this.
func FromDBF(r io.ReaderAt, size int64, opts Options) (*cell.Table, error) {
	hdr, err := readDBFHeader(r)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	for i, f := range hdr.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(csvQuote(f.Name))
	}
	buf.WriteByte('\n')

	recBuf := make([]byte, hdr.RecordLength)
	offset := int64(hdr.HeaderLength)
	for rec := uint32(0); rec < hdr.RecordCount; rec++ {
		if _, err := r.ReadAt(recBuf, offset); err != nil && err != io.EOF {
			return nil, err
		}
		offset += int64(hdr.RecordLength)
		if recBuf[0] == '*' {
			continue // soft-deleted record, skipped like original_source's dbf reader
		}
		pos := 1
		for i, f := range hdr.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			raw := string(recBuf[pos : pos+int(f.Length)])
			pos += int(f.Length)
			buf.WriteString(csvQuote(formatDBFField(f, raw)))
		}
		buf.WriteByte('\n')
	}

	return FromCSV(buf.Bytes(), Options{Encoding: opts.Encoding, FieldSizeLimit: opts.FieldSizeLimit})
}

func formatDBFField(f dbfField, raw string) string {
	trimmed := strings.TrimSpace(raw)
	switch f.Type {
	case dbfTypeLogical:
		switch trimmed {
		case "T", "t", "Y", "y":
			return "true"
		case "F", "f", "N", "n":
			return "false"
		default:
			return ""
		}
	case dbfTypeDate:
		if len(trimmed) == 8 {
			return trimmed[0:4] + "-" + trimmed[4:6] + "-" + trimmed[6:8]
		}
		return trimmed
	default:
		return trimmed
	}
}

func readDBFHeader(r io.ReaderAt) (dbfHeader, error) {
	head := make([]byte, 32)
	if _, err := r.ReadAt(head, 0); err != nil {
		return dbfHeader{}, err
	}
	hdr := dbfHeader{
		RecordCount:  binary.LittleEndian.Uint32(head[4:8]),
		HeaderLength: binary.LittleEndian.Uint16(head[8:10]),
		RecordLength: binary.LittleEndian.Uint16(head[10:12]),
	}

	descLen := int(hdr.HeaderLength) - 32 - 1 // minus terminator byte
	descBuf := make([]byte, descLen)
	if _, err := r.ReadAt(descBuf, 32); err != nil && err != io.EOF {
		return dbfHeader{}, err
	}

	for off := 0; off+32 <= len(descBuf); off += 32 {
		rawName := descBuf[off : off+11]
		name := strings.TrimRight(string(bytes.TrimRight(rawName, "\x00")), " ")
		hdr.Fields = append(hdr.Fields, dbfField{
			Name:     name,
			Type:     descBuf[off+11],
			Length:   descBuf[off+16],
			Decimals: descBuf[off+17],
		})
	}
	return hdr, nil
}
