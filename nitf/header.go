package nitf

import "fmt"

// FileHeader NITF 2.1 文件头
type FileHeader struct {
	ComplexityLevel int    // CLEVEL
	OriginStationID string // OSTAID
	DateTime        string // FDT, CCYYMMDDhhmmss
	Title           string // FTITLE
	Security        Security
	CopyNumber      int     // FSCOP
	NumCopies       int     // FSCPYS
	BackgroundColor [3]byte // FBKGC
	OriginatorName  string  // ONAME
	OriginatorPhone string  // OPHONE

	FileLength   int64 // FL
	HeaderLength int64 // HL

	// Segments 段索引表，按文件中的顺序排列
	Segments []SegmentInfo

	UserDefinedOverflow int
	UserDefined         []byte // UDHD
	ExtendedOverflow    int
	Extended            []byte // XHD
}

// SegmentInfo 索引表中的一项
type SegmentInfo struct {
	Kind            SegmentKind
	SubheaderLength int64
	DataLength      int64
}

// Count 返回某种段的数量
func (h *FileHeader) Count(kind SegmentKind) int {
	n := 0
	for _, s := range h.Segments {
		if s.Kind == kind {
			n++
		}
	}
	return n
}

// EncodeFileHeader 序列化文件头（FL/HL 按字段原样写出）
func EncodeFileHeader(h *FileHeader) ([]byte, error) {
	w := newFieldWriter("file header")

	w.alpha("FHDR", 4, FileProfile)
	w.alpha("FVER", 5, FileVersion)
	w.num("CLEVEL", 2, int64(h.ComplexityLevel))
	w.alpha("STYPE", 4, SystemType)
	w.alpha("OSTAID", 10, h.OriginStationID)
	w.date("FDT", h.DateTime)
	w.text("FTITLE", 80, h.Title)
	h.Security.encode(w, "FS")
	w.num("FSCOP", 5, int64(h.CopyNumber))
	w.num("FSCPYS", 5, int64(h.NumCopies))
	w.alpha("ENCRYP", 1, "0")
	w.binary("FBKGC", 3, h.BackgroundColor[:])
	w.alpha("ONAME", 24, h.OriginatorName)
	w.alpha("OPHONE", 18, h.OriginatorPhone)
	w.num("FL", 12, h.FileLength)
	w.num("HL", 6, h.HeaderLength)

	// 索引表：每种段先写数量，再写各段的子头长度和数据长度
	for kind, f := range indexFields {
		var entries []SegmentInfo
		for _, s := range h.Segments {
			if s.Kind == SegmentKind(kind) {
				entries = append(entries, s)
			}
		}
		if len(entries) > MaxSegments {
			w.fail(&FieldOverflowError{Record: w.record, Field: f.count, Width: 3, Value: fmt.Sprint(len(entries))})
			break
		}
		w.num(f.count, 3, int64(len(entries)))
		for _, e := range entries {
			w.num(f.subheaderName, f.subheaderLen, e.SubheaderLength)
			w.num(f.dataName, f.dataLen, e.DataLength)
		}
		if SegmentKind(kind) == KindGraphic {
			w.num("NUMX", 3, 0)
		}
	}

	w.extension("UDHDL", 5, "UDHOFL", h.UserDefinedOverflow, h.UserDefined)
	w.extension("XHDL", 5, "XHDLOFL", h.ExtendedOverflow, h.Extended)

	return w.result()
}

// DecodeFileHeader 解析文件头；data 可以是整个文件
func DecodeFileHeader(data []byte) (*FileHeader, error) {
	r := newFieldReader("file header", data)
	h := &FileHeader{}

	r.tag("FHDR", FileProfile)
	r.tag("FVER", FileVersion)
	h.ComplexityLevel = int(r.num("CLEVEL", 2))
	r.tag("STYPE", SystemType)
	h.OriginStationID = r.alpha("OSTAID", 10)
	h.DateTime = r.alpha("FDT", 14)
	h.Title = r.text("FTITLE", 80)
	h.Security.decode(r, "FS")
	h.CopyNumber = int(r.num("FSCOP", 5))
	h.NumCopies = int(r.num("FSCPYS", 5))
	r.tag("ENCRYP", "0")
	copy(h.BackgroundColor[:], r.binary("FBKGC", 3))
	h.OriginatorName = r.alpha("ONAME", 24)
	h.OriginatorPhone = r.alpha("OPHONE", 18)
	h.FileLength = r.num("FL", 12)
	h.HeaderLength = r.num("HL", 6)

	for kind, f := range indexFields {
		n := r.num(f.count, 3)
		if r.err != nil {
			break
		}
		for i := int64(0); i < n; i++ {
			sl := r.length(f.subheaderName, f.subheaderLen)
			dl := r.length(f.dataName, f.dataLen)
			if r.err != nil {
				break
			}
			h.Segments = append(h.Segments, SegmentInfo{
				Kind:            SegmentKind(kind),
				SubheaderLength: sl,
				DataLength:      dl,
			})
		}
		if SegmentKind(kind) == KindGraphic {
			if x := r.num("NUMX", 3); r.err == nil && x != 0 {
				r.fail("NUMX", "reserved field must be 000")
			}
		}
	}

	h.UserDefinedOverflow, h.UserDefined = r.extension("UDHDL", 5, "UDHOFL")
	h.ExtendedOverflow, h.Extended = r.extension("XHDL", 5, "XHDLOFL")

	if r.err != nil {
		return nil, r.err
	}
	if h.HeaderLength != int64(r.pos) {
		return nil, &IndexCorruptionError{
			Field:  "HL",
			Reason: fmt.Sprintf("declares %d bytes but header parses to %d", h.HeaderLength, r.pos),
		}
	}
	return h, nil
}
