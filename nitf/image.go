package nitf

import (
	"fmt"

	"github.com/weaming/sidd-go/pixel"
)

// ImageSubheader 图像段子头
type ImageSubheader struct {
	ImageID        string // IID1
	DateTime       string // IDATIM
	TargetID       string // TGTID
	Title          string // IID2
	Security       Security
	Source         string // ISORCE
	Rows           int    // NROWS
	Cols           int    // NCOLS
	ValueType      string // PVTYPE
	Representation string // IREP
	Category       string // ICAT
	ActualBits     int    // ABPP
	Justification  string // PJUST
	CoordSystem    string // ICORDS, 空表示没有 IGEOLO
	Corners        string // IGEOLO
	Comments       []string
	Compression    string // IC
	CompressRate   string // COMRAT
	Bands          []BandInfo

	Mode            pixel.Mode // IMODE
	BlockCols       int        // NPPBH, 0 表示整行
	BlockRows       int        // NPPBV, 0 表示整列
	BitsPerPixel    int        // NBPP
	DisplayLevel    int        // IDLVL
	AttachmentLevel int        // IALVL
	LocationRow     int        // ILOC 行偏移
	LocationCol     int        // ILOC 列偏移
	Magnification   string     // IMAG

	UserDefinedOverflow int
	UserDefined         []byte // UDID
	ExtendedOverflow    int
	Extended            []byte // IXSHD
}

// BandInfo 每个波段的描述
type BandInfo struct {
	Representation  string // IREPBAND
	Subcategory     string // ISUBCAT
	FilterCondition string // IFC
	FilterCode      string // IMFLT
	LUT             *LookupTable
}

// Kind 实现 Subheader
func (*ImageSubheader) Kind() SegmentKind { return KindImage }

// PixelFormat 返回与子头几何信息对应的像素布局
func (s *ImageSubheader) PixelFormat() pixel.Format {
	return pixel.Format{
		Rows:         s.Rows,
		Cols:         s.Cols,
		Bands:        len(s.Bands),
		BitsPerPixel: s.BitsPerPixel,
		Mode:         s.Mode,
		BlockRows:    s.BlockRows,
		BlockCols:    s.BlockCols,
	}
}

// PixelType 由 IREP 与波段 LUT 推出像素格式
func (s *ImageSubheader) PixelType() pixel.Type {
	hasLUT := len(s.Bands) > 0 && s.Bands[0].LUT != nil
	switch s.Representation {
	case IREPMono:
		if hasLUT {
			return pixel.TypeMonoLUT
		}
		return pixel.TypeMono
	case IREPRGBLUT:
		return pixel.TypeRGBLUT
	case IREPRGB:
		return pixel.TypeRGB
	default:
		return pixel.TypeMultiband
	}
}

// LUT 返回第一个波段的查找表（没有时为 nil）
func (s *ImageSubheader) LUT() *LookupTable {
	if len(s.Bands) == 0 {
		return nil
	}
	return s.Bands[0].LUT
}

// ExpectedDataLength 未压缩时像素数据应有的字节数
// 布局无效（包括超过 LI 上限）时返回 -1
func (s *ImageSubheader) ExpectedDataLength() int64 {
	f := s.PixelFormat()
	if f.Validate() != nil {
		return -1
	}
	return f.EncodedSize()
}

func blocks(n, per int) int {
	if per <= 0 {
		return 1
	}
	return (n + per - 1) / per
}

func (s *ImageSubheader) encode(w *fieldWriter) {
	w.alpha("IM", 2, ImageTag)
	w.alpha("IID1", 10, s.ImageID)
	w.date("IDATIM", s.DateTime)
	w.alpha("TGTID", 17, s.TargetID)
	w.text("IID2", 80, s.Title)
	s.Security.encode(w, "IS")
	w.alpha("ENCRYP", 1, "0")
	w.alpha("ISORCE", 42, s.Source)
	w.num("NROWS", 8, int64(s.Rows))
	w.num("NCOLS", 8, int64(s.Cols))
	w.alpha("PVTYPE", 3, s.ValueType)
	w.alpha("IREP", 8, s.Representation)
	w.alpha("ICAT", 8, s.Category)
	w.num("ABPP", 2, int64(s.ActualBits))
	w.alpha("PJUST", 1, s.Justification)
	w.alpha("ICORDS", 1, s.CoordSystem)
	if s.CoordSystem != "" {
		w.alpha("IGEOLO", 60, s.Corners)
	}

	if len(s.Comments) > 9 {
		w.fail(&FieldOverflowError{Record: w.record, Field: "NICOM", Width: 1, Value: fmt.Sprint(len(s.Comments))})
	}
	w.num("NICOM", 1, int64(len(s.Comments)))
	for i, c := range s.Comments {
		w.text(fmt.Sprintf("ICOM%d", i+1), 80, c)
	}

	w.alpha("IC", 2, s.Compression)
	if !uncompressed(s.Compression) {
		w.alpha("COMRAT", 4, s.CompressRate)
	}

	// NBANDS 一位数，超过 9 个波段用 XBANDS
	switch n := len(s.Bands); {
	case n == 0:
		w.fail(&InvalidFieldError{Record: w.record, Field: "NBANDS", Value: "0", Reason: "image needs at least one band"})
	case n <= 9:
		w.num("NBANDS", 1, int64(n))
	default:
		w.num("NBANDS", 1, 0)
		w.num("XBANDS", 5, int64(n))
	}
	for i := range s.Bands {
		s.Bands[i].encode(w, i+1)
	}

	w.num("ISYNC", 1, 0)
	w.alpha("IMODE", 1, string(s.Mode))
	w.num("NBPR", 4, int64(blocks(s.Cols, s.BlockCols)))
	w.num("NBPC", 4, int64(blocks(s.Rows, s.BlockRows)))
	w.num("NPPBH", 4, int64(s.BlockCols))
	w.num("NPPBV", 4, int64(s.BlockRows))
	w.num("NBPP", 2, int64(s.BitsPerPixel))
	w.num("IDLVL", 3, int64(s.DisplayLevel))
	w.num("IALVL", 3, int64(s.AttachmentLevel))
	w.num("ILOC", 5, int64(s.LocationRow))
	w.num("ILOC", 5, int64(s.LocationCol))
	w.alpha("IMAG", 4, s.Magnification)
	w.extension("UDIDL", 5, "UDOFL", s.UserDefinedOverflow, s.UserDefined)
	w.extension("IXSHDL", 5, "IXSOFL", s.ExtendedOverflow, s.Extended)
}

func (b *BandInfo) encode(w *fieldWriter, n int) {
	w.alpha(fmt.Sprintf("IREPBAND%d", n), 2, b.Representation)
	w.alpha(fmt.Sprintf("ISUBCAT%d", n), 6, b.Subcategory)
	w.alpha(fmt.Sprintf("IFC%d", n), 1, b.FilterCondition)
	w.alpha(fmt.Sprintf("IMFLT%d", n), 3, b.FilterCode)
	if b.LUT == nil {
		w.num(fmt.Sprintf("NLUTS%d", n), 1, 0)
		return
	}
	if err := b.LUT.check(); err != nil {
		w.fail(&InvalidFieldError{Record: w.record, Field: fmt.Sprintf("LUTD%d", n), Reason: err.Error()})
		return
	}
	w.num(fmt.Sprintf("NLUTS%d", n), 1, int64(b.LUT.Tables))
	w.num(fmt.Sprintf("NELUT%d", n), 5, int64(b.LUT.Entries))
	w.raw(b.LUT.Data)
}

func decodeImageSubheader(data []byte) (*ImageSubheader, error) {
	r := newFieldReader("image subheader", data)
	s := &ImageSubheader{}

	r.tag("IM", ImageTag)
	s.ImageID = r.alpha("IID1", 10)
	s.DateTime = r.alpha("IDATIM", 14)
	s.TargetID = r.alpha("TGTID", 17)
	s.Title = r.text("IID2", 80)
	s.Security.decode(r, "IS")
	r.tag("ENCRYP", "0")
	s.Source = r.alpha("ISORCE", 42)
	s.Rows = int(r.num("NROWS", 8))
	s.Cols = int(r.num("NCOLS", 8))
	s.ValueType = r.alpha("PVTYPE", 3)
	s.Representation = r.alpha("IREP", 8)
	s.Category = r.alpha("ICAT", 8)
	s.ActualBits = int(r.num("ABPP", 2))
	s.Justification = r.alpha("PJUST", 1)
	s.CoordSystem = r.alpha("ICORDS", 1)
	if s.CoordSystem != "" {
		s.Corners = r.alpha("IGEOLO", 60)
	}

	nicom := int(r.num("NICOM", 1))
	for i := 0; i < nicom && r.err == nil; i++ {
		s.Comments = append(s.Comments, r.text(fmt.Sprintf("ICOM%d", i+1), 80))
	}

	s.Compression = r.alpha("IC", 2)
	if r.err == nil && !uncompressed(s.Compression) {
		s.CompressRate = r.alpha("COMRAT", 4)
	}

	nbands := int(r.num("NBANDS", 1))
	if r.err == nil && nbands == 0 {
		nbands = int(r.num("XBANDS", 5))
		if r.err == nil && nbands <= 9 {
			r.fail("XBANDS", "XBANDS used for fewer than 10 bands")
		}
	}
	for i := 0; i < nbands && r.err == nil; i++ {
		s.Bands = append(s.Bands, decodeBand(r, i+1))
	}

	r.tag("ISYNC", "0")
	if mode := r.alpha("IMODE", 1); mode != "" {
		s.Mode = pixel.Mode(mode[0])
	} else {
		r.fail("IMODE", "missing interleave mode")
	}
	nbpr := int(r.num("NBPR", 4))
	nbpc := int(r.num("NBPC", 4))
	s.BlockCols = int(r.num("NPPBH", 4))
	s.BlockRows = int(r.num("NPPBV", 4))
	s.BitsPerPixel = int(r.num("NBPP", 2))
	s.DisplayLevel = int(r.num("IDLVL", 3))
	s.AttachmentLevel = int(r.num("IALVL", 3))
	s.LocationRow = int(r.num("ILOC", 5))
	s.LocationCol = int(r.num("ILOC", 5))
	s.Magnification = r.alpha("IMAG", 4)
	s.UserDefinedOverflow, s.UserDefined = r.extension("UDIDL", 5, "UDOFL")
	s.ExtendedOverflow, s.Extended = r.extension("IXSHDL", 5, "IXSOFL")

	if r.err == nil {
		if nbpr != blocks(s.Cols, s.BlockCols) {
			r.fail("NBPR", fmt.Sprintf("%d blocks per row disagrees with NCOLS %d / NPPBH %d", nbpr, s.Cols, s.BlockCols))
		} else if nbpc != blocks(s.Rows, s.BlockRows) {
			r.fail("NBPC", fmt.Sprintf("%d blocks per column disagrees with NROWS %d / NPPBV %d", nbpc, s.Rows, s.BlockRows))
		}
	}
	if err := r.finish(); err != nil {
		return nil, err
	}
	return s, nil
}

func decodeBand(r *fieldReader, n int) BandInfo {
	b := BandInfo{
		Representation:  r.alpha(fmt.Sprintf("IREPBAND%d", n), 2),
		Subcategory:     r.alpha(fmt.Sprintf("ISUBCAT%d", n), 6),
		FilterCondition: r.alpha(fmt.Sprintf("IFC%d", n), 1),
		FilterCode:      r.alpha(fmt.Sprintf("IMFLT%d", n), 3),
	}
	nluts := int(r.num(fmt.Sprintf("NLUTS%d", n), 1))
	if r.err != nil || nluts == 0 {
		return b
	}
	if nluts > 4 {
		r.fail(fmt.Sprintf("NLUTS%d", n), fmt.Sprintf("%d tables, at most 4", nluts))
		return b
	}
	nelut := int(r.num(fmt.Sprintf("NELUT%d", n), 5))
	if r.err == nil && nelut == 0 {
		r.fail(fmt.Sprintf("NELUT%d", n), "empty lookup table")
	}
	data := r.binary(fmt.Sprintf("LUTD%d", n), nluts*nelut)
	if r.err == nil {
		b.LUT = &LookupTable{Tables: nluts, Entries: nelut, Data: data}
	}
	return b
}
