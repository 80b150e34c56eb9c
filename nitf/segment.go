package nitf

import (
	"fmt"

	"github.com/weaming/sidd-go/pixel"
)

// Subheader 段子头
// 由 *ImageSubheader, *TextSubheader, *DESubheader 和 *OpaqueSubheader 实现
type Subheader interface {
	Kind() SegmentKind
	encode(w *fieldWriter)
}

// OpaqueSubheader 原样保留的子头（图形段、保留段）
type OpaqueSubheader struct {
	Type SegmentKind
	Raw  []byte
}

// Kind 实现 Subheader
func (o *OpaqueSubheader) Kind() SegmentKind { return o.Type }

func (o *OpaqueSubheader) encode(w *fieldWriter) { w.raw(o.Raw) }

// Segment 子头加数据块
type Segment struct {
	Subheader Subheader
	Data      []byte

	// Offset 子头在文件中的起始位置；由 Disassemble 填写，
	// 组装前的段为 0
	Offset int64
}

// Kind 段类型
func (s *Segment) Kind() SegmentKind {
	if s.Subheader == nil {
		return -1
	}
	return s.Subheader.Kind()
}

// Image 返回图像子头；不是图像段时为 nil
func (s *Segment) Image() *ImageSubheader {
	sh, _ := s.Subheader.(*ImageSubheader)
	return sh
}

// DES 返回 DES 子头；不是 DES 段时为 nil
func (s *Segment) DES() *DESubheader {
	sh, _ := s.Subheader.(*DESubheader)
	return sh
}

// Text 返回文本子头；不是文本段时为 nil
func (s *Segment) Text() *TextSubheader {
	sh, _ := s.Subheader.(*TextSubheader)
	return sh
}

// NewImageSegment 编码栅格并创建图像段
func NewImageSegment(sh *ImageSubheader, r *pixel.Raster) (*Segment, error) {
	data, err := EncodeImageData(sh, r)
	if err != nil {
		return nil, err
	}
	return &Segment{Subheader: sh, Data: data}, nil
}

// NewDESegment 创建数据扩展段
func NewDESegment(sh *DESubheader, data []byte) *Segment {
	return &Segment{Subheader: sh, Data: data}
}

// NewTextSegment 创建文本段
func NewTextSegment(sh *TextSubheader, text []byte) *Segment {
	return &Segment{Subheader: sh, Data: text}
}

// Container 文件头加有序的段
type Container struct {
	Header   *FileHeader
	Segments []*Segment
}

// Validate 检查段内容以及文件头索引与各段偏移是否一致
func (c *Container) Validate() error {
	if c.Header == nil {
		return &StructuralError{Segment: -1, Reason: "container has no file header"}
	}
	return ValidateSegments(c.Header, c.Segments)
}

// ValidateSegments 检查段的结构不变量
// h 为 nil 时只检查段内容；否则还要求 h 的索引表与各段的长度和偏移一致
func ValidateSegments(h *FileHeader, segs []*Segment) error {
	var counts [KindReserved + 1]int
	prev := KindImage
	for i, s := range segs {
		if s == nil || s.Subheader == nil {
			return &StructuralError{Segment: i, Reason: "segment has no subheader"}
		}
		k := s.Kind()
		if k < KindImage || k > KindReserved {
			return &StructuralError{Segment: i, Reason: fmt.Sprintf("unknown segment kind %d", int(k))}
		}
		if k < prev {
			return &StructuralError{Segment: i, Reason: fmt.Sprintf("%s segment follows %s segments", k, prev)}
		}
		prev = k
		counts[k]++
		if counts[k] > MaxSegments {
			return &StructuralError{Segment: i, Reason: fmt.Sprintf("more than %d %s segments", MaxSegments, k)}
		}
		if err := validateContent(i, s); err != nil {
			return err
		}
	}
	if h == nil {
		return nil
	}
	return validateLayout(h, segs)
}

var dataLimits = [...]int64{
	KindImage:         MaxImageDataLength,
	KindGraphic:       999999,
	KindText:          MaxTextDataLength,
	KindDataExtension: MaxDESDataLength,
	KindReserved:      9999999,
}

func validateContent(i int, s *Segment) error {
	if n := int64(len(s.Data)); n > dataLimits[s.Kind()] {
		return &StructuralError{Segment: i, Reason: fmt.Sprintf("%d data bytes exceed the %s limit of %d", n, s.Kind(), dataLimits[s.Kind()])}
	}
	sh := s.Image()
	if sh == nil {
		return nil
	}

	f := sh.PixelFormat()
	if err := f.Validate(); err != nil {
		return &StructuralError{Segment: i, Reason: err.Error()}
	}
	for b, band := range sh.Bands {
		if band.LUT == nil {
			continue
		}
		if err := band.LUT.check(); err != nil {
			return &StructuralError{Segment: i, Reason: fmt.Sprintf("band %d: %v", b+1, err)}
		}
		if int64(band.LUT.Entries) > int64(f.MaxSample())+1 {
			return &StructuralError{Segment: i, Reason: fmt.Sprintf("band %d LUT has %d entries, NBPP %d allows %d",
				b+1, band.LUT.Entries, sh.BitsPerPixel, int64(f.MaxSample())+1)}
		}
	}
	if sh.Compression != CompressionNone {
		return nil
	}

	if want := f.EncodedSize(); want != int64(len(s.Data)) {
		return &StructuralError{Segment: i, Reason: fmt.Sprintf("image geometry implies %d data bytes, have %d", want, len(s.Data))}
	}
	return checkLUTIndices(i, sh, s.Data)
}

// checkLUTIndices 像素索引必须小于对应波段 LUT 的项数
func checkLUTIndices(i int, sh *ImageSubheader, data []byte) error {
	f := sh.PixelFormat()
	full := true
	for _, band := range sh.Bands {
		if band.LUT != nil && int64(band.LUT.Entries) <= int64(f.MaxSample()) {
			full = false
		}
	}
	if full {
		return nil
	}
	r, err := pixel.DecodePixels(data, f)
	if err != nil {
		return &StructuralError{Segment: i, Reason: err.Error()}
	}
	for b, band := range sh.Bands {
		if band.LUT == nil {
			continue
		}
		if err := pixel.CheckBandIndices(r, b, band.LUT.Entries); err != nil {
			return &StructuralError{Segment: i, Reason: err.Error()}
		}
	}
	return nil
}

func validateLayout(h *FileHeader, segs []*Segment) error {
	if len(h.Segments) != len(segs) {
		return &StructuralError{Segment: -1, Reason: fmt.Sprintf("index lists %d segments, container has %d", len(h.Segments), len(segs))}
	}
	end := h.HeaderLength
	for i, s := range segs {
		e := h.Segments[i]
		if e.Kind != s.Kind() {
			return &StructuralError{Segment: i, Reason: fmt.Sprintf("index entry is %s, segment is %s", e.Kind, s.Kind())}
		}
		if e.DataLength != int64(len(s.Data)) {
			return &StructuralError{Segment: i, Reason: fmt.Sprintf("index declares %d data bytes, have %d", e.DataLength, len(s.Data))}
		}
		sub, err := EncodeSubheader(s.Subheader)
		if err != nil {
			return &StructuralError{Segment: i, Reason: err.Error()}
		}
		if e.SubheaderLength != int64(len(sub)) {
			return &StructuralError{Segment: i, Reason: fmt.Sprintf("index declares %d subheader bytes, subheader encodes to %d", e.SubheaderLength, len(sub))}
		}
		switch {
		case s.Offset < end:
			return &StructuralError{Segment: i, Reason: fmt.Sprintf("offset %d overlaps the previous record ending at %d", s.Offset, end)}
		case s.Offset > end:
			return &StructuralError{Segment: i, Reason: fmt.Sprintf("offset %d leaves a gap after %d", s.Offset, end)}
		}
		end = s.Offset + e.SubheaderLength + e.DataLength
	}
	if h.FileLength != end {
		return &StructuralError{Segment: -1, Reason: fmt.Sprintf("FL is %d, segments end at %d", h.FileLength, end)}
	}
	return nil
}
