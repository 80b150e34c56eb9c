package nitf

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// unknownFileLength FL 全 9 表示文件长度未知
const unknownFileLength = 999999999999

// Layout 组装时计算出的文件布局
type Layout struct {
	Header     *FileHeader // 填好 FL/HL/索引表的文件头副本
	Subheaders [][]byte    // 各段编码后的子头
	Offsets    []int64     // 各段子头在文件中的起始位置
}

// ComputeLayout 校验段并计算文件头索引与偏移，不修改输入
func ComputeLayout(h *FileHeader, segs []*Segment) (*Layout, error) {
	if h == nil {
		return nil, &StructuralError{Segment: -1, Reason: "no file header"}
	}
	if err := ValidateSegments(nil, segs); err != nil {
		return nil, err
	}

	hc := *h
	hc.Segments = make([]SegmentInfo, len(segs))
	l := &Layout{
		Header:     &hc,
		Subheaders: make([][]byte, len(segs)),
		Offsets:    make([]int64, len(segs)),
	}
	for i, s := range segs {
		sub, err := EncodeSubheader(s.Subheader)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s subheader %d: %w", s.Kind(), i, err)
		}
		l.Subheaders[i] = sub
		hc.Segments[i] = SegmentInfo{
			Kind:            s.Kind(),
			SubheaderLength: int64(len(sub)),
			DataLength:      int64(len(s.Data)),
		}
	}

	// 所有字段定长，先用 0 编码一次得到 HL
	hc.FileLength, hc.HeaderLength = 0, 0
	hdr, err := EncodeFileHeader(&hc)
	if err != nil {
		return nil, err
	}
	hc.HeaderLength = int64(len(hdr))

	off := hc.HeaderLength
	for i, e := range hc.Segments {
		l.Offsets[i] = off
		off += e.SubheaderLength + e.DataLength
	}
	if off > MaxFileLength {
		return nil, &FieldOverflowError{Record: "file header", Field: "FL", Width: 12, Value: strconv.FormatInt(off, 10)}
	}
	hc.FileLength = off
	return l, nil
}

// Assemble 依次写出文件头、各段子头和数据
// 偏移、HL、FL 和索引表都在这里计算
func Assemble(h *FileHeader, segs []*Segment) ([]byte, error) {
	l, err := ComputeLayout(h, segs)
	if err != nil {
		return nil, err
	}
	hdr, err := EncodeFileHeader(l.Header)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, l.Header.FileLength)
	out = append(out, hdr...)
	for i, s := range segs {
		out = append(out, l.Subheaders[i]...)
		out = append(out, s.Data...)
	}
	Debug("assembled %d segments, %d bytes (HL %d)", len(segs), len(out), l.Header.HeaderLength)
	return out, nil
}

// Disassemble 先解析索引表，再按声明的长度切出各段
func Disassemble(data []byte) (*FileHeader, []*Segment, error) {
	h, err := DecodeFileHeader(data)
	if err != nil {
		var mre *MalformedRecordError
		if errors.As(err, &mre) && mre.Truncated {
			return nil, nil, &TruncatedFileError{Declared: declaredHeaderLength(data, mre), Actual: int64(len(data))}
		}
		return nil, nil, err
	}

	total := h.HeaderLength
	for _, e := range h.Segments {
		total += e.SubheaderLength + e.DataLength
	}
	if h.FileLength != total && h.FileLength != unknownFileLength {
		return nil, nil, &IndexCorruptionError{
			Field:  "FL",
			Reason: fmt.Sprintf("declares %d bytes but HL plus segment lengths is %d", h.FileLength, total),
		}
	}
	switch {
	case int64(len(data)) < total:
		return nil, nil, &TruncatedFileError{Declared: total, Actual: int64(len(data))}
	case int64(len(data)) > total:
		return nil, nil, &IndexCorruptionError{
			Field:  "FL",
			Reason: fmt.Sprintf("%d bytes follow the last declared segment", int64(len(data))-total),
		}
	}

	segs := make([]*Segment, len(h.Segments))
	off := h.HeaderLength
	for i, e := range h.Segments {
		sub := data[off : off+e.SubheaderLength]
		sh, err := DecodeSubheader(e.Kind, sub)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to decode %s subheader %d at offset %d: %w", e.Kind, i, off, err)
		}
		start := off + e.SubheaderLength
		segs[i] = &Segment{
			Subheader: sh,
			Data:      append([]byte(nil), data[start:start+e.DataLength]...),
			Offset:    off,
		}
		off = start + e.DataLength
	}
	return h, segs, nil
}

// declaredHeaderLength 截断的文件头：尽量从 HL 字段得到声明长度
func declaredHeaderLength(data []byte, mre *MalformedRecordError) int64 {
	const hlAt = FileHeaderFixedSize - 3 - 6
	if len(data) >= hlAt+6 {
		if hl, err := strconv.ParseInt(strings.TrimSpace(string(data[hlAt:hlAt+6])), 10, 64); err == nil && hl > int64(len(data)) {
			return hl
		}
	}
	if int64(len(data)) < MinFileHeaderSize {
		return MinFileHeaderSize
	}
	return int64(mre.Offset) + 1
}

// EncodeSubheader 序列化段子头
func EncodeSubheader(s Subheader) ([]byte, error) {
	if s == nil {
		return nil, &StructuralError{Segment: -1, Reason: "nil subheader"}
	}
	w := newFieldWriter(s.Kind().String() + " subheader")
	s.encode(w)
	return w.result()
}

// DecodeSubheader 按段类型解析子头；图形段和保留段原样保留
func DecodeSubheader(kind SegmentKind, data []byte) (Subheader, error) {
	switch kind {
	case KindImage:
		return decodeImageSubheader(data)
	case KindText:
		return decodeTextSubheader(data)
	case KindDataExtension:
		return decodeDESubheader(data)
	case KindGraphic, KindReserved:
		return &OpaqueSubheader{Type: kind, Raw: append([]byte(nil), data...)}, nil
	default:
		return nil, &MalformedRecordError{Record: "subheader", Reason: fmt.Sprintf("unknown segment kind %d", int(kind))}
	}
}
