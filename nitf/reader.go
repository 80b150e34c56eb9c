package nitf

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/weaming/sidd-go/output"
)

// File 按需读取段的 NITF 文件
type File struct {
	Header *FileHeader

	reader  io.ReaderAt
	size    int64
	offsets []int64
}

// Open 打开 NITF 文件并解析文件头与索引表
func Open(filename string) (*File, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	nf, err := NewFile(f, stat.Size())
	if err != nil {
		f.Close()
		return nil, err
	}
	return nf, nil
}

// NewFile 从 ReaderAt 读取文件头
func NewFile(r io.ReaderAt, size int64) (*File, error) {
	f := &File{reader: r, size: size}
	if err := f.readHeader(); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	return f, nil
}

// Close 关闭底层文件
func (f *File) Close() error {
	if closer, ok := f.reader.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (f *File) readHeader() error {
	// HL 位于固定部分末尾（NUMI 之前）
	const hlAt = FileHeaderFixedSize - 3 - 6
	fixed := make([]byte, FileHeaderFixedSize)
	if n, err := f.reader.ReadAt(fixed, 0); err != nil && n < len(fixed) {
		if err == io.EOF {
			return &TruncatedFileError{Declared: MinFileHeaderSize, Actual: f.size}
		}
		return err
	}
	hl, err := strconv.ParseInt(strings.TrimSpace(string(fixed[hlAt:hlAt+6])), 10, 64)
	if err != nil || hl < MinFileHeaderSize {
		return &IndexCorruptionError{Field: "HL", Reason: fmt.Sprintf("invalid header length %q", fixed[hlAt:hlAt+6])}
	}
	if hl > f.size {
		return &TruncatedFileError{Declared: hl, Actual: f.size}
	}

	buf := make([]byte, hl)
	if _, err := f.reader.ReadAt(buf, 0); err != nil {
		return err
	}
	h, err := DecodeFileHeader(buf)
	if err != nil {
		return err
	}

	total := h.HeaderLength
	f.offsets = make([]int64, len(h.Segments))
	for i, e := range h.Segments {
		f.offsets[i] = total
		total += e.SubheaderLength + e.DataLength
	}
	if h.FileLength != total && h.FileLength != unknownFileLength {
		return &IndexCorruptionError{Field: "FL", Reason: fmt.Sprintf("declares %d bytes but HL plus segment lengths is %d", h.FileLength, total)}
	}
	if total > f.size {
		return &TruncatedFileError{Declared: total, Actual: f.size}
	}

	Debug("header: HL=%d FL=%d segments=%d", h.HeaderLength, h.FileLength, len(h.Segments))
	f.Header = h
	return nil
}

// NumSegments 段数量
func (f *File) NumSegments() int {
	return len(f.Header.Segments)
}

// Subheader 只读取并解析第 i 段的子头
func (f *File) Subheader(i int) (Subheader, error) {
	if i < 0 || i >= len(f.offsets) {
		return nil, fmt.Errorf("segment %d out of range [0,%d)", i, len(f.offsets))
	}
	e := f.Header.Segments[i]
	buf := make([]byte, e.SubheaderLength)
	if _, err := f.reader.ReadAt(buf, f.offsets[i]); err != nil {
		return nil, fmt.Errorf("failed to read subheader %d: %w", i, err)
	}
	sh, err := DecodeSubheader(e.Kind, buf)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s subheader %d: %w", e.Kind, i, err)
	}
	return sh, nil
}

// Segment 读取第 i 段的子头和数据
func (f *File) Segment(i int) (*Segment, error) {
	sh, err := f.Subheader(i)
	if err != nil {
		return nil, err
	}
	e := f.Header.Segments[i]
	data := make([]byte, e.DataLength)
	if _, err := f.reader.ReadAt(data, f.offsets[i]+e.SubheaderLength); err != nil {
		return nil, fmt.Errorf("failed to read segment %d data: %w", i, err)
	}
	return &Segment{Subheader: sh, Data: data, Offset: f.offsets[i]}, nil
}

// Container 读取全部段
func (f *File) Container() (*Container, error) {
	c := &Container{Header: f.Header, Segments: make([]*Segment, f.NumSegments())}
	for i := range c.Segments {
		s, err := f.Segment(i)
		if err != nil {
			return nil, err
		}
		c.Segments[i] = s
	}
	return c, nil
}

// ReadFile 读取整个文件并拆分
func ReadFile(filename string) (*FileHeader, []*Segment, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Disassemble(data)
}

// WriteFile 组装后写入文件
// 先写临时文件再改名，失败时不会留下不完整的文件
func WriteFile(filename string, h *FileHeader, segs []*Segment) error {
	data, err := Assemble(h, segs)
	if err != nil {
		return err
	}
	return output.WriteFile(filename, data)
}
