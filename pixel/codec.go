package pixel

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/icza/bitio"
)

// NITF 像素数据统一为大端序
var be = binary.BigEndian

// EncodePixels 按布局序列化栅格
// 查找表格式下样本就是索引，表本身由元数据编码器单独写出
func EncodePixels(r *Raster, f Format) ([]byte, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("nil raster")
	}
	if r.Rows != f.Rows || r.Cols != f.Cols || r.Bands != f.Bands {
		return nil, &SizeMismatchError{
			What:     "raster",
			Expected: int64(f.Rows) * int64(f.Cols) * int64(f.Bands),
			Actual:   int64(r.Rows) * int64(r.Cols) * int64(r.Bands),
		}
	}
	if len(r.Samples) != r.Rows*r.Cols*r.Bands {
		return nil, &SizeMismatchError{
			What:     "sample buffer",
			Expected: int64(r.Rows * r.Cols * r.Bands),
			Actual:   int64(len(r.Samples)),
		}
	}

	limit := f.MaxSample()
	for i, v := range r.Samples {
		if v > limit {
			return nil, &SampleRangeError{Index: i, Value: v, Bits: f.BitsPerPixel}
		}
	}

	var buf bytes.Buffer
	buf.Grow(int(f.EncodedSize()))
	w := newSampleWriter(&buf, f.BitsPerPixel)

	err := f.visit(func(row, col, band int) error {
		var v uint32
		if row < r.Rows && col < r.Cols {
			v = r.At(row, col, band)
		}
		return w.write(v)
	}, w.align)
	if err != nil {
		return nil, fmt.Errorf("failed to pack samples: %w", err)
	}

	return buf.Bytes(), nil
}

// DecodePixels 按布局解析像素字节
func DecodePixels(data []byte, f Format) (*Raster, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if want := f.EncodedSize(); int64(len(data)) != want {
		return nil, &SizeMismatchError{What: "block", Expected: want, Actual: int64(len(data))}
	}

	r := NewRaster(f.Rows, f.Cols, f.Bands)
	sr := newSampleReader(data, f.BitsPerPixel)

	err := f.visit(func(row, col, band int) error {
		v, err := sr.read()
		if err != nil {
			return err
		}
		if row < r.Rows && col < r.Cols {
			r.Set(row, col, band, v)
		}
		return nil
	}, sr.align)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack samples: %w", err)
	}

	return r, nil
}

// sampleWriter 字节对齐的位深走快速路径，其余位深用 bitio 紧密打包
type sampleWriter struct {
	buf  *bytes.Buffer
	bits int
	bw   *bitio.Writer
}

func newSampleWriter(buf *bytes.Buffer, bits int) *sampleWriter {
	w := &sampleWriter{buf: buf, bits: bits}
	if bits%8 != 0 {
		w.bw = bitio.NewWriter(buf)
	}
	return w
}

func (w *sampleWriter) write(v uint32) error {
	switch w.bits {
	case 8:
		return w.buf.WriteByte(byte(v))
	case 16:
		var b [2]byte
		be.PutUint16(b[:], uint16(v))
		_, err := w.buf.Write(b[:])
		return err
	case 24:
		_, err := w.buf.Write([]byte{byte(v >> 16), byte(v >> 8), byte(v)})
		return err
	case 32:
		var b [4]byte
		be.PutUint32(b[:], v)
		_, err := w.buf.Write(b[:])
		return err
	default:
		return w.bw.WriteBits(uint64(v), uint8(w.bits))
	}
}

func (w *sampleWriter) align() error {
	if w.bw == nil {
		return nil
	}
	_, err := w.bw.Align()
	return err
}

type sampleReader struct {
	data []byte
	pos  int
	bits int
	br   *bitio.Reader
}

func newSampleReader(data []byte, bits int) *sampleReader {
	r := &sampleReader{data: data, bits: bits}
	if bits%8 != 0 {
		r.br = bitio.NewReader(bytes.NewReader(data))
	}
	return r
}

func (r *sampleReader) read() (uint32, error) {
	if r.br != nil {
		v, err := r.br.ReadBits(uint8(r.bits))
		return uint32(v), err
	}

	n := r.bits / 8
	if r.pos+n > len(r.data) {
		return 0, fmt.Errorf("sample at byte %d runs past end of data", r.pos)
	}
	p := r.data[r.pos : r.pos+n]
	r.pos += n

	switch n {
	case 1:
		return uint32(p[0]), nil
	case 2:
		return uint32(be.Uint16(p)), nil
	case 3:
		return uint32(p[0])<<16 | uint32(p[1])<<8 | uint32(p[2]), nil
	default:
		return be.Uint32(p), nil
	}
}

func (r *sampleReader) align() error {
	if r.br != nil {
		r.br.Align()
	}
	return nil
}
