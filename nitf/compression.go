package nitf

import (
	"fmt"
	"sort"
	"sync"

	"github.com/weaming/sidd-go/pixel"
)

// Compressor 图像压缩算法 (IC)
// 输入输出的未压缩数据均为 pixel.EncodePixels 的布局
type Compressor interface {
	Code() string
	Compress(raw []byte, f pixel.Format) ([]byte, error)
	Decompress(data []byte, f pixel.Format) ([]byte, error)
}

type compressorRegistry struct {
	mu    sync.RWMutex
	codes map[string]Compressor
}

var defaultCompressors = &compressorRegistry{
	codes: map[string]Compressor{CompressionNone: passthrough{}},
}

// RegisterCompressor 注册（或替换）一个压缩算法
func RegisterCompressor(c Compressor) {
	defaultCompressors.mu.Lock()
	defer defaultCompressors.mu.Unlock()
	defaultCompressors.codes[c.Code()] = c
}

// LookupCompressor 按 IC 代码查找压缩算法
func LookupCompressor(code string) (Compressor, error) {
	defaultCompressors.mu.RLock()
	defer defaultCompressors.mu.RUnlock()
	c, ok := defaultCompressors.codes[code]
	if !ok {
		return nil, fmt.Errorf("IC %q: %w", code, ErrCompressorNotFound)
	}
	return c, nil
}

// CompressionCodes 列出已注册的 IC 代码
func CompressionCodes() []string {
	defaultCompressors.mu.RLock()
	defer defaultCompressors.mu.RUnlock()
	codes := make([]string, 0, len(defaultCompressors.codes))
	for code := range defaultCompressors.codes {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// uncompressed 这些 IC 代码后面没有 COMRAT 字段
func uncompressed(code string) bool {
	return code == CompressionNone || code == "NM"
}

type passthrough struct{}

func (passthrough) Code() string { return CompressionNone }

func (passthrough) Compress(raw []byte, f pixel.Format) ([]byte, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if int64(len(raw)) != f.EncodedSize() {
		return nil, &pixel.SizeMismatchError{What: "uncompressed image data", Expected: f.EncodedSize(), Actual: int64(len(raw))}
	}
	return raw, nil
}

func (passthrough) Decompress(data []byte, f pixel.Format) ([]byte, error) {
	return passthrough{}.Compress(data, f)
}

// EncodeImageData 编码像素并按子头的 IC 压缩
// LUT 图像会先检查索引是否越界
func EncodeImageData(s *ImageSubheader, r *pixel.Raster) ([]byte, error) {
	f := s.PixelFormat()
	if lut := s.LUT(); lut != nil {
		if err := pixel.CheckIndices(r, lut.Entries); err != nil {
			return nil, err
		}
	}
	raw, err := pixel.EncodePixels(r, f)
	if err != nil {
		return nil, err
	}
	c, err := LookupCompressor(s.Compression)
	if err != nil {
		return nil, err
	}
	return c.Compress(raw, f)
}

// DecodeImageData 解压并解码图像段的像素数据
func DecodeImageData(s *ImageSubheader, data []byte) (*pixel.Raster, error) {
	f := s.PixelFormat()
	c, err := LookupCompressor(s.Compression)
	if err != nil {
		return nil, err
	}
	raw, err := c.Decompress(data, f)
	if err != nil {
		return nil, err
	}
	return pixel.DecodePixels(raw, f)
}
