package sidd

import (
	"fmt"
	"strings"
	"time"

	"github.com/weaming/sidd-go/nitf"
)

// LUTMode 显示查找表的选择
type LUTMode int

const (
	LUTNone LUTMode = iota
	LUTMono
	LUTColor
)

func (m LUTMode) String() string {
	switch m {
	case LUTNone:
		return "None"
	case LUTMono:
		return "Mono"
	case LUTColor:
		return "Color"
	}
	return fmt.Sprintf("LUTMode(%d)", int(m))
}

// ParseLUTMode 解析 "Color" / "Mono" / "None"（不区分大小写）
func ParseLUTMode(s string) (LUTMode, error) {
	switch strings.ToLower(s) {
	case "none":
		return LUTNone, nil
	case "mono":
		return LUTMono, nil
	case "color", "colour":
		return LUTColor, nil
	}
	return LUTNone, fmt.Errorf("unknown LUT mode %q (want Color, Mono or None)", s)
}

// Set 实现 pflag.Value
func (m *LUTMode) Set(s string) error {
	v, err := ParseLUTMode(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Type 实现 pflag.Value
func (m *LUTMode) Type() string { return "lut" }

const (
	DefaultRows      = 256
	DefaultCols      = 384
	DefaultNumImages = 2
	forcedSegments   = 3
)

// Config 产品构建配置
type Config struct {
	LUTMode          LUTMode
	MultipleImages   bool
	MultipleSegments bool
	IncludeLegend    bool

	Rows      int // 合成图像尺寸，仅 Build(cfg) 使用
	Cols      int
	NumImages int // MultipleImages 时的图像数，默认 2

	// MaxSegmentBytes 每个图像段像素数据的上限，0 表示 NITF 上限
	// MultipleSegments 且未设置上限时每幅图像固定切成 3 段
	MaxSegmentBytes int64

	// SegmentRows 每段的行数上限，0 表示只按字节上限切分
	SegmentRows int

	// BlockSize NITF 像素分块边长，0 表示不分块
	BlockSize int

	Classification string
	Title          string
	DateTime       time.Time // 为零时使用当前时间
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		LUTMode:        LUTNone,
		Rows:           DefaultRows,
		Cols:           DefaultCols,
		Classification: nitf.ClassUnclassified,
		Title:          "SIDD product",
	}
}

// Validate 检查配置
func (c *Config) Validate() error {
	switch {
	case c.LUTMode < LUTNone || c.LUTMode > LUTColor:
		return fmt.Errorf("invalid LUT mode %d", int(c.LUTMode))
	case c.Rows < 0 || c.Cols < 0:
		return fmt.Errorf("negative image size %dx%d", c.Rows, c.Cols)
	case c.Rows > 99999999 || c.Cols > 99999999:
		return fmt.Errorf("image size %dx%d exceeds NROWS/NCOLS", c.Rows, c.Cols)
	case c.NumImages < 0 || c.NumImages > nitf.MaxSegments:
		return fmt.Errorf("number of images %d out of range", c.NumImages)
	case c.NumImages > 1 && !c.MultipleImages:
		return fmt.Errorf("%d images requested without MultipleImages", c.NumImages)
	case c.MaxSegmentBytes < 0 || c.MaxSegmentBytes > nitf.MaxImageDataLength:
		return fmt.Errorf("segment limit %d out of range", c.MaxSegmentBytes)
	case c.SegmentRows < 0 || c.SegmentRows > nitf.MaxLocation:
		return fmt.Errorf("segment rows %d out of range 0..%d", c.SegmentRows, nitf.MaxLocation)
	case c.BlockSize < 0 || c.BlockSize > 8192:
		return fmt.Errorf("block size %d out of range 0..8192", c.BlockSize)
	case len(c.Classification) > 1:
		return fmt.Errorf("classification %q must be a single letter", c.Classification)
	}
	return nil
}

func (c *Config) numImages() int {
	switch {
	case !c.MultipleImages:
		return 1
	case c.NumImages > 1:
		return c.NumImages
	}
	return DefaultNumImages
}

func (c *Config) classification() string {
	if c.Classification == "" {
		return nitf.ClassUnclassified
	}
	return c.Classification
}

func (c *Config) dateTime() time.Time {
	if c.DateTime.IsZero() {
		return time.Now().UTC()
	}
	return c.DateTime.UTC()
}
