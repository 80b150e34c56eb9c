package pixel

import "fmt"

// Type 像素格式
type Type int

const (
	TypeMono Type = iota
	TypeRGB
	TypeRGBLUT
	TypeMonoLUT
	TypeMultiband
)

func (t Type) String() string {
	switch t {
	case TypeMono:
		return "MONO"
	case TypeRGB:
		return "RGB"
	case TypeRGBLUT:
		return "RGB/LUT"
	case TypeMonoLUT:
		return "MONO/LUT"
	case TypeMultiband:
		return "MULTI"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// UsesLUT 像素值是否为查找表索引
func (t Type) UsesLUT() bool {
	return t == TypeRGBLUT || t == TypeMonoLUT
}

// Mode 波段交织方式 (NITF IMODE)
type Mode byte

const (
	ModeBlock      Mode = 'B' // 按块交织
	ModePixel      Mode = 'P' // 按像素交织
	ModeRow        Mode = 'R' // 按行交织
	ModeSequential Mode = 'S' // 波段顺序
)

func (m Mode) valid() bool {
	switch m {
	case ModeBlock, ModePixel, ModeRow, ModeSequential:
		return true
	}
	return false
}

// MaxEncodedSize 单个图像段数据的上限，与 NITF LI 字段的十位宽度一致
const MaxEncodedSize int64 = 9999999999

// Format 描述一个像素块的存储布局
// BlockRows/BlockCols 为 0 时整幅图像为单个块
type Format struct {
	Rows         int
	Cols         int
	Bands        int
	BitsPerPixel int
	Mode         Mode
	BlockRows    int
	BlockCols    int
}

// Validate 检查布局参数
func (f Format) Validate() error {
	switch {
	case f.Rows <= 0:
		return &FormatError{Field: "Rows", Reason: fmt.Sprintf("must be positive, got %d", f.Rows)}
	case f.Cols <= 0:
		return &FormatError{Field: "Cols", Reason: fmt.Sprintf("must be positive, got %d", f.Cols)}
	case f.Bands <= 0:
		return &FormatError{Field: "Bands", Reason: fmt.Sprintf("must be positive, got %d", f.Bands)}
	case f.BitsPerPixel < 1 || f.BitsPerPixel > 32:
		return &FormatError{Field: "BitsPerPixel", Reason: fmt.Sprintf("must be in 1..32, got %d", f.BitsPerPixel)}
	case !f.Mode.valid():
		return &FormatError{Field: "Mode", Reason: fmt.Sprintf("unknown interleave mode %q", byte(f.Mode))}
	case f.BlockRows < 0 || f.BlockCols < 0:
		return &FormatError{Field: "Block", Reason: "block size must not be negative"}
	case !f.fitsLimit():
		return &FormatError{Field: "Size", Reason: fmt.Sprintf("%dx%dx%d samples of %d bits exceed %d bytes",
			f.Rows, f.Cols, f.Bands, f.BitsPerPixel, MaxEncodedSize)}
	}
	return nil
}

// fitsLimit 逐项相乘，每一步都与上限比较，避免 int64 溢出
func (f Format) fitsLimit() bool {
	limit := MaxEncodedSize * 8
	n := int64(1)
	for _, v := range []int64{
		int64(f.BlocksPerCol()) * int64(f.blockRows()),
		int64(f.BlocksPerRow()) * int64(f.blockCols()),
		int64(f.Bands),
		int64(f.BitsPerPixel),
	} {
		if v > limit/n {
			return false
		}
		n *= v
	}
	return true
}

func (f Format) blockRows() int {
	if f.BlockRows <= 0 || f.BlockRows > f.Rows {
		return f.Rows
	}
	return f.BlockRows
}

func (f Format) blockCols() int {
	if f.BlockCols <= 0 || f.BlockCols > f.Cols {
		return f.Cols
	}
	return f.BlockCols
}

// PixelsPerBlock 返回块的高和宽 (NPPBV, NPPBH)
func (f Format) PixelsPerBlock() (rows, cols int) {
	return f.blockRows(), f.blockCols()
}

// BlocksPerRow 水平方向块数 (NBPR)
func (f Format) BlocksPerRow() int {
	bc := f.blockCols()
	return (f.Cols + bc - 1) / bc
}

// BlocksPerCol 垂直方向块数 (NBPC)
func (f Format) BlocksPerCol() int {
	br := f.blockRows()
	return (f.Rows + br - 1) / br
}

// BytesPerSample 每个样本占用的字节数（向上取整）
func (f Format) BytesPerSample() int {
	return (f.BitsPerPixel + 7) / 8
}

// MaxSample 当前位深可表示的最大值
func (f Format) MaxSample() uint32 {
	if f.BitsPerPixel >= 32 {
		return ^uint32(0)
	}
	return uint32(1)<<uint(f.BitsPerPixel) - 1
}

// unitBytes 一个对齐单元的字节数
// 单元为一个块（S 模式下为一个块的一个波段），单元末尾补齐到字节边界
func (f Format) unitBytes() int64 {
	br, bc := f.blockRows(), f.blockCols()
	bits := int64(br) * int64(bc) * int64(f.BitsPerPixel)
	if f.Mode != ModeSequential {
		bits *= int64(f.Bands)
	}
	return (bits + 7) / 8
}

// EncodedSize 编码后的字节长度
// 只对通过 Validate 的布局有意义
func (f Format) EncodedSize() int64 {
	units := int64(f.BlocksPerRow()) * int64(f.BlocksPerCol())
	if f.Mode == ModeSequential {
		units *= int64(f.Bands)
	}
	return units * f.unitBytes()
}

// visit 按 IMODE 顺序遍历所有样本位置，越界位置是块填充
func (f Format) visit(sample func(row, col, band int) error, endUnit func() error) error {
	br, bc := f.blockRows(), f.blockCols()
	nbr, nbc := f.BlocksPerCol(), f.BlocksPerRow()

	block := func(by, bx int, band int) error {
		r0, c0 := by*br, bx*bc
		switch {
		case band >= 0:
			for y := 0; y < br; y++ {
				for x := 0; x < bc; x++ {
					if err := sample(r0+y, c0+x, band); err != nil {
						return err
					}
				}
			}
		case f.Mode == ModeBlock:
			for b := 0; b < f.Bands; b++ {
				for y := 0; y < br; y++ {
					for x := 0; x < bc; x++ {
						if err := sample(r0+y, c0+x, b); err != nil {
							return err
						}
					}
				}
			}
		case f.Mode == ModePixel:
			for y := 0; y < br; y++ {
				for x := 0; x < bc; x++ {
					for b := 0; b < f.Bands; b++ {
						if err := sample(r0+y, c0+x, b); err != nil {
							return err
						}
					}
				}
			}
		case f.Mode == ModeRow:
			for y := 0; y < br; y++ {
				for b := 0; b < f.Bands; b++ {
					for x := 0; x < bc; x++ {
						if err := sample(r0+y, c0+x, b); err != nil {
							return err
						}
					}
				}
			}
		}
		return endUnit()
	}

	if f.Mode == ModeSequential {
		for b := 0; b < f.Bands; b++ {
			for by := 0; by < nbr; by++ {
				for bx := 0; bx < nbc; bx++ {
					if err := block(by, bx, b); err != nil {
						return err
					}
				}
			}
		}
		return nil
	}

	for by := 0; by < nbr; by++ {
		for bx := 0; bx < nbc; bx++ {
			if err := block(by, bx, -1); err != nil {
				return err
			}
		}
	}
	return nil
}
