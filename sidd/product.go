package sidd

import (
	"fmt"
	"image"
	"image/color"

	"github.com/weaming/sidd-go/nitf"
	"github.com/weaming/sidd-go/pixel"
)

// Product SIDD 产品：容器视图加上逻辑图像视图
// Segments 归 Product 所有，Header 是按当前段计算出的布局
type Product struct {
	Header   *nitf.FileHeader
	Segments []*nitf.Segment
	Images   []*Image
}

// Image 一幅逻辑图像，可能由多个图像段拼成
type Image struct {
	ID             string // IID1 前缀，如 SIDD001
	Metadata       *DerivedData
	Raster         *pixel.Raster
	PixelType      pixel.Type
	LUT            *nitf.LookupTable
	SegmentIndexes []int    // 在 Product.Segments 中的位置
	RowRanges      [][2]int // 每段覆盖的行 [start, end)
	Legend         *Legend
	DESIndex       int // 元数据 DES 的位置，-1 表示没有
}

// Legend 附着在图像首段上的图例
type Legend struct {
	ID             string
	Raster         *pixel.Raster
	LUT            *nitf.LookupTable
	SegmentIndexes []int
	Row            int // 相对所属图像首段的 ILOC
	Col            int
}

// Container 返回容器视图
func (p *Product) Container() *nitf.Container {
	return &nitf.Container{Header: p.Header, Segments: p.Segments}
}

// Validate 检查段结构以及与索引表的一致性
func (p *Product) Validate() error {
	if err := p.Container().Validate(); err != nil {
		return err
	}
	for i, img := range p.Images {
		if len(img.SegmentIndexes) == 0 {
			return &nitf.StructuralError{Segment: -1, Reason: fmt.Sprintf("image %d has no segments", i+1)}
		}
		end := 0
		for j, rr := range img.RowRanges {
			if rr[0] != end || rr[1] <= rr[0] {
				return &nitf.StructuralError{Segment: img.SegmentIndexes[j],
					Reason: fmt.Sprintf("image %s rows [%d,%d) do not continue at row %d", img.ID, rr[0], rr[1], end)}
			}
			end = rr[1]
		}
		if img.Raster != nil && end != img.Raster.Rows {
			return &nitf.StructuralError{Segment: -1, Reason: fmt.Sprintf("image %s segments cover %d of %d rows", img.ID, end, img.Raster.Rows)}
		}
	}
	return nil
}

// Bytes 序列化为 NITF 字节流
func (p *Product) Bytes() ([]byte, error) {
	return nitf.Assemble(p.Header, p.Segments)
}

// WriteFile 写入文件，失败时不留下任何文件
func (p *Product) WriteFile(filename string) error {
	return nitf.WriteFile(filename, p.Header, p.Segments)
}

// NumImageSegments 图像段总数（含图例）
func (p *Product) NumImageSegments() int {
	return p.Header.Count(nitf.KindImage)
}

// Render 把像素经 LUT 映射为可显示的图像
func (img *Image) Render() (image.Image, error) {
	return render(img.Raster, img.PixelType, img.LUT)
}

// Render 渲染图例
func (l *Legend) Render() (image.Image, error) {
	return render(l.Raster, pixel.TypeMonoLUT, l.LUT)
}

func render(r *pixel.Raster, t pixel.Type, lut *nitf.LookupTable) (image.Image, error) {
	if r == nil {
		return nil, fmt.Errorf("no raster to render")
	}
	if t.UsesLUT() {
		if lut == nil {
			return nil, fmt.Errorf("%s image without lookup table", t)
		}
		if err := pixel.CheckIndices(r, lut.Entries); err != nil {
			return nil, err
		}
	}
	rect := image.Rect(0, 0, r.Cols, r.Rows)
	switch t {
	case pixel.TypeMono:
		out := image.NewGray(rect)
		for y := 0; y < r.Rows; y++ {
			for x := 0; x < r.Cols; x++ {
				out.SetGray(x, y, color.Gray{Y: clampByte(r.At(y, x, 0))})
			}
		}
		return out, nil
	case pixel.TypeMonoLUT:
		out := image.NewGray(rect)
		for y := 0; y < r.Rows; y++ {
			for x := 0; x < r.Cols; x++ {
				v, _, _ := lut.Color(int(r.At(y, x, 0)))
				out.SetGray(x, y, color.Gray{Y: v})
			}
		}
		return out, nil
	case pixel.TypeRGBLUT:
		out := image.NewRGBA(rect)
		for y := 0; y < r.Rows; y++ {
			for x := 0; x < r.Cols; x++ {
				cr, cg, cb := lut.Color(int(r.At(y, x, 0)))
				out.SetRGBA(x, y, color.RGBA{R: cr, G: cg, B: cb, A: 255})
			}
		}
		return out, nil
	case pixel.TypeRGB:
		if r.Bands < 3 {
			return nil, fmt.Errorf("RGB image has %d bands", r.Bands)
		}
		out := image.NewRGBA(rect)
		for y := 0; y < r.Rows; y++ {
			for x := 0; x < r.Cols; x++ {
				out.SetRGBA(x, y, color.RGBA{
					R: clampByte(r.At(y, x, 0)),
					G: clampByte(r.At(y, x, 1)),
					B: clampByte(r.At(y, x, 2)),
					A: 255,
				})
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("cannot render %s pixels", t)
}

func clampByte(v uint32) uint8 {
	if v > 255 {
		return 255
	}
	return uint8(v)
}
