package sidd

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/weaming/sidd-go/nitf"
	"github.com/weaming/sidd-go/pixel"
)

const legendPadding = 4

// LegendInput 图例图像：1 位单色索引加 2 项查找表
type LegendInput struct {
	Raster *pixel.Raster
	LUT    *nitf.LookupTable
	Row    int // 相对所属图像首段的 ILOC
	Col    int
}

// LegendLUT 图例的 2 项查找表：0 为黑，1 为白
func LegendLUT() *nitf.LookupTable {
	lut, _ := nitf.NewLookupTable([]byte{0, 255})
	return lut
}

// RenderLegend 用 7x13 点阵字体把文字画成 1 位图例，四周带边框
func RenderLegend(lines ...string) *pixel.Raster {
	face := basicfont.Face7x13
	width := 0
	for _, l := range lines {
		if w := font.MeasureString(face, l).Ceil(); w > width {
			width = w
		}
	}
	lineHeight := face.Metrics().Height.Ceil()
	cols := width + 2*legendPadding
	rows := lineHeight*len(lines) + 2*legendPadding
	if len(lines) == 0 {
		cols, rows = 2*legendPadding, 2*legendPadding
	}

	canvas := image.NewGray(image.Rect(0, 0, cols, rows))
	d := &font.Drawer{Dst: canvas, Src: image.White, Face: face}
	ascent := face.Metrics().Ascent.Ceil()
	for i, l := range lines {
		d.Dot = fixed.P(legendPadding, legendPadding+i*lineHeight+ascent)
		d.DrawString(l)
	}
	for x := 0; x < cols; x++ {
		canvas.SetGray(x, 0, color.Gray{Y: 255})
		canvas.SetGray(x, rows-1, color.Gray{Y: 255})
	}
	for y := 0; y < rows; y++ {
		canvas.SetGray(0, y, color.Gray{Y: 255})
		canvas.SetGray(cols-1, y, color.Gray{Y: 255})
	}

	r := pixel.NewRaster(rows, cols, 1)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if canvas.GrayAt(x, y).Y >= 128 {
				r.Set(y, x, 0, 1)
			}
		}
	}
	return r
}

// DefaultLegend 图像右上角的默认图例
func DefaultLegend(imageCols int, label string) *LegendInput {
	r := RenderLegend(label, "N ^")
	col := imageCols - r.Cols - legendPadding
	if col < 0 {
		col = 0
	}
	return &LegendInput{Raster: r, LUT: LegendLUT(), Row: legendPadding, Col: col}
}
