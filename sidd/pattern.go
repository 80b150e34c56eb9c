package sidd

import (
	"math"

	"github.com/weaming/sidd-go/colorspace"
	"github.com/weaming/sidd-go/nitf"
	"github.com/weaming/sidd-go/pixel"
)

// syntheticRaster 生成第 n 幅合成图像：同心环叠加对角渐变
// bands 为 3 时生成直接 RGB
func syntheticRaster(n, rows, cols, bands int) *pixel.Raster {
	r := pixel.NewRaster(rows, cols, bands)
	cy, cx := float64(rows)/2, float64(cols)/2
	period := 16.0 + 8*float64(n)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			dist := math.Hypot(float64(y)-cy, float64(x)-cx)
			ring := 0.5 + 0.5*math.Cos(2*math.Pi*dist/period)
			ramp := float64(x+y) / float64(rows+cols)
			v := 0.6*ring + 0.4*ramp
			if bands == 1 {
				r.Set(y, x, 0, uint32(colorspace.ToUint8(v)))
				continue
			}
			rgb := colorspace.HSVToRGB(360*ramp+60*float64(n), 0.8, v)
			for b := 0; b < 3 && b < bands; b++ {
				r.Set(y, x, b, uint32(colorspace.ToUint8(rgb[b])))
			}
		}
	}
	return r
}

// monoLUT 256 项灰度表（sRGB 曲线）
func monoLUT() *nitf.LookupTable {
	lut, _ := nitf.NewLookupTable(colorspace.MonoRamp(256, 0))
	return lut
}

// colorLUT 256 项彩色表
func colorLUT() *nitf.LookupTable {
	lut, _ := nitf.NewColorTable(colorspace.ColorPalette(256))
	return lut
}

// syntheticInput 按配置生成第 n 幅图像的输入
func syntheticInput(cfg *Config, n int) ImageInput {
	rows, cols := cfg.Rows, cfg.Cols
	if rows == 0 {
		rows = DefaultRows
	}
	if cols == 0 {
		cols = DefaultCols
	}
	in := ImageInput{Raster: syntheticRaster(n, rows, cols, 1)}
	switch cfg.LUTMode {
	case LUTNone:
		in.PixelType = pixel.TypeMono
	case LUTMono:
		in.PixelType = pixel.TypeMonoLUT
		in.LUT = monoLUT()
	case LUTColor:
		in.PixelType = pixel.TypeRGBLUT
		in.LUT = colorLUT()
	}
	if cfg.IncludeLegend {
		in.Legend = DefaultLegend(cols, imagePrefix(n+1))
	}
	return in
}
