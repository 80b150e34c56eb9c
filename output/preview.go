package output

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
)

var pngEncoder = png.Encoder{CompressionLevel: png.BestCompression}

// calculateReduction 计算整数缩放因子
func calculateReduction(width, maxWidth int) int {
	if maxWidth <= 0 {
		return 1
	}
	reduction := (width + maxWidth - 1) / maxWidth
	if reduction < 1 {
		return 1
	}
	return reduction
}

// Downsample 按块平均缩小到不超过 maxWidth
func Downsample(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	reduction := calculateReduction(b.Dx(), maxWidth)
	if reduction == 1 {
		return img
	}
	w, h := b.Dx()/reduction, b.Dy()/reduction
	if w == 0 || h == 0 {
		return img
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	n := uint32(reduction * reduction)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			out.SetRGBA(col, row, downsamplePixelBlock(img, b.Min, row, col, reduction, n))
		}
	}
	return out
}

// downsamplePixelBlock 平均一个 reduction x reduction 的像素块
func downsamplePixelBlock(img image.Image, min image.Point, row, col, reduction int, n uint32) color.RGBA {
	var acc [4]uint32
	for r := 0; r < reduction; r++ {
		for c := 0; c < reduction; c++ {
			pr, pg, pb, pa := img.At(min.X+col*reduction+c, min.Y+row*reduction+r).RGBA()
			acc[0] += pr >> 8
			acc[1] += pg >> 8
			acc[2] += pb >> 8
			acc[3] += pa >> 8
		}
	}
	return color.RGBA{uint8(acc[0] / n), uint8(acc[1] / n), uint8(acc[2] / n), uint8(acc[3] / n)}
}

// WritePreview 按配置缩小并导出预览图
func WritePreview(img image.Image, cfg Config) error {
	format, err := cfg.ResolveFormat()
	if err != nil {
		return err
	}
	img = Downsample(img, cfg.MaxWidth)
	switch format {
	case "tiff":
		return WriteTIFF(img, cfg.Output)
	case "jpeg":
		return WriteJPEG(img, cfg.Output, JPEGOptions{Quality: cfg.Quality})
	case "png":
		return WritePNG(img, cfg.Output)
	case "ppm":
		return ExportPPM(img, cfg.Output)
	}
	return fmt.Errorf("unsupported preview format %q", format)
}
