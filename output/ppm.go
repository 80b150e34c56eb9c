package output

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
)

// ExportPPM 导出为二进制 PPM (P6)，用于调试
func ExportPPM(img image.Image, outputPath string) error {
	return Create(outputPath, func(w io.Writer) error {
		return EncodePPM(w, img)
	})
}

// EncodePPM 写出 P6 格式
func EncodePPM(w io.Writer, img image.Image) error {
	b := img.Bounds()
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P6\n%d %d\n255\n", b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			bw.Write([]byte{c.R, c.G, c.B})
		}
	}
	return bw.Flush()
}
