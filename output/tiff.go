package output

import (
	"image"
	"io"

	"golang.org/x/image/tiff"
)

// WriteTIFF 写入 deflate 压缩的 TIFF
func WriteTIFF(img image.Image, filename string) error {
	return Create(filename, func(w io.Writer) error {
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	})
}

// WritePNG 写入 PNG
func WritePNG(img image.Image, filename string) error {
	return Create(filename, func(w io.Writer) error {
		return pngEncoder.Encode(w, img)
	})
}
