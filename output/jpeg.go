package output

import (
	"image"
	"image/jpeg"
	"io"
)

// JPEGOptions JPEG 输出选项
type JPEGOptions struct {
	Quality int // 1-100, 默认 95
}

// WriteJPEG 写入 JPEG 文件
func WriteJPEG(img image.Image, filename string, opts JPEGOptions) error {
	quality := opts.Quality
	if quality <= 0 || quality > 100 {
		quality = 95
	}
	return Create(filename, func(w io.Writer) error {
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	})
}
