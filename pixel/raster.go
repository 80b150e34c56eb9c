package pixel

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Raster 按像素交织、行优先存储的无符号样本
type Raster struct {
	Rows    int
	Cols    int
	Bands   int
	Samples []uint32
}

// NewRaster 创建全零栅格
func NewRaster(rows, cols, bands int) *Raster {
	return &Raster{
		Rows:    rows,
		Cols:    cols,
		Bands:   bands,
		Samples: make([]uint32, rows*cols*bands),
	}
}

// FromSamples 从任意无符号整型切片构造栅格
func FromSamples[T constraints.Unsigned](rows, cols, bands int, samples []T) (*Raster, error) {
	want := rows * cols * bands
	if len(samples) != want {
		return nil, &SizeMismatchError{What: "raster", Expected: int64(want), Actual: int64(len(samples))}
	}
	r := NewRaster(rows, cols, bands)
	for i, v := range samples {
		r.Samples[i] = uint32(v)
	}
	return r, nil
}

func (r *Raster) index(row, col, band int) int {
	return (row*r.Cols+col)*r.Bands + band
}

// At 返回指定位置的样本
func (r *Raster) At(row, col, band int) uint32 {
	return r.Samples[r.index(row, col, band)]
}

// Set 设置指定位置的样本
func (r *Raster) Set(row, col, band int, v uint32) {
	r.Samples[r.index(row, col, band)] = v
}

// RowBytes 单行在给定位深下的字节数
func (r *Raster) RowBytes(bitsPerPixel int) int64 {
	return (int64(r.Cols)*int64(r.Bands)*int64(bitsPerPixel) + 7) / 8
}

// SubRows 复制 [start, start+n) 行
func (r *Raster) SubRows(start, n int) (*Raster, error) {
	if start < 0 || n <= 0 || start+n > r.Rows {
		return nil, fmt.Errorf("row range [%d,%d) outside raster of %d rows", start, start+n, r.Rows)
	}
	stride := r.Cols * r.Bands
	if want := r.Rows * stride; len(r.Samples) != want {
		return nil, &SizeMismatchError{What: "raster samples", Expected: int64(want), Actual: int64(len(r.Samples))}
	}
	out := NewRaster(n, r.Cols, r.Bands)
	copy(out.Samples, r.Samples[start*stride:(start+n)*stride])
	return out, nil
}

// StackRows 将多个宽度相同的栅格按行拼接
func StackRows(parts []*Raster) (*Raster, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("no rasters to stack")
	}
	cols, bands := parts[0].Cols, parts[0].Bands
	rows := 0
	for i, p := range parts {
		if p.Cols != cols || p.Bands != bands {
			return nil, fmt.Errorf("raster %d is %dx%d bands, want %d cols %d bands", i, p.Cols, p.Bands, cols, bands)
		}
		rows += p.Rows
	}
	out := &Raster{Rows: rows, Cols: cols, Bands: bands, Samples: make([]uint32, 0, rows*cols*bands)}
	for _, p := range parts {
		out.Samples = append(out.Samples, p.Samples...)
	}
	return out, nil
}

// CheckIndices 检查所有样本都是合法的查找表索引
func CheckIndices(r *Raster, entries int) error {
	for i, v := range r.Samples {
		if int64(v) >= int64(entries) {
			band := i % r.Bands
			pix := i / r.Bands
			return &IndexBoundError{
				Row:     pix / r.Cols,
				Col:     pix % r.Cols,
				Band:    band,
				Index:   v,
				Entries: entries,
			}
		}
	}
	return nil
}

// CheckBandIndices 只检查一个波段
func CheckBandIndices(r *Raster, band, entries int) error {
	for i := band; i < len(r.Samples); i += r.Bands {
		v := r.Samples[i]
		if int64(v) >= int64(entries) {
			pix := i / r.Bands
			return &IndexBoundError{
				Row:     pix / r.Cols,
				Col:     pix % r.Cols,
				Band:    band,
				Index:   v,
				Entries: entries,
			}
		}
	}
	return nil
}
