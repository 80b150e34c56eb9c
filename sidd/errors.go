package sidd

import "fmt"

// BuildError 产品构建失败，指明失败的操作和段
// Segment 为 -1 表示不属于某个具体的段
type BuildError struct {
	Op      string
	Segment int
	Err     error
}

func (e *BuildError) Error() string {
	if e.Segment < 0 {
		return fmt.Sprintf("sidd build: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("sidd build: %s (segment %d): %v", e.Op, e.Segment, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// UnsplittableImageError 最小切分单元已经超过每段字节上限
// 不分块时单元是一行像素，分块时是一整行块（UnitRows 行）
type UnsplittableImageError struct {
	Image           int
	UnitRows        int
	UnitBytes       int64
	MaxSegmentBytes int64
}

func (e *UnsplittableImageError) Error() string {
	if e.UnitRows > 1 {
		return fmt.Sprintf("image %d: one block row (%d rows) is %d bytes, segment limit is %d",
			e.Image, e.UnitRows, e.UnitBytes, e.MaxSegmentBytes)
	}
	return fmt.Sprintf("image %d: one row is %d bytes, segment limit is %d", e.Image, e.UnitBytes, e.MaxSegmentBytes)
}
