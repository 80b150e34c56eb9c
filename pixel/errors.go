package pixel

import "fmt"

// SizeMismatchError 字节长度或栅格尺寸与布局不符
type SizeMismatchError struct {
	What     string
	Expected int64
	Actual   int64
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("pixel %s size mismatch: expected %d, got %d", e.What, e.Expected, e.Actual)
}

// SampleRangeError 样本值超出位深
type SampleRangeError struct {
	Index int
	Value uint32
	Bits  int
}

func (e *SampleRangeError) Error() string {
	return fmt.Sprintf("sample %d value %d does not fit in %d bits", e.Index, e.Value, e.Bits)
}

// IndexBoundError 查找表索引越界
type IndexBoundError struct {
	Row, Col, Band int
	Index          uint32
	Entries        int
}

func (e *IndexBoundError) Error() string {
	return fmt.Sprintf("LUT index %d at (%d,%d,band %d) exceeds table of %d entries",
		e.Index, e.Row, e.Col, e.Band, e.Entries)
}

// FormatError 布局参数非法
type FormatError struct {
	Field  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid pixel format %s: %s", e.Field, e.Reason)
}
