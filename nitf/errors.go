package nitf

import (
	"errors"
	"fmt"
)

// ErrCompressorNotFound is returned when no compressor is registered for an IC code
var ErrCompressorNotFound = errors.New("compressor not found")

// StructuralError 内存模型违反结构不变量
// Segment 为 -1 时表示整个容器
type StructuralError struct {
	Segment int
	Reason  string
}

func (e *StructuralError) Error() string {
	if e.Segment < 0 {
		return "structural error: " + e.Reason
	}
	return fmt.Sprintf("structural error in segment %d: %s", e.Segment, e.Reason)
}

// FieldOverflowError 字段值超出固定宽度
type FieldOverflowError struct {
	Record string
	Field  string
	Width  int
	Value  string
}

func (e *FieldOverflowError) Error() string {
	return fmt.Sprintf("%s field %s overflows %d bytes: %q", e.Record, e.Field, e.Width, e.Value)
}

// InvalidFieldError 字段值不符合字符集或取值范围
type InvalidFieldError struct {
	Record string
	Field  string
	Value  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("%s field %s has invalid value %q: %s", e.Record, e.Field, e.Value, e.Reason)
}

// MalformedRecordError 记录截断、数字非法或缺少必需标识
type MalformedRecordError struct {
	Record    string
	Field     string
	Offset    int
	Reason    string
	Truncated bool
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed %s record at field %s (offset %d): %s", e.Record, e.Field, e.Offset, e.Reason)
}

// TruncatedFileError 字节流短于索引声明的总长度
type TruncatedFileError struct {
	Declared int64
	Actual   int64
}

func (e *TruncatedFileError) Error() string {
	return fmt.Sprintf("truncated file: index declares %d bytes, have %d", e.Declared, e.Actual)
}

// IndexCorruptionError 文件头索引表本身损坏
type IndexCorruptionError struct {
	Field  string
	Reason string
}

func (e *IndexCorruptionError) Error() string {
	return fmt.Sprintf("corrupt segment index at %s: %s", e.Field, e.Reason)
}
