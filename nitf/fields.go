package nitf

import (
	"bytes"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// fieldWriter 按固定宽度顺序写出字段
// 第一个错误会被记住，之后的写入全部忽略，最后由 result 统一返回
type fieldWriter struct {
	buf    bytes.Buffer
	record string
	err    error
}

func newFieldWriter(record string) *fieldWriter {
	return &fieldWriter{record: record}
}

// alpha 写 BCS-A 字段：左对齐，空格补齐
func (w *fieldWriter) alpha(name string, width int, v string) {
	if w.err != nil {
		return
	}
	for i := 0; i < len(v); i++ {
		if v[i] < 0x20 || v[i] > 0x7e {
			w.err = &InvalidFieldError{Record: w.record, Field: name, Value: v, Reason: "not BCS-A"}
			return
		}
	}
	w.pad(name, width, []byte(v))
}

// text 写 ECS-A 字段（ISO-8859-1）
func (w *fieldWriter) text(name string, width int, v string) {
	if w.err != nil {
		return
	}
	enc, err := charmap.ISO8859_1.NewEncoder().String(v)
	if err != nil {
		w.err = &InvalidFieldError{Record: w.record, Field: name, Value: v, Reason: "not representable in ISO-8859-1"}
		return
	}
	w.pad(name, width, []byte(enc))
}

func (w *fieldWriter) pad(name string, width int, b []byte) {
	if len(b) > width {
		w.err = &FieldOverflowError{Record: w.record, Field: name, Width: width, Value: string(b)}
		return
	}
	w.buf.Write(b)
	for i := len(b); i < width; i++ {
		w.buf.WriteByte(' ')
	}
}

// num 写 BCS-N 字段：右对齐，前导零
func (w *fieldWriter) num(name string, width int, v int64) {
	if w.err != nil {
		return
	}
	if v < 0 {
		w.err = &InvalidFieldError{Record: w.record, Field: name, Value: strconv.FormatInt(v, 10), Reason: "negative"}
		return
	}
	s := strconv.FormatInt(v, 10)
	if len(s) > width {
		w.err = &FieldOverflowError{Record: w.record, Field: name, Width: width, Value: s}
		return
	}
	w.buf.WriteString(strings.Repeat("0", width-len(s)))
	w.buf.WriteString(s)
}

// date 写 CCYYMMDDhhmmss 日期字段；空值写成空格，未知位允许用 '-'
func (w *fieldWriter) date(name string, v string) {
	if w.err != nil {
		return
	}
	if v != "" {
		ok := len(v) == 14
		for i := 0; ok && i < len(v); i++ {
			ok = (v[i] >= '0' && v[i] <= '9') || v[i] == '-'
		}
		if !ok {
			w.err = &InvalidFieldError{Record: w.record, Field: name, Value: v, Reason: "want CCYYMMDDhhmmss"}
			return
		}
	}
	w.pad(name, 14, []byte(v))
}

// binary 写定长二进制字段
func (w *fieldWriter) binary(name string, width int, v []byte) {
	if w.err != nil {
		return
	}
	if len(v) != width {
		w.err = &InvalidFieldError{Record: w.record, Field: name, Value: string(v), Reason: "binary field width mismatch"}
		return
	}
	w.buf.Write(v)
}

// raw 写变长数据（LUTD、TRE 等）
func (w *fieldWriter) raw(v []byte) {
	if w.err != nil {
		return
	}
	w.buf.Write(v)
}

// extension 写 "长度 + 溢出 + 数据" 形式的扩展区（UDHDL/XHDL/UDIDL/IXSHDL 等）
func (w *fieldWriter) extension(lenName string, lenWidth int, ofl string, overflow int, data []byte) {
	if len(data) == 0 {
		w.num(lenName, lenWidth, 0)
		return
	}
	w.num(lenName, lenWidth, int64(len(data)+3))
	w.num(ofl, 3, int64(overflow))
	w.raw(data)
}

func (w *fieldWriter) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *fieldWriter) result() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.buf.Bytes(), nil
}

// fieldReader 按固定宽度顺序读取字段，错误同样是粘滞的
type fieldReader struct {
	data   []byte
	pos    int
	record string
	err    error
}

func newFieldReader(record string, data []byte) *fieldReader {
	return &fieldReader{data: data, record: record}
}

func (r *fieldReader) take(name string, width int) []byte {
	if r.err != nil {
		return nil
	}
	if r.pos+width > len(r.data) {
		r.err = &MalformedRecordError{
			Record:    r.record,
			Field:     name,
			Offset:    r.pos,
			Reason:    "unexpected end of record",
			Truncated: true,
		}
		return nil
	}
	b := r.data[r.pos : r.pos+width]
	r.pos += width
	return b
}

// alpha 读 BCS-A 字段，去掉尾部空格
func (r *fieldReader) alpha(name string, width int) string {
	b := r.take(name, width)
	if b == nil {
		return ""
	}
	return strings.TrimRight(string(b), " ")
}

// text 读 ECS-A 字段
func (r *fieldReader) text(name string, width int) string {
	b := r.take(name, width)
	if b == nil {
		return ""
	}
	dec, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		r.fail(name, "invalid ECS-A text")
		return ""
	}
	return strings.TrimRight(string(dec), " ")
}

// tag 读取并校验必需的标识字段
func (r *fieldReader) tag(name string, want string) {
	got := r.alpha(name, len(want))
	if r.err == nil && got != want {
		r.fail(name, "expected "+strconv.Quote(want)+", got "+strconv.Quote(got))
	}
}

// num 读 BCS-N 字段
func (r *fieldReader) num(name string, width int) int64 {
	start := r.pos
	b := r.take(name, width)
	if b == nil {
		return 0
	}
	v, err := strconv.ParseInt(strings.TrimSpace(string(b)), 10, 64)
	if err != nil || v < 0 {
		r.err = &MalformedRecordError{Record: r.record, Field: name, Offset: start, Reason: "invalid number " + strconv.Quote(string(b))}
		return 0
	}
	return v
}

// length 读索引表中的长度字段；非法时报告索引损坏
func (r *fieldReader) length(name string, width int) int64 {
	b := r.take(name, width)
	if b == nil {
		return 0
	}
	v, err := strconv.ParseInt(strings.TrimSpace(string(b)), 10, 64)
	switch {
	case err != nil:
		r.err = &IndexCorruptionError{Field: name, Reason: "non-numeric length " + strconv.Quote(string(b))}
	case v < 0:
		r.err = &IndexCorruptionError{Field: name, Reason: "negative length " + strconv.Quote(string(b))}
	}
	return v
}

func (r *fieldReader) binary(name string, width int) []byte {
	b := r.take(name, width)
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}

// extension 读 "长度 + 溢出 + 数据" 扩展区
func (r *fieldReader) extension(lenName string, lenWidth int, ofl string) (int, []byte) {
	n := r.num(lenName, lenWidth)
	if r.err != nil || n == 0 {
		return 0, nil
	}
	if n < 3 {
		r.fail(lenName, "extension length shorter than its overflow field")
		return 0, nil
	}
	overflow := r.num(ofl, 3)
	return int(overflow), r.binary(lenName, int(n-3))
}

func (r *fieldReader) fail(name, reason string) {
	if r.err == nil {
		r.err = &MalformedRecordError{Record: r.record, Field: name, Offset: r.pos, Reason: reason}
	}
}

// finish 要求记录被完整消费
func (r *fieldReader) finish() error {
	if r.err == nil && r.pos != len(r.data) {
		r.fail("", strconv.Itoa(len(r.data)-r.pos)+" trailing bytes")
	}
	return r.err
}
