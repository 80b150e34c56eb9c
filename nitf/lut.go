package nitf

import "fmt"

// LookupTable 波段查找表 (NLUTS/NELUT/LUTD)
// Data 按表顺序存放：第 t 张表的第 i 项位于 Data[t*Entries+i]
type LookupTable struct {
	Tables  int
	Entries int
	Data    []byte
}

// NewLookupTable 由若干张等长的表构造
func NewLookupTable(tables ...[]byte) (*LookupTable, error) {
	if len(tables) == 0 || len(tables) > 4 {
		return nil, fmt.Errorf("lookup table needs 1..4 tables, got %d", len(tables))
	}
	n := len(tables[0])
	if n == 0 || n > 65536 {
		return nil, fmt.Errorf("lookup table needs 1..65536 entries, got %d", n)
	}
	lut := &LookupTable{Tables: len(tables), Entries: n, Data: make([]byte, 0, n*len(tables))}
	for i, t := range tables {
		if len(t) != n {
			return nil, fmt.Errorf("lookup table %d has %d entries, want %d", i, len(t), n)
		}
		lut.Data = append(lut.Data, t...)
	}
	return lut, nil
}

// NewColorTable 由 RGB 三元组构造 3 表 LUT
func NewColorTable(colors [][3]byte) (*LookupTable, error) {
	r := make([]byte, len(colors))
	g := make([]byte, len(colors))
	b := make([]byte, len(colors))
	for i, c := range colors {
		r[i], g[i], b[i] = c[0], c[1], c[2]
	}
	return NewLookupTable(r, g, b)
}

// Table 返回第 t 张表
func (l *LookupTable) Table(t int) []byte {
	return l.Data[t*l.Entries : (t+1)*l.Entries]
}

// Color 返回索引 i 对应的 RGB；单表时三个分量相同
func (l *LookupTable) Color(i int) (r, g, b byte) {
	if l.Tables < 3 {
		v := l.Data[i]
		return v, v, v
	}
	return l.Data[i], l.Data[l.Entries+i], l.Data[2*l.Entries+i]
}

// Equal 逐字节比较两张 LUT
func (l *LookupTable) Equal(o *LookupTable) bool {
	if l == nil || o == nil {
		return l == o
	}
	if l.Tables != o.Tables || l.Entries != o.Entries || len(l.Data) != len(o.Data) {
		return false
	}
	for i := range l.Data {
		if l.Data[i] != o.Data[i] {
			return false
		}
	}
	return true
}

func (l *LookupTable) check() error {
	if l.Tables < 1 || l.Tables > 4 {
		return fmt.Errorf("NLUTS %d out of range 1..4", l.Tables)
	}
	if l.Entries < 1 || l.Entries > 65536 {
		return fmt.Errorf("NELUT %d out of range 1..65536", l.Entries)
	}
	if len(l.Data) != l.Tables*l.Entries {
		return fmt.Errorf("LUTD has %d bytes, want %d", len(l.Data), l.Tables*l.Entries)
	}
	return nil
}
