package sidd

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/weaming/sidd-go/nitf"
)

// SIDD 1.0 XML 命名空间与 DES 用户子头中的标识
// 写出总是 1.0；读取同时接受 1.1
const (
	Namespace      = "urn:SIDD:1.0.0"
	Namespace110   = "urn:SIDD:1.1.0"
	SpecIdentifier = "SIDD Volume 1 Design & Implementation Description Document"
	SpecVersion    = "1.0"
	SpecDate       = "2011-08-31T00:00:00Z"
	vendorID       = "sidd-go"
)

// DerivedData SIDD 产品元数据
type DerivedData struct {
	XMLName              xml.Name             `xml:"SIDD"`
	ProductCreation      ProductCreation      `xml:"ProductCreation"`
	Display              Display              `xml:"Display"`
	GeographicAndTarget  GeographicAndTarget  `xml:"GeographicAndTarget"`
	Measurement          Measurement          `xml:"Measurement"`
	ExploitationFeatures ExploitationFeatures `xml:"ExploitationFeatures"`
}

type ProductCreation struct {
	ProcessorInformation ProcessorInformation `xml:"ProcessorInformation"`
	Classification       Classification       `xml:"Classification"`
	ProductName          string               `xml:"ProductName"`
	ProductClass         string               `xml:"ProductClass"`
}

type ProcessorInformation struct {
	Application        string `xml:"Application"`
	ProcessingDateTime string `xml:"ProcessingDateTime"`
	Site               string `xml:"Site"`
}

type Classification struct {
	Level string `xml:"classification,attr"`
}

// Display 像素类型与显示重映射
// 1.0 的 LUT 在 RemapInformation 下，1.1 在 NonInteractiveProcessing 的 DataRemapping 下
type Display struct {
	PixelType                string                     `xml:"PixelType"`
	RemapInformation         *RemapInformation          `xml:"RemapInformation,omitempty"`
	NonInteractiveProcessing []NonInteractiveProcessing `xml:"NonInteractiveProcessing,omitempty"`
}

// NonInteractiveProcessing SIDD 1.1，只解析 LUT 所在的分支
type NonInteractiveProcessing struct {
	Band                     int                      `xml:"band,attr,omitempty"`
	ProductGenerationOptions ProductGenerationOptions `xml:"ProductGenerationOptions"`
}

type ProductGenerationOptions struct {
	DataRemapping *DataRemapping `xml:"DataRemapping,omitempty"`
}

// DataRemapping 1.1 的 LookupTableType：具名 LUT 或按波段给出的自定义 LUT
type DataRemapping struct {
	LUTName string     `xml:"LUTName"`
	Custom  *CustomLUT `xml:"Custom,omitempty"`
}

type CustomLUT struct {
	Values []LUTValues `xml:"LUTValues"`
}

// LUTValues 一个波段的 LUT，空格分隔
type LUTValues struct {
	Size   int    `xml:"lut,attr"`
	Band   int    `xml:"band,attr"`
	Values string `xml:",chardata"`
}

type RemapInformation struct {
	ColorDisplayRemap      *ColorDisplayRemap      `xml:"ColorDisplayRemap,omitempty"`
	MonochromeDisplayRemap *MonochromeDisplayRemap `xml:"MonochromeDisplayRemap,omitempty"`
}

type ColorDisplayRemap struct {
	RemapLUT RemapLUT `xml:"RemapLUT"`
}

type MonochromeDisplayRemap struct {
	RemapType string   `xml:"RemapType"`
	RemapLUT  RemapLUT `xml:"RemapLUT"`
}

// RemapLUT 文本形式的 LUT：单表为空格分隔的值，多表每项为逗号分隔的分量
type RemapLUT struct {
	Size   int    `xml:"size,attr"`
	Values string `xml:",chardata"`
}

type GeographicAndTarget struct {
	GeographicCoverage GeographicCoverage `xml:"GeographicCoverage"`
}

type GeographicCoverage struct {
	Footprint Footprint `xml:"Footprint"`
}

type Footprint struct {
	Vertices []Vertex `xml:"Vertex"`
}

type Vertex struct {
	Index int     `xml:"index,attr"`
	Lat   float64 `xml:"Lat"`
	Lon   float64 `xml:"Lon"`
}

type Measurement struct {
	PlaneProjection PlaneProjection `xml:"PlaneProjection"`
	PixelFootprint  RowCol          `xml:"PixelFootprint"`
}

type PlaneProjection struct {
	ReferencePoint ReferencePoint `xml:"ReferencePoint"`
	SampleSpacing  RowColFloat    `xml:"SampleSpacing"`
}

type ReferencePoint struct {
	ECEF  XYZ         `xml:"ECEF"`
	Point RowColFloat `xml:"Point"`
}

type XYZ struct {
	X float64 `xml:"X"`
	Y float64 `xml:"Y"`
	Z float64 `xml:"Z"`
}

type RowCol struct {
	Row int `xml:"Row"`
	Col int `xml:"Col"`
}

type RowColFloat struct {
	Row float64 `xml:"Row"`
	Col float64 `xml:"Col"`
}

type ExploitationFeatures struct {
	Collections []Collection    `xml:"Collection"`
	Product     ProductFeatures `xml:"Product"`
}

type Collection struct {
	Identifier  string                `xml:"identifier,attr"`
	Information CollectionInformation `xml:"Information"`
}

type CollectionInformation struct {
	SensorName         string `xml:"SensorName"`
	ModeType           string `xml:"RadarMode>ModeType"`
	CollectionDateTime string `xml:"CollectionDateTime"`
}

// ProductFeatures ExploitationFeatures 下的 Product 元素
type ProductFeatures struct {
	Resolution RowColFloat `xml:"Resolution"`
}

// Encode 序列化为带 XML 声明的文档
// 没有设置根元素时按 1.0 命名空间写出
func (d *DerivedData) Encode() ([]byte, error) {
	out := *d
	if out.XMLName.Local == "" {
		out.XMLName = xml.Name{Space: Namespace, Local: "SIDD"}
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(&out); err != nil {
		return nil, fmt.Errorf("failed to encode SIDD XML: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// DecodeDerivedData 解析 SIDD XML
func DecodeDerivedData(data []byte) (*DerivedData, error) {
	d := &DerivedData{}
	if err := xml.Unmarshal(data, d); err != nil {
		return nil, fmt.Errorf("failed to decode SIDD XML: %w", err)
	}
	if d.Version() == "" {
		return nil, fmt.Errorf("failed to decode SIDD XML: unsupported namespace %q", d.XMLName.Space)
	}
	return d, nil
}

// Version 按根元素命名空间返回 "1.0.0" 或 "1.1.0"，不认识时为空
func (d *DerivedData) Version() string {
	switch d.XMLName.Space {
	case Namespace:
		return "1.0.0"
	case Namespace110:
		return "1.1.0"
	}
	return ""
}

// Rows 元数据声明的行数
func (d *DerivedData) Rows() int { return d.Measurement.PixelFootprint.Row }

// Cols 元数据声明的列数
func (d *DerivedData) Cols() int { return d.Measurement.PixelFootprint.Col }

// RemapTable 返回 Display 中的 LUT；没有时为 nil
func (d *DerivedData) RemapTable() (*nitf.LookupTable, error) {
	ri := d.Display.RemapInformation
	switch {
	case ri == nil:
		return d.dataRemapping()
	case ri.ColorDisplayRemap != nil:
		return ri.ColorDisplayRemap.RemapLUT.Table()
	case ri.MonochromeDisplayRemap != nil:
		return ri.MonochromeDisplayRemap.RemapLUT.Table()
	}
	return nil, nil
}

// dataRemapping 1.1 的自定义 LUT，每个 LUTValues 是一张表
func (d *DerivedData) dataRemapping() (*nitf.LookupTable, error) {
	for _, p := range d.Display.NonInteractiveProcessing {
		dr := p.ProductGenerationOptions.DataRemapping
		if dr == nil || dr.Custom == nil {
			continue
		}
		values := dr.Custom.Values
		if len(values) == 0 {
			return nil, fmt.Errorf("DataRemapping has no LUTValues")
		}
		tables := make([][]byte, len(values))
		for i, v := range values {
			lut, err := RemapLUT{Size: v.Size, Values: v.Values}.Table()
			if err != nil {
				return nil, fmt.Errorf("LUTValues band %d: %w", v.Band, err)
			}
			if lut.Tables != 1 {
				return nil, fmt.Errorf("LUTValues band %d has %d components per entry", v.Band, lut.Tables)
			}
			tables[i] = lut.Data
		}
		return nitf.NewLookupTable(tables...)
	}
	return nil, nil
}

// NewRemapLUT 把 LUT 转成文本形式
func NewRemapLUT(lut *nitf.LookupTable) RemapLUT {
	var sb strings.Builder
	for i := 0; i < lut.Entries; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		for t := 0; t < lut.Tables; t++ {
			if t > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Itoa(int(lut.Data[t*lut.Entries+i])))
		}
	}
	return RemapLUT{Size: lut.Entries, Values: sb.String()}
}

// Table 解析文本形式的 LUT
func (r RemapLUT) Table() (*nitf.LookupTable, error) {
	items := strings.Fields(r.Values)
	if len(items) != r.Size {
		return nil, fmt.Errorf("RemapLUT declares %d entries, has %d", r.Size, len(items))
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("empty RemapLUT")
	}
	tables := strings.Count(items[0], ",") + 1
	lut := &nitf.LookupTable{Tables: tables, Entries: len(items), Data: make([]byte, tables*len(items))}
	for i, item := range items {
		parts := strings.Split(item, ",")
		if len(parts) != tables {
			return nil, fmt.Errorf("RemapLUT entry %d has %d components, want %d", i, len(parts), tables)
		}
		for t, p := range parts {
			v, err := strconv.ParseUint(p, 10, 8)
			if err != nil {
				return nil, fmt.Errorf("RemapLUT entry %d: %w", i, err)
			}
			lut.Data[t*len(items)+i] = byte(v)
		}
	}
	return lut, nil
}

// corners 元数据中的四角经纬度，顺序为 UL, UR, LR, LL
func (d *DerivedData) corners() []Vertex {
	return d.GeographicAndTarget.GeographicCoverage.Footprint.Vertices
}

// IGEOLO 把四角写成 ddmmssXdddmmssY 形式
func (d *DerivedData) IGEOLO() string {
	vs := d.corners()
	if len(vs) != 4 {
		return ""
	}
	var sb strings.Builder
	for _, v := range vs {
		sb.WriteString(dms(v.Lat, 2, "N", "S"))
		sb.WriteString(dms(v.Lon, 3, "E", "W"))
	}
	return sb.String()
}

func dms(deg float64, width int, pos, neg string) string {
	hemi := pos
	if deg < 0 {
		hemi = neg
		deg = -deg
	}
	total := int(deg*3600 + 0.5)
	d, m, s := total/3600, total/60%60, total%60
	return fmt.Sprintf("%0*d%02d%02d%s", width, d, m, s, hemi)
}

// LocationPolygon DESSHLPG：五个点（首尾相同）的 ±dd.dddddd±ddd.dddddd
func (d *DerivedData) LocationPolygon() string {
	vs := d.corners()
	if len(vs) != 4 {
		return ""
	}
	var sb strings.Builder
	for i := 0; i < 5; i++ {
		v := vs[i%4]
		fmt.Fprintf(&sb, "%+010.6f%+011.6f", v.Lat, v.Lon)
	}
	return sb.String()
}

// xmlUserHeader DES 用户子头
func xmlUserHeader(d *DerivedData, dateTime string) *nitf.XMLDataContent {
	return &nitf.XMLDataContent{
		CRC:             nitf.NoCRC,
		FileType:        "XML",
		DateTime:        dateTime,
		RootPrefix:      "SIDD",
		SpecIdentifier:  SpecIdentifier,
		SpecVersion:     SpecVersion,
		SpecDate:        SpecDate,
		TargetNamespace: Namespace,
		LocationPolygon: d.LocationPolygon(),
	}
}
