package nitf

import "fmt"

// DESubheader 数据扩展段 (DES) 子头
type DESubheader struct {
	TypeID   string // DESID
	Version  int    // DESVER
	Security Security

	// 仅 TRE_OVERFLOW 使用
	OverflowedHeader string // DESOFLW
	OverflowItem     int    // DESITEM

	UserHeader []byte // DESSHF
}

// Kind 实现 Subheader
func (*DESubheader) Kind() SegmentKind { return KindDataExtension }

func (s *DESubheader) encode(w *fieldWriter) {
	w.alpha("DE", 2, DESTag)
	w.alpha("DESID", 25, s.TypeID)
	w.num("DESVER", 2, int64(s.Version))
	s.Security.encode(w, "DES")
	if s.TypeID == DESTREOverflow {
		w.alpha("DESOFLW", 6, s.OverflowedHeader)
		w.num("DESITEM", 3, int64(s.OverflowItem))
	}
	w.num("DESSHL", 4, int64(len(s.UserHeader)))
	w.raw(s.UserHeader)
}

func decodeDESubheader(data []byte) (*DESubheader, error) {
	r := newFieldReader("DES subheader", data)
	s := &DESubheader{}
	r.tag("DE", DESTag)
	s.TypeID = r.alpha("DESID", 25)
	s.Version = int(r.num("DESVER", 2))
	s.Security.decode(r, "DES")
	if s.TypeID == DESTREOverflow {
		s.OverflowedHeader = r.alpha("DESOFLW", 6)
		s.OverflowItem = int(r.num("DESITEM", 3))
	}
	n := r.num("DESSHL", 4)
	if n > 0 {
		s.UserHeader = r.binary("DESSHF", int(n))
	}
	if err := r.finish(); err != nil {
		return nil, err
	}
	return s, nil
}

// XMLDataContent XML_DATA_CONTENT 类型 DES 的用户子头 (DESSHF)
type XMLDataContent struct {
	CRC             int    // DESCRC, 99999 表示未计算
	FileType        string // DESSHFT
	DateTime        string // DESSHDT, CCYY-MM-DDThh:mm:ssZ
	RootPrefix      string // DESSHRP
	SpecIdentifier  string // DESSHSI
	SpecVersion     string // DESSHSV
	SpecDate        string // DESSHSD
	TargetNamespace string // DESSHTN
	LocationPolygon string // DESSHLPG
	LocationPoints  string // DESSHLPT
	LocationID      string // DESSHLI
	LocationIDNS    string // DESSHLIN
	Abstract        string // DESSHABS
}

// NoCRC DESCRC 未计算时的取值
const NoCRC = 99999

// Encode 序列化为 773 字节的用户子头
func (x *XMLDataContent) Encode() ([]byte, error) {
	w := newFieldWriter("XML_DATA_CONTENT")
	w.num("DESCRC", 5, int64(x.CRC))
	w.alpha("DESSHFT", 8, x.FileType)
	w.alpha("DESSHDT", 20, x.DateTime)
	w.alpha("DESSHRP", 40, x.RootPrefix)
	w.alpha("DESSHSI", 60, x.SpecIdentifier)
	w.alpha("DESSHSV", 10, x.SpecVersion)
	w.alpha("DESSHSD", 20, x.SpecDate)
	w.alpha("DESSHTN", 120, x.TargetNamespace)
	w.alpha("DESSHLPG", 125, x.LocationPolygon)
	w.alpha("DESSHLPT", 25, x.LocationPoints)
	w.alpha("DESSHLI", 20, x.LocationID)
	w.alpha("DESSHLIN", 120, x.LocationIDNS)
	w.text("DESSHABS", 200, x.Abstract)
	return w.result()
}

// DecodeXMLDataContent 解析 XML_DATA_CONTENT 用户子头
func DecodeXMLDataContent(data []byte) (*XMLDataContent, error) {
	if len(data) != XMLDataContentSize {
		return nil, &MalformedRecordError{
			Record: "XML_DATA_CONTENT",
			Field:  "DESSHL",
			Reason: fmt.Sprintf("user subheader is %d bytes, want %d", len(data), XMLDataContentSize),
		}
	}
	r := newFieldReader("XML_DATA_CONTENT", data)
	x := &XMLDataContent{}
	x.CRC = int(r.num("DESCRC", 5))
	x.FileType = r.alpha("DESSHFT", 8)
	x.DateTime = r.alpha("DESSHDT", 20)
	x.RootPrefix = r.alpha("DESSHRP", 40)
	x.SpecIdentifier = r.alpha("DESSHSI", 60)
	x.SpecVersion = r.alpha("DESSHSV", 10)
	x.SpecDate = r.alpha("DESSHSD", 20)
	x.TargetNamespace = r.alpha("DESSHTN", 120)
	x.LocationPolygon = r.alpha("DESSHLPG", 125)
	x.LocationPoints = r.alpha("DESSHLPT", 25)
	x.LocationID = r.alpha("DESSHLI", 20)
	x.LocationIDNS = r.alpha("DESSHLIN", 120)
	x.Abstract = r.text("DESSHABS", 200)
	if err := r.finish(); err != nil {
		return nil, err
	}
	return x, nil
}
