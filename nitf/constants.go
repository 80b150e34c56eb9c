package nitf

// NITF 2.1 file format constants
const (
	FileProfile = "NITF"  // FHDR
	FileVersion = "02.10" // FVER
	SystemType  = "BF01"  // STYPE

	// Subheader identifiers
	ImageTag = "IM"
	TextTag  = "TE"
	DESTag   = "DE"
)

// MaxSegments 每种段的数量上限（NUMI/NUMT/NUMDES 字段宽 3 位）
const MaxSegments = 999

// Length limits imposed by the index field widths
const (
	MaxImageSubheaderLength = 999999
	MaxImageDataLength      = 9999999999
	MaxTextDataLength       = 99999
	MaxDESDataLength        = 999999999
	MaxFileLength           = 999999999998
)

// MaxLocation ILOC 行/列偏移上限（各 5 位）
const MaxLocation = 99999

// Header sizes
const (
	SecurityGroupSize   = 167
	XMLDataContentSize  = 773
	FileHeaderFixedSize = 363 // FHDR .. NUMI
	MinFileHeaderSize   = 388
)

// Image representations (IREP)
const (
	IREPMono   = "MONO"
	IREPRGB    = "RGB"
	IREPRGBLUT = "RGB/LUT"
	IREPMulti  = "MULTI"
	IREPNodisp = "NODISPLY"
)

// Band representations (IREPBAND)
const (
	BandMono   = "M"
	BandLUT    = "LU"
	BandRed    = "R"
	BandGreen  = "G"
	BandBlue   = "B"
	BandBlank  = ""
	BandFilter = "N"
)

// Image categories (ICAT)
const (
	ICATSAR    = "SAR"
	ICATVis    = "VIS"
	ICATLegend = "LEG"
)

// Compression codes (IC)
const (
	CompressionNone = "NC"
)

// Pixel value types (PVTYPE)
const (
	PVTypeInt   = "INT"
	PVTypeBit   = "B"
	PVTypeSInt  = "SI"
	PVTypeReal  = "R"
	PVTypeCmplx = "C"
)

// Security classifications (xSCLAS)
const (
	ClassUnclassified = "U"
	ClassRestricted   = "R"
	ClassConfidential = "C"
	ClassSecret       = "S"
	ClassTopSecret    = "T"
)

// DES type identifiers
const (
	DESXMLDataContent = "XML_DATA_CONTENT"
	DESTREOverflow    = "TRE_OVERFLOW"
)

// SegmentKind 段类型；取值顺序即文件中的排列顺序
type SegmentKind int

const (
	KindImage SegmentKind = iota
	KindGraphic
	KindText
	KindDataExtension
	KindReserved
)

func (k SegmentKind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindGraphic:
		return "graphic"
	case KindText:
		return "text"
	case KindDataExtension:
		return "DES"
	case KindReserved:
		return "RES"
	default:
		return "unknown"
	}
}

// indexField 文件头索引表中每种段的字段名与宽度
type indexField struct {
	count         string
	subheaderName string
	subheaderLen  int
	dataName      string
	dataLen       int
}

var indexFields = [...]indexField{
	KindImage:         {"NUMI", "LISH", 6, "LI", 10},
	KindGraphic:       {"NUMS", "LSSH", 4, "LS", 6},
	KindText:          {"NUMT", "LTSH", 4, "LT", 5},
	KindDataExtension: {"NUMDES", "LDSH", 4, "LD", 9},
	KindReserved:      {"NUMRES", "LRESH", 4, "LRE", 7},
}
