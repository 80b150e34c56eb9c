package nitf

import (
	"testing"

	"github.com/weaming/sidd-go/pixel"
)

func testHeader() *FileHeader {
	return &FileHeader{
		ComplexityLevel: 3,
		OriginStationID: "SIDDGO",
		DateTime:        "20240102030405",
		Title:           "unit test product",
		Security:        Unclassified(),
		OriginatorName:  "tester",
		OriginatorPhone: "555-0100",
	}
}

func monoSubheader(id string, rows, cols int) *ImageSubheader {
	return &ImageSubheader{
		ImageID:        id,
		DateTime:       "20240102030405",
		Security:       Unclassified(),
		Rows:           rows,
		Cols:           cols,
		ValueType:      PVTypeInt,
		Representation: IREPMono,
		Category:       ICATSAR,
		ActualBits:     8,
		Justification:  "R",
		Compression:    CompressionNone,
		Bands:          []BandInfo{{Representation: BandMono, FilterCondition: "N"}},
		Mode:           pixel.ModeBlock,
		BlockRows:      rows,
		BlockCols:      cols,
		BitsPerPixel:   8,
		DisplayLevel:   1,
		Magnification:  "1.0",
	}
}

func rampRaster(rows, cols, bands int, modulo uint32) *pixel.Raster {
	r := pixel.NewRaster(rows, cols, bands)
	for i := range r.Samples {
		r.Samples[i] = uint32(i) % modulo
	}
	return r
}

func mustImageSegment(t *testing.T, sh *ImageSubheader, r *pixel.Raster) *Segment {
	t.Helper()
	s, err := NewImageSegment(sh, r)
	if err != nil {
		t.Fatalf("NewImageSegment: %v", err)
	}
	return s
}

func xmlDES(t *testing.T, body string) *Segment {
	t.Helper()
	user := &XMLDataContent{
		CRC:             NoCRC,
		FileType:        "XML",
		DateTime:        "2024-01-02T03:04:05Z",
		RootPrefix:      "SIDD",
		SpecIdentifier:  "SIDD Volume 1 Design & Implementation Description Document",
		SpecVersion:     "1.0",
		SpecDate:        "2011-08-01T00:00:00Z",
		TargetNamespace: "urn:SIDD:1.0.0",
	}
	b, err := user.Encode()
	if err != nil {
		t.Fatalf("encode user subheader: %v", err)
	}
	sh := &DESubheader{TypeID: DESXMLDataContent, Version: 1, Security: Unclassified(), UserHeader: b}
	return NewDESegment(sh, []byte(body))
}

// sampleSegments 两个图像段（其中一个带彩色 LUT）、一个文本段、一个 DES
func sampleSegments(t *testing.T) []*Segment {
	t.Helper()
	img := monoSubheader("SIDD001001", 4, 6)

	lutSh := monoSubheader("SIDD002001", 3, 5)
	lutSh.Representation = IREPRGBLUT
	colors := make([][3]byte, 16)
	for i := range colors {
		colors[i] = [3]byte{byte(i * 16), byte(255 - i*16), byte(i)}
	}
	lut, err := NewColorTable(colors)
	if err != nil {
		t.Fatal(err)
	}
	lutSh.Bands = []BandInfo{{Representation: BandLUT, FilterCondition: "N", LUT: lut}}
	lutSh.DisplayLevel = 2
	lutSh.AttachmentLevel = 1
	lutSh.Comments = []string{"first comment", "second"}

	text := &TextSubheader{TextID: "TXT0001", DateTime: "20240102030405", Title: "notes", Security: Unclassified(), Format: "STA"}

	return []*Segment{
		mustImageSegment(t, img, rampRaster(4, 6, 1, 256)),
		mustImageSegment(t, lutSh, rampRaster(3, 5, 1, 16)),
		NewTextSegment(text, []byte("hello")),
		xmlDES(t, "<SIDD/>"),
	}
}
