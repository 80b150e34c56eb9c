package nitf

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/weaming/sidd-go/pixel"
)

func TestSubheaderRoundTrip(t *testing.T) {
	withCorners := monoSubheader("GEO", 10, 10)
	withCorners.CoordSystem = "G"
	withCorners.Corners = strings.Repeat("0", 60)
	withCorners.Title = "Café crème"
	withCorners.UserDefinedOverflow = 0
	withCorners.UserDefined = []byte("TREDAT00005hello")
	withCorners.Extended = []byte("XTRA")

	multi := monoSubheader("MULTI", 8, 8)
	multi.Representation = IREPMulti
	multi.Mode = pixel.ModeSequential
	multi.BitsPerPixel = 16
	multi.ActualBits = 12
	multi.BlockRows, multi.BlockCols = 4, 4
	multi.Bands = nil
	for i := 0; i < 12; i++ {
		multi.Bands = append(multi.Bands, BandInfo{Representation: BandBlank, Subcategory: "CH", FilterCondition: "N"})
	}

	mono, err := NewLookupTable(make([]byte, 256))
	if err != nil {
		t.Fatal(err)
	}
	monoLUT := monoSubheader("MLUT", 1, 1)
	monoLUT.Bands[0] = BandInfo{Representation: BandLUT, FilterCondition: "N", LUT: mono}

	compressed := monoSubheader("C", 1, 1)
	compressed.Compression = "C8"
	compressed.CompressRate = "N001"

	tests := []struct {
		name string
		sh   Subheader
	}{
		{"mono image", monoSubheader("SIDD001001", 100, 200)},
		{"image with corners and extensions", withCorners},
		{"sequential multiband", multi},
		{"mono lut", monoLUT},
		{"compressed", compressed},
		{"text", &TextSubheader{TextID: "T1", AttachmentLevel: 2, Title: "x", Security: Unclassified(), Format: "UT1", Extended: []byte("abc")}},
		{"des", &DESubheader{TypeID: DESXMLDataContent, Version: 1, Security: Unclassified(), UserHeader: []byte("opaque")}},
		{"tre overflow", &DESubheader{TypeID: DESTREOverflow, Version: 1, Security: Unclassified(), OverflowedHeader: "UDID", OverflowItem: 3}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, err := EncodeSubheader(tc.sh)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			got, err := DecodeSubheader(tc.sh.Kind(), b)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if diff := cmp.Diff(tc.sh, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSecurityClassificationCodes(t *testing.T) {
	s := Security{
		Classification:     ClassSecret,
		System:             "US",
		Codewords:          "ABC DEF",
		ControlHandling:    "XX",
		Releasing:          "USA GBR",
		DeclassType:        "DE",
		DeclassDate:        "20301231",
		ClassificationText: "déclassé",
		AuthorityType:      "O",
		Authority:          "authority",
		Reason:             "A",
		SourceDate:         "20200101",
		ControlNumber:      "CN-1",
	}
	sh := &TextSubheader{TextID: "T", Security: s, Format: "STA"}
	b, err := EncodeSubheader(sh)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeSubheader(KindText, b)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(s, got.(*TextSubheader).Security); diff != "" {
		t.Errorf("security mismatch:\n%s", diff)
	}
}

func TestEncodeFieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ImageSubheader)
		field  string
		over   bool
	}{
		{"IID1 too long", func(s *ImageSubheader) { s.ImageID = "ABCDEFGHIJK" }, "IID1", true},
		{"classification too long", func(s *ImageSubheader) { s.Security.Classification = "UNCLASSIFIED" }, "ISCLAS", true},
		{"rows too large", func(s *ImageSubheader) { s.Rows = 123456789 }, "NROWS", true},
		{"too many comments", func(s *ImageSubheader) { s.Comments = make([]string, 10) }, "NICOM", true},
		{"bad classification", func(s *ImageSubheader) { s.Security.Classification = "X" }, "ISCLAS", false},
		{"missing classification", func(s *ImageSubheader) { s.Security.Classification = "" }, "ISCLAS", false},
		{"control character", func(s *ImageSubheader) { s.TargetID = "a\tb" }, "TGTID", false},
		{"not latin-1", func(s *ImageSubheader) { s.Title = "图像" }, "IID2", false},
		{"negative location", func(s *ImageSubheader) { s.LocationRow = -1 }, "ILOC", false},
		{"bad date", func(s *ImageSubheader) { s.DateTime = "2024-01-02" }, "IDATIM", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sh := monoSubheader("A", 2, 2)
			tc.mutate(sh)
			_, err := EncodeSubheader(sh)
			var oe *FieldOverflowError
			var ie *InvalidFieldError
			switch {
			case tc.over && errors.As(err, &oe):
				if oe.Field != tc.field {
					t.Errorf("overflow in %s, want %s", oe.Field, tc.field)
				}
			case !tc.over && errors.As(err, &ie):
				if ie.Field != tc.field {
					t.Errorf("invalid field %s, want %s", ie.Field, tc.field)
				}
			default:
				t.Errorf("got %v", err)
			}
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	good, err := EncodeSubheader(monoSubheader("A", 2, 2))
	if err != nil {
		t.Fatal(err)
	}

	t.Run("truncated", func(t *testing.T) {
		_, err := DecodeSubheader(KindImage, good[:200])
		var me *MalformedRecordError
		if !errors.As(err, &me) || !me.Truncated {
			t.Errorf("got %v, want truncated MalformedRecordError", err)
		}
	})
	t.Run("wrong tag", func(t *testing.T) {
		bad := append([]byte("TE"), good[2:]...)
		_, err := DecodeSubheader(KindImage, bad)
		var me *MalformedRecordError
		if !errors.As(err, &me) || me.Field != "IM" {
			t.Errorf("got %v, want MalformedRecordError at IM", err)
		}
	})
	t.Run("trailing bytes", func(t *testing.T) {
		_, err := DecodeSubheader(KindImage, append(good, ' '))
		var me *MalformedRecordError
		if !errors.As(err, &me) {
			t.Errorf("got %v, want MalformedRecordError", err)
		}
	})
	t.Run("bad number", func(t *testing.T) {
		bad := []byte(string(good))
		copy(bad[333:], "00000X02") // NROWS
		_, err := DecodeSubheader(KindImage, bad)
		var me *MalformedRecordError
		if !errors.As(err, &me) || me.Field != "NROWS" {
			t.Errorf("got %v, want MalformedRecordError at NROWS", err)
		}
	})
	t.Run("wrong profile", func(t *testing.T) {
		data, err := Assemble(testHeader(), nil)
		if err != nil {
			t.Fatal(err)
		}
		copy(data[4:], "02.00")
		_, err = DecodeFileHeader(data)
		var me *MalformedRecordError
		if !errors.As(err, &me) || me.Field != "FVER" {
			t.Errorf("got %v, want MalformedRecordError at FVER", err)
		}
	})
}

func TestXMLDataContent(t *testing.T) {
	x := &XMLDataContent{
		CRC:             NoCRC,
		FileType:        "XML",
		DateTime:        "2024-01-02T03:04:05Z",
		RootPrefix:      "SIDD",
		SpecIdentifier:  "SIDD Volume 1",
		SpecVersion:     "1.0",
		TargetNamespace: "urn:SIDD:1.0.0",
		LocationPolygon: "+12.000000+034.000000",
		Abstract:        "résumé",
	}
	b, err := x.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if len(b) != XMLDataContentSize {
		t.Fatalf("encoded %d bytes, want %d", len(b), XMLDataContentSize)
	}
	got, err := DecodeXMLDataContent(b)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(x, got); diff != "" {
		t.Errorf("mismatch:\n%s", diff)
	}

	if _, err := DecodeXMLDataContent(b[:100]); err == nil {
		t.Error("expected error for short user subheader")
	}
}
