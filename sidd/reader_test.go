package sidd

import (
	"bytes"
	"errors"
	"image/color"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/weaming/sidd-go/nitf"
	"github.com/weaming/sidd-go/pixel"
)

func TestProductRoundTrip(t *testing.T) {
	configs := map[string]func(*Config){
		"no lut":            func(c *Config) {},
		"mono lut":          func(c *Config) { c.LUTMode = LUTMono },
		"color lut":         func(c *Config) { c.LUTMode = LUTColor },
		"multiple images":   func(c *Config) { c.MultipleImages = true; c.NumImages = 3 },
		"multiple segments": func(c *Config) { c.MultipleSegments = true },
		"blocked legend": func(c *Config) {
			c.IncludeLegend = true
			c.BlockSize = 16
			c.SegmentRows = 16
		},
	}
	for name, mutate := range configs {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Rows, cfg.Cols = 60, 90
			mutate(&cfg)
			p := mustBuild(t, cfg)

			data := mustBytes(t, p)
			_, segs, err := nitf.Disassemble(data)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(p.Segments, segs); diff != "" {
				t.Fatalf("segments mismatch (-built +read):\n%s", diff)
			}

			got := roundTrip(t, p)
			if len(got.Images) != len(p.Images) {
				t.Fatalf("%d images, want %d", len(got.Images), len(p.Images))
			}
			for i, want := range p.Images {
				g := got.Images[i]
				if g.ID != want.ID || g.PixelType != want.PixelType {
					t.Errorf("image %d: %s %s, want %s %s", i, g.ID, g.PixelType, want.ID, want.PixelType)
				}
				if diff := cmp.Diff(want.Raster, g.Raster); diff != "" {
					t.Errorf("image %s raster mismatch:\n%s", want.ID, diff)
				}
				if diff := cmp.Diff(want.RowRanges, g.RowRanges); diff != "" {
					t.Errorf("image %s row ranges:\n%s", want.ID, diff)
				}
				if diff := cmp.Diff(want.Metadata, g.Metadata); diff != "" {
					t.Errorf("image %s metadata:\n%s", want.ID, diff)
				}
				if want.LUT != nil && !want.LUT.Equal(g.LUT) {
					t.Errorf("image %s LUT differs", want.ID)
				}
				if (want.Legend == nil) != (g.Legend == nil) {
					t.Fatalf("image %s legend presence differs", want.ID)
				}
				if want.Legend != nil {
					if diff := cmp.Diff(want.Legend.Raster, g.Legend.Raster); diff != "" {
						t.Errorf("legend raster:\n%s", diff)
					}
					if g.Legend.Row != want.Legend.Row || g.Legend.Col != want.Legend.Col {
						t.Errorf("legend at %d,%d, want %d,%d", g.Legend.Row, g.Legend.Col, want.Legend.Row, want.Legend.Col)
					}
				}
			}
			if err := got.Validate(); err != nil {
				t.Errorf("Validate: %v", err)
			}
		})
	}
}

func TestLUTBound(t *testing.T) {
	cfg := testConfig()
	cfg.LUTMode = LUTColor
	cfg.MultipleImages = true
	cfg.IncludeLegend = true
	got := roundTrip(t, mustBuild(t, cfg))
	for _, img := range got.Images {
		if err := pixel.CheckIndices(img.Raster, img.LUT.Entries); err != nil {
			t.Errorf("image %s: %v", img.ID, err)
		}
		if err := pixel.CheckIndices(img.Legend.Raster, img.Legend.LUT.Entries); err != nil {
			t.Errorf("legend %s: %v", img.Legend.ID, err)
		}
	}
}

func TestReadProductRejectsBrokenChain(t *testing.T) {
	cfg := testConfig()
	cfg.MultipleSegments = true
	p := mustBuild(t, cfg)
	data := mustBytes(t, p)

	h, segs, err := nitf.Disassemble(data)
	if err != nil {
		t.Fatal(err)
	}
	segs[1].Image().LocationRow++
	_, err = ReadProduct(h, segs)
	var se *nitf.StructuralError
	if !errors.As(err, &se) {
		t.Errorf("got %v, want StructuralError", err)
	}
}

func TestReadProductMetadataMismatch(t *testing.T) {
	p := mustBuild(t, testConfig())
	md := *p.Images[0].Metadata
	md.Measurement.PixelFootprint.Row++
	body, err := md.Encode()
	if err != nil {
		t.Fatal(err)
	}
	p.Segments[p.Images[0].DESIndex].Data = body

	data, err := nitf.Assemble(p.Header, p.Segments)
	if err != nil {
		t.Fatal(err)
	}
	h, segs, err := nitf.Disassemble(data)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ReadProduct(h, segs); err == nil {
		t.Error("expected error for metadata size mismatch")
	}
}

func TestRender(t *testing.T) {
	b, err := NewBuilder(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	lut, _ := nitf.NewColorTable([][3]byte{{0, 0, 0}, {255, 0, 0}, {0, 0, 255}})
	r, _ := pixel.FromSamples(1, 3, 1, []uint8{2, 1, 0})
	if err := b.AddImage(ImageInput{Raster: r, PixelType: pixel.TypeRGBLUT, LUT: lut}); err != nil {
		t.Fatal(err)
	}
	p, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	img, err := roundTrip(t, p).Images[0].Render()
	if err != nil {
		t.Fatal(err)
	}
	want := []color.RGBA{{0, 0, 255, 255}, {255, 0, 0, 255}, {0, 0, 0, 255}}
	for x, w := range want {
		if got := color.RGBAModel.Convert(img.At(x, 0)).(color.RGBA); got != w {
			t.Errorf("pixel %d = %v, want %v", x, got, w)
		}
	}
}

func TestReaderWarnsOnIgnoredSegments(t *testing.T) {
	p := mustBuild(t, testConfig())
	other := nitf.NewDESegment(&nitf.DESubheader{TypeID: "TEST_DES", Version: 1, Security: nitf.Unclassified()}, []byte("x"))
	data, err := nitf.Assemble(p.Header, append(append([]*nitf.Segment{}, p.Segments...), other))
	if err != nil {
		t.Fatal(err)
	}
	h, segs, err := nitf.Disassemble(data)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	rd := NewReader()
	rd.SetLogger(nitf.NewLogger(&buf))
	got, err := rd.Read(h, segs)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Images) != 1 || got.Images[0].Metadata == nil {
		t.Fatalf("images %+v", got.Images)
	}
	if !strings.Contains(buf.String(), "TEST_DES") {
		t.Errorf("no warning for the foreign DES, log:\n%s", buf.String())
	}
}

func TestOpenProduct(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.nitf")
	cfg := testConfig()
	cfg.LUTMode = LUTMono
	cfg.IncludeLegend = true
	if err := CreateFromMemory(path, cfg); err != nil {
		t.Fatal(err)
	}
	p, err := OpenProduct(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Images) != 1 || p.Images[0].Legend == nil {
		t.Fatalf("images %+v", p.Images)
	}
	img, err := p.Images[0].Legend.Render()
	if err != nil {
		t.Fatal(err)
	}
	if c := color.GrayModel.Convert(img.At(0, 0)).(color.Gray); c.Y != 255 {
		t.Errorf("legend border pixel %v, want white", c)
	}

	data, err := p.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	built, err := Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, mustBytes(t, built)) {
		t.Error("re-serialized file differs from a fresh build with the same config")
	}
}
