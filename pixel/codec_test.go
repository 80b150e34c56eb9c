package pixel

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func patternRaster(f Format) *Raster {
	r := NewRaster(f.Rows, f.Cols, f.Bands)
	limit := uint64(f.MaxSample()) + 1
	for i := range r.Samples {
		r.Samples[i] = uint32((uint64(i)*2654435761 + 17) % limit)
	}
	return r
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		f    Format
	}{
		{"mono8", Format{Rows: 5, Cols: 7, Bands: 1, BitsPerPixel: 8, Mode: ModeBlock}},
		{"mono1", Format{Rows: 3, Cols: 11, Bands: 1, BitsPerPixel: 1, Mode: ModeBlock}},
		{"mono12 blocked", Format{Rows: 9, Cols: 10, Bands: 1, BitsPerPixel: 12, Mode: ModeBlock, BlockRows: 4, BlockCols: 4}},
		{"rgb8 pixel", Format{Rows: 4, Cols: 6, Bands: 3, BitsPerPixel: 8, Mode: ModePixel}},
		{"rgb16 row blocked", Format{Rows: 7, Cols: 10, Bands: 3, BitsPerPixel: 16, Mode: ModeRow, BlockRows: 3, BlockCols: 4}},
		{"rgb16 block", Format{Rows: 7, Cols: 10, Bands: 3, BitsPerPixel: 16, Mode: ModeBlock, BlockRows: 3, BlockCols: 4}},
		{"multi5 sequential", Format{Rows: 6, Cols: 5, Bands: 4, BitsPerPixel: 5, Mode: ModeSequential, BlockRows: 4, BlockCols: 2}},
		{"mono24", Format{Rows: 2, Cols: 3, Bands: 1, BitsPerPixel: 24, Mode: ModeBlock}},
		{"mono32", Format{Rows: 2, Cols: 3, Bands: 2, BitsPerPixel: 32, Mode: ModePixel}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := patternRaster(tc.f)
			data, err := EncodePixels(in, tc.f)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if int64(len(data)) != tc.f.EncodedSize() {
				t.Fatalf("encoded %d bytes, EncodedSize says %d", len(data), tc.f.EncodedSize())
			}
			out, err := DecodePixels(data, tc.f)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if diff := cmp.Diff(in, out); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodedSizeUnblocked(t *testing.T) {
	f := Format{Rows: 10, Cols: 20, Bands: 3, BitsPerPixel: 16, Mode: ModePixel}
	if got, want := f.EncodedSize(), int64(10*20*3*2); got != want {
		t.Errorf("EncodedSize = %d, want %d", got, want)
	}
}

func TestInterleaveLayout(t *testing.T) {
	// 1x2 RGB: 像素0=(1,2,3) 像素1=(4,5,6)
	r, err := FromSamples(1, 2, 3, []uint8{1, 2, 3, 4, 5, 6})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		mode Mode
		want []byte
	}{
		{ModePixel, []byte{1, 2, 3, 4, 5, 6}},
		{ModeBlock, []byte{1, 4, 2, 5, 3, 6}},
		{ModeRow, []byte{1, 4, 2, 5, 3, 6}},
		{ModeSequential, []byte{1, 4, 2, 5, 3, 6}},
	}
	for _, tc := range tests {
		f := Format{Rows: 1, Cols: 2, Bands: 3, BitsPerPixel: 8, Mode: tc.mode}
		got, err := EncodePixels(r, f)
		if err != nil {
			t.Fatalf("%c: %v", tc.mode, err)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("mode %c (-want +got):\n%s", tc.mode, diff)
		}
	}
}

func TestBlockPadding(t *testing.T) {
	// 3x3 图像，2x2 块 -> 4 个块，越界部分补 0
	r, _ := FromSamples(3, 3, 1, []uint8{1, 2, 3, 4, 5, 6, 7, 8, 9})
	f := Format{Rows: 3, Cols: 3, Bands: 1, BitsPerPixel: 8, Mode: ModeBlock, BlockRows: 2, BlockCols: 2}
	got, err := EncodePixels(r, f)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{
		1, 2, 4, 5,
		3, 0, 6, 0,
		7, 8, 0, 0,
		9, 0, 0, 0,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestBitPacking(t *testing.T) {
	r, _ := FromSamples(1, 10, 1, []uint8{1, 0, 1, 0, 1, 0, 1, 0, 1, 0})
	f := Format{Rows: 1, Cols: 10, Bands: 1, BitsPerPixel: 1, Mode: ModeBlock}
	got, err := EncodePixels(r, f)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]byte{0xAA, 0x80}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestDecodeSizeMismatch(t *testing.T) {
	f := Format{Rows: 4, Cols: 4, Bands: 1, BitsPerPixel: 8, Mode: ModeBlock}
	_, err := DecodePixels(make([]byte, 15), f)
	var sm *SizeMismatchError
	if !errors.As(err, &sm) {
		t.Fatalf("expected SizeMismatchError, got %v", err)
	}
	if sm.Expected != 16 || sm.Actual != 15 {
		t.Errorf("got expected=%d actual=%d", sm.Expected, sm.Actual)
	}
}

func TestEncodeRejects(t *testing.T) {
	f := Format{Rows: 1, Cols: 2, Bands: 1, BitsPerPixel: 4, Mode: ModeBlock}

	r, _ := FromSamples(1, 2, 1, []uint16{3, 16})
	_, err := EncodePixels(r, f)
	var sr *SampleRangeError
	if !errors.As(err, &sr) || sr.Index != 1 {
		t.Errorf("expected SampleRangeError at 1, got %v", err)
	}

	_, err = EncodePixels(NewRaster(2, 2, 1), f)
	var sm *SizeMismatchError
	if !errors.As(err, &sm) {
		t.Errorf("expected SizeMismatchError, got %v", err)
	}

	_, err = EncodePixels(NewRaster(1, 2, 1), Format{Rows: 1, Cols: 2, Bands: 1, BitsPerPixel: 8, Mode: 'X'})
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Errorf("expected FormatError, got %v", err)
	}
}

func TestValidateRejectsOversizedFormat(t *testing.T) {
	tests := []struct {
		name string
		f    Format
	}{
		{"max NITF geometry", Format{Rows: 99999999, Cols: 99999999, Bands: 99999, BitsPerPixel: 32, Mode: ModeBlock}},
		{"blocked", Format{Rows: 99999999, Cols: 99999999, Bands: 1, BitsPerPixel: 8, Mode: ModeSequential, BlockRows: 8192, BlockCols: 8192}},
		{"just over", Format{Rows: 100000, Cols: 100000, Bands: 1, BitsPerPixel: 8, Mode: ModeBlock}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var fe *FormatError
			if err := tc.f.Validate(); !errors.As(err, &fe) || fe.Field != "Size" {
				t.Errorf("got %v, want FormatError on Size", err)
			}
			if _, err := DecodePixels(nil, tc.f); err == nil {
				t.Error("DecodePixels accepted an oversized format")
			}
		})
	}

	ok := Format{Rows: 99999, Cols: 99999, Bands: 1, BitsPerPixel: 8, Mode: ModeBlock}
	if err := ok.Validate(); err != nil {
		t.Errorf("%d bytes should fit: %v", ok.EncodedSize(), err)
	}
}

func TestCheckIndices(t *testing.T) {
	r, _ := FromSamples(2, 2, 1, []uint8{0, 1, 2, 3})
	if err := CheckIndices(r, 4); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	err := CheckIndices(r, 3)
	var ib *IndexBoundError
	if !errors.As(err, &ib) {
		t.Fatalf("expected IndexBoundError, got %v", err)
	}
	if ib.Row != 1 || ib.Col != 1 || ib.Index != 3 {
		t.Errorf("wrong location: %+v", ib)
	}
}

func TestSubRowsAndStack(t *testing.T) {
	r := patternRaster(Format{Rows: 7, Cols: 3, Bands: 2, BitsPerPixel: 8, Mode: ModePixel})
	a, err := r.SubRows(0, 3)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := r.SubRows(3, 3)
	c, _ := r.SubRows(6, 1)
	joined, err := StackRows([]*Raster{a, b, c})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(r, joined); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if _, err := r.SubRows(6, 2); err == nil {
		t.Error("expected out-of-range error")
	}
	short := &Raster{Rows: 4, Cols: 4, Bands: 1}
	var sm *SizeMismatchError
	if _, err := short.SubRows(0, 2); !errors.As(err, &sm) {
		t.Errorf("got %v, want SizeMismatchError for a raster without samples", err)
	}
}

func TestSampleConversion(t *testing.T) {
	r, err := FromSamples(1, 3, 1, []uint16{1, 0x1ff, 7})
	if err != nil {
		t.Fatal(err)
	}
	if !cmp.Equal(r.Samples, []uint32{1, 0x1ff, 7}) {
		t.Errorf("samples %v", r.Samples)
	}
	if _, err := FromSamples(2, 2, 1, []uint8{1}); err == nil {
		t.Error("expected size error")
	}
}

func ExampleFormat_EncodedSize() {
	f := Format{Rows: 100, Cols: 100, Bands: 1, BitsPerPixel: 8, Mode: ModeBlock, BlockRows: 64, BlockCols: 64}
	fmt.Printf("%dx%d blocks, %d bytes\n", f.BlocksPerRow(), f.BlocksPerCol(), f.EncodedSize())

	// Output:
	// 2x2 blocks, 16384 bytes
}
