package sidd

import "testing"

func TestRenderLegend(t *testing.T) {
	r := RenderLegend("AB", "C")
	if r.Bands != 1 {
		t.Fatalf("%d bands", r.Bands)
	}
	if r.Rows != 2*13+2*legendPadding || r.Cols != 2*7+2*legendPadding {
		t.Errorf("legend is %dx%d", r.Rows, r.Cols)
	}
	ones := 0
	for _, v := range r.Samples {
		if v > 1 {
			t.Fatalf("sample %d is not a bit", v)
		}
		ones += int(v)
	}
	border := 2*r.Cols + 2*r.Rows - 4
	if ones <= border {
		t.Errorf("%d lit pixels, no text drawn inside the %d-pixel border", ones, border)
	}
	if r.At(0, 0, 0) != 1 || r.At(r.Rows-1, r.Cols-1, 0) != 1 {
		t.Error("border not drawn")
	}
}

func TestDefaultLegendPlacement(t *testing.T) {
	l := DefaultLegend(300, "SIDD001")
	if l.Col+l.Raster.Cols > 300 || l.Row != legendPadding {
		t.Errorf("legend at %d,%d size %dx%d", l.Row, l.Col, l.Raster.Rows, l.Raster.Cols)
	}
	if l.LUT.Entries != 2 {
		t.Errorf("%d LUT entries", l.LUT.Entries)
	}
	if narrow := DefaultLegend(10, "SIDD001"); narrow.Col != 0 {
		t.Errorf("narrow image legend col %d", narrow.Col)
	}
}
