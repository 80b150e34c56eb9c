package sidd

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCreateLegendProducts(t *testing.T) {
	dir := t.TempDir()
	paths, err := CreateLegendProducts(dir, "siddLegend", ".nitf")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "siddLegend_blocked.nitf"),
		filepath.Join(dir, "siddLegend_unblocked.nitf"),
	}
	if len(paths) != 2 || paths[0] != want[0] || paths[1] != want[1] {
		t.Fatalf("paths %v, want %v", paths, want)
	}
	entries, _ := filepath.Glob(filepath.Join(dir, "*"))
	if len(entries) != 2 {
		t.Errorf("directory holds %v", entries)
	}

	blocked, err := OpenProduct(paths[0])
	if err != nil {
		t.Fatal(err)
	}
	unblocked, err := OpenProduct(paths[1])
	if err != nil {
		t.Fatal(err)
	}

	bi, ui := blocked.Images[0], unblocked.Images[0]
	if len(ui.SegmentIndexes) != 1 || len(ui.Legend.SegmentIndexes) != 1 {
		t.Errorf("unblocked: %d image segments, %d legend segments", len(ui.SegmentIndexes), len(ui.Legend.SegmentIndexes))
	}
	if len(bi.SegmentIndexes) < 2 || len(bi.Legend.SegmentIndexes) < 2 {
		t.Errorf("blocked: %d image segments, %d legend segments", len(bi.SegmentIndexes), len(bi.Legend.SegmentIndexes))
	}
	sh := blocked.Segments[bi.SegmentIndexes[0]].Image()
	if sh.BlockRows != legendBlockSize || sh.BlockCols != legendBlockSize {
		t.Errorf("blocked NPPBV/NPPBH %d/%d", sh.BlockRows, sh.BlockCols)
	}

	if !cmp.Equal(bi.Raster, ui.Raster) || !cmp.Equal(bi.Legend.Raster, ui.Legend.Raster) {
		t.Error("blocked and unblocked products carry different pixels")
	}
}

func TestCreateRegressionFiles(t *testing.T) {
	dir := t.TempDir()
	paths, err := CreateRegressionFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2+len(RegressionFiles()) {
		t.Fatalf("%d files written", len(paths))
	}
	for _, path := range paths {
		p, err := OpenProduct(path)
		if err != nil {
			t.Errorf("%s: %v", filepath.Base(path), err)
			continue
		}
		if err := p.Validate(); err != nil {
			t.Errorf("%s: %v", filepath.Base(path), err)
		}
	}
}
