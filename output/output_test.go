package output

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		cfg  Config
		want string
	}{
		{Config{Output: "a.PNG"}, "png"},
		{Config{Output: "a.tif"}, "tiff"},
		{Config{Output: "a.jpeg"}, "jpeg"},
		{Config{Output: "a.bin", Format: "ppm"}, "ppm"},
	}
	for _, tc := range tests {
		got, err := tc.cfg.ResolveFormat()
		if err != nil || got != tc.want {
			t.Errorf("%+v: got %q, %v", tc.cfg, got, err)
		}
	}
	if _, err := (Config{Output: "a.gif"}).ResolveFormat(); err == nil {
		t.Error("expected error for gif")
	}
}

func TestDownsample(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 8, 4))
	for x := 0; x < 8; x++ {
		for y := 0; y < 4; y++ {
			img.SetGray(x, y, color.Gray{Y: uint8(x * 30)})
		}
	}
	if Downsample(img, 0) != image.Image(img) || Downsample(img, 8) != image.Image(img) {
		t.Error("image within limit should be returned unchanged")
	}
	out := Downsample(img, 4)
	if b := out.Bounds(); b.Dx() != 4 || b.Dy() != 2 {
		t.Fatalf("bounds %v", b)
	}
	r, _, _, _ := out.At(1, 0).RGBA()
	if got := r >> 8; got != 75 {
		t.Errorf("averaged value %d, want 75", got)
	}
}

func TestEncodePPM(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{1, 2, 3, 255})
	img.SetRGBA(1, 0, color.RGBA{4, 5, 6, 255})
	var buf bytes.Buffer
	if err := EncodePPM(&buf, img); err != nil {
		t.Fatal(err)
	}
	want := append([]byte("P6\n2 1\n255\n"), 1, 2, 3, 4, 5, 6)
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("got %q", buf.Bytes())
	}
}

func TestWritePreviewFormats(t *testing.T) {
	dir := t.TempDir()
	img := image.NewGray(image.Rect(0, 0, 16, 16))
	for _, name := range []string{"p.png", "p.jpg", "p.tiff", "p.ppm"} {
		path := filepath.Join(dir, "sub", name)
		if err := WritePreview(img, Config{Output: path, MaxWidth: 8}); err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestCreateRemovesTempOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bin")
	boom := errors.New("boom")
	err := Create(path, func(w io.Writer) error {
		w.Write([]byte("partial"))
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("got %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("left behind %d entries", len(entries))
	}
}
