package colorspace

import "testing"

func TestMonoRamp(t *testing.T) {
	linear := MonoRamp(256, 1)
	if linear[0] != 0 || linear[128] != 128 || linear[255] != 255 {
		t.Errorf("linear ramp %d %d %d", linear[0], linear[128], linear[255])
	}
	srgb := MonoRamp(256, 0)
	if srgb[0] != 0 || srgb[255] != 255 || srgb[64] <= linear[64] {
		t.Errorf("sRGB ramp %d %d %d", srgb[0], srgb[64], srgb[255])
	}
	for i := 1; i < len(srgb); i++ {
		if srgb[i] < srgb[i-1] {
			t.Fatalf("ramp decreases at %d", i)
		}
	}
	if one := MonoRamp(1, 1); one[0] != 255 {
		t.Errorf("single entry ramp %v", one)
	}
}

func TestHSVToRGB(t *testing.T) {
	tests := []struct {
		h    float64
		want [3]uint8
	}{
		{0, [3]uint8{255, 0, 0}},
		{120, [3]uint8{0, 255, 0}},
		{240, [3]uint8{0, 0, 255}},
		{360 + 60, [3]uint8{255, 255, 0}},
		{-60, [3]uint8{255, 0, 255}},
	}
	for _, tc := range tests {
		if got := ConvertToUint8(HSVToRGB(tc.h, 1, 1)); got != tc.want {
			t.Errorf("h=%v: got %v, want %v", tc.h, got, tc.want)
		}
	}
}

func TestColorPalette(t *testing.T) {
	p := ColorPalette(256)
	if p[0] != [3]byte{} {
		t.Errorf("entry 0 is %v, want black", p[0])
	}
	if p[255] != [3]byte{255, 0, 0} {
		t.Errorf("last entry %v, want red", p[255])
	}
	if p[1][2] <= p[1][0] {
		t.Errorf("entry 1 %v should be blue", p[1])
	}
}
