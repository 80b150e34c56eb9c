package sidd

import (
	"testing"
	"time"

	"github.com/weaming/sidd-go/nitf"
	"github.com/weaming/sidd-go/pixel"
)

var testTime = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.DateTime = testTime
	return cfg
}

func mustBuild(t *testing.T, cfg Config) *Product {
	t.Helper()
	p, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return p
}

// imageSegments 图像段子头，按段顺序
func imageSegments(p *Product) []*nitf.ImageSubheader {
	var out []*nitf.ImageSubheader
	for _, s := range p.Segments {
		if sh := s.Image(); sh != nil {
			out = append(out, sh)
		}
	}
	return out
}

func gradient(rows, cols, bands int, modulo uint32) *pixel.Raster {
	r := pixel.NewRaster(rows, cols, bands)
	for i := range r.Samples {
		r.Samples[i] = uint32(i*7) % modulo
	}
	return r
}

// roundTrip 序列化后再读回逻辑视图
func roundTrip(t *testing.T, p *Product) *Product {
	t.Helper()
	data, err := p.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	h, segs, err := nitf.Disassemble(data)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	got, err := ReadProduct(h, segs)
	if err != nil {
		t.Fatalf("ReadProduct: %v", err)
	}
	return got
}
