package sidd_test

import (
	"fmt"
	"time"

	"github.com/weaming/sidd-go/sidd"
)

func ExampleBuild() {
	cfg := sidd.DefaultConfig()
	cfg.MultipleSegments = true
	cfg.IncludeLegend = true
	cfg.DateTime = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	p, err := sidd.Build(cfg)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, s := range p.Segments {
		if sh := s.Image(); sh != nil {
			fmt.Println(sh.ImageID, sh.Category, sh.Rows, sh.DisplayLevel, sh.AttachmentLevel, sh.LocationRow)
		}
	}
	// Output:
	// SIDD001001 SAR 86 1 0 0
	// SIDD001002 SAR 86 2 1 86
	// SIDD001003 SAR 84 3 2 86
	// LEGEND001 LEG 12 4 1 4
	// LEGEND001 LEG 12 5 4 12
	// LEGEND001 LEG 10 6 5 12
}
