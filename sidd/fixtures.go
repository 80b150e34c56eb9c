package sidd

import (
	"fmt"
	"path/filepath"
	"strings"
)

// 图例产品的分段参数：blocked 文件按 16 像素分块，每段最多 16 行
const (
	legendBlockSize   = 16
	legendSegmentRows = 16
)

// LegendConfigs 返回 blocked 与 unblocked 两个图例产品的配置
func LegendConfigs() (blocked, unblocked Config) {
	unblocked = DefaultConfig()
	unblocked.LUTMode = LUTMono
	unblocked.IncludeLegend = true
	unblocked.Title = "SIDD legend unblocked"

	blocked = unblocked
	blocked.BlockSize = legendBlockSize
	blocked.SegmentRows = legendSegmentRows
	blocked.Title = "SIDD legend blocked"
	return blocked, unblocked
}

// CreateLegendProducts 在 dir 下写出 <base>_blocked.<ext> 和 <base>_unblocked.<ext>
func CreateLegendProducts(dir, base, ext string) ([]string, error) {
	if base == "" {
		return nil, fmt.Errorf("empty output base name")
	}
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = "nitf"
	}
	blocked, unblocked := LegendConfigs()
	files := []struct {
		suffix string
		cfg    Config
	}{
		{"blocked", blocked},
		{"unblocked", unblocked},
	}

	var paths []string
	for _, f := range files {
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.%s", base, f.suffix, ext))
		if err := CreateFromMemory(path, f.cfg); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// CreateFromMemory 按配置构建产品并写入 path
func CreateFromMemory(path string, cfg Config) error {
	p, err := Build(cfg)
	if err != nil {
		return err
	}
	return p.WriteFile(path)
}

// RegressionFile 一个回归测试文件及其配置
type RegressionFile struct {
	Name   string
	Config Config
}

// RegressionFiles 从内存构建的回归文件列表
func RegressionFiles() []RegressionFile {
	withLUT := func(m LUTMode) Config {
		c := DefaultConfig()
		c.LUTMode = m
		return c
	}
	multiImages := DefaultConfig()
	multiImages.MultipleImages = true
	multiSegments := DefaultConfig()
	multiSegments.MultipleSegments = true

	return []RegressionFile{
		{"siddWithColorLUT.nitf", withLUT(LUTColor)},
		{"siddWithMonoLUT.nitf", withLUT(LUTMono)},
		{"siddWithNoLUT.nitf", withLUT(LUTNone)},
		{"siddMultipleImages.nitf", multiImages},
		{"siddMultipleSegments.nitf", multiSegments},
	}
}

// CreateRegressionFiles 在 dir 下写出图例产品和全部回归文件，返回写出的路径
func CreateRegressionFiles(dir string) ([]string, error) {
	paths, err := CreateLegendProducts(dir, "siddLegend", "nitf")
	if err != nil {
		return paths, err
	}
	for _, f := range RegressionFiles() {
		path := filepath.Join(dir, f.Name)
		if err := CreateFromMemory(path, f.Config); err != nil {
			return paths, fmt.Errorf("failed to create %s: %w", f.Name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
